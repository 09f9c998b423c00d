package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/boidgrid"
	"github.com/arloliu/boidgrid/source"
	gridtest "github.com/arloliu/boidgrid/testing"
)

func TestAssertGridConsistent(t *testing.T) {
	cfg := boidgrid.DefaultConfig()
	strat, err := boidgrid.NewStrategy[boidgrid.Float64](&cfg, nil)
	require.NoError(t, err)

	c, err := boidgrid.NewCoordinator[boidgrid.Float64](&cfg, source.NewUniform(90, 3), strat, gridtest.Drift[boidgrid.Float64]())
	require.NoError(t, err)
	require.NoError(t, c.Start(context.Background()))

	AssertGridConsistent(t, c, 90)

	require.NoError(t, c.Run(context.Background(), 5, 0))
	AssertGridConsistent(t, c, 90)
}

func TestAssertBoundsTile(t *testing.T) {
	cfg := boidgrid.DefaultConfig()
	bounds := []boidgrid.Rect[boidgrid.Float64]{
		boidgrid.RectFromInts[boidgrid.Float64](0, 0, 360, 720),
		boidgrid.RectFromInts[boidgrid.Float64](360, 0, 720, 720),
	}

	AssertBoundsTile(t, cfg, bounds)
}

func TestRunLoad(t *testing.T) {
	m := RunLoad(t, LoadConfig{GridSize: 2, Agents: 80, Ticks: 10, Seed: 1, Description: "tiny"})

	require.Len(t, m.TickDurations, 10)
	require.Len(t, m.FinalCounts, 4)
	require.Equal(t, 10, m.Recorder.Ticks())
	require.GreaterOrEqual(t, m.TickPercentile(99), m.TickPercentile(50))
	require.Contains(t, m.String(), "tiny: 10 ticks")

	again := RunLoad(t, LoadConfig{GridSize: 2, Agents: 80, Ticks: 10, Seed: 1, Description: "tiny"})
	require.Equal(t, m.Digest, again.Digest)
}

func TestResourceMonitor(t *testing.T) {
	monitor := NewResourceMonitor()
	monitor.Sample()
	report := monitor.Stop()

	require.Len(t, report.Samples, 3)
	require.Positive(t, report.PeakGoroutines)
	require.False(t, report.DetectLeaks(1<<20, 1<<20))
}
