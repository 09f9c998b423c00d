package testutil

import (
	"context"
	"fmt"
	"slices"
	"testing"
	"time"

	"github.com/arloliu/boidgrid"
	"github.com/arloliu/boidgrid/behavior"
	"github.com/arloliu/boidgrid/source"
	gridtest "github.com/arloliu/boidgrid/testing"
)

// LoadConfig configures a load run.
type LoadConfig struct {
	// GridSize is the number of partitions per row and column (default: 3)
	GridSize int

	// Agents is the population size
	Agents int

	// Clustered selects the noise source instead of uniform placement
	Clustered bool

	// Strategy is the boundary strategy name (default: distribution)
	Strategy string

	// Bounded selects the bounded topology instead of the toroidal one
	Bounded bool

	// Ticks is the number of ticks to run
	Ticks int

	// Workers bounds the compute phase parallelism (0 = GOMAXPROCS)
	Workers int

	// Seed for the agent source
	Seed int64

	// Description is a human-readable description of the run
	Description string
}

// LoadMetrics captures what happened during a load run.
type LoadMetrics struct {
	Config LoadConfig

	TickDurations   []time.Duration
	Migrations      int
	BoundaryChanges int
	Rejected        int
	PeakOverloaded  int
	FinalCounts     []int
	Digest          uint64

	StartTime time.Time
	EndTime   time.Time

	Resources ResourceReport
	Recorder  *gridtest.Recorder
}

// GridConfig returns the grid configuration a load run uses.
func (cfg LoadConfig) GridConfig() boidgrid.Config {
	grid := boidgrid.DefaultConfig()
	if cfg.GridSize > 0 {
		grid.GridSize = cfg.GridSize
		grid.Width = 240 * cfg.GridSize
		grid.Height = grid.Width
	}
	if cfg.Strategy != "" {
		grid.Balance.Strategy = cfg.Strategy
	}
	if cfg.Bounded {
		grid.Topology = boidgrid.TopologyBounded
	}
	grid.Workers = cfg.Workers

	return grid
}

// RunLoad drives a Float64 coordinator for cfg.Ticks ticks with the reference
// flocking behavior and checks grid consistency at the end.
//
// Parameters:
//   - t: testing handle; setup or tick failures stop the test
//   - cfg: load run parameters
//
// Returns:
//   - *LoadMetrics: Collected measurements
func RunLoad(t testing.TB, cfg LoadConfig) *LoadMetrics {
	t.Helper()

	grid := cfg.GridConfig()
	var src boidgrid.AgentSource = source.NewUniform(cfg.Agents, cfg.Seed)
	if cfg.Clustered {
		src = source.NewNoise(cfg.Agents, cfg.Seed)
	}

	strat, err := boidgrid.NewStrategy[boidgrid.Float64](&grid, nil)
	if err != nil {
		t.Fatalf("strategy: %v", err)
	}
	flock, err := behavior.NewFlock[boidgrid.Float64](grid.FlockParams())
	if err != nil {
		t.Fatalf("flock: %v", err)
	}

	metrics := &LoadMetrics{
		Config:        cfg,
		TickDurations: make([]time.Duration, 0, cfg.Ticks),
		Recorder:      gridtest.NewRecorder(),
	}

	c, err := boidgrid.NewCoordinator[boidgrid.Float64](&grid, src, strat, flock,
		boidgrid.WithMetrics(metrics.Recorder))
	if err != nil {
		t.Fatalf("coordinator: %v", err)
	}

	ctx := context.Background()
	if err := c.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	total := c.TotalAgents()

	monitor := NewResourceMonitor()
	monitor.Start(250 * time.Millisecond)

	metrics.StartTime = time.Now()
	for range cfg.Ticks {
		report, err := c.Tick(ctx)
		if err != nil {
			monitor.Stop()
			t.Fatalf("%s: tick %d: %v", cfg.Description, c.TickCount()+1, err)
		}

		metrics.TickDurations = append(metrics.TickDurations, report.Duration)
		metrics.Migrations += report.Migrations
		metrics.BoundaryChanges += report.BoundaryChanges
		metrics.Rejected += report.Rejected
		metrics.PeakOverloaded = max(metrics.PeakOverloaded, report.Overloaded)
	}
	metrics.EndTime = time.Now()
	metrics.Resources = monitor.Stop()

	metrics.FinalCounts = c.Counts()
	metrics.Digest = c.Digest()
	AssertGridConsistent(t, c, total)

	return metrics
}

// Duration returns the wall time of the tick loop.
func (m *LoadMetrics) Duration() time.Duration {
	return m.EndTime.Sub(m.StartTime)
}

// TickPercentile returns the p-th percentile tick duration, p in [0, 100].
func (m *LoadMetrics) TickPercentile(p float64) time.Duration {
	if len(m.TickDurations) == 0 {
		return 0
	}

	sorted := slices.Clone(m.TickDurations)
	slices.Sort(sorted)
	idx := int(p / 100 * float64(len(sorted)-1))

	return sorted[min(max(idx, 0), len(sorted)-1)]
}

// String formats a one-line summary for test logs.
func (m *LoadMetrics) String() string {
	return fmt.Sprintf("%s: %d ticks in %v (p50 %v, p99 %v), migrations=%d changes=%d rejected=%d peakOverloaded=%d peakMem=%.1fMB",
		m.Config.Description, len(m.TickDurations), m.Duration(),
		m.TickPercentile(50), m.TickPercentile(99),
		m.Migrations, m.BoundaryChanges, m.Rejected, m.PeakOverloaded, m.Resources.PeakMemoryMB)
}
