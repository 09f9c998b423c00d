package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/boidgrid"
)

func TestParse(t *testing.T) {
	t.Run("empty document yields defaults", func(t *testing.T) {
		cfg, err := Parse(nil)
		require.NoError(t, err)
		require.Equal(t, Default(), cfg)

		require.Equal(t, ScalarFloat64, cfg.Simulation.Scalar)
		require.Equal(t, uint64(100), cfg.Simulation.ReportEvery)
		require.Equal(t, uint64(0), cfg.Simulation.Ticks)
		require.Equal(t, boidgrid.DefaultConfig(), cfg.Grid)
		require.Equal(t, SourceUniform, cfg.Agents.Source)
		require.Equal(t, 90, cfg.Agents.Count)
		require.Equal(t, int64(1), cfg.Agents.Seed)
		require.Equal(t, "info", cfg.Logging.Level)
		require.Equal(t, 9090, cfg.Metrics.Prometheus.Port)
		require.False(t, cfg.Metrics.Prometheus.Enabled)
		require.Equal(t, uint64(500), cfg.Checkpoint.Every)
	})

	t.Run("full document", func(t *testing.T) {
		cfg, err := Parse([]byte(`
simulation:
  ticks: 2000
  interval: 16ms
  scalar: fixed
  reportEvery: 50
grid:
  gridSize: 4
  threshold: 25
  topology: bounded
  balance:
    strategy: negotiated
    negotiationPolicy: log-only
agents:
  source: noise
  count: 400
  seed: 42
  noise:
    sharpness: 6
flock:
  separation: 1.5
metrics:
  prometheus:
    enabled: true
    port: 9191
checkpoint:
  enabled: true
  every: 100
  path: /tmp/boids
`))
		require.NoError(t, err)

		require.Equal(t, uint64(2000), cfg.Simulation.Ticks)
		require.Equal(t, 16*time.Millisecond, cfg.Simulation.Interval)
		require.Equal(t, ScalarFixed, cfg.Simulation.Scalar)
		require.Equal(t, 4, cfg.Grid.GridSize)
		require.Equal(t, 720, cfg.Grid.Width, "grid defaults fill the gaps")
		require.Equal(t, 25, cfg.Grid.Threshold)
		require.Equal(t, "negotiated", cfg.Grid.Balance.Strategy)
		require.Equal(t, "log-only", cfg.Grid.Balance.NegotiationPolicy)
		require.Equal(t, SourceNoise, cfg.Agents.Source)
		require.Equal(t, 400, cfg.Agents.Count)
		require.Equal(t, 6.0, cfg.Agents.Noise.Sharpness)
		require.Equal(t, 2.0, cfg.Agents.Noise.Frequency)
		require.True(t, cfg.Metrics.Prometheus.Enabled)
		require.Equal(t, 9191, cfg.Metrics.Prometheus.Port)
		require.True(t, cfg.Checkpoint.Enabled)
		require.Equal(t, "/tmp/boids", cfg.Checkpoint.Path)

		p := cfg.FlockParams()
		require.Equal(t, 1.5, p.Separation)
		require.Equal(t, 1.0, p.Cohesion)
		require.False(t, p.Wrap)
	})

	t.Run("file source needs no count", func(t *testing.T) {
		cfg, err := Parse([]byte("agents:\n  source: file\n  path: agents.yaml\n"))
		require.NoError(t, err)
		require.Equal(t, 0, cfg.Agents.Count)
	})
}

func TestParse_Schema(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown section", "chaos:\n  enabled: true\n"},
		{"unknown grid key", "grid:\n  partitions: 9\n"},
		{"wrongly typed value", "grid:\n  gridSize: three\n"},
		{"grid size above six", "grid:\n  gridSize: 7\n"},
		{"unknown strategy", "grid:\n  balance:\n    strategy: greedy\n"},
		{"malformed interval", "simulation:\n  interval: soon\n"},
		{"interval without a unit", "simulation:\n  interval: 0\n"},
		{"unknown source", "agents:\n  source: csv\n"},
		{"negative ticks", "simulation:\n  ticks: -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			require.Contains(t, err.Error(), "schema")
		})
	}
}

func TestParse_Validation(t *testing.T) {
	t.Run("file source without path", func(t *testing.T) {
		_, err := Parse([]byte("agents:\n  source: file\n"))
		require.ErrorContains(t, err, "agent file path")
	})

	t.Run("negative interval", func(t *testing.T) {
		_, err := Parse([]byte("simulation:\n  interval: -5ms\n"))
		require.ErrorContains(t, err, "interval")
	})

	t.Run("invalid grid surfaces the library error", func(t *testing.T) {
		_, err := Parse([]byte("grid:\n  width: 720\n  height: 360\n"))
		require.Error(t, err)
		require.True(t, errors.Is(err, boidgrid.ErrInvalidConfig))
	})

	t.Run("negative count", func(t *testing.T) {
		cfg := Default()
		cfg.Agents.Count = -3
		require.ErrorContains(t, validateConfig(cfg), "count")
	})

	t.Run("port out of range when enabled", func(t *testing.T) {
		cfg := Default()
		cfg.Metrics.Prometheus.Enabled = true
		cfg.Metrics.Prometheus.Port = 70000
		require.ErrorContains(t, validateConfig(cfg), "port")

		cfg.Metrics.Prometheus.Enabled = false
		require.NoError(t, validateConfig(cfg))
	})
}

func TestLoadConfig(t *testing.T) {
	t.Run("reads a file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sim.yaml")
		require.NoError(t, os.WriteFile(path, []byte("simulation:\n  ticks: 10\n"), 0o600))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		require.Equal(t, uint64(10), cfg.Simulation.Ticks)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		require.ErrorContains(t, err, "failed to read config file")
	})

	t.Run("bundled configs load", func(t *testing.T) {
		dev, err := LoadConfig(filepath.Join("..", "..", "configs", "dev.yaml"))
		require.NoError(t, err)
		require.Zero(t, dev.Simulation.Interval)
		require.Equal(t, uint64(1000), dev.Simulation.Ticks)

		clustered, err := LoadConfig(filepath.Join("..", "..", "configs", "clustered.yaml"))
		require.NoError(t, err)
		require.Equal(t, 16*time.Millisecond, clustered.Simulation.Interval)
	})
}
