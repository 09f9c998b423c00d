package config

import "github.com/arloliu/boidgrid"

// applyDefaults applies default values to configuration fields that are not set.
func applyDefaults(cfg *Config) {
	// Simulation defaults
	if cfg.Simulation.Scalar == "" {
		cfg.Simulation.Scalar = ScalarFloat64
	}
	if cfg.Simulation.ReportEvery == 0 {
		cfg.Simulation.ReportEvery = 100
	}

	// Grid defaults come from the library
	boidgrid.SetDefaults(&cfg.Grid)

	// Agent defaults
	if cfg.Agents.Source == "" {
		cfg.Agents.Source = SourceUniform
	}
	if cfg.Agents.Count == 0 && cfg.Agents.Source != SourceFile {
		cfg.Agents.Count = 10 * cfg.Grid.PartitionCount()
	}
	if cfg.Agents.Seed == 0 {
		cfg.Agents.Seed = 1
	}
	if cfg.Agents.Noise.Frequency == 0 {
		cfg.Agents.Noise.Frequency = 2
	}
	if cfg.Agents.Noise.Octaves == 0 {
		cfg.Agents.Noise.Octaves = 3
	}
	if cfg.Agents.Noise.Sharpness == 0 {
		cfg.Agents.Noise.Sharpness = 4
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	// Metrics defaults
	if cfg.Metrics.Prometheus.Port == 0 {
		cfg.Metrics.Prometheus.Port = 9090
	}

	// Checkpoint defaults
	if cfg.Checkpoint.Every == 0 {
		cfg.Checkpoint.Every = 500
	}
	if cfg.Checkpoint.Path == "" {
		cfg.Checkpoint.Path = "./checkpoints"
	}
}

