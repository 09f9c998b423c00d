package config

import (
	"errors"
	"fmt"
)

// Scalar kinds accepted by simulation.scalar.
const (
	ScalarFloat64 = "float64"
	ScalarFixed   = "fixed"
)

// Agent sources accepted by agents.source.
const (
	SourceUniform = "uniform"
	SourceNoise   = "noise"
	SourceFile    = "file"
)

// validateConfig validates the configuration for logical consistency.
func validateConfig(cfg *Config) error {
	// Validate scalar kind
	switch cfg.Simulation.Scalar {
	case ScalarFloat64, ScalarFixed:
	default:
		return fmt.Errorf("invalid scalar: %s (must be one of: float64, fixed)", cfg.Simulation.Scalar)
	}

	if cfg.Simulation.Interval < 0 {
		return errors.New("tick interval cannot be negative")
	}

	// Validate grid
	if err := cfg.Grid.Validate(); err != nil {
		return err
	}

	// Validate agent source
	switch cfg.Agents.Source {
	case SourceUniform, SourceNoise:
		if cfg.Agents.Count <= 0 {
			return errors.New("agent count must be positive")
		}
	case SourceFile:
		if cfg.Agents.Path == "" {
			return errors.New("agent file path is required for the file source")
		}
	default:
		return fmt.Errorf("invalid agent source: %s (must be one of: uniform, noise, file)", cfg.Agents.Source)
	}
	if cfg.Agents.Noise.Octaves < 1 {
		return errors.New("noise octaves must be at least 1")
	}

	// Validate flock weights
	if cfg.Flock.Cohesion < 0 || cfg.Flock.Alignment < 0 || cfg.Flock.Separation < 0 || cfg.Flock.MaxForce < 0 {
		return errors.New("flock weights cannot be negative")
	}

	// Validate metrics
	if cfg.Metrics.Prometheus.Enabled && (cfg.Metrics.Prometheus.Port < 1 || cfg.Metrics.Prometheus.Port > 65535) {
		return fmt.Errorf("invalid prometheus port: %d", cfg.Metrics.Prometheus.Port)
	}

	return nil
}
