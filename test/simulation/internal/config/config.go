package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/arloliu/boidgrid"
	"github.com/arloliu/boidgrid/behavior"
)

// Config is the root configuration structure.
type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Grid       boidgrid.Config  `yaml:"grid"`
	Agents     AgentsConfig     `yaml:"agents"`
	Flock      FlockConfig      `yaml:"flock"`
	Logging    LoggingConfig    `yaml:"logging"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Checkpoint CheckpointConfig `yaml:"checkpoint"`
}

// SimulationConfig configures the simulation runtime.
type SimulationConfig struct {
	Ticks       uint64        `yaml:"ticks"`       // Stop point; 0 runs until interrupted
	Interval    time.Duration `yaml:"interval"`    // Minimum time between ticks, e.g. "16ms"
	Scalar      string        `yaml:"scalar"`      // "float64" or "fixed"
	ReportEvery uint64        `yaml:"reportEvery"` // Ticks between progress reports
}

// AgentsConfig selects the initial agent population.
type AgentsConfig struct {
	Source string      `yaml:"source"` // "uniform", "noise", "file"
	Count  int         `yaml:"count"`  // Total agents for generated sources
	Seed   int64       `yaml:"seed"`
	Path   string      `yaml:"path"` // Agent file for the "file" source
	Noise  NoiseConfig `yaml:"noise"`
}

// NoiseConfig shapes the clustered "noise" source.
type NoiseConfig struct {
	Frequency float64 `yaml:"frequency"`
	Octaves   int     `yaml:"octaves"`
	Sharpness float64 `yaml:"sharpness"`
}

// FlockConfig overrides the flocking weights. Zero keeps the grid-derived default.
type FlockConfig struct {
	Cohesion   float64 `yaml:"cohesion"`
	Alignment  float64 `yaml:"alignment"`
	Separation float64 `yaml:"separation"`
	MaxForce   float64 `yaml:"maxForce"`
}

// LoggingConfig configures the runner logger.
type LoggingConfig struct {
	Level string `yaml:"level"` // "debug", "info", "warn", "error"
}

// MetricsConfig configures metrics collection.
type MetricsConfig struct {
	Prometheus PrometheusConfig `yaml:"prometheus"`
}

// PrometheusConfig configures Prometheus metrics.
type PrometheusConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"` // 9090
}

// CheckpointConfig configures checkpointing.
type CheckpointConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Every    uint64 `yaml:"every"`    // Ticks between checkpoints
	Path     string `yaml:"path"`     // "./checkpoints"
	Compress bool   `yaml:"compress"` // zstd-compress agent files
}

// LoadConfig loads configuration from a YAML file.
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded configuration with defaults applied
//   - error: Error if file cannot be read, parsed or validated
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes, schema-checks, defaults and validates a YAML document.
//
// An empty document yields the default configuration.
func Parse(data []byte) (*Config, error) {
	if err := validateSchema(data); err != nil {
		return nil, err
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)

	return &cfg
}

// FlockParams returns the flocking parameters for the grid with the configured
// weight overrides applied.
func (c *Config) FlockParams() behavior.Params {
	p := c.Grid.FlockParams()
	if c.Flock.Cohesion > 0 {
		p.Cohesion = c.Flock.Cohesion
	}
	if c.Flock.Alignment > 0 {
		p.Alignment = c.Flock.Alignment
	}
	if c.Flock.Separation > 0 {
		p.Separation = c.Flock.Separation
	}
	if c.Flock.MaxForce > 0 {
		p.MaxForce = c.Flock.MaxForce
	}

	return p
}
