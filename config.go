package boidgrid

import (
	"fmt"
	"math"

	"github.com/arloliu/boidgrid/behavior"
	"github.com/arloliu/boidgrid/strategy"
	"github.com/arloliu/boidgrid/topology"
	"github.com/arloliu/boidgrid/types"
)

// Topology modes accepted by Config.Topology.
const (
	TopologyToroidal = "toroidal"
	TopologyBounded  = "bounded"
)

// BalanceConfig controls load balancing.
type BalanceConfig struct {
	// Strategy selects the boundary strategy: "naive", "distribution" or "negotiated".
	Strategy string `yaml:"strategy"`

	// ReleasePercentage is the share of Threshold an overloaded partition tries to
	// release, in (0, 1]. The release quota is
	// Threshold - floor(Threshold * (1 - ReleasePercentage)).
	ReleasePercentage float64 `yaml:"releasePercentage"`

	// NegotiationPolicy selects what the negotiated strategy does with a change that
	// would overload an affected partition: "reject" (default) or "log-only".
	NegotiationPolicy string `yaml:"negotiationPolicy"`

	// NegotiationTolerance is the factor applied to Threshold when validating
	// predicted counts. Must be >= 1.0 (default: 1.1).
	NegotiationTolerance float64 `yaml:"negotiationTolerance"`
}

// Config is the configuration for the Coordinator.
//
// The simulation plane is a square of Width units split into GridSize x GridSize
// partitions of PartitionSize() units each.
type Config struct {
	// Width is the plane width.
	Width int `yaml:"width"`

	// Height is the plane height. Must equal Width.
	Height int `yaml:"height"`

	// GridSize is the number of partitions per row and column (1..6).
	GridSize int `yaml:"gridSize"`

	// VisionRadius is the distance at which agents perceive each other. It is also the
	// minimum partition width and height, so an agent's neighbors never lie beyond the
	// adjacent partitions.
	VisionRadius int `yaml:"visionRadius"`

	// Threshold is the agent count at which a partition is considered for load balancing.
	Threshold int `yaml:"threshold"`

	// StepSize is the distance an edge moves per load-balancing step. PartitionSize()
	// must be divisible by it.
	StepSize int `yaml:"stepSize"`

	// MaxVelocity bounds agent speed for agent sources and the reference behavior.
	MaxVelocity float64 `yaml:"maxVelocity"`

	// Topology is "toroidal" (default, the grid wraps) or "bounded".
	Topology string `yaml:"topology"`

	// Workers bounds the number of partitions computed in parallel.
	// 0 selects runtime.GOMAXPROCS(0).
	Workers int `yaml:"workers"`

	// SkipInvariantChecks disables the conservation, ownership and minimum-size
	// checks run after every tick.
	SkipInvariantChecks bool `yaml:"skipInvariantChecks"`

	// Balance controls load balancing.
	Balance BalanceConfig `yaml:"balance"`
}

// DefaultConfig returns a Config with the reference 720x720 plane on a 3x3 grid.
//
// Returns:
//   - Config: Configuration with default values
func DefaultConfig() Config {
	return Config{
		Width:        720,
		Height:       720,
		GridSize:     3,
		VisionRadius: 80,
		Threshold:    30,
		StepSize:     20,
		MaxVelocity:  10,
		Topology:     TopologyToroidal,
		Balance: BalanceConfig{
			Strategy:             strategy.NameDistributionDriven,
			ReleasePercentage:    0.15,
			NegotiationPolicy:    string(strategy.PolicyReject),
			NegotiationTolerance: 1.1,
		},
	}
}

// SetDefaults fills in missing configuration values with the defaults.
//
// Parameters:
//   - cfg: Config to apply defaults to (modified in place)
func SetDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.Width == 0 {
		cfg.Width = defaults.Width
	}
	if cfg.Height == 0 {
		cfg.Height = cfg.Width
	}
	if cfg.GridSize == 0 {
		cfg.GridSize = defaults.GridSize
	}
	if cfg.VisionRadius == 0 {
		cfg.VisionRadius = defaults.VisionRadius
	}
	if cfg.Threshold == 0 {
		cfg.Threshold = defaults.Threshold
	}
	if cfg.StepSize == 0 {
		cfg.StepSize = defaults.StepSize
	}
	if cfg.MaxVelocity == 0 {
		cfg.MaxVelocity = defaults.MaxVelocity
	}
	if cfg.Topology == "" {
		cfg.Topology = defaults.Topology
	}
	if cfg.Balance.Strategy == "" {
		cfg.Balance.Strategy = defaults.Balance.Strategy
	}
	if cfg.Balance.ReleasePercentage == 0 {
		cfg.Balance.ReleasePercentage = defaults.Balance.ReleasePercentage
	}
	if cfg.Balance.NegotiationPolicy == "" {
		cfg.Balance.NegotiationPolicy = defaults.Balance.NegotiationPolicy
	}
	if cfg.Balance.NegotiationTolerance == 0 {
		cfg.Balance.NegotiationTolerance = defaults.Balance.NegotiationTolerance
	}
	// Workers of 0 is valid (GOMAXPROCS), so no default is applied
}

// Validate checks configuration constraints and returns an error wrapping
// ErrInvalidConfig for invalid values.
//
// Hard Validation Rules:
//   - GridSize in 1..6 (partition counts 1, 4, 9, 16, 25, 36)
//   - Width > 0 and Height == Width
//   - Width divisible by GridSize
//   - StepSize > 0 and PartitionSize divisible by StepSize
//   - VisionRadius > 0 and PartitionSize >= VisionRadius
//   - Threshold > 0
//   - ReleasePercentage in (0, 1]
//   - Strategy, NegotiationPolicy and Topology are known names
//   - NegotiationTolerance >= 1.0
//   - Workers >= 0 and MaxVelocity >= 0
//
// Returns:
//   - error: Validation error with clear explanation, nil if valid
func (cfg *Config) Validate() error {
	// Rule 1: grid size
	if cfg.GridSize < 1 || cfg.GridSize > topology.MaxGridSize {
		return fmt.Errorf("%w: GridSize %d must be in 1..%d: %w",
			ErrInvalidConfig, cfg.GridSize, topology.MaxGridSize, types.ErrInvalidGridSize)
	}

	// Rule 2: square plane
	if cfg.Width <= 0 || cfg.Height != cfg.Width {
		return fmt.Errorf("%w: plane must be square with positive size, got %dx%d",
			ErrInvalidConfig, cfg.Width, cfg.Height)
	}

	// Rule 3: partitions tile the plane
	if cfg.Width%cfg.GridSize != 0 {
		return fmt.Errorf("%w: Width (%d) must be divisible by GridSize (%d)",
			ErrInvalidConfig, cfg.Width, cfg.GridSize)
	}

	// Rule 4: histogram cells tile a partition
	if cfg.StepSize <= 0 || cfg.PartitionSize()%cfg.StepSize != 0 {
		return fmt.Errorf("%w: partition size (%d) must be divisible by StepSize (%d)",
			ErrInvalidConfig, cfg.PartitionSize(), cfg.StepSize)
	}

	// Rule 5: minimum size
	if cfg.VisionRadius <= 0 || cfg.PartitionSize() < cfg.VisionRadius {
		return fmt.Errorf("%w: partition size (%d) must be >= VisionRadius (%d) > 0",
			ErrInvalidConfig, cfg.PartitionSize(), cfg.VisionRadius)
	}

	// Rule 6: threshold
	if cfg.Threshold <= 0 {
		return fmt.Errorf("%w: Threshold must be > 0, got %d", ErrInvalidConfig, cfg.Threshold)
	}

	// Rule 7: release percentage
	if cfg.Balance.ReleasePercentage <= 0 || cfg.Balance.ReleasePercentage > 1 {
		return fmt.Errorf("%w: ReleasePercentage must be in (0, 1], got %v",
			ErrInvalidConfig, cfg.Balance.ReleasePercentage)
	}

	// Rule 8: names
	if err := validateNames(cfg); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	// Rule 9: negotiation tolerance
	if cfg.Balance.NegotiationTolerance < 1 {
		return fmt.Errorf("%w: NegotiationTolerance must be >= 1.0, got %v",
			ErrInvalidConfig, cfg.Balance.NegotiationTolerance)
	}

	// Rule 10: non-negative knobs
	if cfg.Workers < 0 || cfg.MaxVelocity < 0 {
		return fmt.Errorf("%w: Workers (%d) and MaxVelocity (%v) must be >= 0",
			ErrInvalidConfig, cfg.Workers, cfg.MaxVelocity)
	}

	return nil
}

func validateNames(cfg *Config) error {
	switch cfg.Balance.Strategy {
	case strategy.NameNaive, strategy.NameDistributionDriven, strategy.NameNegotiated:
	default:
		return fmt.Errorf("%w: %q", strategy.ErrUnknownStrategy, cfg.Balance.Strategy)
	}

	if _, err := strategy.ParsePolicy(cfg.Balance.NegotiationPolicy); err != nil {
		return err
	}

	if cfg.Topology != TopologyToroidal && cfg.Topology != TopologyBounded {
		return fmt.Errorf("topology must be %q or %q, got %q", TopologyToroidal, TopologyBounded, cfg.Topology)
	}

	return nil
}

// ValidateWithWarnings logs warnings for values that are legal but unlikely to behave well.
//
// This is called after Validate() in NewCoordinator() to provide operator guidance.
//
// Parameters:
//   - logger: Logger instance for warning output
func (cfg *Config) ValidateWithWarnings(logger Logger) {
	// Warn if no partition can ever shrink
	if cfg.PartitionSize()-cfg.StepSize < cfg.MinSize() {
		logger.Warn(
			"partitions start at minimum size, load balancing cannot move any edge",
			"partitionSize", cfg.PartitionSize(),
			"minSize", cfg.MinSize(),
			"stepSize", cfg.StepSize,
		)
	}

	// Warn if the release quota rounds down to nothing
	if cfg.BoidsToRelease() == 0 {
		logger.Warn(
			"release quota is zero, distribution-driven balancing will never move an edge",
			"threshold", cfg.Threshold,
			"releasePercentage", cfg.Balance.ReleasePercentage,
		)
	}

	// Warn if an agent can cross a minimum-size partition in one tick
	if cfg.MaxVelocity > float64(cfg.MinSize()) {
		logger.Warn(
			"MaxVelocity exceeds the minimum partition size, agents may skip a partition per tick",
			"maxVelocity", cfg.MaxVelocity,
			"minSize", cfg.MinSize(),
		)
	}

	// Warn on a bounded single partition, which never migrates
	if cfg.GridSize == 1 && cfg.Topology == TopologyBounded {
		logger.Warn("single bounded partition, migration and balancing are disabled")
	}
}

// TestConfig returns a small configuration for fast test execution.
//
// The plane is a 240x240 square on a 3x3 grid of 80-unit partitions with a
// vision radius of 40, so partitions can shrink by two 20-unit steps.
//
// Returns:
//   - Config: Configuration for tests
//
// Example:
//
//	cfg := boidgrid.TestConfig()
//	cfg.Balance.Strategy = "naive"
//	c, err := boidgrid.NewCoordinator(&cfg, src, strat, behavior)
func TestConfig() Config {
	cfg := DefaultConfig()

	cfg.Width = 240
	cfg.Height = 240
	cfg.VisionRadius = 40
	cfg.Threshold = 10
	cfg.MaxVelocity = 5
	cfg.Workers = 2

	return cfg
}

// PartitionCount returns GridSize squared.
func (cfg *Config) PartitionCount() int {
	return cfg.GridSize * cfg.GridSize
}

// PartitionSize returns the initial width and height of every partition.
func (cfg *Config) PartitionSize() int {
	if cfg.GridSize <= 0 {
		return 0
	}

	return cfg.Width / cfg.GridSize
}

// MinSize returns the minimum partition width and height, equal to VisionRadius.
func (cfg *Config) MinSize() int {
	return cfg.VisionRadius
}

// BoidsToRelease returns the release quota of an overloaded partition:
// Threshold - floor(Threshold * (1 - ReleasePercentage)).
func (cfg *Config) BoidsToRelease() int {
	keep := math.Floor(float64(cfg.Threshold) * (1 - cfg.Balance.ReleasePercentage))

	return cfg.Threshold - int(keep)
}

// BalanceParams returns the values passed to the boundary strategy with every request.
func (cfg *Config) BalanceParams() BalanceParams {
	return BalanceParams{
		GridSize:  cfg.GridSize,
		StepSize:  cfg.StepSize,
		MinSize:   cfg.MinSize(),
		Threshold: cfg.Threshold,
		Quota:     cfg.BoidsToRelease(),
	}
}

// Layout returns the plane description handed to agent sources.
func (cfg *Config) Layout() Layout {
	return Layout{
		Width:         cfg.Width,
		Height:        cfg.Height,
		GridSize:      cfg.GridSize,
		PartitionSize: cfg.PartitionSize(),
		MaxVelocity:   cfg.MaxVelocity,
	}
}

// Wrap reports whether the grid is toroidal.
func (cfg *Config) Wrap() bool {
	return cfg.Topology != TopologyBounded
}

// FlockParams returns reference behavior parameters for the plane, with unit rule
// weights and MaxForce equal to MaxVelocity.
func (cfg *Config) FlockParams() behavior.Params {
	return behavior.Params{
		Width:        float64(cfg.Width),
		Height:       float64(cfg.Height),
		VisionRadius: float64(cfg.VisionRadius),
		MaxVelocity:  cfg.MaxVelocity,
		MaxForce:     cfg.MaxVelocity,
		Cohesion:     1,
		Alignment:    1,
		Separation:   1,
		Wrap:         cfg.Wrap(),
	}
}
