package boidgrid

import (
	"fmt"

	"github.com/arloliu/boidgrid/strategy"
	"github.com/arloliu/boidgrid/types"
)

// NewStrategy creates the boundary strategy selected by cfg.Balance.
//
// Parameters:
//   - cfg: Configuration (Balance.Strategy, NegotiationPolicy and NegotiationTolerance are used)
//   - logger: Logger for planning diagnostics (nil for none)
//
// Returns:
//   - BoundaryStrategy[T]: The selected strategy
//   - error: ErrInvalidConfig wrapping the unknown strategy or policy
func NewStrategy[T types.Scalar[T]](cfg *Config, logger Logger) (BoundaryStrategy[T], error) {
	c := *cfg
	SetDefaults(&c)

	policy, err := strategy.ParsePolicy(c.Balance.NegotiationPolicy)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	s, err := strategy.New[T](c.Balance.Strategy,
		strategy.WithLogger(logger),
		strategy.WithTolerance(c.Balance.NegotiationTolerance),
		strategy.WithPolicy(policy),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return s, nil
}
