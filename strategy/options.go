package strategy

import (
	"fmt"

	"github.com/arloliu/boidgrid/internal/logging"
	"github.com/arloliu/boidgrid/types"
)

const (
	defaultTolerance = 1.1
	minTolerance     = 1.0
)

// Strategy names accepted by New.
const (
	NameNaive              = "naive"
	NameDistributionDriven = "distribution"
	NameNegotiated         = "negotiated"
)

type settings struct {
	logger    types.Logger
	tolerance float64
	policy    Policy
}

// Option configures a built-in strategy. Options a strategy does not use are ignored.
type Option func(*settings)

func newSettings(opts []Option) settings {
	s := settings{
		logger:    logging.NewNop(),
		tolerance: defaultTolerance,
		policy:    PolicyReject,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}

	if s.logger == nil {
		s.logger = logging.NewNop()
	}
	if s.tolerance < minTolerance {
		s.logger.Warn("negotiation tolerance below minimum, clamping",
			"tolerance", s.tolerance,
			"min", minTolerance,
		)
		s.tolerance = minTolerance
	}

	return s
}

// WithLogger sets the logger used for planning diagnostics.
func WithLogger(logger types.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// WithTolerance sets the factor applied to the threshold when the Negotiated strategy
// validates predicted counts (default: 1.1). Values below 1.0 are clamped to 1.0.
//
// Parameters:
//   - tolerance: Multiplier of BalanceParams.Threshold
//
// Returns:
//   - Option: Configuration option
func WithTolerance(tolerance float64) Option {
	return func(s *settings) {
		s.tolerance = tolerance
	}
}

// WithPolicy sets what the Negotiated strategy does with a change that would overload
// an affected partition (default: PolicyReject).
func WithPolicy(policy Policy) Option {
	return func(s *settings) {
		s.policy = policy
	}
}

// New creates a built-in strategy by name.
//
// Parameters:
//   - name: NameNaive, NameDistributionDriven or NameNegotiated
//   - opts: Optional configuration
//
// Returns:
//   - types.BoundaryStrategy[T]: The strategy
//   - error: ErrUnknownStrategy for any other name
//
// Example:
//
//	s, err := strategy.New[types.Float64]("negotiated", strategy.WithPolicy(strategy.PolicyLogOnly))
func New[T types.Scalar[T]](name string, opts ...Option) (types.BoundaryStrategy[T], error) {
	switch name {
	case NameNaive:
		return NewNaive[T](opts...), nil
	case NameDistributionDriven:
		return NewDistributionDriven[T](opts...), nil
	case NameNegotiated:
		return NewNegotiated[T](opts...), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

func validateRequest[T types.Scalar[T]](req types.PlanRequest[T]) error {
	p := req.Params
	switch {
	case p.GridSize < 1:
		return fmt.Errorf("%w: grid size %d", ErrInvalidParams, p.GridSize)
	case p.StepSize < 1:
		return fmt.Errorf("%w: step size %d", ErrInvalidParams, p.StepSize)
	case p.MinSize < 0:
		return fmt.Errorf("%w: min size %d", ErrInvalidParams, p.MinSize)
	case req.Pos.Row < 0 || req.Pos.Row >= p.GridSize || req.Pos.Col < 0 || req.Pos.Col >= p.GridSize:
		return fmt.Errorf("%w: position (%d,%d) outside %dx%d grid",
			ErrInvalidParams, req.Pos.Row, req.Pos.Col, p.GridSize, p.GridSize)
	}

	return nil
}
