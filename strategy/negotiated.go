package strategy

import (
	"math"

	"github.com/arloliu/boidgrid/types"
)

// Negotiated plans like DistributionDriven and then lets every affected partition
// veto the change through Approve.
type Negotiated[T types.Scalar[T]] struct {
	planner   *DistributionDriven[T]
	tolerance float64
	policy    Policy
	logger    types.Logger
}

var (
	_ types.BoundaryStrategy[types.Float64] = (*Negotiated[types.Float64])(nil)
	_ types.Negotiator                      = (*Negotiated[types.Float64])(nil)
)

// NewNegotiated creates a new negotiated strategy.
//
// Parameters:
//   - opts: Optional configuration (WithTolerance, WithPolicy, WithLogger)
//
// Returns:
//   - *Negotiated[T]: Initialized strategy
//
// Example:
//
//	s := strategy.NewNegotiated[types.Float64](
//	    strategy.WithTolerance(1.2),
//	    strategy.WithPolicy(strategy.PolicyLogOnly),
//	)
func NewNegotiated[T types.Scalar[T]](opts ...Option) *Negotiated[T] {
	s := newSettings(opts)

	return &Negotiated[T]{
		planner:   &DistributionDriven[T]{logger: s.logger},
		tolerance: s.tolerance,
		policy:    s.policy,
		logger:    s.logger,
	}
}

// Name returns "negotiated".
func (n *Negotiated[T]) Name() string { return NameNegotiated }

// Tolerance returns the threshold multiplier used by Approve.
func (n *Negotiated[T]) Tolerance() float64 { return n.tolerance }

// Policy returns the configured negotiation policy.
func (n *Negotiated[T]) Policy() Policy { return n.policy }

// Plan computes the proposed change exactly like DistributionDriven.
func (n *Negotiated[T]) Plan(req types.PlanRequest[T]) (types.Plan, error) {
	return n.planner.Plan(req)
}

// Limit returns the largest predicted count an affected partition may reach:
// floor(threshold * tolerance).
func (n *Negotiated[T]) Limit(threshold int) int {
	// absorb representation error such as 0.29*100 = 28.999999999999996
	return int(math.Floor(float64(threshold)*n.tolerance + 1e-9))
}

// Approve validates a proposed change against the predictions of every affected partition.
//
// A partition whose predicted count exceeds Limit(threshold) is reported in
// Verdict.Overloaded. Under PolicyReject any such partition disallows the change;
// under PolicyLogOnly the change is allowed and the overload is only logged.
//
// Parameters:
//   - evals: One prediction per affected partition
//   - threshold: Overload threshold from the balance parameters
//
// Returns:
//   - types.Verdict: Decision and the partitions predicted to overload
func (n *Negotiated[T]) Approve(evals []types.BoundaryEvaluation, threshold int) types.Verdict {
	limit := n.Limit(threshold)

	var overloaded []uint32
	for _, e := range evals {
		if e.After > limit {
			overloaded = append(overloaded, e.PartitionID)
		}
	}

	if len(overloaded) == 0 {
		return types.Verdict{Allowed: true}
	}

	allowed := n.policy == PolicyLogOnly
	n.logger.Warn("boundary change would overload partitions",
		"overloaded", overloaded,
		"limit", limit,
		"policy", string(n.policy),
		"allowed", allowed,
	)

	return types.Verdict{Allowed: allowed, Overloaded: overloaded}
}
