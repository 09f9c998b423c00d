package types

// BalanceParams carries the configuration values a boundary strategy needs.
//
// It is derived once from the coordinator's configuration and passed with every
// planning request, so strategies never consult global state.
type BalanceParams struct {
	// GridSize is the number of partitions per grid row and column.
	GridSize int

	// StepSize is the distance an edge moves per step.
	StepSize int

	// MinSize is the minimum partition width and height (the agent vision radius).
	MinSize int

	// Threshold is the agent count at which a partition is overloaded.
	Threshold int

	// Quota is the number of agents an overloaded partition tries to release.
	Quota int
}

// PlanRequest describes the overloaded partition a strategy is asked to plan for.
type PlanRequest[T Scalar[T]] struct {
	PartitionID uint32
	Pos         GridPos
	Bounds      Rect[T]
	Agents      []Agent[T]
	Params      BalanceParams
}

// Plan is a strategy's proposed edge change for an overloaded partition.
type Plan struct {
	// Steps is the number of steps each edge of the overloaded partition moves inward.
	Steps EdgeSteps

	// Released is the predicted number of agents released, when the strategy knows it.
	Released int

	// AtMinimalSize reports that every valid edge was rejected by the minimum-size check.
	AtMinimalSize bool
}

// BoundaryStrategy plans edge changes for an overloaded partition.
//
// Implementations must be deterministic and must never propose a change that shrinks
// the overloaded partition below Params.MinSize. A plan with no steps means no change.
//
// Built-in implementations in the strategy package:
//   - Naive: one step on every valid edge
//   - DistributionDriven: histogram-guided steps until the release quota is met
//   - Negotiated: DistributionDriven plus validation by affected partitions
type BoundaryStrategy[T Scalar[T]] interface {
	// Name returns a short identifier used in logs and metrics.
	Name() string

	// Plan computes the edge steps for the overloaded partition described by req.
	//
	// Parameters:
	//   - req: Overloaded partition state and balance parameters
	//
	// Returns:
	//   - Plan: Proposed steps per edge
	//   - error: Non-nil only for invalid requests
	Plan(req PlanRequest[T]) (Plan, error)
}

// BoundaryEvaluation is one affected partition's prediction for a proposed change.
type BoundaryEvaluation struct {
	PartitionID uint32
	Before      int
	After       int
}

// Verdict is a Negotiator's decision on a proposed change.
type Verdict struct {
	Allowed bool

	// Overloaded lists the partitions whose predicted count exceeded the limit.
	Overloaded []uint32
}

// Negotiator is implemented by strategies that validate a plan against the
// predictions of every affected partition before it is committed.
type Negotiator interface {
	Approve(evals []BoundaryEvaluation, threshold int) Verdict
}
