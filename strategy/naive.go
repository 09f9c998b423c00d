package strategy

import (
	"github.com/arloliu/boidgrid/partition"
	"github.com/arloliu/boidgrid/topology"
	"github.com/arloliu/boidgrid/types"
)

// Naive requests a single inward step on every edge the overloaded partition may move.
type Naive[T types.Scalar[T]] struct {
	logger types.Logger
}

var _ types.BoundaryStrategy[types.Float64] = (*Naive[types.Float64])(nil)

// NewNaive creates a new naive strategy.
//
// Parameters:
//   - opts: Optional configuration (WithLogger)
//
// Returns:
//   - *Naive[T]: Initialized naive strategy
func NewNaive[T types.Scalar[T]](opts ...Option) *Naive[T] {
	s := newSettings(opts)

	return &Naive[T]{logger: s.logger}
}

// Name returns "naive".
func (n *Naive[T]) Name() string { return NameNaive }

// Plan proposes one step on every valid edge that passes the minimum-size check.
//
// Edges are checked in identifier order against bounds already shrunk by the edges
// accepted before them, so opposite edges together never violate the minimum size.
// When every valid edge is rejected the plan reports AtMinimalSize.
//
// Parameters:
//   - req: Overloaded partition state and balance parameters
//
// Returns:
//   - types.Plan: One step per accepted edge (Released is left at 0)
//   - error: ErrInvalidParams for unusable parameters
func (n *Naive[T]) Plan(req types.PlanRequest[T]) (types.Plan, error) {
	if err := validateRequest(req); err != nil {
		return types.Plan{}, err
	}

	params := req.Params
	bounds := req.Bounds

	var plan types.Plan
	valid := 0
	for _, edge := range types.Edges {
		if !topology.ValidEdge(edge, req.Pos, params.GridSize) {
			continue
		}
		valid++

		if !partition.MinSizeEnforced(edge, 1, bounds, params.StepSize, params.MinSize) {
			continue
		}

		plan.Steps[edge] = 1
		bounds = partition.MoveEdge(edge, true, 1, bounds, params.StepSize)
	}

	plan.AtMinimalSize = !plan.Steps.Any()

	n.logger.Debug("naive plan",
		"partition", req.PartitionID,
		"valid_edges", valid,
		"steps", plan.Steps,
	)

	return plan, nil
}
