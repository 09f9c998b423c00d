package strategy

import (
	"github.com/arloliu/boidgrid/histogram"
	"github.com/arloliu/boidgrid/partition"
	"github.com/arloliu/boidgrid/topology"
	"github.com/arloliu/boidgrid/types"
)

// DistributionDriven moves the edges of an overloaded partition step by step, guided by
// a load histogram, until the release quota is reached or no edge can move further.
type DistributionDriven[T types.Scalar[T]] struct {
	logger types.Logger
}

var _ types.BoundaryStrategy[types.Float64] = (*DistributionDriven[types.Float64])(nil)

// NewDistributionDriven creates a new distribution-driven strategy.
//
// Parameters:
//   - opts: Optional configuration (WithLogger)
//
// Returns:
//   - *DistributionDriven[T]: Initialized strategy
func NewDistributionDriven[T types.Scalar[T]](opts ...Option) *DistributionDriven[T] {
	s := newSettings(opts)

	return &DistributionDriven[T]{logger: s.logger}
}

// Name returns "distribution".
func (d *DistributionDriven[T]) Name() string { return NameDistributionDriven }

// Plan computes per-edge steps from the partition's load histogram.
//
// The algorithm:
//  1. Build the histogram over the current bounds with cell size StepSize
//  2. In rounds, visit every valid edge that is not yet minimal
//  3. If one more step keeps the tentative bounds at or above MinSize, add the agents in
//     the next row or column of cells to the released total and take the step, even when
//     it releases nobody; otherwise mark the edge minimal
//  4. Stop as soon as the released total reaches Params.Quota
//  5. If every edge is invalid or minimal first, stop and report AtMinimalSize
//
// Parameters:
//   - req: Overloaded partition state and balance parameters
//
// Returns:
//   - types.Plan: Steps per edge and the predicted number of released agents
//   - error: ErrInvalidParams for unusable parameters
func (d *DistributionDriven[T]) Plan(req types.PlanRequest[T]) (types.Plan, error) {
	if err := validateRequest(req); err != nil {
		return types.Plan{}, err
	}

	params := req.Params
	hist := histogram.Build(req.Agents, req.Bounds, params.StepSize)
	bounds := req.Bounds

	var blocked [4]bool
	for _, edge := range types.Edges {
		blocked[edge] = !topology.ValidEdge(edge, req.Pos, params.GridSize)
	}

	var plan types.Plan
	rounds := 0
	for plan.Released < params.Quota {
		moved := false
		for _, edge := range types.Edges {
			if blocked[edge] {
				continue
			}
			if plan.Released >= params.Quota {
				break
			}

			if !partition.MinSizeEnforced(edge, 1, bounds, params.StepSize, params.MinSize) {
				blocked[edge] = true
				continue
			}

			plan.Released += hist.RowOrColSum(edge, plan.Steps[edge])
			plan.Steps[edge]++
			bounds = partition.MoveEdge(edge, true, 1, bounds, params.StepSize)
			moved = true
		}
		rounds++

		if !moved {
			plan.AtMinimalSize = true
			break
		}
	}

	d.logger.Debug("distribution plan",
		"partition", req.PartitionID,
		"quota", params.Quota,
		"released", plan.Released,
		"rounds", rounds,
		"steps", plan.Steps,
		"at_minimal_size", plan.AtMinimalSize,
	)

	return plan, nil
}
