package partition

import (
	"slices"

	"github.com/arloliu/boidgrid/types"
)

// EdgeChange is one edge move assigned to an affected partition.
type EdgeChange struct {
	Edge  types.Edge
	Steps int
}

// AgentLookup returns a snapshot of the agents owned by partition id.
type AgentLookup[T types.Scalar[T]] func(id uint32) []types.Agent[T]

// AffectedNeighbors returns the neighbors whose agents could enter this partition
// under changes: the orthogonal neighbor behind every changed edge, plus the
// diagonal neighbor between every pair of adjoining changed edges. Missing (0)
// neighbors and this partition itself are skipped; the result has no duplicates.
func (p *Partition[T]) AffectedNeighbors(changes []EdgeChange) []uint32 {
	var changed [4]bool
	for _, c := range changes {
		if c.Steps != 0 {
			changed[c.Edge] = true
		}
	}

	var dirs []types.Direction
	if changed[types.EdgeTop] && changed[types.EdgeLeft] {
		dirs = append(dirs, types.NorthWest)
	}
	if changed[types.EdgeTop] && changed[types.EdgeRight] {
		dirs = append(dirs, types.NorthEast)
	}
	if changed[types.EdgeBottom] && changed[types.EdgeRight] {
		dirs = append(dirs, types.SouthEast)
	}
	if changed[types.EdgeBottom] && changed[types.EdgeLeft] {
		dirs = append(dirs, types.SouthWest)
	}
	if changed[types.EdgeTop] {
		dirs = append(dirs, types.North)
	}
	if changed[types.EdgeRight] {
		dirs = append(dirs, types.East)
	}
	if changed[types.EdgeBottom] {
		dirs = append(dirs, types.South)
	}
	if changed[types.EdgeLeft] {
		dirs = append(dirs, types.West)
	}

	out := make([]uint32, 0, len(dirs))
	for _, d := range dirs {
		id := p.neighbors[d]
		if id == 0 || id == p.id || slices.Contains(out, id) {
			continue
		}
		out = append(out, id)
	}

	return out
}

// EvaluateBoundaryChange predicts, without committing anything, how many agents
// this partition would own if changes were applied.
//
// The candidates are this partition's agents plus those of AffectedNeighbors.
// Hypothetical bounds are derived with the same row and column rule as
// ChangeBounds, and membership is inclusive on all four bounds.
//
// Parameters:
//   - changes: Edge moves assigned to this partition
//   - overloadedPos: Grid position of the partition that requested the change
//   - lookup: Snapshot accessor for neighbor agents
//
// Returns:
//   - types.BoundaryEvaluation: Current and predicted agent counts
func (p *Partition[T]) EvaluateBoundaryChange(changes []EdgeChange, overloadedPos types.GridPos, lookup AgentLookup[T]) types.BoundaryEvaluation {
	bounds := p.bounds
	for _, c := range changes {
		var shrink bool
		if c.Edge.Horizontal() {
			shrink = overloadedPos.Row == p.pos.Row
		} else {
			shrink = overloadedPos.Col == p.pos.Col
		}
		bounds = MoveEdge(c.Edge, shrink, c.Steps, bounds, p.params.StepSize)
	}

	count := 0
	for _, a := range p.agents {
		if bounds.ContainsInclusive(a.Position) {
			count++
		}
	}
	for _, id := range p.AffectedNeighbors(changes) {
		for _, a := range lookup(id) {
			if bounds.ContainsInclusive(a.Position) {
				count++
			}
		}
	}

	p.logger.Debug("evaluated boundary change",
		"partition", p.id,
		"before", len(p.agents),
		"after", count,
	)

	return types.BoundaryEvaluation{PartitionID: p.id, Before: len(p.agents), After: count}
}
