package boidgrid

import (
	"fmt"
	"slices"

	"github.com/arloliu/boidgrid/partition"
	"github.com/arloliu/boidgrid/topology"
	"github.com/arloliu/boidgrid/types"
)

// Balance outcomes reported to MetricsCollector.RecordBalanceAttempt.
const (
	OutcomeApplied  = "applied"
	OutcomeRejected = "rejected"
	OutcomeNoop     = "noop"
)

// AffectedPartition is the set of edge changes one partition applies for a
// load-balancing request.
type AffectedPartition struct {
	ID      uint32
	Changes []partition.EdgeChange
}

// IdentifyAffected translates the edge steps requested by the overloaded partition
// at pos into the partitions and edges that must move with it.
//
// Grid lines are shared by whole rows and columns, so every partition along the
// moved line takes part:
//   - top: row-1 moves its bottom edge, the overloaded row moves its top edge
//   - right: col+1 moves its left edge, the overloaded column moves its right edge
//   - bottom: row+1 moves its top edge, the overloaded row moves its bottom edge
//   - left: col-1 moves its right edge, the overloaded column moves its left edge
//
// Whether each edge grows or shrinks is decided by Partition.ChangeBounds from the
// partition's row or column relative to pos. Edges that are not valid for pos are
// ignored.
//
// Parameters:
//   - pos: Grid position of the overloaded partition
//   - steps: Requested steps per edge
//   - n: Grid size
//
// Returns:
//   - []AffectedPartition: Affected partitions in ascending ID, each with its changes
//     in edge order
func IdentifyAffected(pos GridPos, steps EdgeSteps, n int) []AffectedPartition {
	changes := make(map[uint32][]partition.EdgeChange)
	add := func(p GridPos, edge Edge, s int) {
		id := topology.ID(p, n)
		changes[id] = append(changes[id], partition.EdgeChange{Edge: edge, Steps: s})
	}

	for _, edge := range types.Edges {
		s := steps[edge]
		if s <= 0 || !topology.ValidEdge(edge, pos, n) {
			continue
		}

		for k := range n {
			switch edge {
			case types.EdgeTop:
				add(GridPos{Row: pos.Row - 1, Col: k}, types.EdgeBottom, s)
				add(GridPos{Row: pos.Row, Col: k}, types.EdgeTop, s)
			case types.EdgeRight:
				add(GridPos{Row: k, Col: pos.Col + 1}, types.EdgeLeft, s)
				add(GridPos{Row: k, Col: pos.Col}, types.EdgeRight, s)
			case types.EdgeBottom:
				add(GridPos{Row: pos.Row + 1, Col: k}, types.EdgeTop, s)
				add(GridPos{Row: pos.Row, Col: k}, types.EdgeBottom, s)
			case types.EdgeLeft:
				add(GridPos{Row: k, Col: pos.Col - 1}, types.EdgeRight, s)
				add(GridPos{Row: k, Col: pos.Col}, types.EdgeLeft, s)
			}
		}
	}

	ids := make([]uint32, 0, len(changes))
	for id := range changes {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	out := make([]AffectedPartition, len(ids))
	for i, id := range ids {
		out[i] = AffectedPartition{ID: id, Changes: changes[id]}
	}

	return out
}

// balance runs the boundary strategy for every partition at or above the threshold,
// in ascending ID, and applies the approved changes.
func (c *Coordinator[T]) balance() ([]BoundsChange, int, error) {
	var applied []BoundsChange
	rejected := 0
	name := c.strategy.Name()

	for _, p := range c.parts {
		if p.Count() < c.params.Threshold {
			continue
		}

		if p.AtMinimalSize() {
			c.metrics.RecordBalanceAttempt(name, OutcomeNoop)
			c.logger.Debug("overloaded partition at minimal size", "partition", p.ID(), "count", p.Count())

			continue
		}

		plan, err := c.strategy.Plan(PlanRequest[T]{
			PartitionID: p.ID(),
			Pos:         p.Pos(),
			Bounds:      p.Bounds(),
			Agents:      p.Snapshot(),
			Params:      c.params,
		})
		if err != nil {
			return nil, 0, fmt.Errorf("planning partition %d with %s: %w", p.ID(), name, err)
		}

		if !plan.Steps.Any() {
			p.SetAtMinimalSize(plan.AtMinimalSize)
			c.metrics.RecordBalanceAttempt(name, OutcomeNoop)

			continue
		}

		for _, edge := range types.Edges {
			c.metrics.RecordEdgeSteps(edge, plan.Steps[edge])
		}

		affected := IdentifyAffected(p.Pos(), plan.Steps, c.cfg.GridSize)

		if neg, ok := c.strategy.(Negotiator); ok {
			verdict := neg.Approve(c.evaluate(p.Pos(), affected), c.params.Threshold)
			if !verdict.Allowed {
				rejected++
				c.metrics.RecordBalanceAttempt(name, OutcomeRejected)
				c.logger.Info("boundary change rejected",
					"partition", p.ID(),
					"steps", plan.Steps,
					"overloaded", verdict.Overloaded,
				)

				continue
			}
		}

		ids := make([]uint32, len(affected))
		for i, a := range affected {
			for _, ch := range a.Changes {
				if err := c.parts[a.ID-1].ChangeBounds(ch.Edge, ch.Steps, p.Pos()); err != nil {
					return nil, 0, err
				}
			}
			ids[i] = a.ID
		}
		p.SetAtMinimalSize(plan.AtMinimalSize)

		c.metrics.RecordBalanceAttempt(name, OutcomeApplied)
		c.logger.Debug("boundary change applied",
			"partition", p.ID(),
			"steps", plan.Steps,
			"released", plan.Released,
			"affected", ids,
		)

		applied = append(applied, BoundsChange{
			OverloadedID: p.ID(),
			Steps:        plan.Steps,
			Affected:     ids,
			Strategy:     name,
		})
	}

	return applied, rejected, nil
}

// evaluate asks every affected partition to predict its count under its changes.
func (c *Coordinator[T]) evaluate(pos GridPos, affected []AffectedPartition) []BoundaryEvaluation {
	lookup := func(id uint32) []types.Agent[T] {
		return c.parts[id-1].Snapshot()
	}

	evals := make([]BoundaryEvaluation, len(affected))
	for i, a := range affected {
		evals[i] = c.parts[a.ID-1].EvaluateBoundaryChange(a.Changes, pos, lookup)
	}

	return evals
}
