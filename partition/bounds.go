package partition

import (
	"fmt"

	"github.com/arloliu/boidgrid/types"
)

// MinSizeEnforced reports whether moving edge inward by steps keeps bounds at or
// above minSize. Top and bottom moves reduce the height, left and right moves
// reduce the width, each by step*steps.
func MinSizeEnforced[T types.Scalar[T]](edge types.Edge, steps int, bounds types.Rect[T], step, minSize int) bool {
	var zero T
	change := zero.FromInt(step * steps)

	var size T
	if edge.Horizontal() {
		size = bounds.Height().Sub(change)
	} else {
		size = bounds.Width().Sub(change)
	}

	return size.Cmp(zero.FromInt(minSize)) >= 0
}

// MoveEdge returns bounds with edge moved by steps*step. When shrink is true the
// edge moves toward the partition's interior, otherwise outward.
func MoveEdge[T types.Scalar[T]](edge types.Edge, shrink bool, steps int, bounds types.Rect[T], step int) types.Rect[T] {
	var zero T
	change := zero.FromInt(step * steps)
	slot := edge.Coord()
	cur := bounds.Coord(slot)

	// top and left shrink by increasing their coordinate
	increase := shrink == (edge == types.EdgeTop || edge == types.EdgeLeft)
	if increase {
		return bounds.WithCoord(slot, cur.Add(change))
	}

	return bounds.WithCoord(slot, cur.Sub(change))
}

// ChangeBounds applies one edge change requested by the overloaded partition at
// overloadedPos.
//
// A partition in the same row as the overloaded one moves its top or bottom edge
// inward together with it; a partition in another row moves that edge outward to
// take over the released space. Columns follow the same rule for left and right.
// Any change clears the minimal-size flag.
//
// Returns:
//   - error: ErrInvariantViolation if the result is below the minimum size
func (p *Partition[T]) ChangeBounds(edge types.Edge, steps int, overloadedPos types.GridPos) error {
	var shrink bool
	if edge.Horizontal() {
		shrink = overloadedPos.Row == p.pos.Row
	} else {
		shrink = overloadedPos.Col == p.pos.Col
	}

	p.bounds = MoveEdge(edge, shrink, steps, p.bounds, p.params.StepSize)
	p.atMinimal = false

	p.logger.Debug("changed bounds",
		"partition", p.id,
		"edge", edge.String(),
		"steps", steps,
		"shrink", shrink,
		"bounds", p.bounds.Floats(),
	)

	return p.CheckMinSize()
}

// CheckMinSize returns ErrInvariantViolation if the bounds are below the minimum size.
func (p *Partition[T]) CheckMinSize() error {
	var zero T
	minSize := zero.FromInt(p.params.MinSize)
	if p.bounds.Width().Cmp(minSize) < 0 || p.bounds.Height().Cmp(minSize) < 0 {
		return fmt.Errorf("partition %d bounds %v below minimum size %d: %w",
			p.id, p.bounds.Floats(), p.params.MinSize, types.ErrInvariantViolation)
	}

	return nil
}
