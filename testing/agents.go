package testing

import (
	"math"

	"github.com/arloliu/boidgrid/types"
)

// Still returns a behavior that leaves every agent where it is.
func Still[T types.Scalar[T]]() types.BehaviorFunc[T] {
	return func(self types.Agent[T], _ []types.Agent[T]) (types.Vec2[T], types.Vec2[T]) {
		return self.Position, self.Velocity
	}
}

// Drift returns a behavior that moves every agent by its own velocity, ignoring
// neighbors. Positions are not wrapped.
func Drift[T types.Scalar[T]]() types.BehaviorFunc[T] {
	return func(self types.Agent[T], _ []types.Agent[T]) (types.Vec2[T], types.Vec2[T]) {
		return self.Position.Add(self.Velocity), self.Velocity
	}
}

// Block returns n motionless agents with IDs firstID..firstID+n-1 spread evenly
// over the rectangle [xmin, xmax) x [ymin, ymax), row by row.
//
// Example:
//
//	// 35 agents in the center partition of a 720x720 3x3 grid
//	agents := gridtest.Block(1, 35, 240, 240, 480, 480)
func Block(firstID uint64, n int, xmin, ymin, xmax, ymax float64) []types.AgentSpec {
	if n <= 0 {
		return nil
	}

	cols := int(math.Ceil(math.Sqrt(float64(n))))
	rows := (n + cols - 1) / cols
	dx := (xmax - xmin) / float64(cols)
	dy := (ymax - ymin) / float64(rows)

	agents := make([]types.AgentSpec, n)
	for i := range n {
		agents[i] = types.AgentSpec{
			ID: firstID + uint64(i), //nolint:gosec // G115: non-negative
			X:  xmin + (float64(i%cols)+0.5)*dx,
			Y:  ymin + (float64(i/cols)+0.5)*dy,
		}
	}

	return agents
}
