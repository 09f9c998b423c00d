package types

import "context"

// Layout describes the simulation plane an AgentSource populates.
type Layout struct {
	Width         int
	Height        int
	GridSize      int
	PartitionSize int
	MaxVelocity   float64
}

// PartitionCount returns GridSize squared.
func (l Layout) PartitionCount() int {
	return l.GridSize * l.GridSize
}

// PartitionBounds returns the initial [xmin, ymin, xmax, ymax] of partition id
// (1-based, row-major).
func (l Layout) PartitionBounds(id uint32) [4]int {
	i := int(id) - 1
	x0 := (i % l.GridSize) * l.PartitionSize
	y0 := (i / l.GridSize) * l.PartitionSize

	return [4]int{x0, y0, x0 + l.PartitionSize, y0 + l.PartitionSize}
}

// AgentSource provides the initial agent population.
//
// Implementations:
//   - source.Static: fixed list, useful for known test states
//   - source.Uniform: seeded uniform placement per partition
//   - source.Noise: seeded clustered placement
type AgentSource interface {
	// Agents returns the agents to seed the simulation with.
	//
	// Parameters:
	//   - ctx: Context for cancellation
	//   - layout: Plane dimensions and initial partition geometry
	//
	// Returns:
	//   - []AgentSpec: Agents with unique IDs inside the plane
	//   - error: Source error (nil on success)
	Agents(ctx context.Context, layout Layout) ([]AgentSpec, error)
}
