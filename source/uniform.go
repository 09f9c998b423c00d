package source

import (
	"context"
	"fmt"
	"math"

	"github.com/arloliu/boidgrid/types"
)

// Uniform places the same number of agents uniformly at random in every partition.
//
// Positions are integers in [xmin, xmax) and [ymin, ymax) of the partition's
// initial bounds, velocities integers in [-MaxVelocity, MaxVelocity]. IDs are
// (partition-1)*perPartition + i + 1.
type Uniform struct {
	total int
	seed  int64
}

var _ types.AgentSource = (*Uniform)(nil)

// NewUniform creates a new uniform agent source.
//
// Parameters:
//   - total: Total number of agents, split evenly across partitions (the remainder is dropped)
//   - seed: Seed of the deterministic placement
//
// Returns:
//   - *Uniform: Initialized uniform source
func NewUniform(total int, seed int64) *Uniform {
	return &Uniform{total: total, seed: seed}
}

// Agents generates the agents for layout.
//
// Returns:
//   - []types.AgentSpec: total/PartitionCount agents per partition, ordered by ID
//   - error: ctx error, or an error for an unusable layout
func (u *Uniform) Agents(ctx context.Context, layout types.Layout) ([]types.AgentSpec, error) {
	count := layout.PartitionCount()
	if count <= 0 || layout.PartitionSize <= 0 {
		return nil, fmt.Errorf("uniform source: unusable layout %+v", layout)
	}

	perPartition := u.total / count
	maxVel := int(math.Floor(layout.MaxVelocity))
	rnd := newStream(u.seed)

	agents := make([]types.AgentSpec, 0, perPartition*count)
	for pid := 1; pid <= count; pid++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		b := layout.PartitionBounds(uint32(pid)) //nolint:gosec // G115: bounded by PartitionCount
		for i := range perPartition {
			agents = append(agents, types.AgentSpec{
				ID: uint64((pid-1)*perPartition + i + 1), //nolint:gosec // G115: non-negative
				X:  float64(rnd.intn(b[0], b[2]-1)),
				Y:  float64(rnd.intn(b[1], b[3]-1)),
				VX: float64(rnd.intn(-maxVel, maxVel)),
				VY: float64(rnd.intn(-maxVel, maxVel)),
			})
		}
	}

	return agents, nil
}
