package boidgrid

import (
	"fmt"

	"github.com/arloliu/boidgrid/partition"
	"github.com/arloliu/boidgrid/types"
)

// wrapReceiver folds an agent's position back into the plane before handing it
// to the target partition. On a toroidal grid an agent leaving across the outer
// edge arrives on the opposite side.
type wrapReceiver[T types.Scalar[T]] struct {
	target partition.Receiver[T]
	width  T
	height T
}

var _ partition.Receiver[types.Float64] = wrapReceiver[types.Float64]{}

func (r wrapReceiver[T]) Accept(agent types.Agent[T], fromID uint32) error {
	agent.Position = agent.Position.Wrap(r.width, r.height)

	return r.target.Accept(agent, fromID)
}

// receiver returns the handoff target for partition id.
func (c *Coordinator[T]) receiver(id uint32) partition.Receiver[T] {
	target := c.parts[id-1]
	if !c.cfg.Wrap() {
		return target
	}

	return wrapReceiver[T]{target: target, width: c.width, height: c.height}
}

// migrate hands every agent outside its partition's bounds to the neighbor in
// the direction it left, partition by partition in ascending ID. An agent handed
// to a partition not yet visited is evaluated again there.
func (c *Coordinator[T]) migrate() (int, error) {
	moved := 0
	for _, p := range c.parts {
		for _, a := range p.Snapshot() {
			target, dir, ok := p.DetermineTransfer(a)
			if !ok {
				continue
			}

			if err := p.Transfer(a.ID, c.receiver(target)); err != nil {
				return moved, fmt.Errorf("%w: agent %d from partition %d to %d: %w",
					types.ErrInvariantViolation, a.ID, p.ID(), target, err)
			}

			moved++
			c.metrics.RecordMigration(dir)
		}
	}

	return moved, nil
}
