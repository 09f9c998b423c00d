package boidgrid

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/arloliu/boidgrid/types"
)

// snapshot returns an immutable copy of every partition's agents with the
// processed flag cleared.
func (c *Coordinator[T]) snapshot() [][]types.Agent[T] {
	snaps := make([][]types.Agent[T], len(c.parts))
	for i, p := range c.parts {
		s := p.Snapshot()
		for j := range s {
			s[j].Processed = false
		}
		snaps[i] = s
	}

	return snaps
}

// compute runs the behavior for every agent, one partition per task, at most
// c.workers partitions at a time. Tasks only read snaps and write their own slot
// of the result.
func (c *Coordinator[T]) compute(ctx context.Context, snaps [][]types.Agent[T]) ([][]types.Agent[T], error) {
	next := make([][]types.Agent[T], len(snaps))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)

	for i := range snaps {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			next[i] = c.computePartition(i, snaps)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return next, nil
}

// computePartition computes the next state of partition i's agents. The candidate
// neighbor set is the partition's own snapshot followed by those of its distinct
// topological neighbors.
func (c *Coordinator[T]) computePartition(i int, snaps [][]types.Agent[T]) []types.Agent[T] {
	own := snaps[i]
	out := make([]types.Agent[T], len(own))
	if len(own) == 0 {
		return out
	}

	neighbors := c.resolver.Distinct(uint32(i + 1)) //nolint:gosec // G115: bounded by MaxGridSize squared
	size := len(own)
	for _, id := range neighbors {
		size += len(snaps[id-1])
	}

	superset := make([]types.Agent[T], 0, size)
	superset = append(superset, own...)
	for _, id := range neighbors {
		superset = append(superset, snaps[id-1]...)
	}

	for j, a := range own {
		pos, vel := c.behavior.NextState(a, superset)
		out[j] = types.Agent[T]{ID: a.ID, Position: pos, Velocity: vel, Processed: true}
	}

	return out
}
