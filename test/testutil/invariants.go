package testutil

import (
	"testing"

	"github.com/arloliu/boidgrid"
	"github.com/arloliu/boidgrid/types"
)

// AssertGridConsistent verifies ownership and conservation on a started coordinator:
// every agent lies inside its owner's bounds, no ID is owned twice, the total equals
// expectedTotal, and the partition bounds tile the plane.
//
// Parameters:
//   - t: testing handle
//   - c: coordinator to inspect between ticks
//   - expectedTotal: population size loaded at Start
func AssertGridConsistent[T types.Scalar[T]](t testing.TB, c *boidgrid.Coordinator[T], expectedTotal int) {
	t.Helper()

	seen := make(map[uint64]uint32, expectedTotal)
	sum := 0
	for _, p := range c.Partitions() {
		agents, err := c.PartitionAgents(p.ID)
		if err != nil {
			t.Fatalf("partition %d: %v", p.ID, err)
		}
		if len(agents) != p.Count {
			t.Fatalf("partition %d reports %d agents but owns %d", p.ID, p.Count, len(agents))
		}

		for _, a := range agents {
			if owner, ok := seen[a.ID]; ok {
				t.Fatalf("agent %d owned by partitions %d and %d", a.ID, owner, p.ID)
			}
			seen[a.ID] = p.ID

			if !p.Bounds.ContainsInclusive(a.Position) {
				t.Fatalf("agent %d at (%v, %v) outside partition %d bounds %v",
					a.ID, a.Position.X, a.Position.Y, p.ID, p.Bounds.Floats())
			}
		}
		sum += len(agents)
	}

	if sum != expectedTotal {
		t.Fatalf("agent total (%d) does not equal expected total (%d)", sum, expectedTotal)
	}

	AssertBoundsTile(t, c.Config(), c.Bounds())
}

// AssertBoundsTile verifies that partition bounds cover the plane without overlap
// and that every partition keeps at least the minimum size.
func AssertBoundsTile[T types.Scalar[T]](t testing.TB, cfg boidgrid.Config, bounds []boidgrid.Rect[T]) {
	t.Helper()

	minSize := float64(cfg.MinSize())
	area := 0.0
	for i, b := range bounds {
		f := b.Floats()
		w, h := f[2]-f[0], f[3]-f[1]
		if w < minSize || h < minSize {
			t.Fatalf("partition %d is %vx%v, below the minimum size %v", i+1, w, h, minSize)
		}
		area += w * h
	}

	if want := float64(cfg.Width) * float64(cfg.Height); area != want {
		t.Fatalf("partition areas sum to %v, plane area is %v", area, want)
	}
}
