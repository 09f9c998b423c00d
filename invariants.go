package boidgrid

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/zeebo/xxh3"

	"github.com/arloliu/boidgrid/types"
)

// CheckInvariants verifies the grid invariants:
//   - every partition is at least MinSize wide and high
//   - the partitions tile the plane (their areas sum to Width*Height)
//   - every agent is owned by exactly one partition
//   - the number of agents equals the number loaded by Start
//
// Tick runs the same check after every tick unless Config.SkipInvariantChecks is set.
//
// Returns:
//   - error: Wrapped ErrInvariantViolation describing the first violation, or nil
func (c *Coordinator[T]) CheckInvariants() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.checkInvariants()
}

func (c *Coordinator[T]) checkInvariants() error {
	area := 0.0
	for _, p := range c.parts {
		if err := p.CheckMinSize(); err != nil {
			return err
		}
		b := p.Bounds()
		area += b.Width().Float64() * b.Height().Float64()
	}

	plane := float64(c.cfg.Width) * float64(c.cfg.Height)
	if math.Abs(area-plane) > 1e-6*plane {
		return fmt.Errorf("%w: partitions cover area %v, plane is %v", types.ErrInvariantViolation, area, plane)
	}

	owners := make(map[uint64]uint32, c.total)
	for _, p := range c.parts {
		for _, a := range p.Snapshot() {
			if owner, dup := owners[a.ID]; dup {
				return fmt.Errorf("%w: agent %d owned by partitions %d and %d",
					types.ErrInvariantViolation, a.ID, owner, p.ID())
			}
			owners[a.ID] = p.ID()
		}
	}

	if len(owners) != c.total {
		return fmt.Errorf("%w: %d agents owned, %d loaded", types.ErrInvariantViolation, len(owners), c.total)
	}

	return nil
}

// Digest returns an xxh3 digest of the grid state: every agent's ID, position and
// velocity, and every partition's bounds.
//
// Agents contribute independently of their order and owning partition, so two runs
// that reach the same state produce the same digest. Values are hashed as their
// float64 representation, which is exact for Fixed.
func (c *Coordinator[T]) Digest() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var sum uint64
	buf := make([]byte, 0, 40)
	for _, p := range c.parts {
		for _, a := range p.Snapshot() {
			buf = buf[:0]
			buf = binary.LittleEndian.AppendUint64(buf, a.ID)
			buf = appendFloats(buf, a.Position.X.Float64(), a.Position.Y.Float64())
			buf = appendFloats(buf, a.Velocity.X.Float64(), a.Velocity.Y.Float64())
			sum += xxh3.Hash(buf)
		}
	}

	buf = buf[:0]
	for _, p := range c.parts {
		b := p.Bounds().Floats()
		buf = appendFloats(buf, b[:]...)
	}

	return sum ^ xxh3.Hash(buf)
}

func appendFloats(buf []byte, vs ...float64) []byte {
	for _, v := range vs {
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v))
	}

	return buf
}
