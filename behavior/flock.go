package behavior

import (
	"errors"
	"fmt"

	"github.com/arloliu/boidgrid/types"
)

// ErrInvalidParams indicates unusable flocking parameters.
var ErrInvalidParams = errors.New("invalid flock parameters")

// Params configures a Flock.
type Params struct {
	// Width and Height of the plane.
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`

	// VisionRadius is the exclusive distance within which another agent is a neighbor.
	VisionRadius float64 `yaml:"visionRadius"`

	// MaxVelocity caps the speed of every agent.
	MaxVelocity float64 `yaml:"maxVelocity"`

	// MaxForce caps each steering vector (default: MaxVelocity).
	MaxForce float64 `yaml:"maxForce"`

	// Rule weights (default: 1 each).
	Cohesion   float64 `yaml:"cohesion"`
	Alignment  float64 `yaml:"alignment"`
	Separation float64 `yaml:"separation"`

	// Wrap selects toroidal distances. Positions are left unwrapped; the
	// coordinator folds them back into the plane as agents migrate. When false,
	// agents leaving the plane reverse their velocity.
	Wrap bool `yaml:"wrap"`
}

// DefaultParams returns parameters for a 720x720 toroidal plane.
func DefaultParams() Params {
	return Params{
		Width:        720,
		Height:       720,
		VisionRadius: 80,
		MaxVelocity:  10,
		MaxForce:     10,
		Cohesion:     1,
		Alignment:    1,
		Separation:   1,
		Wrap:         true,
	}
}

// Flock is the reference boid movement rule.
type Flock[T types.Scalar[T]] struct {
	width      T
	height     T
	vision2    T
	maxVel     T
	maxForce   T
	cohesion   T
	alignment  T
	separation T
	wrap       bool
}

var _ types.Behavior[types.Float64] = (*Flock[types.Float64])(nil)

// NewFlock creates a flocking behavior.
//
// Parameters:
//   - p: Plane and steering parameters; zero MaxForce defaults to MaxVelocity
//
// Returns:
//   - *Flock[T]: Initialized behavior, safe for concurrent use
//   - error: ErrInvalidParams for non-positive plane, vision or velocity
//
// Example:
//
//	p := behavior.DefaultParams()
//	p.Separation = 1.5
//	flock, err := behavior.NewFlock[types.Float64](p)
func NewFlock[T types.Scalar[T]](p Params) (*Flock[T], error) {
	if p.Width <= 0 || p.Height <= 0 {
		return nil, fmt.Errorf("%w: plane %vx%v", ErrInvalidParams, p.Width, p.Height)
	}
	if p.VisionRadius <= 0 || p.MaxVelocity <= 0 {
		return nil, fmt.Errorf("%w: vision radius and max velocity must be positive", ErrInvalidParams)
	}
	if p.MaxForce <= 0 {
		p.MaxForce = p.MaxVelocity
	}

	var zero T

	return &Flock[T]{
		width:      zero.FromFloat64(p.Width),
		height:     zero.FromFloat64(p.Height),
		vision2:    zero.FromFloat64(p.VisionRadius * p.VisionRadius),
		maxVel:     zero.FromFloat64(p.MaxVelocity),
		maxForce:   zero.FromFloat64(p.MaxForce),
		cohesion:   zero.FromFloat64(p.Cohesion),
		alignment:  zero.FromFloat64(p.Alignment),
		separation: zero.FromFloat64(p.Separation),
		wrap:       p.Wrap,
	}, nil
}

// NextState computes the agent's next position and velocity from the neighbors
// within the vision radius. Agents with the same ID as self are ignored.
func (f *Flock[T]) NextState(self types.Agent[T], neighbors []types.Agent[T]) (types.Vec2[T], types.Vec2[T]) {
	var (
		zero      T
		count     int
		sumOffset types.Vec2[T]
		sumVel    types.Vec2[T]
		sumAway   types.Vec2[T]
	)

	for i := range neighbors {
		other := &neighbors[i]
		if other.ID == self.ID {
			continue
		}

		d := f.offset(self.Position, other.Position)
		if d.Len2().Cmp(f.vision2) >= 0 {
			continue
		}

		count++
		sumOffset = sumOffset.Add(d)
		sumVel = sumVel.Add(other.Velocity)
		sumAway = sumAway.Add(d.Neg().Normalize())
	}

	velocity := self.Velocity
	if count > 0 {
		n := zero.FromInt(count)

		acc := f.steer(sumAway.Div(n), self.Velocity).Scale(f.separation)
		acc = acc.Add(f.steer(sumVel.Div(n), self.Velocity).Scale(f.alignment))
		acc = acc.Add(f.steer(sumOffset.Div(n), self.Velocity).Scale(f.cohesion))

		velocity = velocity.Add(acc)
	}

	velocity = limit(velocity, f.maxVel)
	position := self.Position.Add(velocity)

	if f.wrap {
		return position, velocity
	}

	return f.reflect(position, velocity)
}

// offset returns other - self, the shortest way around the plane when wrapping.
func (f *Flock[T]) offset(self, other types.Vec2[T]) types.Vec2[T] {
	d := other.Sub(self)
	if !f.wrap {
		return d
	}

	return types.Vec2[T]{X: nearest(d.X, f.width), Y: nearest(d.Y, f.height)}
}

// steer returns the force turning velocity toward desired at full speed.
func (f *Flock[T]) steer(desired, velocity types.Vec2[T]) types.Vec2[T] {
	if desired.IsZero() {
		return types.Vec2[T]{}
	}

	return limit(desired.Normalize().Scale(f.maxVel).Sub(velocity), f.maxForce)
}

// reflect reverses an agent that left the plane and steps it back, then clamps
// it inside.
func (f *Flock[T]) reflect(position, velocity types.Vec2[T]) (types.Vec2[T], types.Vec2[T]) {
	var zero T

	if outside(position.X, f.width) || outside(position.Y, f.height) {
		velocity = velocity.Neg()
		position = position.Add(velocity).Add(velocity)
	}

	position.X = types.Max(zero, types.Min(position.X, f.width))
	position.Y = types.Max(zero, types.Min(position.Y, f.height))

	return position, velocity
}

func outside[T types.Scalar[T]](v, size T) bool {
	var zero T

	return v.Cmp(zero) < 0 || v.Cmp(size) > 0
}

func nearest[T types.Scalar[T]](d, size T) T {
	half := size.Div(size.FromInt(2))
	switch {
	case d.Cmp(half) > 0:
		return d.Sub(size)
	case d.Cmp(half.Neg()) < 0:
		return d.Add(size)
	default:
		return d
	}
}

func limit[T types.Scalar[T]](v types.Vec2[T], m T) types.Vec2[T] {
	if v.Len2().Cmp(m.Mul(m)) <= 0 {
		return v
	}

	return v.Normalize().Scale(m)
}
