package source

import (
	"context"
	"fmt"
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/arloliu/boidgrid/types"
)

const (
	defaultNoiseFrequency = 2.0
	defaultNoiseOctaves   = 3
	defaultNoiseSharpness = 4.0

	// maxNoiseAttempts bounds rejection sampling per agent
	maxNoiseAttempts = 1000
)

// Noise places agents in clusters following a seeded simplex noise field.
//
// Candidate positions are drawn uniformly over the plane and accepted with
// probability density^Sharpness, where density is octave simplex noise in [0, 1].
// Higher sharpness gives tighter clusters and more overloaded partitions.
type Noise struct {
	total       int
	seed        int64
	frequency   float64
	octaves     int
	persistence float64
	sharpness   float64
}

var _ types.AgentSource = (*Noise)(nil)

// NoiseOption configures a Noise source.
type NoiseOption func(*Noise)

// NewNoise creates a new clustered agent source.
//
// Parameters:
//   - total: Number of agents
//   - seed: Seed of the noise field and the placement
//   - opts: Optional configuration (WithFrequency, WithOctaves, WithSharpness)
//
// Returns:
//   - *Noise: Initialized noise source
func NewNoise(total int, seed int64, opts ...NoiseOption) *Noise {
	n := &Noise{
		total:       total,
		seed:        seed,
		frequency:   defaultNoiseFrequency,
		octaves:     defaultNoiseOctaves,
		persistence: 0.5,
		sharpness:   defaultNoiseSharpness,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(n)
		}
	}

	if n.octaves < 1 {
		n.octaves = 1
	}
	if n.sharpness < 0 {
		n.sharpness = 0
	}

	return n
}

// WithFrequency sets the number of noise periods across the plane (default: 2).
func WithFrequency(f float64) NoiseOption {
	return func(n *Noise) {
		n.frequency = f
	}
}

// WithOctaves sets the number of noise octaves (default: 3).
func WithOctaves(octaves int) NoiseOption {
	return func(n *Noise) {
		n.octaves = octaves
	}
}

// WithSharpness sets the exponent applied to the density (default: 4).
// Zero gives a uniform placement over the plane.
func WithSharpness(s float64) NoiseOption {
	return func(n *Noise) {
		n.sharpness = s
	}
}

// Agents generates the agents for layout, with IDs 1..total.
//
// Returns:
//   - []types.AgentSpec: Agents inside the plane
//   - error: ctx error, or an error for an unusable layout
func (n *Noise) Agents(ctx context.Context, layout types.Layout) ([]types.AgentSpec, error) {
	if layout.Width <= 0 || layout.Height <= 0 {
		return nil, fmt.Errorf("noise source: unusable layout %+v", layout)
	}

	field := opensimplex.NewNormalized(n.seed)
	rnd := newStream(n.seed + 1)
	maxVel := int(math.Floor(layout.MaxVelocity))

	agents := make([]types.AgentSpec, 0, n.total)
	for i := range n.total {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var x, y int
		for range maxNoiseAttempts {
			x = rnd.intn(0, layout.Width-1)
			y = rnd.intn(0, layout.Height-1)

			d := n.density(field, float64(x)/float64(layout.Width), float64(y)/float64(layout.Height))
			if rnd.float() < math.Pow(d, n.sharpness) {
				break
			}
		}

		agents = append(agents, types.AgentSpec{
			ID: uint64(i + 1), //nolint:gosec // G115: non-negative
			X:  float64(x),
			Y:  float64(y),
			VX: float64(rnd.intn(-maxVel, maxVel)),
			VY: float64(rnd.intn(-maxVel, maxVel)),
		})
	}

	return agents, nil
}

// density returns octave noise in [0, 1] at plane-relative coordinates (u, v).
func (n *Noise) density(field opensimplex.Noise, u, v float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0
	frequency := n.frequency

	for range n.octaves {
		total += field.Eval2(u*frequency, v*frequency) * amplitude
		maxVal += amplitude
		amplitude *= n.persistence
		frequency *= 2
	}

	return total / maxVal
}
