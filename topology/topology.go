// Package topology resolves partition neighbors on the N×N grid.
//
// Partition IDs are 1-based and row-major: ID = row*N + col + 1. Neighbor lists use
// the clockwise order [NW, N, NE, E, SE, S, SW, W]. In toroidal mode every partition
// has eight neighbors because rows and columns wrap; in bounded mode slots that
// would fall outside the grid hold 0.
package topology

import (
	"fmt"

	"github.com/arloliu/boidgrid/types"
)

// MaxGridSize is the largest supported number of partitions per row.
const MaxGridSize = 6

// Neighbors is an ordered neighbor list indexed by types.Direction.
type Neighbors [8]uint32

// offsets holds the (row, col) delta of each direction.
var offsets = [8][2]int{
	{-1, -1}, // NW
	{-1, 0},  // N
	{-1, 1},  // NE
	{0, 1},   // E
	{1, 1},   // SE
	{1, 0},   // S
	{1, -1},  // SW
	{0, -1},  // W
}

// Resolver holds the memoized neighbor table for one grid.
//
// A Resolver is immutable after construction and safe for concurrent use.
type Resolver struct {
	size    int
	wrap    bool
	entries []Neighbors
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithWrap selects toroidal (true, the default) or bounded (false) neighbor resolution.
func WithWrap(wrap bool) Option {
	return func(r *Resolver) {
		r.wrap = wrap
	}
}

// NewResolver builds the neighbor table for an N×N grid.
//
// Parameters:
//   - n: Partitions per row (1..MaxGridSize)
//   - opts: Optional configuration
//
// Returns:
//   - *Resolver: Memoized resolver
//   - error: ErrInvalidGridSize if n is out of range
//
// Example:
//
//	r, _ := topology.NewResolver(3)
//	r.Neighbors(5) // [1 2 3 6 9 8 7 4]
func NewResolver(n int, opts ...Option) (*Resolver, error) {
	if n < 1 || n > MaxGridSize {
		return nil, fmt.Errorf("%w: %d (allowed 1..%d)", types.ErrInvalidGridSize, n, MaxGridSize)
	}

	r := &Resolver{size: n, wrap: true}
	for _, opt := range opts {
		opt(r)
	}

	r.entries = make([]Neighbors, n*n)
	for i := range r.entries {
		r.entries[i] = resolve(uint32(i+1), n, r.wrap)
	}

	return r, nil
}

// Size returns the number of partitions per row.
func (r *Resolver) Size() int {
	return r.size
}

// Count returns the number of partitions in the grid.
func (r *Resolver) Count() int {
	return r.size * r.size
}

// Wrap reports whether the grid is toroidal.
func (r *Resolver) Wrap() bool {
	return r.wrap
}

// Neighbors returns the memoized neighbor list of partition id.
// It panics if id is not in 1..Count(); use Lookup for untrusted input.
func (r *Resolver) Neighbors(id uint32) Neighbors {
	return r.entries[id-1]
}

// Lookup returns the neighbor list of partition id or ErrInvalidPartitionID.
func (r *Resolver) Lookup(id uint32) (Neighbors, error) {
	if id < 1 || int(id) > len(r.entries) {
		return Neighbors{}, fmt.Errorf("%w: %d (grid has %d partitions)", types.ErrInvalidPartitionID, id, len(r.entries))
	}

	return r.entries[id-1], nil
}

// Distinct returns the unique non-zero neighbor IDs of id, excluding id itself, in
// direction order. On grids smaller than 3×3 several directions resolve to the same
// partition; Distinct collapses them.
func (r *Resolver) Distinct(id uint32) []uint32 {
	nbrs := r.entries[id-1]
	out := make([]uint32, 0, len(nbrs))
	for _, n := range nbrs {
		if n == 0 || n == id {
			continue
		}
		dup := false
		for _, seen := range out {
			if seen == n {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, n)
		}
	}

	return out
}

// Position returns the grid position of partition id.
func (r *Resolver) Position(id uint32) types.GridPos {
	return Position(id, r.size)
}

// ValidEdge reports whether the partition at pos may move the given edge.
func (r *Resolver) ValidEdge(edge types.Edge, pos types.GridPos) bool {
	return ValidEdge(edge, pos, r.size)
}

// Resolve computes the toroidal neighbor list of partition id on an N×N grid.
//
// Parameters:
//   - id: Partition ID (1..n*n)
//   - n: Partitions per row
//
// Returns:
//   - Neighbors: IDs in [NW, N, NE, E, SE, S, SW, W] order
//   - error: ErrInvalidGridSize or ErrInvalidPartitionID
func Resolve(id uint32, n int) (Neighbors, error) {
	if n < 1 || n > MaxGridSize {
		return Neighbors{}, fmt.Errorf("%w: %d (allowed 1..%d)", types.ErrInvalidGridSize, n, MaxGridSize)
	}
	if id < 1 || int(id) > n*n {
		return Neighbors{}, fmt.Errorf("%w: %d (grid has %d partitions)", types.ErrInvalidPartitionID, id, n*n)
	}

	return resolve(id, n, true), nil
}

func resolve(id uint32, n int, wrap bool) Neighbors {
	pos := Position(id, n)

	var out Neighbors
	for d, off := range offsets {
		row, col := pos.Row+off[0], pos.Col+off[1]
		if wrap {
			row = (row + n) % n
			col = (col + n) % n
		} else if row < 0 || row >= n || col < 0 || col >= n {
			continue
		}
		out[d] = ID(types.GridPos{Row: row, Col: col}, n)
	}

	return out
}

// Position returns the (row, col) of partition id on an N×N grid.
func Position(id uint32, n int) types.GridPos {
	i := int(id) - 1
	return types.GridPos{Row: i / n, Col: i % n}
}

// ID returns the partition ID at pos on an N×N grid.
func ID(pos types.GridPos, n int) uint32 {
	return uint32(pos.Row*n + pos.Col + 1)
}

// ValidEdge reports whether the partition at pos may move the given edge.
//
// An edge that lies on the outer boundary of the simulation plane is fixed: corner
// partitions have two valid edges, other border partitions three, interior
// partitions four.
func ValidEdge(edge types.Edge, pos types.GridPos, n int) bool {
	switch edge {
	case types.EdgeTop:
		return pos.Row > 0
	case types.EdgeRight:
		return pos.Col < n-1
	case types.EdgeBottom:
		return pos.Row < n-1
	case types.EdgeLeft:
		return pos.Col > 0
	default:
		return false
	}
}
