// Package histogram builds per-partition agent-count grids used by load balancing.
//
// A histogram splits a partition into square cells whose side equals the balance
// step size. The boundary planner uses row and column sums to predict how many
// agents a candidate edge shrink would release without rescanning the agents.
package histogram

import (
	"github.com/arloliu/boidgrid/types"
)

// Histogram is a grid of agent counts, cells[h][w], for one partition.
type Histogram struct {
	cells  [][]int
	width  int
	height int
}

// Build creates the histogram of agents over bounds with square cells of side step.
//
// Each agent is placed in exactly one cell: the first width segment whose upper
// bound (w+1)*step + xmin exceeds its x coordinate, then the first height segment
// whose upper bound exceeds its y coordinate. Agents at or beyond the last upper
// bound fall into the last segment of that axis.
//
// The bounds dimensions must be multiples of step; partial trailing cells are not
// represented.
//
// Parameters:
//   - agents: Agents of the partition
//   - bounds: Partition bounds
//   - step: Cell side length (the balance step size)
//
// Returns:
//   - *Histogram: Cell counts; a zero-sized histogram when bounds are smaller than one cell
func Build[T types.Scalar[T]](agents []types.Agent[T], bounds types.Rect[T], step int) *Histogram {
	var zero T
	stepT := zero.FromInt(step)

	width := segments(bounds.Width(), step)
	height := segments(bounds.Height(), step)

	h := &Histogram{width: width, height: height, cells: make([][]int, height)}
	for i := range h.cells {
		h.cells[i] = make([]int, width)
	}
	if width == 0 || height == 0 {
		return h
	}

	for _, a := range agents {
		w := locate(a.Position.X, bounds.XMin, stepT, width)
		r := locate(a.Position.Y, bounds.YMin, stepT, height)
		h.cells[r][w]++
	}

	return h
}

// locate returns the first segment index whose upper bound exceeds v, clamped to
// the last segment.
func locate[T types.Scalar[T]](v, origin, step T, n int) int {
	upper := origin
	for i := 0; i < n; i++ {
		upper = upper.Add(step)
		if v.Cmp(upper) < 0 {
			return i
		}
	}

	return n - 1
}

func segments[T types.Scalar[T]](extent T, step int) int {
	if step <= 0 {
		return 0
	}

	n := int(extent.Float64()) / step
	if n < 0 {
		return 0
	}

	return n
}

// Width returns the number of width segments (columns).
func (h *Histogram) Width() int {
	return h.width
}

// Height returns the number of height segments (rows).
func (h *Histogram) Height() int {
	return h.height
}

// Cell returns the count at row r, column w.
func (h *Histogram) Cell(r, w int) int {
	return h.cells[r][w]
}

// Cells returns a copy of the cell grid.
func (h *Histogram) Cells() [][]int {
	out := make([][]int, len(h.cells))
	for i, row := range h.cells {
		out[i] = append([]int(nil), row...)
	}

	return out
}

// Total returns the number of agents in the histogram.
func (h *Histogram) Total() int {
	total := 0
	for _, row := range h.cells {
		for _, c := range row {
			total += c
		}
	}

	return total
}

// RowOrColSum returns the agent count of the depth-th row or column counted inward
// from edge: top and bottom select rows, left and right select columns. Depth 0 is
// the row or column touching the edge. Out-of-range depths return 0.
//
// Example:
//
//	h.RowOrColSum(types.EdgeTop, 0)   // first row
//	h.RowOrColSum(types.EdgeRight, 0) // last column
func (h *Histogram) RowOrColSum(edge types.Edge, depth int) int {
	if depth < 0 {
		return 0
	}

	switch edge {
	case types.EdgeTop:
		return h.rowSum(depth)
	case types.EdgeRight:
		return h.colSum(h.width - 1 - depth)
	case types.EdgeBottom:
		return h.rowSum(h.height - 1 - depth)
	case types.EdgeLeft:
		return h.colSum(depth)
	default:
		return 0
	}
}

func (h *Histogram) rowSum(r int) int {
	if r < 0 || r >= h.height {
		return 0
	}

	sum := 0
	for _, c := range h.cells[r] {
		sum += c
	}

	return sum
}

func (h *Histogram) colSum(w int) int {
	if w < 0 || w >= h.width {
		return 0
	}

	sum := 0
	for _, row := range h.cells {
		sum += row[w]
	}

	return sum
}
