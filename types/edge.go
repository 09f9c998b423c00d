package types

// Edge identifies one side of a partition rectangle.
type Edge int

const (
	// EdgeTop is the minimum-Y side.
	EdgeTop Edge = iota
	// EdgeRight is the maximum-X side.
	EdgeRight
	// EdgeBottom is the maximum-Y side.
	EdgeBottom
	// EdgeLeft is the minimum-X side.
	EdgeLeft
)

// Edges lists all edges in identifier order.
var Edges = [4]Edge{EdgeTop, EdgeRight, EdgeBottom, EdgeLeft}

// Coord returns the index into [XMin, YMin, XMax, YMax] that a change of this edge
// mutates: (e+1) mod 4.
func (e Edge) Coord() int {
	return (int(e) + 1) % 4
}

// Horizontal reports whether the edge is the top or bottom edge.
func (e Edge) Horizontal() bool {
	return e == EdgeTop || e == EdgeBottom
}

// String returns the edge name.
func (e Edge) String() string {
	switch e {
	case EdgeTop:
		return "top"
	case EdgeRight:
		return "right"
	case EdgeBottom:
		return "bottom"
	case EdgeLeft:
		return "left"
	default:
		return "unknown"
	}
}

// EdgeSteps holds a step count per edge, indexed by Edge.
type EdgeSteps [4]int

// Any reports whether any edge has a non-zero step count.
func (s EdgeSteps) Any() bool {
	return s[EdgeTop] != 0 || s[EdgeRight] != 0 || s[EdgeBottom] != 0 || s[EdgeLeft] != 0
}

// Direction is a neighbor slot in the clockwise order [NW, N, NE, E, SE, S, SW, W].
type Direction int

const (
	NorthWest Direction = iota
	North
	NorthEast
	East
	SouthEast
	South
	SouthWest
	West
)

// String returns the compass abbreviation of the direction.
func (d Direction) String() string {
	switch d {
	case NorthWest:
		return "NW"
	case North:
		return "N"
	case NorthEast:
		return "NE"
	case East:
		return "E"
	case SouthEast:
		return "SE"
	case South:
		return "S"
	case SouthWest:
		return "SW"
	case West:
		return "W"
	default:
		return "unknown"
	}
}

// GridPos is a partition's fixed (row, col) position in the grid.
type GridPos struct {
	Row int `json:"row" yaml:"row"`
	Col int `json:"col" yaml:"col"`
}
