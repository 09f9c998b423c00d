package types

// Rect is an axis-aligned partition rectangle.
//
// The bounds array order [XMin, YMin, XMax, YMax] is significant: Edge.Coord maps an
// edge to the slot its movement mutates.
type Rect[T Scalar[T]] struct {
	XMin T `json:"xmin" yaml:"xmin"`
	YMin T `json:"ymin" yaml:"ymin"`
	XMax T `json:"xmax" yaml:"xmax"`
	YMax T `json:"ymax" yaml:"ymax"`
}

// RectFromInts builds a Rect from integer bounds.
func RectFromInts[T Scalar[T]](xmin, ymin, xmax, ymax int) Rect[T] {
	var zero T
	return Rect[T]{
		XMin: zero.FromInt(xmin),
		YMin: zero.FromInt(ymin),
		XMax: zero.FromInt(xmax),
		YMax: zero.FromInt(ymax),
	}
}

// Width returns XMax - XMin.
func (r Rect[T]) Width() T {
	return r.XMax.Sub(r.XMin)
}

// Height returns YMax - YMin.
func (r Rect[T]) Height() T {
	return r.YMax.Sub(r.YMin)
}

// Coord returns the bound at index i of [XMin, YMin, XMax, YMax].
func (r Rect[T]) Coord(i int) T {
	switch i {
	case 0:
		return r.XMin
	case 1:
		return r.YMin
	case 2:
		return r.XMax
	default:
		return r.YMax
	}
}

// WithCoord returns a copy of r with the bound at index i replaced by v.
func (r Rect[T]) WithCoord(i int, v T) Rect[T] {
	switch i {
	case 0:
		r.XMin = v
	case 1:
		r.YMin = v
	case 2:
		r.XMax = v
	default:
		r.YMax = v
	}

	return r
}

// ContainsInclusive reports whether p lies inside r, bounds included.
func (r Rect[T]) ContainsInclusive(p Vec2[T]) bool {
	return p.X.Cmp(r.XMin) >= 0 && p.X.Cmp(r.XMax) <= 0 &&
		p.Y.Cmp(r.YMin) >= 0 && p.Y.Cmp(r.YMax) <= 0
}

// Floats returns the bounds as [xmin, ymin, xmax, ymax] in float64.
func (r Rect[T]) Floats() [4]float64 {
	return [4]float64{r.XMin.Float64(), r.YMin.Float64(), r.XMax.Float64(), r.YMax.Float64()}
}
