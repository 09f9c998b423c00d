package types

// Vec2 is a two-dimensional vector over a Scalar.
type Vec2[T Scalar[T]] struct {
	X T `json:"x" yaml:"x"`
	Y T `json:"y" yaml:"y"`
}

// V returns a vector from float64 components, converted with T's rounding rules.
func V[T Scalar[T]](x, y float64) Vec2[T] {
	var zero T
	return Vec2[T]{X: zero.FromFloat64(x), Y: zero.FromFloat64(y)}
}

// Add returns v + o.
func (v Vec2[T]) Add(o Vec2[T]) Vec2[T] {
	return Vec2[T]{X: v.X.Add(o.X), Y: v.Y.Add(o.Y)}
}

// Sub returns v - o.
func (v Vec2[T]) Sub(o Vec2[T]) Vec2[T] {
	return Vec2[T]{X: v.X.Sub(o.X), Y: v.Y.Sub(o.Y)}
}

// Scale returns v multiplied by s.
func (v Vec2[T]) Scale(s T) Vec2[T] {
	return Vec2[T]{X: v.X.Mul(s), Y: v.Y.Mul(s)}
}

// Div returns v divided by s.
func (v Vec2[T]) Div(s T) Vec2[T] {
	return Vec2[T]{X: v.X.Div(s), Y: v.Y.Div(s)}
}

// Neg returns -v.
func (v Vec2[T]) Neg() Vec2[T] {
	return Vec2[T]{X: v.X.Neg(), Y: v.Y.Neg()}
}

// Len2 returns the squared length of v.
func (v Vec2[T]) Len2() T {
	return v.X.Mul(v.X).Add(v.Y.Mul(v.Y))
}

// Len returns the length of v.
func (v Vec2[T]) Len() T {
	return v.Len2().Sqrt()
}

// IsZero reports whether both components are zero.
func (v Vec2[T]) IsZero() bool {
	var zero T
	return v.X.Cmp(zero) == 0 && v.Y.Cmp(zero) == 0
}

// Normalize returns v scaled to unit length. The zero vector is returned unchanged.
func (v Vec2[T]) Normalize() Vec2[T] {
	var zero T
	l := v.Len()
	if l.Cmp(zero) == 0 {
		return v
	}

	return v.Div(l)
}

// Floats returns the components as float64.
func (v Vec2[T]) Floats() (float64, float64) {
	return v.X.Float64(), v.Y.Float64()
}

// Wrap returns v with X folded into [0, width) and Y into [0, height).
// A non-positive size leaves that coordinate unchanged.
func (v Vec2[T]) Wrap(width, height T) Vec2[T] {
	return Vec2[T]{X: wrapCoord(v.X, width), Y: wrapCoord(v.Y, height)}
}

func wrapCoord[T Scalar[T]](v, size T) T {
	var zero T
	if size.Cmp(zero) <= 0 {
		return v
	}
	for v.Cmp(zero) < 0 {
		v = v.Add(size)
	}
	for v.Cmp(size) >= 0 {
		v = v.Sub(size)
	}

	return v
}
