package types

import (
	"math"
	"strconv"
)

// Scalar is the numeric representation used for agent positions, velocities and
// partition bounds.
//
// All arithmetic goes through methods so that a fixed-point implementation can
// specify its own rounding. Two implementations are provided:
//   - Float64: IEEE-754 double precision
//   - Fixed: Q47.16 fixed point; Mul, Div and Sqrt truncate toward zero
//
// FromInt and FromFloat64 ignore their receiver and exist so that generic code can
// construct values without reflection:
//
//	var zero T
//	step := zero.FromInt(20)
type Scalar[T any] interface {
	Add(o T) T
	Sub(o T) T
	Mul(o T) T
	Div(o T) T
	Neg() T
	Sqrt() T

	// Cmp returns -1, 0 or +1.
	Cmp(o T) int

	Float64() float64
	FromFloat64(f float64) T
	FromInt(i int) T
}

// Float64 is a Scalar backed by float64.
type Float64 float64

var _ Scalar[Float64] = Float64(0)

func (a Float64) Add(o Float64) Float64 { return a + o }
func (a Float64) Sub(o Float64) Float64 { return a - o }
func (a Float64) Mul(o Float64) Float64 { return a * o }
func (a Float64) Div(o Float64) Float64 { return a / o }
func (a Float64) Neg() Float64 { return -a }

// Sqrt returns the square root, or 0 for non-positive values.
func (a Float64) Sqrt() Float64 {
	if a <= 0 {
		return 0
	}

	return Float64(math.Sqrt(float64(a)))
}

func (a Float64) Cmp(o Float64) int {
	switch {
	case a < o:
		return -1
	case a > o:
		return 1
	default:
		return 0
	}
}

func (a Float64) Float64() float64 { return float64(a) }
func (Float64) FromFloat64(f float64) Float64 { return Float64(f) }
func (Float64) FromInt(i int) Float64 { return Float64(i) }
func (a Float64) String() string { return strconv.FormatFloat(float64(a), 'f', -1, 64) }

// FixedFracBits is the number of fractional bits in a Fixed value.
const FixedFracBits = 16

const fixedOne int64 = 1 << FixedFracBits

// Fixed is a signed Q47.16 fixed-point Scalar.
//
// It mirrors the arithmetic of fixed-point hardware so simulation results can be
// compared bit for bit against a hardware reference. Conversions from float64 and the
// Mul, Div and Sqrt operations truncate toward zero. Division by zero panics, as it
// does for Go integers.
type Fixed int64

var _ Scalar[Fixed] = Fixed(0)

func (a Fixed) Add(o Fixed) Fixed { return a + o }
func (a Fixed) Sub(o Fixed) Fixed { return a - o }
func (a Fixed) Neg() Fixed { return -a }

// Mul multiplies two fixed-point values, truncating the result toward zero.
func (a Fixed) Mul(o Fixed) Fixed {
	return Fixed(int64(a) * int64(o) / fixedOne)
}

// Div divides two fixed-point values, truncating the result toward zero.
func (a Fixed) Div(o Fixed) Fixed {
	return Fixed(int64(a) * fixedOne / int64(o))
}

// Sqrt returns the integer square root in fixed point, truncated toward zero.
// Non-positive values return 0.
func (a Fixed) Sqrt() Fixed {
	if a <= 0 {
		return 0
	}

	n := uint64(a) << FixedFracBits
	x := n
	y := (x + 1) / 2
	for y < x {
		x = y
		y = (x + n/x) / 2
	}

	return Fixed(x)
}

func (a Fixed) Cmp(o Fixed) int {
	switch {
	case a < o:
		return -1
	case a > o:
		return 1
	default:
		return 0
	}
}

func (a Fixed) Float64() float64 { return float64(a) / float64(fixedOne) }

// FromFloat64 converts f to fixed point, truncating toward zero.
func (Fixed) FromFloat64(f float64) Fixed { return Fixed(int64(f * float64(fixedOne))) }

func (Fixed) FromInt(i int) Fixed { return Fixed(int64(i) * fixedOne) }

func (a Fixed) String() string { return strconv.FormatFloat(a.Float64(), 'f', -1, 64) }

// Min returns the smaller of a and b.
func Min[T Scalar[T]](a, b T) T {
	if a.Cmp(b) <= 0 {
		return a
	}

	return b
}

// Max returns the larger of a and b.
func Max[T Scalar[T]](a, b T) T {
	if a.Cmp(b) >= 0 {
		return a
	}

	return b
}
