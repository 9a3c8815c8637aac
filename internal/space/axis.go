package space

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidAxis is returned when axis bounds or increments cannot produce a grid.
var ErrInvalidAxis = errors.New("invalid axis")

// indexTolerance absorbs rounding when a position is mapped back to an index.
const indexTolerance = 1e-9

// Axis is one dimension of a Space. Construct it with NewAxis; the zero value
// has no subdivisions.
type Axis struct {
	min       float64
	max       float64
	increment float64
	margin    float64

	subdivisions int
	scale        float64
	offset       float64
}

// NewAxis derives subdivisions, scale and offset for [min, max] stepped by
// increment and stretched by margin.
func NewAxis(min, max, increment, margin float64) (Axis, error) {
	if math.IsNaN(min) || math.IsNaN(max) || max <= min {
		return Axis{}, fmt.Errorf("%w: max %g must exceed min %g", ErrInvalidAxis, max, min)
	}
	if increment <= 0 {
		return Axis{}, fmt.Errorf("%w: increment must be positive, got %g", ErrInvalidAxis, increment)
	}
	if margin <= 0 {
		return Axis{}, fmt.Errorf("%w: margin must be positive, got %g", ErrInvalidAxis, margin)
	}
	subdivisions := int((max - min) / increment)
	if subdivisions < 1 {
		return Axis{}, fmt.Errorf("%w: increment %g leaves no subdivisions in [%g, %g]", ErrInvalidAxis, increment, min, max)
	}
	return Axis{
		min:          min,
		max:          max,
		increment:    increment,
		margin:       margin,
		subdivisions: subdivisions,
		scale:        (max - min) * margin / float64(subdivisions),
		offset:       -min,
	}, nil
}

// MustAxis is NewAxis for package-level reference values. It panics on error.
func MustAxis(min, max, increment, margin float64) Axis {
	a, err := NewAxis(min, max, increment, margin)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Axis) Min() float64       { return a.min }
func (a Axis) Max() float64       { return a.max }
func (a Axis) Increment() float64 { return a.increment }
func (a Axis) Margin() float64    { return a.margin }
func (a Axis) Subdivisions() int  { return a.subdivisions }
func (a Axis) Scale() float64     { return a.scale }
func (a Axis) Offset() float64    { return a.offset }

// Position maps grid index i to a real coordinate. Indices outside
// [0, Subdivisions] extrapolate linearly.
func (a Axis) Position(i int) float64 {
	return float64(i)*a.scale - a.offset
}

// Index maps a real coordinate back to the grid index at or below it.
// ok is false when the index lies outside [0, Subdivisions].
func (a Axis) Index(v float64) (i int, ok bool) {
	if a.scale == 0 || math.IsNaN(v) {
		return 0, false
	}
	f := math.Floor((v+a.offset)/a.scale + indexTolerance)
	if f < 0 || f > float64(a.subdivisions) {
		return int(f), false
	}
	return int(f), true
}

// Extent is the real-coordinate length spanned by all indices.
func (a Axis) Extent() float64 {
	return float64(a.subdivisions) * a.scale
}

func (a Axis) String() string {
	return fmt.Sprintf("[%g,%g] step %g (%d subdivisions, scale %g)", a.min, a.max, a.increment, a.subdivisions, a.scale)
}
