package space

import (
	"fmt"

	"github.com/golang/geo/r2"
)

// Index is an integer grid coordinate.
type Index struct {
	X, Y int
}

func (i Index) String() string {
	return fmt.Sprintf("(%d,%d)", i.X, i.Y)
}

// Space pairs an X and a Y axis.
type Space struct {
	X Axis
	Y Axis
}

// New builds a Space from two axes.
func New(x, y Axis) Space {
	return Space{X: x, Y: y}
}

// Position is the affine transform of a grid index into real coordinates.
func (s Space) Position(idx Index) r2.Point {
	return r2.Point{X: s.X.Position(idx.X), Y: s.Y.Position(idx.Y)}
}

// IndexOf maps a real coordinate back to its grid index.
func (s Space) IndexOf(p r2.Point) (Index, bool) {
	x, okX := s.X.Index(p.X)
	y, okY := s.Y.Index(p.Y)
	return Index{X: x, Y: y}, okX && okY
}

// Contains reports whether idx lies in [0, X subdivisions] x [0, Y subdivisions].
func (s Space) Contains(idx Index) bool {
	return idx.X >= 0 && idx.X <= s.X.Subdivisions() &&
		idx.Y >= 0 && idx.Y <= s.Y.Subdivisions()
}

// Width is the number of grid columns (X subdivisions + 1).
func (s Space) Width() int { return s.X.Subdivisions() + 1 }

// Height is the number of grid rows (Y subdivisions + 1).
func (s Space) Height() int { return s.Y.Subdivisions() + 1 }

// Points is the number of grid coordinates in the space.
func (s Space) Points() int { return s.Width() * s.Height() }

// Bounds is the rectangle spanned by index (0,0) and the maximum index.
func (s Space) Bounds() r2.Rect {
	return r2.RectFromPoints(
		s.Position(Index{}),
		s.Position(Index{X: s.X.Subdivisions(), Y: s.Y.Subdivisions()}),
	)
}

// Each calls fn for every grid index in row-major order.
func (s Space) Each(fn func(idx Index)) {
	for y := 0; y <= s.Y.Subdivisions(); y++ {
		for x := 0; x <= s.X.Subdivisions(); x++ {
			fn(Index{X: x, Y: y})
		}
	}
}

// Transform converts grid indices of both spaces into real coordinates.
type Transform struct {
	Physical Space
	Virtual  Space
}

// ToPhysical maps a normalised physical grid index to physical coordinates.
func (t Transform) ToPhysical(idx Index) r2.Point {
	return t.Physical.Position(idx)
}

// ToVirtual maps a normalised virtual grid index to virtual coordinates.
func (t Transform) ToVirtual(idx Index) r2.Point {
	return t.Virtual.Position(idx)
}

// CellExtent is the physical length covered by one virtual grid step on each axis.
func (t Transform) CellExtent() r2.Point {
	return r2.Point{
		X: t.Physical.X.Extent() / float64(t.Virtual.X.Subdivisions()),
		Y: t.Physical.Y.Extent() / float64(t.Virtual.Y.Subdivisions()),
	}
}

// Reference physical and virtual bounds: a 120x100 target display fed by a
// 32x16 emulator screen, both stepped in whole units.
const (
	PhysicalMargin = 1.05
	VirtualMargin  = 1.0
)

// Reference returns the transform between the reference display spaces.
func Reference() Transform {
	return Transform{
		Physical: New(MustAxis(0, 120, 1, PhysicalMargin), MustAxis(0, 100, 1, PhysicalMargin)),
		Virtual:  New(MustAxis(0, 32, 1, VirtualMargin), MustAxis(0, 16, 1, VirtualMargin)),
	}
}
