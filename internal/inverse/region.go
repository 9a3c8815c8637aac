package inverse

import (
	"fmt"

	"github.com/golang/geo/r2"

	"github.com/banshee-data/displaymap/internal/space"
)

// Box is a bounding box in floored physical coordinates. Top is the smaller Y.
type Box struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

// Center is the midpoint of the box.
func (b Box) Center() r2.Point {
	return r2.Point{X: float64(b.Left+b.Right) / 2, Y: float64(b.Top+b.Bottom) / 2}
}

func (b Box) String() string {
	return fmt.Sprintf("(%d, %d, %d, %d)", b.Left, b.Top, b.Right, b.Bottom)
}

// Region is the resolution result for one virtual coordinate.
type Region struct {
	Index   space.Index
	Virtual r2.Point
	Box     Box
	// Found is false when no physical cell maps to the coordinate; Box is
	// then zero.
	Found bool
	// Degenerate marks a box collapsed to a single floored physical point.
	Degenerate bool
	// Cells counts the matching physical cells.
	Cells int
}

// Map holds one Region per virtual index in row-major order.
type Map struct {
	width, height int
	regions       []Region
}

// NewMap rebuilds a Map from regions listed in row-major order, as returned
// by Regions.
func NewMap(width, height int, regions []Region) (*Map, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("map dimensions must be positive, got %dx%d", width, height)
	}
	if len(regions) != width*height {
		return nil, fmt.Errorf("map %dx%d needs %d regions, got %d", width, height, width*height, len(regions))
	}
	for i, r := range regions {
		want := space.Index{X: i % width, Y: i / width}
		if r.Index != want {
			return nil, fmt.Errorf("region %d has index %v, want %v", i, r.Index, want)
		}
	}
	return &Map{width: width, height: height, regions: append([]Region(nil), regions...)}, nil
}

// Width is the number of virtual columns.
func (m *Map) Width() int { return m.width }

// Height is the number of virtual rows.
func (m *Map) Height() int { return m.height }

// Lookup returns the region for a virtual index.
func (m *Map) Lookup(idx space.Index) (Region, error) {
	if idx.X < 0 || idx.X >= m.width || idx.Y < 0 || idx.Y >= m.height {
		return Region{}, fmt.Errorf("%w: %v not in %dx%d", ErrOutOfRange, idx, m.width, m.height)
	}
	return m.regions[idx.Y*m.width+idx.X], nil
}

// Regions returns a copy of every region in row-major order.
func (m *Map) Regions() []Region {
	return append([]Region(nil), m.regions...)
}

// Missing returns the regions no physical cell maps to.
func (m *Map) Missing() []Region {
	return m.filter(func(r Region) bool { return !r.Found })
}

// Degenerate returns the regions whose box collapsed to a point.
func (m *Map) Degenerate() []Region {
	return m.filter(func(r Region) bool { return r.Degenerate })
}

func (m *Map) filter(keep func(Region) bool) []Region {
	var out []Region
	for _, r := range m.regions {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}
