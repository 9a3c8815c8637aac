package grid

import (
	"fmt"

	"github.com/golang/geo/r2"

	"github.com/banshee-data/displaymap/internal/space"
)

// Pair bundles the X and Y grids sampled over the same physical space.
type Pair struct {
	X *Grid
	Y *Grid
}

// Validate checks both grids exist and match the physical space dimensions.
func (p Pair) Validate(physical space.Space) error {
	for _, g := range []*Grid{p.X, p.Y} {
		if g == nil {
			return fmt.Errorf("missing grid in pair")
		}
		if g.Width() != physical.Width() || g.Height() != physical.Height() {
			return fmt.Errorf("%s grid is %dx%d, physical space is %dx%d",
				g.Axis(), g.Width(), g.Height(), physical.Width(), physical.Height())
		}
	}
	return nil
}

// VirtualAt converts a physical coordinate into the virtual coordinate shown
// there, the lookup a device performs against the embedded tables. ok is
// false outside the physical space.
func (p Pair) VirtualAt(physical space.Space, pos r2.Point) (space.Index, bool) {
	idx, ok := physical.IndexOf(pos)
	if !ok {
		return space.Index{}, false
	}
	return space.Index{X: p.X.Bucket(idx.X, idx.Y), Y: p.Y.Bucket(idx.X, idx.Y)}, true
}
