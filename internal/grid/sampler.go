package grid

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/displaymap/internal/monitoring"
	"github.com/banshee-data/displaymap/internal/space"
	"github.com/banshee-data/displaymap/internal/surface"
)

// Options control a sampling pass.
type Options struct {
	// Axis labels the produced grid.
	Axis AxisName
	// Floor stores floored values instead of the raw interpolated heights.
	Floor bool
}

// Sample queries oracle once per physical grid cell and stores the result at
// the cell's index. The first oracle failure aborts the pass; with spaces
// aligned to the sample hull there are none.
func Sample(ctx context.Context, oracle surface.Oracle, physical space.Space, opts Options) (*Grid, error) {
	if oracle == nil {
		return nil, fmt.Errorf("nil oracle")
	}
	w, h := physical.Width(), physical.Height()
	data := mat.NewDense(h, w, nil)
	for y := 0; y < h; y++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for x := 0; x < w; x++ {
			idx := space.Index{X: x, Y: y}
			pos := physical.Position(idx)
			v, err := oracle.Interpolate(pos)
			if err != nil {
				return nil, fmt.Errorf("sample %s grid at %v (%g, %g): %w", opts.Axis, idx, pos.X, pos.Y, err)
			}
			if opts.Floor {
				v = math.Floor(v)
			}
			data.Set(y, x, v)
		}
	}
	g := &Grid{axis: opts.Axis, method: oracle.Title(), data: data}
	lo, hi := g.Range()
	monitoring.Logf("sampled %d cells for %s axis using %s, values in [%.3f, %.3f]", g.Len(), opts.Axis, oracle.Title(), lo, hi)
	return g, nil
}

// PhysicalRange returns the smallest and largest physical coordinate along
// axis among the cells whose floored value equals bucket. ok is false when
// no cell shows that bucket.
func PhysicalRange(g *Grid, physical space.Space, axis AxisName, bucket int) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			if g.Bucket(x, y) != bucket {
				continue
			}
			pos := physical.Position(space.Index{X: x, Y: y})
			c := pos.X
			if axis == AxisY {
				c = pos.Y
			}
			lo = math.Min(lo, c)
			hi = math.Max(hi, c)
			ok = true
		}
	}
	if !ok {
		return 0, 0, false
	}
	return lo, hi, true
}
