package inverse

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/golang/geo/r2"
	"golang.org/x/sync/errgroup"

	"github.com/banshee-data/displaymap/internal/grid"
	"github.com/banshee-data/displaymap/internal/monitoring"
	"github.com/banshee-data/displaymap/internal/space"
)

var (
	// ErrOutOfRange is returned for virtual indices outside the virtual space.
	ErrOutOfRange = errors.New("virtual index out of range")
	// ErrGridMismatch is returned when a sample grid does not cover the physical space.
	ErrGridMismatch = errors.New("sample grid does not match physical space")
)

// Resolver inverts a pair of sample grids.
type Resolver struct {
	Transform space.Transform
	// Workers bounds the number of virtual rows resolved concurrently.
	// Values below 2 resolve on the calling goroutine.
	Workers int
}

// buckets holds the floored grid values, row-major, shared read-only by workers.
type buckets struct {
	width int
	x, y  []int64
}

func bucket(v float64) int64 {
	return int64(math.Floor(v))
}

func (r Resolver) buckets(xg, yg *grid.Grid) (*buckets, error) {
	phys := r.Transform.Physical
	for _, g := range []*grid.Grid{xg, yg} {
		if g == nil {
			return nil, fmt.Errorf("%w: nil grid", ErrGridMismatch)
		}
		if g.Width() != phys.Width() || g.Height() != phys.Height() {
			return nil, fmt.Errorf("%w: %s grid is %dx%d, want %dx%d",
				ErrGridMismatch, g.Axis(), g.Width(), g.Height(), phys.Width(), phys.Height())
		}
	}
	b := &buckets{width: xg.Width()}
	for _, v := range xg.Values() {
		b.x = append(b.x, bucket(v))
	}
	for _, v := range yg.Values() {
		b.y = append(b.y, bucket(v))
	}
	return b, nil
}

func (r Resolver) resolve(b *buckets, idx space.Index) Region {
	pos := r.Transform.ToVirtual(idx)
	region := Region{Index: idx, Virtual: pos}
	tx, ty := bucket(pos.X), bucket(pos.Y)

	rect := r2.EmptyRect()
	for i := range b.x {
		if b.x[i] != tx || b.y[i] != ty {
			continue
		}
		rect = rect.AddPoint(r.Transform.ToPhysical(space.Index{X: i % b.width, Y: i / b.width}))
		region.Cells++
	}
	if region.Cells == 0 {
		return region
	}
	lo, hi := rect.Lo(), rect.Hi()
	region.Found = true
	region.Box = Box{
		Left:   int(math.Floor(lo.X)),
		Top:    int(math.Floor(lo.Y)),
		Right:  int(math.Floor(hi.X)),
		Bottom: int(math.Floor(hi.Y)),
	}
	region.Degenerate = region.Box.Left == region.Box.Right && region.Box.Top == region.Box.Bottom
	return region
}

// ResolveOne resolves a single virtual index.
func (r Resolver) ResolveOne(xg, yg *grid.Grid, idx space.Index) (Region, error) {
	if !r.Transform.Virtual.Contains(idx) {
		return Region{}, fmt.Errorf("%w: %v", ErrOutOfRange, idx)
	}
	b, err := r.buckets(xg, yg)
	if err != nil {
		return Region{}, err
	}
	return r.resolve(b, idx), nil
}

// Resolve computes the Region of every virtual index. The result does not
// depend on Workers.
func (r Resolver) Resolve(ctx context.Context, xg, yg *grid.Grid) (*Map, error) {
	b, err := r.buckets(xg, yg)
	if err != nil {
		return nil, err
	}
	virt := r.Transform.Virtual
	w, h := virt.Width(), virt.Height()
	regions := make([]Region, w*h)

	resolveRow := func(vy int) {
		for vx := 0; vx < w; vx++ {
			regions[vy*w+vx] = r.resolve(b, space.Index{X: vx, Y: vy})
		}
	}

	if r.Workers < 2 {
		for vy := 0; vy < h; vy++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			resolveRow(vy)
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(r.Workers)
		for vy := 0; vy < h; vy++ {
			vy := vy
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				resolveRow(vy)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	m := &Map{width: w, height: h, regions: regions}
	for _, d := range m.Degenerate() {
		monitoring.Warnf("degenerate region at virtual %v: box %v from %d cell(s)", d.Index, d.Box, d.Cells)
	}
	monitoring.Logf("resolved %d virtual coordinates: %d missing, %d degenerate",
		len(regions), len(m.Missing()), len(m.Degenerate()))
	return m, nil
}
