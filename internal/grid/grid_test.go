package grid_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/displaymap/internal/grid"
	"github.com/banshee-data/displaymap/internal/monitoring"
	"github.com/banshee-data/displaymap/internal/space"
	"github.com/banshee-data/displaymap/internal/surface"
	"github.com/banshee-data/displaymap/internal/testutil"
)

func init() {
	monitoring.SetLogger(nil)
}

func TestSampleDimensionsAndQueryPoints(t *testing.T) {
	tr := testutil.SmallTransform()
	rec := testutil.NewRecordingOracle(testutil.LinearOracle(tr, false))

	g, err := grid.Sample(context.Background(), rec, tr.Physical, grid.Options{Axis: grid.AxisX})
	require.NoError(t, err)

	assert.Equal(t, tr.Physical.X.Subdivisions()+1, g.Width())
	assert.Equal(t, tr.Physical.Y.Subdivisions()+1, g.Height())
	assert.Equal(t, (tr.Physical.Y.Subdivisions()+1)*(tr.Physical.X.Subdivisions()+1), g.Len())
	assert.Equal(t, grid.AxisX, g.Axis())
	assert.Equal(t, "linear", g.Method())

	bounds := tr.Physical.Bounds()
	queries := rec.Queries()
	require.Len(t, queries, g.Len())
	for _, q := range queries {
		assert.True(t, bounds.ContainsPoint(q), "query %v outside %v", q, bounds)
	}

	// Row-major order: the query for cell (x, y) is at index y*width+x.
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			want := tr.ToPhysical(space.Index{X: x, Y: y})
			assert.Equal(t, want, queries[y*g.Width()+x])
			v, _ := rec.Oracle.Interpolate(want)
			assert.Equal(t, v, g.At(x, y))
		}
	}
}

func TestSampleFloor(t *testing.T) {
	tr := testutil.SmallTransform()
	raw, err := grid.Sample(context.Background(), testutil.LinearOracle(tr, false), tr.Physical, grid.Options{Axis: grid.AxisX})
	require.NoError(t, err)
	floored, err := grid.Sample(context.Background(), testutil.LinearOracle(tr, false), tr.Physical, grid.Options{Axis: grid.AxisX, Floor: true})
	require.NoError(t, err)

	for y := 0; y < raw.Height(); y++ {
		for x := 0; x < raw.Width(); x++ {
			assert.Equal(t, math.Floor(raw.At(x, y)), floored.At(x, y))
			assert.Equal(t, raw.Bucket(x, y), floored.Bucket(x, y))
		}
	}
}

func TestSamplePropagatesOracleFailure(t *testing.T) {
	tr := testutil.SmallTransform()
	// Shrink the oracle's hull so the last column falls outside it.
	narrow := testutil.SmallTransform()
	narrow.Physical = space.New(space.MustAxis(0, 11, 1, space.PhysicalMargin), tr.Physical.Y)

	_, err := grid.Sample(context.Background(), testutil.LinearOracle(narrow, false), tr.Physical, grid.Options{Axis: grid.AxisX})
	require.Error(t, err)
	assert.True(t, errors.Is(err, surface.ErrOutOfHull))
	assert.Contains(t, err.Error(), "sample x grid at")
}

func TestSampleHonoursCancellation(t *testing.T) {
	tr := testutil.SmallTransform()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := grid.Sample(ctx, testutil.LinearOracle(tr, false), tr.Physical, grid.Options{})
	assert.True(t, errors.Is(err, context.Canceled))

	_, err = grid.Sample(context.Background(), nil, tr.Physical, grid.Options{})
	assert.Error(t, err)
}

func TestFromValues(t *testing.T) {
	g, err := grid.FromValues(grid.AxisY, 3, 2, []float64{0, 1, 2, 3.5, 4.25, -0.5})
	require.NoError(t, err)
	assert.Equal(t, 3, g.Width())
	assert.Equal(t, 2, g.Height())
	assert.Equal(t, 3.5, g.At(0, 1))
	assert.Equal(t, -1, g.Bucket(2, 1))
	assert.Equal(t, []float64{3.5, 4.25, -0.5}, g.Row(1))

	lo, hi := g.Range()
	assert.Equal(t, -0.5, lo)
	assert.Equal(t, 4.25, hi)

	// Returned slices are copies.
	vals := g.Values()
	vals[0] = 99
	g.Row(0)[1] = 99
	assert.Equal(t, 0.0, g.At(0, 0))
	assert.Equal(t, 1.0, g.At(1, 0))

	same, err := grid.FromValues(grid.AxisY, 3, 2, []float64{0, 1, 2, 3.5, 4.25, -0.5})
	require.NoError(t, err)
	assert.True(t, g.Equal(same))
	assert.False(t, g.Equal(nil))

	_, err = grid.FromValues(grid.AxisX, 3, 2, []float64{1, 2})
	assert.Error(t, err)
	_, err = grid.FromValues(grid.AxisX, 0, 2, nil)
	assert.Error(t, err)
}

func TestPhysicalRange(t *testing.T) {
	tr := testutil.SmallTransform()
	w, h := tr.Physical.Width(), tr.Physical.Height()
	vals := make([]float64, 0, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			vals = append(vals, float64(x/3)+0.5)
		}
	}
	g, err := grid.FromValues(grid.AxisX, w, h, vals)
	require.NoError(t, err)

	lo, hi, ok := grid.PhysicalRange(g, tr.Physical, grid.AxisX, 1)
	require.True(t, ok)
	assert.Equal(t, tr.Physical.X.Position(3), lo)
	assert.Equal(t, tr.Physical.X.Position(5), hi)

	// Every row shows every bucket.
	lo, hi, ok = grid.PhysicalRange(g, tr.Physical, grid.AxisY, 1)
	require.True(t, ok)
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, tr.Physical.Y.Position(h-1), hi)

	_, _, ok = grid.PhysicalRange(g, tr.Physical, grid.AxisX, 7)
	assert.False(t, ok)
}

func TestPairVirtualAt(t *testing.T) {
	tr := testutil.SmallTransform()
	ctx := context.Background()
	x, err := grid.Sample(ctx, testutil.LinearOracle(tr, false), tr.Physical, grid.Options{Axis: grid.AxisX})
	require.NoError(t, err)
	y, err := grid.Sample(ctx, testutil.LinearOracle(tr, true), tr.Physical, grid.Options{Axis: grid.AxisY})
	require.NoError(t, err)
	pair := grid.Pair{X: x, Y: y}
	require.NoError(t, pair.Validate(tr.Physical))

	idx, ok := pair.VirtualAt(tr.Physical, r2.Point{X: 0.5, Y: 0.5})
	require.True(t, ok)
	assert.Equal(t, space.Index{X: 0, Y: 0}, idx)

	idx, ok = pair.VirtualAt(tr.Physical, r2.Point{X: 7.4, Y: 6.4})
	require.True(t, ok)
	assert.Equal(t, space.Index{X: 2, Y: 1}, idx)

	_, ok = pair.VirtualAt(tr.Physical, r2.Point{X: 20, Y: 1})
	assert.False(t, ok)

	small, err := grid.FromValues(grid.AxisY, 2, 2, []float64{0, 0, 0, 0})
	require.NoError(t, err)
	assert.Error(t, grid.Pair{X: x, Y: small}.Validate(tr.Physical))
	assert.Error(t, grid.Pair{X: x}.Validate(tr.Physical))
}

func TestSampleReferenceSurface(t *testing.T) {
	tr := space.Reference()
	dx, _, err := surface.ReferenceDatasets(tr, surface.DefaultLattice, surface.DefaultCurvature)
	require.NoError(t, err)
	tri, err := dx.Triangulate()
	require.NoError(t, err)
	require.NoError(t, tri.Covers(tr.Physical.Bounds()))

	for _, m := range surface.Methods() {
		o, err := surface.New(m, tri, surface.Options{})
		require.NoError(t, err)
		g, err := grid.Sample(context.Background(), o, tr.Physical, grid.Options{Axis: grid.AxisX})
		require.NoError(t, err, m.String())
		assert.Equal(t, 121*101, g.Len())
		lo, hi := g.Range()
		assert.Less(t, lo, 0.0, m.String())
		assert.Greater(t, hi, 32.0, m.String())
	}
}
