package grid

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// AxisName labels which virtual axis a grid carries.
type AxisName string

const (
	AxisX AxisName = "x"
	AxisY AxisName = "y"
)

// Grid is a dense table of values indexed by physical grid coordinates.
// Row y holds the cells with physical Y index y.
type Grid struct {
	axis   AxisName
	method string
	data   *mat.Dense
}

// FromValues wraps row-major values as a Grid of width x height cells.
// The slice is copied.
func FromValues(axis AxisName, width, height int, values []float64) (*Grid, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("grid dimensions must be positive, got %dx%d", width, height)
	}
	if len(values) != width*height {
		return nil, fmt.Errorf("grid %s: got %d values for %dx%d cells", axis, len(values), width, height)
	}
	return &Grid{
		axis: axis,
		data: mat.NewDense(height, width, append([]float64(nil), values...)),
	}, nil
}

// WithMethod returns a copy of g labelled with an interpolation method title.
func (g *Grid) WithMethod(method string) *Grid {
	return &Grid{axis: g.axis, method: method, data: mat.DenseCopyOf(g.data)}
}

// Axis is the virtual axis the grid values belong to.
func (g *Grid) Axis() AxisName { return g.axis }

// Method is the title of the interpolation method that produced the grid,
// empty for grids built from literal values.
func (g *Grid) Method() string { return g.method }

// Width is the number of columns (physical X subdivisions + 1).
func (g *Grid) Width() int {
	_, c := g.data.Dims()
	return c
}

// Height is the number of rows (physical Y subdivisions + 1).
func (g *Grid) Height() int {
	r, _ := g.data.Dims()
	return r
}

// Len is the number of cells.
func (g *Grid) Len() int { return g.Width() * g.Height() }

// At returns the value at physical index (x, y).
func (g *Grid) At(x, y int) float64 {
	return g.data.At(y, x)
}

// Bucket is the floored value at (x, y): the virtual unit the cell shows.
func (g *Grid) Bucket(x, y int) int {
	return int(math.Floor(g.data.At(y, x)))
}

// Row returns a copy of row y.
func (g *Grid) Row(y int) []float64 {
	return mat.Row(nil, y, g.data)
}

// Values returns a row-major copy of all cells.
func (g *Grid) Values() []float64 {
	out := make([]float64, 0, g.Len())
	for y := 0; y < g.Height(); y++ {
		out = append(out, g.data.RawRowView(y)...)
	}
	return out
}

// Range returns the smallest and largest cell values.
func (g *Grid) Range() (lo, hi float64) {
	vals := g.Values()
	return floats.Min(vals), floats.Max(vals)
}

// Equal reports whether both grids hold identical dimensions and values.
func (g *Grid) Equal(other *Grid) bool {
	if other == nil {
		return false
	}
	return mat.Equal(g.data, other.data)
}

func (g *Grid) String() string {
	return fmt.Sprintf("%s grid %dx%d (%s)", g.axis, g.Width(), g.Height(), g.method)
}
