package emit

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/displaymap/internal/grid"
	"github.com/banshee-data/displaymap/internal/inverse"
	"github.com/banshee-data/displaymap/internal/space"
	"github.com/banshee-data/displaymap/internal/testutil"
)

func sampleGrid(t *testing.T) *grid.Grid {
	t.Helper()
	g, err := grid.FromValues(grid.AxisX, 3, 2, []float64{0, 1.5, 2.9, -0.2, 3, 4})
	require.NoError(t, err)
	return g
}

func TestWriteTable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format Format
		want   string
	}{
		{FormatC, `/* X virtual coordinate of each physical cell, 3x2 cells, from literal values. */
static const int8_t X_VIRTUAL_GRID[2][3] = {
    {0, 1, 2},
    {-1, 3, 4},
};
`},
		{FormatGo, `// X_VIRTUAL_GRID is the x virtual coordinate of each physical cell, 3x2 cells, from literal values.
var X_VIRTUAL_GRID = [2][3]int8{
    {0, 1, 2},
    {-1, 3, 4},
}
`},
		{FormatRust, `/// X virtual coordinate of each physical cell, 3x2 cells, from literal values.
pub const X_VIRTUAL_GRID: [[i8; 3]; 2] = [
    [0, 1, 2],
    [-1, 3, 4],
];
`},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(string(tt.format), func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			require.NoError(t, WriteTable(&buf, sampleGrid(t), tt.format))
			assert.Equal(t, tt.want, buf.String())
		})
	}

	var buf bytes.Buffer
	err := WriteTable(&buf, sampleGrid(t), Format("pascal"))
	assert.True(t, errors.Is(err, ErrUnknownFormat))
}

func TestElemType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		lo, hi int
		want   string
	}{
		{0, 32, "int8_t"},
		{-128, 127, "int8_t"},
		{0, 128, "int16_t"},
		{-129, 0, "int16_t"},
		{0, 40000, "int32_t"},
	}
	for _, tt := range tests {
		got, err := elemType(FormatC, tt.lo, tt.hi)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "[%d, %d]", tt.lo, tt.hi)
	}

	got, err := elemType(FormatRust, 0, 300)
	require.NoError(t, err)
	assert.Equal(t, "i16", got)

	_, err = elemType(FormatGo, 0, 1<<40)
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	for _, f := range Formats() {
		got, err := ParseFormat(" " + strings.ToUpper(string(f)) + " ")
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}
	_, err := ParseFormat("json")
	assert.True(t, errors.Is(err, ErrUnknownFormat))

	assert.Equal(t, ".h", FormatC.Extension())
	assert.Equal(t, ".go", FormatGo.Extension())
	assert.Equal(t, ".rs", FormatRust.Extension())
}

func TestWriteRegions(t *testing.T) {
	t.Parallel()

	m, err := inverse.NewMap(3, 1, []inverse.Region{
		{Index: space.Index{X: 0}, Virtual: r2.Point{X: 0}, Found: true, Box: inverse.Box{Left: 0, Top: 0, Right: 5, Bottom: 3}, Cells: 12},
		{Index: space.Index{X: 1}, Virtual: r2.Point{X: 1}, Found: true, Degenerate: true, Box: inverse.Box{Left: 7, Top: 7, Right: 7, Bottom: 7}, Cells: 1},
		{Index: space.Index{X: 2}, Virtual: r2.Point{X: 2}},
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteRegions(&buf, m))
	want := `XVirtual=0, YVirtual=0, BoundBox=(0, 0, 5, 3)
****XVirtual=1, YVirtual=0, BoundBox=(7, 7, 7, 7)
XVirtual=2, YVirtual=0, BoundBox=not found
`
	assert.Equal(t, want, buf.String())
}

func TestWriteSamples(t *testing.T) {
	t.Parallel()

	tr := testutil.SmallTransform()
	w, h := tr.Physical.Width(), tr.Physical.Height()
	vals := make([]float64, w*h)
	for i := range vals {
		vals[i] = 2.4
	}
	g, err := grid.FromValues(grid.AxisY, w, h, vals)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteSamples(&buf, tr.Physical, g))
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, w*h)
	assert.Equal(t, "XPhysical=0, YPhysical=0, YVirtual=2", lines[0])
	assert.Equal(t, "XPhysical=1, YPhysical=0, YVirtual=2", lines[1])

	assert.Error(t, WriteSamples(&buf, tr.Physical, sampleGrid(t)))
}
