// Package report renders sample grids and resolved regions for inspection:
// PNG heatmaps through gonum/plot and an interactive HTML chart through
// go-echarts. Nothing here feeds back into table generation.
package report

import (
	"fmt"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/displaymap/internal/grid"
	"github.com/banshee-data/displaymap/internal/space"
)

// gridXYZ exposes a sample grid as plotter.GridXYZ in physical coordinates.
type gridXYZ struct {
	g        *grid.Grid
	physical space.Space
}

func (s gridXYZ) Dims() (c, r int)   { return s.g.Width(), s.g.Height() }
func (s gridXYZ) Z(c, r int) float64 { return s.g.At(c, r) }
func (s gridXYZ) X(c int) float64    { return s.physical.X.Position(c) }
func (s gridXYZ) Y(r int) float64    { return s.physical.Y.Position(r) }

// HeatmapColors is the number of palette steps used for heatmaps.
const HeatmapColors = 32

// WriteHeatmap renders g over the physical space as a PNG.
func WriteHeatmap(w io.Writer, g *grid.Grid, physical space.Space) error {
	if g.Width() != physical.Width() || g.Height() != physical.Height() {
		return fmt.Errorf("%s grid is %dx%d, physical space is %dx%d",
			g.Axis(), g.Width(), g.Height(), physical.Width(), physical.Height())
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s virtual coordinate (%s)", g.Axis(), g.Method())
	p.X.Label.Text = "Physical X"
	p.Y.Label.Text = "Physical Y"

	hm := plotter.NewHeatMap(gridXYZ{g: g, physical: physical}, palette.Heat(HeatmapColors, 1))
	if hm.Min == hm.Max {
		// A flat grid would divide by a zero range when picking colours.
		hm.Max = hm.Min + 1
	}
	p.Add(hm)

	wt, err := p.WriterTo(8*vg.Inch, 7*vg.Inch, "png")
	if err != nil {
		return fmt.Errorf("render %s heatmap: %w", g.Axis(), err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write %s heatmap: %w", g.Axis(), err)
	}
	return nil
}
