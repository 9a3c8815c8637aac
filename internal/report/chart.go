package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/displaymap/internal/inverse"
	"github.com/banshee-data/displaymap/internal/space"
)

// viridis is the visual map ramp shared by the charts.
var viridis = []string{"#440154", "#482777", "#3e4989", "#31688e", "#26828e", "#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"}

// WriteRegionChart renders an HTML page with the box centre of every found
// region, coloured by matching cell count, and the number of unresolved
// virtual coordinates per virtual row.
func WriteRegionChart(w io.Writer, m *inverse.Map, tr space.Transform) error {
	bounds := tr.Physical.Bounds()

	regions := make([]opts.ScatterData, 0, m.Width()*m.Height())
	var degenerate []opts.ScatterData
	maxCells := 1
	missingPerRow := make([]int, m.Height())
	for _, r := range m.Regions() {
		if !r.Found {
			missingPerRow[r.Index.Y]++
			continue
		}
		c := r.Box.Center()
		pt := opts.ScatterData{Value: []interface{}{c.X, c.Y, r.Cells}, Name: fmt.Sprintf("virtual %v box %v", r.Index, r.Box)}
		if r.Degenerate {
			degenerate = append(degenerate, pt)
			continue
		}
		regions = append(regions, pt)
		if r.Cells > maxCells {
			maxCells = r.Cells
		}
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Virtual to physical map", Theme: "dark", Width: "900px", Height: "800px"}),
		charts.WithTitleOpts(opts.Title{Title: "Region centres", Subtitle: fmt.Sprintf("found=%d degenerate=%d missing=%d", len(regions)+len(degenerate), len(degenerate), len(m.Missing()))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: bounds.Lo().X, Max: bounds.Hi().X, Name: "Physical X", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: bounds.Lo().Y, Max: bounds.Hi().Y, Name: "Physical Y", NameLocation: "middle", NameGap: 30, Inverse: opts.Bool(true)}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(maxCells),
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: viridis},
		}),
	)
	scatter.AddSeries("regions", regions, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 10}))
	if len(degenerate) > 0 {
		scatter.AddSeries("degenerate", degenerate, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 16, Symbol: "diamond"}))
	}

	rows := make([]string, m.Height())
	missing := make([]opts.BarData, m.Height())
	for y := range rows {
		rows[y] = strconv.Itoa(y)
		missing[y] = opts.BarData{Value: missingPerRow[y]}
	}
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: "dark", Width: "900px", Height: "360px"}),
		charts.WithTitleOpts(opts.Title{Title: "Unresolved coordinates per virtual row"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Virtual Y", NameLocation: "middle", NameGap: 25}),
	)
	bar.SetXAxis(rows).AddSeries("missing", missing,
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true)}))

	page := components.NewPage()
	page.SetPageTitle("Virtual to physical map")
	page.AddCharts(scatter, bar)
	if err := page.Render(w); err != nil {
		return fmt.Errorf("render region chart: %w", err)
	}
	return nil
}
