package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/banshee-data/displaymap/internal/config"
	"github.com/banshee-data/displaymap/internal/emit"
	"github.com/banshee-data/displaymap/internal/fsutil"
	"github.com/banshee-data/displaymap/internal/grid"
	"github.com/banshee-data/displaymap/internal/inverse"
	"github.com/banshee-data/displaymap/internal/monitoring"
	"github.com/banshee-data/displaymap/internal/report"
	"github.com/banshee-data/displaymap/internal/space"
	"github.com/banshee-data/displaymap/internal/store"
	"github.com/banshee-data/displaymap/internal/surface"
	"github.com/banshee-data/displaymap/internal/timeutil"
)

// clock times builds.
var clock timeutil.Clock = timeutil.RealClock{}

// options are the parsed command-line flags.
type options struct {
	ConfigPath  string
	Method      string
	DatasetX    string
	DatasetY    string
	Workers     int
	Format      string
	OutDir      string
	Samples     bool
	DBPath      string
	PlotsDir    string
	HTMLPath    string
	DatasetsDir string
}

// build is the in-memory result of one table build.
type build struct {
	transform space.Transform
	method    surface.Method
	x, y      *grid.Grid
	regions   *inverse.Map
}

func loadConfig(o options) (*config.MapConfig, error) {
	cfg := config.EmptyMapConfig()
	if o.ConfigPath != "" {
		var err error
		if cfg, err = config.LoadMapConfig(o.ConfigPath); err != nil {
			return nil, err
		}
	}
	if o.Method != "" {
		m, err := surface.ParseMethod(o.Method)
		if err != nil {
			return nil, err
		}
		name := m.String()
		cfg.Method = &name
	}
	if o.Workers >= 0 {
		w := o.Workers
		cfg.Workers = &w
	}
	return cfg, cfg.Validate()
}

func loadDatasets(fsys fsutil.FileSystem, o options, cfg *config.MapConfig, tr space.Transform) (x, y *surface.Dataset, err error) {
	if o.DatasetX == "" || o.DatasetY == "" {
		rx, ry, err := surface.ReferenceDatasets(tr, cfg.GetLattice(), cfg.GetCurvature())
		if err != nil {
			return nil, nil, fmt.Errorf("reference datasets: %w", err)
		}
		x, y = rx, ry
	}
	read := func(path string) (*surface.Dataset, error) {
		data, err := fsys.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read dataset: %w", err)
		}
		d, err := surface.ParseDataset(data)
		if err != nil {
			return nil, fmt.Errorf("dataset %s: %w", path, err)
		}
		return d, nil
	}
	if o.DatasetX != "" {
		if x, err = read(o.DatasetX); err != nil {
			return nil, nil, err
		}
	}
	if o.DatasetY != "" {
		if y, err = read(o.DatasetY); err != nil {
			return nil, nil, err
		}
	}
	return x, y, nil
}

func sampleAxis(ctx context.Context, d *surface.Dataset, axis grid.AxisName, cfg *config.MapConfig, tr space.Transform) (*grid.Grid, error) {
	tri, err := d.Triangulate()
	if err != nil {
		return nil, fmt.Errorf("triangulate %s: %w", d.Name, err)
	}
	if err := tri.Covers(tr.Physical.Bounds()); err != nil {
		return nil, fmt.Errorf("dataset %s does not cover the physical space: %w", d.Name, err)
	}
	oracle, err := surface.New(cfg.GetMethod(), tri, surface.Options{Smoothness: cfg.GetSmoothness()})
	if err != nil {
		return nil, err
	}
	return grid.Sample(ctx, oracle, tr.Physical, grid.Options{Axis: axis, Floor: cfg.GetFloorSamples()})
}

func makeBuild(ctx context.Context, fsys fsutil.FileSystem, o options, cfg *config.MapConfig) (*build, error) {
	tr, err := cfg.Transform()
	if err != nil {
		return nil, err
	}
	dx, dy, err := loadDatasets(fsys, o, cfg, tr)
	if err != nil {
		return nil, err
	}
	b := &build{transform: tr, method: cfg.GetMethod()}
	if b.x, err = sampleAxis(ctx, dx, grid.AxisX, cfg, tr); err != nil {
		return nil, err
	}
	if b.y, err = sampleAxis(ctx, dy, grid.AxisY, cfg, tr); err != nil {
		return nil, err
	}
	resolver := inverse.Resolver{Transform: tr, Workers: cfg.GetWorkers()}
	if b.regions, err = resolver.Resolve(ctx, b.x, b.y); err != nil {
		return nil, err
	}
	return b, nil
}

func writeDatasets(fsys fsutil.FileSystem, o options, cfg *config.MapConfig) error {
	tr, err := cfg.Transform()
	if err != nil {
		return err
	}
	dx, dy, err := surface.ReferenceDatasets(tr, cfg.GetLattice(), cfg.GetCurvature())
	if err != nil {
		return err
	}
	for _, d := range []*surface.Dataset{dx, dy} {
		path := filepath.Join(o.DatasetsDir, fsutil.SanitizeFilename(d.Name)+".json")
		err := fsutil.WriteWith(fsys, path, func(w io.Writer) error {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(d)
		})
		if err != nil {
			return err
		}
		monitoring.Logf("wrote dataset %s (%d samples)", path, len(d.Samples))
	}
	return nil
}

func emitTables(fsys fsutil.FileSystem, stdout io.Writer, o options, b *build) error {
	f, err := emit.ParseFormat(o.Format)
	if err != nil {
		return err
	}
	if o.OutDir == "" {
		for _, g := range []*grid.Grid{b.x, b.y} {
			if err := emit.WriteTable(stdout, g, f); err != nil {
				return err
			}
			if _, err := io.WriteString(stdout, "\n"); err != nil {
				return err
			}
		}
		return emit.WriteRegions(stdout, b.regions)
	}

	for _, g := range []*grid.Grid{b.x, b.y} {
		path := filepath.Join(o.OutDir, fmt.Sprintf("%s_virtual_grid%s", g.Axis(), f.Extension()))
		if err := fsutil.WriteWith(fsys, path, func(w io.Writer) error { return emit.WriteTable(w, g, f) }); err != nil {
			return err
		}
		if o.Samples {
			path := filepath.Join(o.OutDir, fmt.Sprintf("%s_samples.txt", g.Axis()))
			err := fsutil.WriteWith(fsys, path, func(w io.Writer) error {
				return emit.WriteSamples(w, b.transform.Physical, g)
			})
			if err != nil {
				return err
			}
		}
	}
	return fsutil.WriteWith(fsys, filepath.Join(o.OutDir, "regions.txt"), func(w io.Writer) error {
		return emit.WriteRegions(w, b.regions)
	})
}

func writeReports(fsys fsutil.FileSystem, o options, b *build) error {
	if o.PlotsDir != "" {
		for _, g := range []*grid.Grid{b.x, b.y} {
			path := filepath.Join(o.PlotsDir, fmt.Sprintf("%s_virtual.png", g.Axis()))
			err := fsutil.WriteWith(fsys, path, func(w io.Writer) error {
				return report.WriteHeatmap(w, g, b.transform.Physical)
			})
			if err != nil {
				return err
			}
		}
	}
	if o.HTMLPath != "" {
		err := fsutil.WriteWith(fsys, o.HTMLPath, func(w io.Writer) error {
			return report.WriteRegionChart(w, b.regions, b.transform)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func record(ctx context.Context, o options, b *build) error {
	s, err := store.Open(o.DBPath)
	if err != nil {
		return err
	}
	defer s.Close()
	if err := s.MigrateUp(); err != nil {
		return err
	}
	run, err := s.SaveRun(ctx, store.Build{
		Transform: b.transform,
		Method:    b.method.String(),
		X:         b.x,
		Y:         b.y,
		Map:       b.regions,
	})
	if err != nil {
		return err
	}
	monitoring.Logf("recorded run %s in %s", run.ID, o.DBPath)
	return nil
}

// run executes one invocation against fsys, writing tables to stdout when
// no output directory is given.
func run(ctx context.Context, o options, fsys fsutil.FileSystem, stdout io.Writer) error {
	cfg, err := loadConfig(o)
	if err != nil {
		return err
	}
	if o.DatasetsDir != "" {
		return writeDatasets(fsys, o, cfg)
	}
	if o.Samples && o.OutDir == "" {
		return fmt.Errorf("-samples requires -out")
	}

	start := clock.Now()
	b, err := makeBuild(ctx, fsys, o, cfg)
	if err != nil {
		return err
	}
	if err := emitTables(fsys, stdout, o, b); err != nil {
		return err
	}
	if err := writeReports(fsys, o, b); err != nil {
		return err
	}
	if o.DBPath != "" {
		if err := record(ctx, o, b); err != nil {
			return err
		}
	}
	monitoring.Logf("built %dx%d virtual map over %dx%d physical cells with %s in %s: %d missing, %d degenerate",
		b.regions.Width(), b.regions.Height(), b.x.Width(), b.x.Height(), b.method,
		clock.Since(start).Round(time.Millisecond), len(b.regions.Missing()), len(b.regions.Degenerate()))
	return nil
}
