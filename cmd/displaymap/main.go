// Command displaymap builds the lookup tables that map a virtual display
// grid onto a larger physical display: it fits a surface per virtual axis,
// samples it over every physical cell, resolves the physical bounding box of
// every virtual coordinate and emits the result as literal arrays.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/banshee-data/displaymap/internal/fsutil"
	"github.com/banshee-data/displaymap/internal/version"
)

var (
	configPath   = flag.String("config", "", "Path to JSON config (defaults to the reference display spaces)")
	method       = flag.String("method", "", "Interpolation method: barycentric, natural-neighbor, sibson-c1, farin-c1 (overrides config)")
	datasetX     = flag.String("dataset-x", "", "JSON dataset for the virtual X surface (default: generated reference dataset)")
	datasetY     = flag.String("dataset-y", "", "JSON dataset for the virtual Y surface (default: generated reference dataset)")
	workers      = flag.Int("workers", -1, "Concurrent resolver workers (overrides config when >= 0)")
	format       = flag.String("format", "c", "Table language: c, go or rust")
	outDir       = flag.String("out", "", "Directory for emitted tables and region listing (stdout when empty)")
	samples      = flag.Bool("samples", false, "Also write the per-cell sample listings (requires -out)")
	dbPath       = flag.String("db", "", "SQLite database to record the run in (skipped when empty)")
	plotsDir     = flag.String("plots", "", "Directory for PNG heatmaps of the sample grids")
	htmlPath     = flag.String("html", "", "Path for the HTML region chart")
	datasetsDir  = flag.String("write-datasets", "", "Write the generated reference datasets to this directory and exit")
	printVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *printVersion {
		fmt.Println(version.String())
		return
	}

	opts := options{
		ConfigPath:  *configPath,
		Method:      *method,
		DatasetX:    *datasetX,
		DatasetY:    *datasetY,
		Workers:     *workers,
		Format:      *format,
		OutDir:      *outDir,
		Samples:     *samples,
		DBPath:      *dbPath,
		PlotsDir:    *plotsDir,
		HTMLPath:    *htmlPath,
		DatasetsDir: *datasetsDir,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, fsutil.OSFileSystem{}, os.Stdout); err != nil {
		log.Fatalf("displaymap: %v", err)
	}
}
