package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/banshee-data/displaymap/internal/space"
	"github.com/banshee-data/displaymap/internal/surface"
)

func TestDefaultMapConfig(t *testing.T) {
	cfg := DefaultMapConfig()

	if cfg.Method == nil || *cfg.Method != "natural-neighbor" {
		t.Errorf("Expected Method natural-neighbor, got %v", cfg.Method)
	}
	if cfg.Physical.X.Margin == nil || *cfg.Physical.X.Margin != 1.05 {
		t.Errorf("Expected physical X margin 1.05, got %v", cfg.Physical.X.Margin)
	}
	if cfg.Virtual.Y.Max == nil || *cfg.Virtual.Y.Max != 16 {
		t.Errorf("Expected virtual Y max 16, got %v", cfg.Virtual.Y.Max)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}

	tr, err := cfg.Transform()
	if err != nil {
		t.Fatalf("Transform() error: %v", err)
	}
	if tr != space.Reference() {
		t.Errorf("Transform() = %+v, want reference transform", tr)
	}
}

func TestEmptyMapConfigGetters(t *testing.T) {
	cfg := EmptyMapConfig()

	if got := cfg.GetMethod(); got != surface.MethodNaturalNeighbor {
		t.Errorf("GetMethod() = %v, want natural-neighbor", got)
	}
	if got := cfg.GetSmoothness(); got != surface.DefaultSmoothness {
		t.Errorf("GetSmoothness() = %f, want %f", got, surface.DefaultSmoothness)
	}
	if got := cfg.GetLattice(); got != surface.DefaultLattice {
		t.Errorf("GetLattice() = %d, want %d", got, surface.DefaultLattice)
	}
	if got := cfg.GetCurvature(); got != surface.DefaultCurvature {
		t.Errorf("GetCurvature() = %f, want %f", got, surface.DefaultCurvature)
	}
	if cfg.GetFloorSamples() {
		t.Error("GetFloorSamples() = true, want false")
	}
	if got := cfg.GetWorkers(); got != 1 {
		t.Errorf("GetWorkers() = %d, want 1", got)
	}

	tr, err := cfg.Transform()
	if err != nil {
		t.Fatalf("Transform() error: %v", err)
	}
	if tr != space.Reference() {
		t.Errorf("empty config should build the reference transform, got %+v", tr)
	}

	bad := &MapConfig{Method: ptrString("spline")}
	if got := bad.GetMethod(); got != surface.MethodNaturalNeighbor {
		t.Errorf("GetMethod() on unknown method = %v, want default", got)
	}
}

func TestLoadMapConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test_config.json")

	testJSON := `{
  "virtual": { "x": { "max": 64 } },
  "method": "Farin-C1",
  "smoothness": 0.5,
  "floor_samples": true,
  "workers": 4
}`
	if err := os.WriteFile(configPath, []byte(testJSON), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadMapConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if got := cfg.GetMethod(); got != surface.MethodFarinC1 {
		t.Errorf("GetMethod() = %v, want farin-c1", got)
	}
	if got := cfg.GetSmoothness(); got != 0.5 {
		t.Errorf("GetSmoothness() = %f, want 0.5", got)
	}
	if !cfg.GetFloorSamples() {
		t.Error("GetFloorSamples() = false, want true")
	}
	if got := cfg.GetWorkers(); got != 4 {
		t.Errorf("GetWorkers() = %d, want 4", got)
	}
	// Omitted fields keep their defaults.
	if got := cfg.GetLattice(); got != surface.DefaultLattice {
		t.Errorf("GetLattice() = %d, want %d", got, surface.DefaultLattice)
	}

	tr, err := cfg.Transform()
	if err != nil {
		t.Fatalf("Transform() error: %v", err)
	}
	if got := tr.Virtual.X.Subdivisions(); got != 64 {
		t.Errorf("virtual X subdivisions = %d, want 64", got)
	}
	if got := tr.Virtual.Y.Subdivisions(); got != 16 {
		t.Errorf("virtual Y subdivisions = %d, want 16", got)
	}
	if got := tr.Physical.X.Margin(); got != space.PhysicalMargin {
		t.Errorf("physical X margin = %f, want %f", got, space.PhysicalMargin)
	}
}

func TestLoadMapConfigErrors(t *testing.T) {
	tmpDir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(tmpDir, name)
		if err := os.WriteFile(p, []byte(body), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
		return p
	}

	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{"missing", "/nonexistent/path/to/config.json", "failed to stat"},
		{"extension", write("config.yaml", "{}"), ".json extension"},
		{"syntax", write("broken.json", `{"method": `), "failed to parse"},
		{"invalid", write("invalid.json", `{"workers": -1}`), "invalid configuration"},
		{"too large", write("large.json", `{"method":"barycentric"}`+strings.Repeat(" ", 1024*1024)), "too large"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadMapConfig(tt.path)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *MapConfig
		wantErr bool
	}{
		{"empty", EmptyMapConfig(), false},
		{"defaults", DefaultMapConfig(), false},
		{"unknown method", &MapConfig{Method: ptrString("cubic")}, true},
		{"zero smoothness", &MapConfig{Smoothness: ptrFloat64(0)}, true},
		{"zero lattice", &MapConfig{Lattice: ptrInt(0)}, true},
		{"negative curvature", &MapConfig{Curvature: ptrFloat64(-0.1)}, true},
		{"negative workers", &MapConfig{Workers: ptrInt(-2)}, true},
		{"inverted axis", &MapConfig{Physical: SpaceConfig{X: AxisConfig{Min: ptrFloat64(200)}}}, true},
		{"zero increment", &MapConfig{Virtual: SpaceConfig{Y: AxisConfig{Increment: ptrFloat64(0)}}}, true},
		{"zero margin", &MapConfig{Virtual: SpaceConfig{X: AxisConfig{Margin: ptrFloat64(0)}}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMustLoadDefaultConfig(t *testing.T) {
	cfg := MustLoadDefaultConfig()
	want := DefaultMapConfig()

	if cfg.GetMethod() != want.GetMethod() {
		t.Errorf("method = %v, want %v", cfg.GetMethod(), want.GetMethod())
	}
	if cfg.GetWorkers() != want.GetWorkers() {
		t.Errorf("workers = %d, want %d", cfg.GetWorkers(), want.GetWorkers())
	}
	got, err := cfg.Transform()
	if err != nil {
		t.Fatalf("Transform() error: %v", err)
	}
	if got != space.Reference() {
		t.Errorf("defaults file transform = %+v, want reference", got)
	}
}
