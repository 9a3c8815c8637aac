package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/banshee-data/displaymap/internal/space"
	"github.com/banshee-data/displaymap/internal/surface"
)

// DefaultConfigPath is the path to the canonical defaults file.
const DefaultConfigPath = "config/displaymap.defaults.json"

// AxisConfig describes one axis of a space. Omitted fields fall back to the
// reference display values.
type AxisConfig struct {
	Min       *float64 `json:"min,omitempty"`
	Max       *float64 `json:"max,omitempty"`
	Increment *float64 `json:"increment,omitempty"`
	Margin    *float64 `json:"margin,omitempty"`
}

// SpaceConfig pairs the X and Y axes of a space.
type SpaceConfig struct {
	X AxisConfig `json:"x"`
	Y AxisConfig `json:"y"`
}

// MapConfig is the root configuration of a table build.
type MapConfig struct {
	Physical SpaceConfig `json:"physical"`
	Virtual  SpaceConfig `json:"virtual"`

	// Surface params
	Method     *string  `json:"method,omitempty"`
	Smoothness *float64 `json:"smoothness,omitempty"`
	Lattice    *int     `json:"lattice,omitempty"`
	Curvature  *float64 `json:"curvature,omitempty"`

	// Sampling and resolution params
	FloorSamples *bool `json:"floor_samples,omitempty"`
	Workers      *int  `json:"workers,omitempty"`
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyMapConfig returns a MapConfig with every field unset; the Get*
// methods then return the reference defaults.
func EmptyMapConfig() *MapConfig {
	return &MapConfig{}
}

// DefaultMapConfig returns a MapConfig with every field set to its default.
func DefaultMapConfig() *MapConfig {
	axis := func(max, margin float64) AxisConfig {
		return AxisConfig{Min: ptrFloat64(0), Max: ptrFloat64(max), Increment: ptrFloat64(1), Margin: ptrFloat64(margin)}
	}
	return &MapConfig{
		Physical:     SpaceConfig{X: axis(120, space.PhysicalMargin), Y: axis(100, space.PhysicalMargin)},
		Virtual:      SpaceConfig{X: axis(32, space.VirtualMargin), Y: axis(16, space.VirtualMargin)},
		Method:       ptrString(surface.MethodNaturalNeighbor.String()),
		Smoothness:   ptrFloat64(surface.DefaultSmoothness),
		Lattice:      ptrInt(surface.DefaultLattice),
		Curvature:    ptrFloat64(surface.DefaultCurvature),
		FloorSamples: ptrBool(false),
		Workers:      ptrInt(1),
	}
}

// LoadMapConfig loads a MapConfig from a JSON file.
// The file must have a .json extension and be at most 1MB. Fields omitted
// from the file keep their defaults through the Get* methods.
func LoadMapConfig(path string) (*MapConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyMapConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// MustLoadDefaultConfig loads DefaultConfigPath from the current directory
// or one of its parents. It panics when the file cannot be loaded and is
// intended for test setup.
func MustLoadDefaultConfig() *MapConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath,    // from internal/config/
		"../../../" + DefaultConfigPath, // deeper packages
	}
	for _, path := range candidates {
		if cfg, err := LoadMapConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configured values can build a table.
func (c *MapConfig) Validate() error {
	if _, err := c.Transform(); err != nil {
		return err
	}
	if c.Method != nil {
		if _, err := surface.ParseMethod(*c.Method); err != nil {
			return err
		}
	}
	if c.Smoothness != nil && *c.Smoothness <= 0 {
		return fmt.Errorf("smoothness must be positive, got %f", *c.Smoothness)
	}
	if c.Lattice != nil && *c.Lattice < 1 {
		return fmt.Errorf("lattice must be at least 1, got %d", *c.Lattice)
	}
	if c.Curvature != nil && (*c.Curvature < 0 || *c.Curvature > 1) {
		return fmt.Errorf("curvature must be between 0 and 1, got %f", *c.Curvature)
	}
	if c.Workers != nil && *c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", *c.Workers)
	}
	return nil
}

func (a AxisConfig) axis(name string, max, margin float64) (space.Axis, error) {
	get := func(p *float64, def float64) float64 {
		if p == nil {
			return def
		}
		return *p
	}
	ax, err := space.NewAxis(get(a.Min, 0), get(a.Max, max), get(a.Increment, 1), get(a.Margin, margin))
	if err != nil {
		return space.Axis{}, fmt.Errorf("%s axis: %w", name, err)
	}
	return ax, nil
}

// Transform builds the physical and virtual spaces.
func (c *MapConfig) Transform() (space.Transform, error) {
	px, err := c.Physical.X.axis("physical x", 120, space.PhysicalMargin)
	if err != nil {
		return space.Transform{}, err
	}
	py, err := c.Physical.Y.axis("physical y", 100, space.PhysicalMargin)
	if err != nil {
		return space.Transform{}, err
	}
	vx, err := c.Virtual.X.axis("virtual x", 32, space.VirtualMargin)
	if err != nil {
		return space.Transform{}, err
	}
	vy, err := c.Virtual.Y.axis("virtual y", 16, space.VirtualMargin)
	if err != nil {
		return space.Transform{}, err
	}
	return space.Transform{Physical: space.New(px, py), Virtual: space.New(vx, vy)}, nil
}

// GetMethod returns the interpolation method or natural neighbor.
func (c *MapConfig) GetMethod() surface.Method {
	if c.Method == nil {
		return surface.MethodNaturalNeighbor
	}
	m, err := surface.ParseMethod(*c.Method)
	if err != nil {
		return surface.MethodNaturalNeighbor // default on parse error
	}
	return m
}

// GetSmoothness returns the C1 blend exponent or the default.
func (c *MapConfig) GetSmoothness() float64 {
	if c.Smoothness == nil {
		return surface.DefaultSmoothness
	}
	return *c.Smoothness
}

// GetLattice returns the reference dataset lattice size or the default.
func (c *MapConfig) GetLattice() int {
	if c.Lattice == nil {
		return surface.DefaultLattice
	}
	return *c.Lattice
}

// GetCurvature returns the reference dataset curvature or the default.
func (c *MapConfig) GetCurvature() float64 {
	if c.Curvature == nil {
		return surface.DefaultCurvature
	}
	return *c.Curvature
}

// GetFloorSamples returns the floor_samples value or the default.
func (c *MapConfig) GetFloorSamples() bool {
	if c.FloorSamples == nil {
		return false
	}
	return *c.FloorSamples
}

// GetWorkers returns the worker count or the default.
func (c *MapConfig) GetWorkers() int {
	if c.Workers == nil {
		return 1
	}
	return *c.Workers
}
