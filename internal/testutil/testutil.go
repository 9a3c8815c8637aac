// Package testutil provides shared test helpers and synthetic fixtures.
//
// The fixtures build small spaces and analytic oracles so sampling and
// resolution can be checked without triangulating real datasets.
package testutil

import (
	"fmt"
	"sync"
	"testing"

	"github.com/golang/geo/r2"

	"github.com/banshee-data/displaymap/internal/space"
	"github.com/banshee-data/displaymap/internal/surface"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// SmallTransform is a 12x10 physical space (5% overscan) over a 4x2 virtual space.
func SmallTransform() space.Transform {
	return space.Transform{
		Physical: space.New(space.MustAxis(0, 12, 1, space.PhysicalMargin), space.MustAxis(0, 10, 1, space.PhysicalMargin)),
		Virtual:  space.New(space.MustAxis(0, 4, 1, space.VirtualMargin), space.MustAxis(0, 2, 1, space.VirtualMargin)),
	}
}

// OracleFunc adapts a function to surface.Oracle.
type OracleFunc struct {
	Name string
	Fn   func(p r2.Point) (float64, error)
}

func (o OracleFunc) Interpolate(p r2.Point) (float64, error) { return o.Fn(p) }
func (o OracleFunc) Title() string                           { return o.Name }

// LinearOracle maps the physical bounds linearly onto the virtual range of
// one axis: the left (or top) edge shows virtual min, the far edge virtual
// max. Points outside the physical bounds fail with surface.ErrOutOfHull.
func LinearOracle(tr space.Transform, alongY bool) surface.Oracle {
	phys := tr.Physical.Bounds()
	virt := tr.Virtual.Bounds()
	return OracleFunc{
		Name: "linear",
		Fn: func(p r2.Point) (float64, error) {
			if !phys.ContainsPoint(p) {
				return 0, fmt.Errorf("%w: (%g, %g)", surface.ErrOutOfHull, p.X, p.Y)
			}
			if alongY {
				return virt.Lo().Y + (p.Y-phys.Lo().Y)/phys.Size().Y*virt.Size().Y, nil
			}
			return virt.Lo().X + (p.X-phys.Lo().X)/phys.Size().X*virt.Size().X, nil
		},
	}
}

// RecordingOracle wraps an oracle and remembers every query point.
type RecordingOracle struct {
	surface.Oracle

	mu      sync.Mutex
	queries []r2.Point
}

// NewRecordingOracle wraps o.
func NewRecordingOracle(o surface.Oracle) *RecordingOracle {
	return &RecordingOracle{Oracle: o}
}

func (r *RecordingOracle) Interpolate(p r2.Point) (float64, error) {
	r.mu.Lock()
	r.queries = append(r.queries, p)
	r.mu.Unlock()
	return r.Oracle.Interpolate(p)
}

// Queries returns a copy of the recorded query points.
func (r *RecordingOracle) Queries() []r2.Point {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]r2.Point(nil), r.queries...)
}
