package surface

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/golang/geo/r2"
	"gonum.org/v1/gonum/floats"

	"github.com/banshee-data/displaymap/internal/space"
)

// Sample is a physical position and the virtual coordinate shown there.
type Sample struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Height float64 `json:"height"`
}

// Dataset is a named set of samples for one virtual axis.
type Dataset struct {
	Name    string   `json:"name"`
	Samples []Sample `json:"samples"`
}

// ParseDataset decodes and validates a JSON dataset.
func ParseDataset(data []byte) (*Dataset, error) {
	var ds Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("failed to parse dataset JSON: %w", err)
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return &ds, nil
}

// Validate checks that the dataset can be triangulated.
func (d *Dataset) Validate() error {
	if len(d.Samples) < 3 {
		return fmt.Errorf("dataset %q: %w: got %d samples", d.Name, ErrTooFewVertices, len(d.Samples))
	}
	vals := make([]float64, 0, 3*len(d.Samples))
	for _, s := range d.Samples {
		vals = append(vals, s.X, s.Y, s.Height)
	}
	if floats.HasNaN(vals) {
		return fmt.Errorf("dataset %q contains NaN values", d.Name)
	}
	for _, v := range vals {
		if math.IsInf(v, 0) {
			return fmt.Errorf("dataset %q contains infinite values", d.Name)
		}
	}
	return nil
}

// HeightRange returns the smallest and largest sample heights.
func (d *Dataset) HeightRange() (lo, hi float64) {
	if len(d.Samples) == 0 {
		return 0, 0
	}
	heights := make([]float64, len(d.Samples))
	for i, s := range d.Samples {
		heights[i] = s.Height
	}
	return floats.Min(heights), floats.Max(heights)
}

// Triangulate builds the dataset's triangulation and estimates its gradients.
func (d *Dataset) Triangulate() (*Triangulation, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	vertices := make([]Vertex, len(d.Samples))
	for i, s := range d.Samples {
		vertices[i] = Vertex{Position: r2.Point{X: s.X, Y: s.Y}, Height: s.Height}
	}
	tri, err := Triangulate(vertices)
	if err != nil {
		return nil, fmt.Errorf("dataset %q: %w", d.Name, err)
	}
	tri.EstimateGradients()
	return tri, nil
}

// DefaultLattice and DefaultCurvature shape the reference datasets.
const (
	DefaultLattice   = 8
	DefaultCurvature = 0.1
)

// ReferenceDatasets models the virtual screen drawn on a curved panel. A
// lattice of (lattice+1)^2 samples spans the physical bounds exactly; the
// heights are the virtual X and Y shown at each sample. Columns are stretched
// away from the horizontal centre line and rows away from the vertical one,
// so the physical corners fall outside the virtual screen.
func ReferenceDatasets(tr space.Transform, lattice int, curvature float64) (x, y *Dataset, err error) {
	if lattice < 1 {
		return nil, nil, fmt.Errorf("lattice must be at least 1, got %d", lattice)
	}
	phys := tr.Physical.Bounds()
	virt := tr.Virtual.Bounds()
	lo, hi := phys.Lo(), phys.Hi()
	size := phys.Size()
	vc, vhalf := virt.Center(), virt.Size().Mul(0.5)

	coord := func(k int, lo, hi, size float64) float64 {
		if k == lattice {
			return hi
		}
		return lo + size*float64(k)/float64(lattice)
	}

	x = &Dataset{Name: "x-virtual"}
	y = &Dataset{Name: "y-virtual"}
	for j := 0; j <= lattice; j++ {
		py := coord(j, lo.Y, hi.Y, size.Y)
		ny := 2*(py-lo.Y)/size.Y - 1
		for i := 0; i <= lattice; i++ {
			px := coord(i, lo.X, hi.X, size.X)
			nx := 2*(px-lo.X)/size.X - 1
			x.Samples = append(x.Samples, Sample{X: px, Y: py, Height: vc.X + nx*vhalf.X*(1+curvature*ny*ny)})
			y.Samples = append(y.Samples, Sample{X: px, Y: py, Height: vc.Y + ny*vhalf.Y*(1+curvature*nx*nx)})
		}
	}
	return x, y, nil
}
