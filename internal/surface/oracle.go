package surface

import (
	"fmt"
	"math"
	"strings"

	"github.com/golang/geo/r2"
)

// Oracle answers height queries against a fitted surface.
type Oracle interface {
	// Interpolate returns the surface height at p, or an error wrapping
	// ErrOutOfHull when p lies outside the triangulated domain.
	Interpolate(p r2.Point) (float64, error)
	// Title names the interpolation method for logs and reports.
	Title() string
}

// Method selects one of the interpolation strategies.
type Method int

const (
	MethodBarycentric Method = iota
	MethodNaturalNeighbor
	MethodSibsonC1
	MethodFarinC1
)

var methodNames = map[Method]string{
	MethodBarycentric:     "barycentric",
	MethodNaturalNeighbor: "natural-neighbor",
	MethodSibsonC1:        "sibson-c1",
	MethodFarinC1:         "farin-c1",
}

// Methods lists every supported strategy in a stable order.
func Methods() []Method {
	return []Method{MethodBarycentric, MethodNaturalNeighbor, MethodSibsonC1, MethodFarinC1}
}

func (m Method) String() string {
	if name, ok := methodNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

// ParseMethod accepts the names returned by Method.String, case-insensitively.
func ParseMethod(name string) (Method, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for m, n := range methodNames {
		if n == name {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown interpolation method %q", name)
}

// DefaultSmoothness is the Sibson C1 flatness exponent.
const DefaultSmoothness = 1.0

// Options tune the C1 methods.
type Options struct {
	Smoothness float64
}

// New returns the Oracle for method over tri.
func New(method Method, tri *Triangulation, opts Options) (Oracle, error) {
	if tri == nil {
		return nil, fmt.Errorf("nil triangulation")
	}
	switch method {
	case MethodBarycentric:
		return &Barycentric{tri: tri}, nil
	case MethodNaturalNeighbor:
		return &NaturalNeighbor{tri: tri}, nil
	case MethodSibsonC1:
		s := opts.Smoothness
		if s == 0 {
			s = DefaultSmoothness
		}
		if s < 0 || math.IsNaN(s) {
			return nil, fmt.Errorf("smoothness must be positive, got %g", opts.Smoothness)
		}
		return &SibsonC1{tri: tri, Smoothness: s}, nil
	case MethodFarinC1:
		return &FarinC1{tri: tri}, nil
	}
	return nil, fmt.Errorf("unsupported interpolation method %v", method)
}

// Barycentric is linear inside each triangle.
type Barycentric struct {
	tri *Triangulation
}

func (b *Barycentric) Title() string { return "barycentric interpolation" }

func (b *Barycentric) Interpolate(p r2.Point) (float64, error) {
	ti, bc, ok := b.tri.locate(p)
	if !ok {
		return 0, fmt.Errorf("%w: (%g, %g)", ErrOutOfHull, p.X, p.Y)
	}
	tri := b.tri.triangles[ti]
	var h float64
	for k, v := range tri {
		h += bc[k] * b.tri.vertices[v].Height
	}
	return h, nil
}

// NaturalNeighbor blends neighbour heights with Sibson coordinates.
type NaturalNeighbor struct {
	tri *Triangulation
}

func (n *NaturalNeighbor) Title() string { return "natural neighbor interpolation" }

func (n *NaturalNeighbor) Interpolate(p r2.Point) (float64, error) {
	nns, err := n.tri.naturalNeighbors(p)
	if err != nil {
		return 0, err
	}
	var h float64
	for _, nn := range nns {
		h += nn.weight * n.tri.vertices[nn.vertex].Height
	}
	return h, nil
}

// SibsonC1 blends the natural neighbour estimate with gradient tangent
// planes, giving a continuously differentiable surface away from vertices.
type SibsonC1 struct {
	tri        *Triangulation
	Smoothness float64
}

func (s *SibsonC1) Title() string { return "sibson's c1 interpolation" }

func (s *SibsonC1) Interpolate(p r2.Point) (float64, error) {
	nns, err := s.tri.naturalNeighbors(p)
	if err != nil {
		return 0, err
	}
	if len(nns) == 1 {
		return s.tri.vertices[nns[0].vertex].Height, nil
	}

	var sumC0, sumC1, sumC1Weights, alpha, beta float64
	for _, nn := range nns {
		v := s.tri.vertices[nn.vertex]
		d := p.Sub(v.Position)
		dist2 := d.Dot(d)
		r := math.Pow(math.Sqrt(dist2), s.Smoothness)
		if r == 0 {
			return v.Height, nil
		}
		w := nn.weight / r
		zeta := v.Height + v.Gradient.Dot(d)
		alpha += w * r
		beta += w * dist2
		sumC1Weights += w
		sumC1 += w * zeta
		sumC0 += nn.weight * v.Height
	}
	if sumC1Weights == 0 {
		return sumC0, nil
	}
	alpha /= sumC1Weights
	sumC1 /= sumC1Weights
	if alpha+beta == 0 {
		return sumC0, nil
	}
	return (alpha*sumC0 + beta*sumC1) / (alpha + beta), nil
}

// FarinC1 evaluates a cubic Bernstein-Bezier polynomial in the Sibson
// coordinates whose control ordinates come from vertex heights and gradients.
type FarinC1 struct {
	tri *Triangulation
}

func (f *FarinC1) Title() string { return "farin's c1 interpolation" }

func (f *FarinC1) Interpolate(p r2.Point) (float64, error) {
	nns, err := f.tri.naturalNeighbors(p)
	if err != nil {
		return 0, err
	}
	n := len(nns)
	if n == 1 {
		return f.tri.vertices[nns[0].vertex].Height, nil
	}

	// c[i][j] holds the ordinate c_iij: vertex i's height pushed a third of
	// the way towards vertex j along its tangent plane.
	c := make([][]float64, n)
	for i := range c {
		vi := f.tri.vertices[nns[i].vertex]
		c[i] = make([]float64, n)
		for j := range c[i] {
			if i == j {
				c[i][j] = vi.Height
				continue
			}
			vj := f.tri.vertices[nns[j].vertex]
			c[i][j] = vi.Height + vi.Gradient.Dot(vj.Position.Sub(vi.Position))/3
		}
	}

	var h float64
	for i := 0; i < n; i++ {
		li := nns[i].weight
		h += c[i][i] * li * li * li
		for j := 0; j < n; j++ {
			if j != i {
				h += 3 * c[i][j] * li * li * nns[j].weight
			}
		}
		for j := i + 1; j < n; j++ {
			for k := j + 1; k < n; k++ {
				cijk := (c[i][j]+c[i][k]+c[j][i]+c[j][k]+c[k][i]+c[k][j])/4 -
					(c[i][i]+c[j][j]+c[k][k])/6
				h += 6 * cijk * li * nns[j].weight * nns[k].weight
			}
		}
	}
	return h, nil
}
