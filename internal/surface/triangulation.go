package surface

import (
	"errors"
	"fmt"
	"math"

	"github.com/fogleman/delaunay"
	"github.com/golang/geo/r2"
)

// ErrOutOfHull is returned for queries outside the convex hull of the samples.
var ErrOutOfHull = errors.New("point outside triangulated hull")

// ErrTooFewVertices is returned when the samples cannot form a triangle.
var ErrTooFewVertices = errors.New("at least three non-collinear vertices are required")

// barycentricTolerance admits points sitting on a triangle edge despite rounding.
const barycentricTolerance = 1e-9

// Vertex is one triangulated sample.
type Vertex struct {
	Position r2.Point
	Height   float64
	Gradient r2.Point
}

type circle struct {
	center r2.Point
	r2     float64
}

// Triangulation is an immutable Delaunay triangulation of height samples.
type Triangulation struct {
	vertices  []Vertex
	triangles [][3]int // counter-clockwise
	circles   []circle
	hull      [][2]int
	incident  [][]int
	eps       float64
}

// Triangulate builds the Delaunay triangulation of vertices. Gradients are
// left as given; call EstimateGradients to derive them from the heights.
func Triangulate(vertices []Vertex) (*Triangulation, error) {
	if len(vertices) < 3 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewVertices, len(vertices))
	}
	pts := make([]delaunay.Point, len(vertices))
	bounds := r2.EmptyRect()
	for i, v := range vertices {
		if math.IsNaN(v.Position.X) || math.IsNaN(v.Position.Y) || math.IsNaN(v.Height) {
			return nil, fmt.Errorf("vertex %d is not finite", i)
		}
		pts[i] = delaunay.Point{X: v.Position.X, Y: v.Position.Y}
		bounds = bounds.AddPoint(v.Position)
	}
	dt, err := delaunay.Triangulate(pts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTooFewVertices, err)
	}

	t := &Triangulation{
		vertices: append([]Vertex(nil), vertices...),
		incident: make([][]int, len(vertices)),
		eps:      barycentricTolerance * math.Max(1, bounds.Size().Norm()),
	}
	for i := 0; i+2 < len(dt.Triangles); i += 3 {
		tri := [3]int{dt.Triangles[i], dt.Triangles[i+1], dt.Triangles[i+2]}
		a, b, c := t.pos(tri[0]), t.pos(tri[1]), t.pos(tri[2])
		area := b.Sub(a).Cross(c.Sub(a))
		if area == 0 {
			continue
		}
		if area < 0 {
			tri[1], tri[2] = tri[2], tri[1]
			b, c = c, b
		}
		center, ok := circumcenter(a, b, c)
		if !ok {
			continue
		}
		idx := len(t.triangles)
		t.triangles = append(t.triangles, tri)
		t.circles = append(t.circles, circle{center: center, r2: dist2(center, a)})
		for _, v := range tri {
			t.incident[v] = append(t.incident[v], idx)
		}
	}
	if len(t.triangles) == 0 {
		return nil, ErrTooFewVertices
	}
	t.hull = boundaryEdges(t.triangles, nil)
	return t, nil
}

// Vertices returns a copy of the triangulated samples.
func (t *Triangulation) Vertices() []Vertex {
	return append([]Vertex(nil), t.vertices...)
}

// Triangles returns the vertex indices of each triangle in counter-clockwise order.
func (t *Triangulation) Triangles() [][3]int {
	return append([][3]int(nil), t.triangles...)
}

// HullEdges returns the directed counter-clockwise edges of the convex hull.
func (t *Triangulation) HullEdges() [][2]int {
	return append([][2]int(nil), t.hull...)
}

// Contains reports whether p lies inside or on the convex hull.
func (t *Triangulation) Contains(p r2.Point) bool {
	_, _, ok := t.locate(p)
	return ok
}

// Covers checks that the whole rectangle lies inside the hull. The hull is
// convex, so testing the corners is enough.
func (t *Triangulation) Covers(rect r2.Rect) error {
	for _, corner := range rect.Vertices() {
		if !t.Contains(corner) {
			return fmt.Errorf("%w: corner (%g, %g) of %v", ErrOutOfHull, corner.X, corner.Y, rect)
		}
	}
	return nil
}

func (t *Triangulation) pos(i int) r2.Point {
	return t.vertices[i].Position
}

// locate returns the triangle containing p and p's barycentric coordinates in it.
func (t *Triangulation) locate(p r2.Point) (int, [3]float64, bool) {
	for i, tri := range t.triangles {
		bc := barycentric(t.pos(tri[0]), t.pos(tri[1]), t.pos(tri[2]), p)
		if bc[0] >= -barycentricTolerance && bc[1] >= -barycentricTolerance && bc[2] >= -barycentricTolerance {
			return i, bc, true
		}
	}
	return -1, [3]float64{}, false
}

// vertexAt returns the vertex coinciding with p, if any.
func (t *Triangulation) vertexAt(p r2.Point) (int, bool) {
	eps2 := t.eps * t.eps
	for i, v := range t.vertices {
		if dist2(v.Position, p) <= eps2 {
			return i, true
		}
	}
	return -1, false
}

// hullEdgeAt returns the hull edge p lies on and p's parameter along it.
func (t *Triangulation) hullEdgeAt(p r2.Point) ([2]int, float64, bool) {
	for _, e := range t.hull {
		a, b := t.pos(e[0]), t.pos(e[1])
		ab := b.Sub(a)
		l2 := ab.Dot(ab)
		if l2 == 0 {
			continue
		}
		s := p.Sub(a).Dot(ab) / l2
		if s < 0 || s > 1 {
			continue
		}
		if math.Abs(ab.Cross(p.Sub(a)))/math.Sqrt(l2) <= t.eps {
			return e, s, true
		}
	}
	return [2]int{}, 0, false
}

// boundaryEdges returns the directed edges of the given triangles that are not
// shared with another triangle in the set. A nil subset means all triangles.
func boundaryEdges(triangles [][3]int, subset []int) [][2]int {
	if subset == nil {
		subset = make([]int, len(triangles))
		for i := range triangles {
			subset[i] = i
		}
	}
	edges := make(map[[2]int]bool, 3*len(subset))
	for _, ti := range subset {
		tri := triangles[ti]
		for k := 0; k < 3; k++ {
			edges[[2]int{tri[k], tri[(k+1)%3]}] = true
		}
	}
	var out [][2]int
	for _, ti := range subset {
		tri := triangles[ti]
		for k := 0; k < 3; k++ {
			e := [2]int{tri[k], tri[(k+1)%3]}
			if !edges[[2]int{e[1], e[0]}] {
				out = append(out, e)
			}
		}
	}
	return out
}

func barycentric(a, b, c, p r2.Point) [3]float64 {
	d := b.Sub(a).Cross(c.Sub(a))
	lb := p.Sub(a).Cross(c.Sub(a)) / d
	lc := b.Sub(a).Cross(p.Sub(a)) / d
	return [3]float64{1 - lb - lc, lb, lc}
}

func circumcenter(a, b, c r2.Point) (r2.Point, bool) {
	d := 2 * (a.X*(b.Y-c.Y) + b.X*(c.Y-a.Y) + c.X*(a.Y-b.Y))
	if d == 0 {
		return r2.Point{}, false
	}
	a2, b2, c2 := a.Dot(a), b.Dot(b), c.Dot(c)
	return r2.Point{
		X: (a2*(b.Y-c.Y) + b2*(c.Y-a.Y) + c2*(a.Y-b.Y)) / d,
		Y: (a2*(c.X-b.X) + b2*(a.X-c.X) + c2*(b.X-a.X)) / d,
	}, true
}

func dist2(a, b r2.Point) float64 {
	d := a.Sub(b)
	return d.Dot(d)
}
