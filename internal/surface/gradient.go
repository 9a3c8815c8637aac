package surface

import (
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
)

// EstimateGradients sets every vertex gradient from the area-weighted normal
// of its incident triangles. Planar height fields get their exact slope.
func (t *Triangulation) EstimateGradients() {
	for vi := range t.vertices {
		var n r3.Vector
		for _, ti := range t.incident[vi] {
			n = n.Add(t.triangleNormal(ti))
		}
		if n.Z == 0 {
			t.vertices[vi].Gradient = r2.Point{}
			continue
		}
		t.vertices[vi].Gradient = r2.Point{X: -n.X / n.Z, Y: -n.Y / n.Z}
	}
}

// Normal returns the unit surface normal estimated at vertex i.
func (t *Triangulation) Normal(i int) r3.Vector {
	g := t.vertices[i].Gradient
	return r3.Vector{X: -g.X, Y: -g.Y, Z: 1}.Normalize()
}

// triangleNormal is the unnormalised normal of triangle ti lifted by height;
// its length is twice the triangle area and Z is positive.
func (t *Triangulation) triangleNormal(ti int) r3.Vector {
	tri := t.triangles[ti]
	a, b, c := t.vertices[tri[0]], t.vertices[tri[1]], t.vertices[tri[2]]
	u := r3.Vector{X: b.Position.X - a.Position.X, Y: b.Position.Y - a.Position.Y, Z: b.Height - a.Height}
	v := r3.Vector{X: c.Position.X - a.Position.X, Y: c.Position.Y - a.Position.Y, Z: c.Height - a.Height}
	return u.Cross(v)
}
