package surface

import (
	"fmt"
	"math"
	"sort"

	"github.com/golang/geo/r2"
)

// neighbor is a natural neighbour of a query point with its Sibson coordinate.
type neighbor struct {
	vertex int
	weight float64
}

// naturalNeighbors returns the Sibson coordinates of p. A point on a vertex
// gets that vertex alone; a point on a hull edge gets the edge's linear
// weights because its Voronoi cell is unbounded there.
func (t *Triangulation) naturalNeighbors(p r2.Point) ([]neighbor, error) {
	if v, ok := t.vertexAt(p); ok {
		return []neighbor{{vertex: v, weight: 1}}, nil
	}
	ti, bc, ok := t.locate(p)
	if !ok {
		return nil, fmt.Errorf("%w: (%g, %g)", ErrOutOfHull, p.X, p.Y)
	}
	if e, s, ok := t.hullEdgeAt(p); ok {
		return []neighbor{{vertex: e[0], weight: 1 - s}, {vertex: e[1], weight: s}}, nil
	}

	nns, ok := t.sibson(p)
	if !ok {
		// Rounding broke the cavity; the containing triangle is still a valid
		// (if only C0) set of coordinates.
		tri := t.triangles[ti]
		return []neighbor{
			{vertex: tri[0], weight: bc[0]},
			{vertex: tri[1], weight: bc[1]},
			{vertex: tri[2], weight: bc[2]},
		}, nil
	}
	return nns, nil
}

// sibson computes the stolen-area coordinates of p from the Bowyer-Watson
// cavity of triangles whose circumcircle strictly contains p.
func (t *Triangulation) sibson(p r2.Point) ([]neighbor, bool) {
	var cavity []int
	for i, c := range t.circles {
		if dist2(c.center, p) < c.r2*(1-1e-12) {
			cavity = append(cavity, i)
		}
	}
	if len(cavity) == 0 {
		return nil, false
	}

	ring, ok := orderBoundary(boundaryEdges(t.triangles, cavity))
	if !ok {
		return nil, false
	}
	inCavity := make(map[int]bool, len(cavity))
	for _, ti := range cavity {
		inCavity[ti] = true
	}

	nns := make([]neighbor, 0, len(ring))
	var total float64
	for k, cur := range ring {
		prev := ring[(k+len(ring)-1)%len(ring)]
		next := ring[(k+1)%len(ring)]
		cPrev, ok1 := circumcenter(t.pos(prev), t.pos(cur), p)
		cNext, ok2 := circumcenter(t.pos(cur), t.pos(next), p)
		if !ok1 || !ok2 {
			return nil, false
		}
		poly := []r2.Point{cPrev, cNext}
		for _, ti := range t.incident[cur] {
			if inCavity[ti] {
				poly = append(poly, t.circles[ti].center)
			}
		}
		area := convexArea(poly)
		nns = append(nns, neighbor{vertex: cur, weight: area})
		total += area
	}
	if total <= 0 || math.IsNaN(total) || math.IsInf(total, 0) {
		return nil, false
	}
	for i := range nns {
		nns[i].weight /= total
	}
	return nns, true
}

// orderBoundary chains directed boundary edges into one closed vertex ring.
func orderBoundary(edges [][2]int) ([]int, bool) {
	if len(edges) < 3 {
		return nil, false
	}
	next := make(map[int]int, len(edges))
	for _, e := range edges {
		if _, dup := next[e[0]]; dup {
			return nil, false
		}
		next[e[0]] = e[1]
	}
	start := edges[0][0]
	ring := make([]int, 0, len(edges))
	for v := start; ; {
		ring = append(ring, v)
		nv, ok := next[v]
		if !ok || len(ring) > len(edges) {
			return nil, false
		}
		if nv == start {
			break
		}
		v = nv
	}
	return ring, len(ring) == len(edges)
}

// convexArea is the area of the convex polygon with the given vertices in any order.
func convexArea(pts []r2.Point) float64 {
	if len(pts) < 3 {
		return 0
	}
	var c r2.Point
	for _, p := range pts {
		c = c.Add(p)
	}
	c = c.Mul(1 / float64(len(pts)))
	sorted := append([]r2.Point(nil), pts...)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i].Sub(c), sorted[j].Sub(c)
		return math.Atan2(a.Y, a.X) < math.Atan2(b.Y, b.X)
	})
	var sum float64
	for i, p := range sorted {
		q := sorted[(i+1)%len(sorted)]
		sum += p.Cross(q)
	}
	return math.Abs(sum) / 2
}
