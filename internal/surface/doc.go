// Package surface fits a height field over scattered samples and answers
// point queries against it.
//
// Samples are triangulated once (Delaunay) and per-vertex gradients are
// estimated from the incident triangle normals. An Oracle then interpolates
// a height at any point inside the convex hull using one of four methods:
//
//   - barycentric: linear inside the containing triangle
//   - natural neighbour: Sibson coordinates from stolen Voronoi areas
//   - Sibson C1: natural neighbour blend corrected with vertex gradients
//   - Farin C1: cubic Bernstein-Bezier patch over Sibson coordinates
//
// Queries outside the hull fail with ErrOutOfHull. Point location is a linear
// scan over triangles; the surfaces built here carry tens to hundreds of
// samples and are queried once per physical grid cell.
package surface
