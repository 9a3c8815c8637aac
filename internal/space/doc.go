// Package space describes the two discrete coordinate spaces the display map
// is built between and the affine transform from grid indices to real
// coordinates.
//
// A Space is an X and a Y Axis. Each axis divides [Min, Max] into
// Subdivisions steps of Increment and maps a grid index i to
// i*Scale - Offset, where Scale stretches the span by Margin. The physical
// space carries a 5% overscan margin; the virtual space carries none.
//
// Everything here is a value type with derived fields computed once at
// construction, so transforms can be shared freely between goroutines.
package space
