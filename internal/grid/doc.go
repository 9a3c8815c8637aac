// Package grid samples an interpolated surface densely over the physical
// space and holds the resulting tables.
//
// One Grid is produced per virtual axis: the X grid stores the virtual X
// shown at every physical cell, the Y grid the virtual Y. Grids are dense,
// row-major and immutable once sampled; they are what a device embeds to
// turn a physical coordinate into a virtual one.
package grid
