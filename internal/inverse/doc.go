// Package inverse resolves, for every discrete virtual coordinate, the
// bounding box of the physical cells whose sampled X and Y values floor to
// that coordinate.
//
// The resulting Map is the table a display controller embeds: given a
// virtual pixel it names the rectangle of physical pixels to light.
package inverse
