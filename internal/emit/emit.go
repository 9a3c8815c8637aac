// Package emit prints sample grids as literal arrays for embedding in device
// firmware, and the resolved regions as a plain-text listing.
package emit

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/banshee-data/displaymap/internal/grid"
	"github.com/banshee-data/displaymap/internal/inverse"
	"github.com/banshee-data/displaymap/internal/space"
)

// ErrUnknownFormat is returned for unsupported output languages.
var ErrUnknownFormat = errors.New("unknown output format")

// Format selects the language of an emitted table.
type Format string

const (
	FormatC    Format = "c"
	FormatGo   Format = "go"
	FormatRust Format = "rust"
)

// Formats lists the supported formats.
func Formats() []Format { return []Format{FormatC, FormatGo, FormatRust} }

// ParseFormat accepts a format name in any case.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats() {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Extension is the file extension for tables written in f.
func (f Format) Extension() string {
	switch f {
	case FormatC:
		return ".h"
	case FormatRust:
		return ".rs"
	default:
		return ".go"
	}
}

// TableName is the identifier of the emitted array for g.
func TableName(g *grid.Grid) string {
	return strings.ToUpper(string(g.Axis())) + "_VIRTUAL_GRID"
}

// elemType picks the narrowest signed integer that holds [lo, hi].
func elemType(f Format, lo, hi int) (string, error) {
	bits := 0
	for _, b := range []int{8, 16, 32} {
		limit := 1 << (b - 1)
		if lo >= -limit && hi < limit {
			bits = b
			break
		}
	}
	if bits == 0 {
		return "", fmt.Errorf("bucket range [%d, %d] does not fit in 32 bits", lo, hi)
	}
	switch f {
	case FormatC:
		return fmt.Sprintf("int%d_t", bits), nil
	case FormatGo:
		return fmt.Sprintf("int%d", bits), nil
	case FormatRust:
		return fmt.Sprintf("i%d", bits), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// WriteTable writes the floored values of g as a two-dimensional array
// indexed [physical y][physical x].
func WriteTable(w io.Writer, g *grid.Grid, f Format) error {
	lo, hi := g.Range()
	typ, err := elemType(f, int(math.Floor(lo)), int(math.Floor(hi)))
	if err != nil {
		return err
	}
	name := TableName(g)
	rows, cols := g.Height(), g.Width()

	var buf bytes.Buffer
	method := g.Method()
	if method == "" {
		method = "literal values"
	}
	comment := fmt.Sprintf("%s virtual coordinate of each physical cell, %dx%d cells, from %s.",
		strings.ToUpper(string(g.Axis())), cols, rows, method)

	open, closeRow, end := "{", "}", "};"
	switch f {
	case FormatC:
		fmt.Fprintf(&buf, "/* %s */\n", comment)
		fmt.Fprintf(&buf, "static const %s %s[%d][%d] = {\n", typ, name, rows, cols)
	case FormatGo:
		fmt.Fprintf(&buf, "// %s is the %s\n", name, lowerFirst(comment))
		fmt.Fprintf(&buf, "var %s = [%d][%d]%s{\n", name, rows, cols, typ)
		end = "}"
	case FormatRust:
		fmt.Fprintf(&buf, "/// %s\n", comment)
		fmt.Fprintf(&buf, "pub const %s: [[%s; %d]; %d] = [\n", name, typ, cols, rows)
		open, closeRow, end = "[", "]", "];"
	}

	for y := 0; y < rows; y++ {
		buf.WriteString("    " + open)
		for x := 0; x < cols; x++ {
			if x > 0 {
				buf.WriteString(", ")
			}
			fmt.Fprintf(&buf, "%d", g.Bucket(x, y))
		}
		buf.WriteString(closeRow + ",\n")
	}
	buf.WriteString(end + "\n")

	_, err = w.Write(buf.Bytes())
	return err
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// RegionLine formats one region: degenerate boxes are flagged with a
// leading "****".
func RegionLine(r inverse.Region) string {
	box := "not found"
	if r.Found {
		box = r.Box.String()
	}
	flag := ""
	if r.Degenerate {
		flag = "****"
	}
	return fmt.Sprintf("%sXVirtual=%.0f, YVirtual=%.0f, BoundBox=%s", flag, r.Virtual.X, r.Virtual.Y, box)
}

// WriteRegions writes one line per virtual coordinate in row-major order.
func WriteRegions(w io.Writer, m *inverse.Map) error {
	var buf bytes.Buffer
	for _, r := range m.Regions() {
		buf.WriteString(RegionLine(r))
		buf.WriteByte('\n')
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// WriteSamples lists the raw value of every cell of g with its physical
// coordinate, rounded to whole units.
func WriteSamples(w io.Writer, physical space.Space, g *grid.Grid) error {
	if g.Width() != physical.Width() || g.Height() != physical.Height() {
		return fmt.Errorf("%s grid is %dx%d, physical space is %dx%d",
			g.Axis(), g.Width(), g.Height(), physical.Width(), physical.Height())
	}
	label := strings.ToUpper(string(g.Axis()))
	var buf bytes.Buffer
	physical.Each(func(idx space.Index) {
		pos := physical.Position(idx)
		fmt.Fprintf(&buf, "XPhysical=%.0f, YPhysical=%.0f, %sVirtual=%.0f\n", pos.X, pos.Y, label, g.At(idx.X, idx.Y))
	})
	_, err := w.Write(buf.Bytes())
	return err
}
