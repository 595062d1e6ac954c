// Package dither turns grayscale intensity fields into binary mirror masks.
//
// A [Field] is a dense row-major grid of float64 intensities. Patterns are
// built as continuous fields (see package lattice), scaled to [0, 1] with
// [Normalize], and reduced to 0/1 by a [Disperser]:
//
//	f := dither.NewField(rows, cols)
//	// fill f ...
//	dither.Normalize(f)
//	bin := dither.FloydSteinberg{}.Binarize(f)
//	on := bin.On() // mirror points to switch on
//
// Dispersers never modify their input.
package dither

import (
	"image"
	"image/color"
	"math"

	"github.com/matzehuels/dmdpattern/pkg/pattern"
)

// Field is a Rows × Cols grid of intensities stored row-major.
//
// Field implements image.Image as a 16-bit gray image; values are clamped to
// [0, 1] for display.
type Field struct {
	Rows, Cols int
	Pix        []float64
}

// NewField returns a zero field.
func NewField(rows, cols int) *Field {
	return &Field{Rows: rows, Cols: cols, Pix: make([]float64, rows*cols)}
}

// Value returns the intensity at (row, col).
func (f *Field) Value(row, col int) float64 { return f.Pix[row*f.Cols+col] }

// Set stores the intensity at (row, col).
func (f *Field) Set(row, col int, v float64) { f.Pix[row*f.Cols+col] = v }

// Clone returns a deep copy.
func (f *Field) Clone() *Field {
	out := &Field{Rows: f.Rows, Cols: f.Cols, Pix: make([]float64, len(f.Pix))}
	copy(out.Pix, f.Pix)
	return out
}

// Sum returns the total intensity.
func (f *Field) Sum() float64 {
	var s float64
	for _, v := range f.Pix {
		s += v
	}
	return s
}

// On returns the points whose value is exactly 1, in row-major order.
func (f *Field) On() pattern.PointSet {
	var out pattern.PointSet
	for i, v := range f.Pix {
		if v == 1 {
			out = append(out, pattern.Point{Row: i / f.Cols, Col: i % f.Cols})
		}
	}
	return out
}

func (f *Field) ColorModel() color.Model { return color.Gray16Model }

func (f *Field) Bounds() image.Rectangle { return image.Rect(0, 0, f.Cols, f.Rows) }

func (f *Field) At(x, y int) color.Color {
	if x < 0 || x >= f.Cols || y < 0 || y >= f.Rows {
		return color.Gray16{}
	}
	v := math.Min(math.Max(f.Pix[y*f.Cols+x], 0), 1)
	return color.Gray16{Y: uint16(v * 0xffff)}
}

// Normalize rescales f in place to [0, 1] by min-max scaling. A constant
// field becomes all zeros.
func Normalize(f *Field) {
	if len(f.Pix) == 0 {
		return
	}
	lo, hi := f.Pix[0], f.Pix[0]
	for _, v := range f.Pix[1:] {
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	if hi == lo {
		clear(f.Pix)
		return
	}
	span := hi - lo
	for i, v := range f.Pix {
		f.Pix[i] = (v - lo) / span
	}
}
