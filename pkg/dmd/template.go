package dmd

import (
	"fmt"
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// label is a piece of text anchored at its top-left corner.
type label struct {
	Text     string
	Row, Col int
}

// cornerOffsets shift each corner label off the device edge, as (row, col)
// deltas for corners (0, 0), (R-1, 0) and (R-1, C-1).
var cornerOffsets = map[bool][3][2]int{
	true:  {{150, -150}, {0, 50}, {150, 0}},
	false: {{0, -100}, {150, -150}, {-50, 50}},
}

func (f *Frame) cornerLabels() []label {
	g := f.geom
	off := cornerOffsets[g.Flip]
	corners := [3][2]int{{0, 0}, {g.Rows - 1, 0}, {g.Rows - 1, g.Cols - 1}}

	out := make([]label, len(corners))
	for i, c := range corners {
		r, col := g.RealIndex(c[0], c[1])
		out[i] = label{
			Text: fmt.Sprintf("(%d, %d)", c[0], c[1]),
			Row:  r + off[i][0],
			Col:  col + off[i][1],
		}
	}
	return out
}

// Template returns a copy of the real buffer with the mirror-space
// coordinates of three device corners written next to them in black. A nil
// face falls back to a 7×13 bitmap font.
func (f *Frame) Template(face font.Face) *image.RGBA {
	out := image.NewRGBA(f.real.Bounds())
	copy(out.Pix, f.real.Pix)

	if face == nil {
		face = basicfont.Face7x13
	}
	ascent := face.Metrics().Ascent.Ceil()
	d := &font.Drawer{Dst: out, Src: image.Black, Face: face}
	for _, l := range f.cornerLabels() {
		d.Dot = fixed.P(l.Col, l.Row+ascent)
		d.DrawString(l.Text)
	}
	return out
}

// SimulateIntensity returns the summed RGB value of every real-space pixel,
// row-major, with the background forced to zero. It approximates the
// relative intensity the device projects.
func (f *Frame) SimulateIntensity() []float64 {
	out := make([]float64, f.realRows*f.realCols)
	for i := range out {
		p := f.real.Pix[4*i : 4*i+3]
		out[i] = float64(p[0]) + float64(p[1]) + float64(p[2])
	}
	for _, i := range f.background {
		out[i] = 0
	}
	return out
}
