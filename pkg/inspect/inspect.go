// Package inspect composes debug panels for lattice patterns.
package inspect

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"

	"github.com/matzehuels/dmdpattern/pkg/fonts"
)

// Panel titles.
const (
	GrayTitle   = "Grayscale pattern"
	BinaryTitle = "Binary pattern"
)

const (
	margin   = 16
	titleGap = 32
)

// Panel draws gray and binary side by side on a white canvas, each under its
// title. Both images are drawn at their native size.
func Panel(gray, binary image.Image) (image.Image, error) {
	gb, bb := gray.Bounds(), binary.Bounds()
	w := 3*margin + gb.Dx() + bb.Dx()
	h := 2*margin + titleGap + max(gb.Dy(), bb.Dy())

	face, err := fonts.Face(fonts.TitleSize)
	if err != nil {
		return nil, err
	}
	defer face.Close()

	dc := gg.NewContext(w, h)
	dc.SetColor(color.White)
	dc.Clear()
	dc.SetFontFace(face)
	dc.SetColor(color.Black)

	left := margin
	right := 2*margin + gb.Dx()
	dc.DrawStringAnchored(GrayTitle, float64(left+gb.Dx()/2), margin+titleGap/2, 0.5, 0.5)
	dc.DrawStringAnchored(BinaryTitle, float64(right+bb.Dx()/2), margin+titleGap/2, 0.5, 0.5)

	top := margin + titleGap
	dc.DrawImage(gray, left-gb.Min.X, top-gb.Min.Y)
	dc.DrawImage(binary, right-bb.Min.X, top-bb.Min.Y)

	dc.SetLineWidth(1)
	dc.DrawRectangle(float64(left)-0.5, float64(top)-0.5, float64(gb.Dx())+1, float64(gb.Dy())+1)
	dc.DrawRectangle(float64(right)-0.5, float64(top)-0.5, float64(bb.Dx())+1, float64(bb.Dy())+1)
	dc.Stroke()

	return dc.Image(), nil
}
