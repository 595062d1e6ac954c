// Package fonts provides the font faces used to annotate rendered patterns.
//
// The Go Regular typeface ships inside golang.org/x/image, so labels render
// the same on every machine without external font files.
package fonts

import (
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// LabelSize is the point size of corner labels on template images.
const LabelSize = 30

// TitleSize is the point size of panel titles on inspection images.
const TitleSize = 18

// Parsed typeface (parsed once on first access).
var (
	regular     *opentype.Font
	regularErr  error
	regularOnce sync.Once
)

// Regular returns the parsed Go Regular typeface.
func Regular() (*opentype.Font, error) {
	regularOnce.Do(func() {
		regular, regularErr = opentype.Parse(goregular.TTF)
	})
	return regular, regularErr
}

// Face returns a Go Regular face at the given point size and 72 DPI, so one
// point is one pixel.
func Face(size float64) (font.Face, error) {
	f, err := Regular()
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// LabelFace returns the face used for template corner labels.
func LabelFace() (font.Face, error) {
	return Face(LabelSize)
}
