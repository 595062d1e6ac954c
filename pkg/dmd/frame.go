// Package dmd models a digital micromirror device and its two image spaces.
//
// A DMD's mirrors sit on a diamond lattice. Patterns are authored in mirror
// space, one pixel per mirror in a Rows × Cols grid, but the device optics
// present them in real space, where the lattice becomes a square grid
// rotated by 45°. Real space is larger than the mirror grid; the pixels
// that no mirror maps to form the background and are painted [Boundary].
//
// A [Frame] owns both buffers and keeps them consistent:
//
//	f, _ := dmd.NewFrame(dmd.DefaultGeometry)
//	p := pattern.Painter{Rows: f.Geometry().Rows, Cols: f.Geometry().Cols}
//	_ = f.DrawPattern(p.Circle(0, 0, 40), dmd.White, dmd.WithResetColor(dmd.Black))
//	img := f.Mirror() // upload to the device
package dmd

import (
	"image"
	"image/color"

	"github.com/matzehuels/dmdpattern/internal/parallel"
	"github.com/matzehuels/dmdpattern/pkg/errors"
	"github.com/matzehuels/dmdpattern/pkg/pattern"
)

// Frame holds the real and mirror buffers of one device image.
type Frame struct {
	geom               Geometry
	realRows, realCols int

	// index[r*Cols+c] is the linear real-space index of mirror (r, c).
	index []int
	// background lists the real-space indices with no mirror behind them.
	background []int

	real   *image.RGBA
	mirror *image.RGBA
}

// NewFrame builds the mirror mapping for g and allocates both buffers. The
// real buffer starts with every pixel set to [Boundary] and the mirror buffer
// starts black.
//
// It returns a GEOMETRY_INVARIANT error if the mapping is not injective or
// does not partition real space together with the background.
func NewFrame(g Geometry) (*Frame, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	rr, rc := g.RealSize()
	total := rr * rc

	f := &Frame{
		geom:     g,
		realRows: rr,
		realCols: rc,
		index:    make([]int, g.Rows*g.Cols),
		real:     image.NewRGBA(image.Rect(0, 0, rc, rr)),
		mirror:   image.NewRGBA(image.Rect(0, 0, g.Cols, g.Rows)),
	}

	seen := make([]bool, total)
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			y, x := g.RealIndex(r, c)
			if y < 0 || y >= rr || x < 0 || x >= rc {
				return nil, errors.New(errors.ErrCodeGeometry,
					"mirror (%d, %d) maps to (%d, %d) outside %dx%d real space", r, c, y, x, rr, rc)
			}
			i := y*rc + x
			if seen[i] {
				return nil, errors.New(errors.ErrCodeGeometry,
					"mirror (%d, %d) maps to real (%d, %d) twice", r, c, y, x)
			}
			seen[i] = true
			f.index[r*g.Cols+c] = i
		}
	}
	for i, ok := range seen {
		if !ok {
			f.background = append(f.background, i)
		}
	}
	if len(f.index)+len(f.background) != total {
		return nil, errors.New(errors.ErrCodeGeometry,
			"%d mapped + %d background pixels != %d real pixels", len(f.index), len(f.background), total)
	}

	fill(f.real, Boundary)
	fill(f.mirror, Black)
	return f, nil
}

// Geometry returns the device geometry.
func (f *Frame) Geometry() Geometry { return f.geom }

// RealSize returns the real-space buffer dimensions.
func (f *Frame) RealSize() (rows, cols int) { return f.realRows, f.realCols }

// RealIndex maps a mirror (row, col) to real space.
func (f *Frame) RealIndex(row, col int) (int, int) { return f.geom.RealIndex(row, col) }

// Real returns the real-space buffer. Callers must not resize it.
func (f *Frame) Real() *image.RGBA { return f.real }

// Mirror returns the mirror-space buffer. Callers must not resize it.
func (f *Frame) Mirror() *image.RGBA { return f.mirror }

// Mapped returns the real-space position of every mirror in mirror
// row-major order.
func (f *Frame) Mapped() pattern.PointSet {
	return f.points(f.index)
}

// Background returns the real-space pixels that no mirror maps to.
func (f *Frame) Background() pattern.PointSet {
	return f.points(f.background)
}

func (f *Frame) points(idx []int) pattern.PointSet {
	out := make(pattern.PointSet, len(idx))
	for k, i := range idx {
		out[k] = pattern.Point{Row: i / f.realCols, Col: i % f.realCols}
	}
	return out
}

// SetUniform paints every mirror c and the background [Boundary].
func (f *Frame) SetUniform(c Color) {
	for _, i := range f.index {
		setPix(f.real.Pix, i, c)
	}
	f.paintBackground(Boundary)
	fill(f.mirror, c)
}

// DrawOption configures DrawPattern and DrawRealPattern.
type DrawOption func(*drawConfig)

type drawConfig struct {
	reset      bool
	resetColor *Color
	background Color
}

// WithReset controls whether the frame is cleared before drawing. It
// defaults to true.
func WithReset(reset bool) DrawOption {
	return func(c *drawConfig) { c.reset = reset }
}

// WithResetColor sets the color the frame is cleared to. It defaults to the
// inverse of the draw color.
func WithResetColor(c Color) DrawOption {
	return func(cfg *drawConfig) { cfg.resetColor = &c }
}

// WithBackground sets the color background pixels are restored to after
// drawing. It defaults to [Boundary].
func WithBackground(c Color) DrawOption {
	return func(cfg *drawConfig) { cfg.background = c }
}

// DrawPattern paints the mirror-space points c, then refreshes the mirror
// buffer. If any point lies outside the mirror grid nothing is drawn and an
// OUT_OF_BOUNDS error is returned.
func (f *Frame) DrawPattern(points pattern.PointSet, c Color, opts ...DrawOption) error {
	idx := make([]int, len(points))
	for k, p := range points {
		if p.Row < 0 || p.Row >= f.geom.Rows || p.Col < 0 || p.Col >= f.geom.Cols {
			return errors.New(errors.ErrCodeOutOfBounds,
				"mirror point %v outside %dx%d grid", p, f.geom.Rows, f.geom.Cols)
		}
		idx[k] = f.index[p.Row*f.geom.Cols+p.Col]
	}
	f.draw(idx, c, opts)
	return nil
}

// DrawRealPattern is DrawPattern for points given in real-space coordinates.
// Points that land on the background are painted and then restored to the
// background color.
func (f *Frame) DrawRealPattern(points pattern.PointSet, c Color, opts ...DrawOption) error {
	idx := make([]int, len(points))
	for k, p := range points {
		if p.Row < 0 || p.Row >= f.realRows || p.Col < 0 || p.Col >= f.realCols {
			return errors.New(errors.ErrCodeOutOfBounds,
				"real point %v outside %dx%d real space", p, f.realRows, f.realCols)
		}
		idx[k] = p.Row*f.realCols + p.Col
	}
	f.draw(idx, c, opts)
	return nil
}

func (f *Frame) draw(idx []int, c Color, opts []DrawOption) {
	cfg := drawConfig{reset: true, background: Boundary}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.reset {
		rc := c.Inverse()
		if cfg.resetColor != nil {
			rc = *cfg.resetColor
		}
		f.SetUniform(rc)
	}
	for _, i := range idx {
		setPix(f.real.Pix, i, c)
	}
	f.paintBackground(cfg.background)
	f.UpdateMirror()
}

// UpdateMirror recomputes the mirror buffer from the real buffer.
func (f *Frame) UpdateMirror() {
	cols := f.geom.Cols
	parallel.Rows(f.geom.Rows, func(r int) {
		for c := 0; c < cols; c++ {
			m := r*cols + c
			src := 4 * f.index[m]
			copy(f.mirror.Pix[4*m:4*m+4], f.real.Pix[src:src+4])
		}
	})
}

// LoadReal replaces the real buffer with img and refreshes the mirror
// buffer. img must have exactly the real-space dimensions; alpha is dropped.
func (f *Frame) LoadReal(img image.Image) error {
	b := img.Bounds()
	if b.Dx() != f.realCols || b.Dy() != f.realRows {
		return errors.New(errors.ErrCodeSizeMismatch,
			"image is %dx%d, real space is %dx%d", b.Dx(), b.Dy(), f.realCols, f.realRows)
	}
	parallel.Rows(f.realRows, func(y int) {
		for x := 0; x < f.realCols; x++ {
			px := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			setPix(f.real.Pix, y*f.realCols+x, Color{px.R, px.G, px.B})
		}
	})
	f.UpdateMirror()
	return nil
}

func (f *Frame) paintBackground(c Color) {
	for _, i := range f.background {
		setPix(f.real.Pix, i, c)
	}
}

func setPix(pix []uint8, i int, c Color) {
	o := 4 * i
	pix[o], pix[o+1], pix[o+2], pix[o+3] = c.R, c.G, c.B, 0xff
}

func fill(img *image.RGBA, c Color) {
	n := len(img.Pix) / 4
	for i := 0; i < n; i++ {
		setPix(img.Pix, i, c)
	}
}
