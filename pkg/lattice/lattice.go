// Package lattice renders optical-lattice intensity patterns and dithers
// them into mirror masks.
//
// A 1D lattice has intensity cos(2π k·x) with x measured from the shifted
// grid center; a 2D lattice sums two such waves and optionally their
// interference term cos(2π (k1-k2)·x). The summed field is normalized to
// [0, 1] before the disperser reduces it to on/off mirrors.
package lattice

import (
	"math"

	"github.com/matzehuels/dmdpattern/internal/parallel"
	"github.com/matzehuels/dmdpattern/pkg/dither"
	"github.com/matzehuels/dmdpattern/pkg/errors"
	"github.com/matzehuels/dmdpattern/pkg/pattern"
)

// Renderer evaluates lattice fields on a Rows × Cols mirror grid.
//
// Gray and Binary hold the normalized and dithered fields of the most
// recent render, for inspection. A Renderer is not safe for concurrent use.
type Renderer struct {
	Rows, Cols int
	Disperser  dither.Disperser

	Gray   *dither.Field
	Binary *dither.Field
}

// New returns a renderer for a rows × cols grid. A nil disperser selects
// Floyd–Steinberg.
func New(rows, cols int, d dither.Disperser) (*Renderer, error) {
	if err := errors.ValidatePositive("lattice rows", rows); err != nil {
		return nil, err
	}
	if err := errors.ValidatePositive("lattice cols", cols); err != nil {
		return nil, err
	}
	if d == nil {
		d = dither.FloydSteinberg{}
	}
	return &Renderer{Rows: rows, Cols: cols, Disperser: d}, nil
}

// Lattice1D renders cos(2π k·x) around the center shifted by (rowOff, colOff).
func (r *Renderer) Lattice1D(k Vector, rowOff, colOff int) (pattern.PointSet, error) {
	if _, err := ParseVector(k[:]); err != nil {
		return nil, err
	}
	return r.render(rowOff, colOff, func(dr, dc int) float64 {
		return math.Cos(k.phase(dr, dc))
	}), nil
}

// Lattice2D renders the sum of two lattice waves around the shifted center.
// With interference the cross term cos(2π (k1-k2)·x) is added.
func (r *Renderer) Lattice2D(k1, k2 Vector, rowOff, colOff int, interference bool) (pattern.PointSet, error) {
	for _, k := range []Vector{k1, k2} {
		if _, err := ParseVector(k[:]); err != nil {
			return nil, err
		}
	}
	diff := k1.Sub(k2)
	return r.render(rowOff, colOff, func(dr, dc int) float64 {
		v := math.Cos(k1.phase(dr, dc)) + math.Cos(k2.phase(dr, dc))
		if interference {
			v += math.Cos(diff.phase(dr, dc))
		}
		return v
	}), nil
}

func (r *Renderer) render(rowOff, colOff int, intensity func(dr, dc int) float64) pattern.PointSet {
	cr, cc := r.Rows/2+rowOff, r.Cols/2+colOff

	f := dither.NewField(r.Rows, r.Cols)
	parallel.Rows(r.Rows, func(row int) {
		for col := 0; col < r.Cols; col++ {
			f.Set(row, col, intensity(row-cr, col-cc))
		}
	})
	dither.Normalize(f)

	r.Gray = f
	r.Binary = r.Disperser.Binarize(f)
	return r.Binary.On()
}
