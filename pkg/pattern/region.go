package pattern

import (
	"math"

	"github.com/matzehuels/dmdpattern/pkg/errors"
)

// Star splits the plane around the shifted center into sectors angular
// sectors and keeps every other one.
func (p Painter) Star(rowOff, colOff, sectors int) (PointSet, error) {
	if err := errors.ValidatePositive("star sectors", sectors); err != nil {
		return nil, err
	}
	cr, cc := p.center(rowOff, colOff)
	width := 2 * math.Pi / float64(sectors)
	return p.mask(func(r, c int) bool {
		k := math.Floor(math.Atan2(float64(c-cc), float64(r-cr)) / width)
		return math.Mod(k, 2) != 0
	}), nil
}

// HorizontalStrip returns the width rows starting at the center row shifted
// by rowOff. The strip must lie fully inside the grid.
func (p Painter) HorizontalStrip(width, rowOff int) (PointSet, error) {
	if err := errors.ValidatePositive("strip width", width); err != nil {
		return nil, err
	}
	start := p.Rows/2 + rowOff
	if start < 0 || start >= p.Rows-width {
		return nil, errors.New(errors.ErrCodeOutOfBounds,
			"horizontal strip at row %d (width %d) outside [0, %d)", start, width, p.Rows-width)
	}
	return p.block(start, start+width, 0, p.Cols), nil
}

// VerticalStrip returns the width columns starting at the center column
// shifted by colOff. The strip must lie fully inside the grid.
func (p Painter) VerticalStrip(width, colOff int) (PointSet, error) {
	if err := errors.ValidatePositive("strip width", width); err != nil {
		return nil, err
	}
	start := p.Cols/2 + colOff
	if start < 0 || start >= p.Cols-width {
		return nil, errors.New(errors.ErrCodeOutOfBounds,
			"vertical strip at column %d (width %d) outside [0, %d)", start, width, p.Cols-width)
	}
	return p.block(0, p.Rows, start, start+width), nil
}

// HorizontalStrips tiles horizontal strips with period 2·width, the first
// one starting at absolute row offset.
func (p Painter) HorizontalStrips(width, offset int) (PointSet, error) {
	if err := errors.ValidatePositive("strip width", width); err != nil {
		return nil, err
	}
	var sets []PointSet
	for row := offset; row < p.Rows-width; row += 2 * width {
		s, err := p.HorizontalStrip(width, row-p.Rows/2)
		if err != nil {
			return nil, err
		}
		sets = append(sets, s)
	}
	return Union(sets...), nil
}

// VerticalStrips tiles vertical strips with period 2·width, the first one
// starting at absolute column offset.
func (p Painter) VerticalStrips(width, offset int) (PointSet, error) {
	if err := errors.ValidatePositive("strip width", width); err != nil {
		return nil, err
	}
	var sets []PointSet
	for col := offset; col < p.Cols-width; col += 2 * width {
		s, err := p.VerticalStrip(width, col-p.Cols/2)
		if err != nil {
			return nil, err
		}
		sets = append(sets, s)
	}
	return Union(sets...), nil
}

// HorizontalHalfPlane returns every row from the shifted center row down.
func (p Painter) HorizontalHalfPlane(rowOff int) (PointSet, error) {
	start := p.Rows/2 + rowOff
	if start < 0 || start >= p.Rows {
		return nil, errors.New(errors.ErrCodeOutOfBounds,
			"half-plane boundary row %d outside [0, %d)", start, p.Rows)
	}
	return p.block(start, p.Rows, 0, p.Cols), nil
}

// VerticalHalfPlane returns every column from the shifted center column
// rightwards.
func (p Painter) VerticalHalfPlane(colOff int) (PointSet, error) {
	start := p.Cols/2 + colOff
	if start < 0 || start >= p.Cols {
		return nil, errors.New(errors.ErrCodeOutOfBounds,
			"half-plane boundary column %d outside [0, %d)", start, p.Cols)
	}
	return p.block(0, p.Rows, start, p.Cols), nil
}
