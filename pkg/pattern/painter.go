package pattern

import (
	"github.com/matzehuels/dmdpattern/internal/parallel"
	"github.com/matzehuels/dmdpattern/pkg/errors"
)

// Painter generates point sets on a Rows × Cols grid.
type Painter struct {
	Rows int
	Cols int
}

// NewPainter returns a painter for a grid of the given size.
func NewPainter(rows, cols int) (Painter, error) {
	if err := errors.ValidatePositive("rows", rows); err != nil {
		return Painter{}, err
	}
	if err := errors.ValidatePositive("cols", cols); err != nil {
		return Painter{}, err
	}
	return Painter{Rows: rows, Cols: cols}, nil
}

func (p Painter) center(rowOff, colOff int) (int, int) {
	return p.Rows/2 + rowOff, p.Cols/2 + colOff
}

// mask returns every cell for which keep reports true. Rows are evaluated
// in parallel and gathered in row-major order.
func (p Painter) mask(keep func(r, c int) bool) PointSet {
	return parallel.Gather(p.Rows, func(r int) []Point {
		var row []Point
		for c := 0; c < p.Cols; c++ {
			if keep(r, c) {
				row = append(row, Point{r, c})
			}
		}
		return row
	})
}

// block returns the cells of the rectangle [r0, r1) × [c0, c1) clipped to
// the grid.
func (p Painter) block(r0, r1, c0, c1 int) PointSet {
	r0, c0 = max(r0, 0), max(c0, 0)
	r1, c1 = min(r1, p.Rows), min(c1, p.Cols)
	if r1 <= r0 || c1 <= c0 {
		return PointSet{}
	}
	out := make(PointSet, 0, (r1-r0)*(c1-c0))
	for r := r0; r < r1; r++ {
		for c := c0; c < c1; c++ {
			out = append(out, Point{r, c})
		}
	}
	return out
}

// Circle returns a filled disc of the given radius centered at the grid
// center shifted by (rowOff, colOff). Cells outside the grid are dropped.
func (p Painter) Circle(rowOff, colOff, radius int) PointSet {
	cr, cc := p.center(rowOff, colOff)
	r2 := radius * radius

	out := PointSet{}
	for r := max(0, cr-radius); r < min(cr+radius+1, p.Rows); r++ {
		for c := max(0, cc-radius); c < min(cc+radius+1, p.Cols); c++ {
			dr, dc := r-cr, c-cc
			if dr*dr+dc*dc <= r2 {
				out = append(out, Point{r, c})
			}
		}
	}
	return out
}

// ArrayOfCircles tiles Circle over the offsets of a.
func (p Painter) ArrayOfCircles(a Array, radius int) PointSet {
	var sets []PointSet
	for _, off := range a.offsets() {
		sets = append(sets, p.Circle(off.Row, off.Col, radius))
	}
	return Union(sets...)
}

// Square returns the filled square of side 2·halfWidth+1 around the shifted
// center.
func (p Painter) Square(halfWidth, rowOff, colOff int) PointSet {
	cr, cc := p.center(rowOff, colOff)
	return p.block(cr-halfWidth, cr+halfWidth+1, cc-halfWidth, cc+halfWidth+1)
}

// ArrayOfSquares tiles Square over the offsets of a.
func (p Painter) ArrayOfSquares(a Array, halfWidth int) PointSet {
	var sets []PointSet
	for _, off := range a.offsets() {
		sets = append(sets, p.Square(halfWidth, off.Row, off.Col))
	}
	return Union(sets...)
}

// CheckerBoard returns the cells where (row/size + col/size) is odd, i.e.
// the "black" squares of a checkerboard whose top-left square is off.
func (p Painter) CheckerBoard(size int) (PointSet, error) {
	if err := errors.ValidatePositive("checkerboard size", size); err != nil {
		return nil, err
	}
	return p.mask(func(r, c int) bool {
		return (r/size%2+c/size%2)%2 == 1
	}), nil
}
