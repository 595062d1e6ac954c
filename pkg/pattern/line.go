package pattern

import "math"

// HorizontalLine returns the full-width band of rows within halfWidth of the
// center row shifted by rowOff.
func (p Painter) HorizontalLine(rowOff, halfWidth int) PointSet {
	row := p.Rows/2 + rowOff
	return p.block(row-halfWidth, row+halfWidth+1, 0, p.Cols)
}

// VerticalLine returns the full-height band of columns within halfWidth of
// the center column shifted by colOff.
func (p Painter) VerticalLine(colOff, halfWidth int) PointSet {
	col := p.Cols/2 + colOff
	return p.block(0, p.Rows, col-halfWidth, col+halfWidth+1)
}

// Cross is the union of a horizontal and a vertical line.
func (p Painter) Cross(rowOff, colOff, halfWidth int) PointSet {
	return Union(p.HorizontalLine(rowOff, halfWidth), p.VerticalLine(colOff, halfWidth))
}

// HorizontalLines draws a horizontal line at i·spacing + offset for every i.
func (p Painter) HorizontalLines(spacing, offset, halfWidth int, idx Indices) PointSet {
	var sets []PointSet
	for _, i := range idx {
		sets = append(sets, p.HorizontalLine(i*spacing+offset, halfWidth))
	}
	return Union(sets...)
}

// VerticalLines draws a vertical line at j·spacing + offset for every j.
func (p Painter) VerticalLines(spacing, offset, halfWidth int, idx Indices) PointSet {
	var sets []PointSet
	for _, j := range idx {
		sets = append(sets, p.VerticalLine(j*spacing+offset, halfWidth))
	}
	return Union(sets...)
}

// Crosses overlays horizontal lines at a.Rows and vertical lines at a.Cols.
func (p Painter) Crosses(a Array, halfWidth int) PointSet {
	return Union(
		p.HorizontalLines(a.RowSpacing, a.RowOffset, halfWidth, a.Rows),
		p.VerticalLines(a.ColSpacing, a.ColOffset, halfWidth, a.Cols),
	)
}

// AngledLine returns the cells whose perpendicular distance to a line
// through the shifted center is at most halfWidth. The angle is in degrees,
// measured from the row axis, and taken modulo 180. Angles of 0 and 90 fall
// back to HorizontalLine and VerticalLine.
func (p Painter) AngledLine(angle float64, rowOff, colOff, halfWidth int) PointSet {
	angle = math.Mod(angle, 180)
	if angle < 0 {
		angle += 180
	}
	switch angle {
	case 0:
		return p.HorizontalLine(rowOff, halfWidth)
	case 90:
		return p.VerticalLine(colOff, halfWidth)
	}

	cr, cc := p.center(rowOff, colOff)
	sin, cos := math.Sincos(angle * math.Pi / 180)
	hw := float64(halfWidth)
	return p.mask(func(r, c int) bool {
		return math.Abs(float64(c-cc)*sin-float64(r-cr)*cos) <= hw
	})
}

// AngledCross is the union of two perpendicular angled lines.
func (p Painter) AngledCross(angle float64, rowOff, colOff, halfWidth int) PointSet {
	return Union(
		p.AngledLine(angle, rowOff, colOff, halfWidth),
		p.AngledLine(angle+90, rowOff, colOff, halfWidth),
	)
}
