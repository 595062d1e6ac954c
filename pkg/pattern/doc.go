// Package pattern generates point sets for geometric DMD patterns.
//
// A [Painter] describes an abstract rectangular index space of Rows × Cols
// cells. Every primitive returns a [PointSet]: the cells that are "on". The
// primitives know nothing about device geometry or colors; the dmd package
// maps the points onto mirrors.
//
// # Coordinates
//
// Offsets are measured from the grid center (Rows/2, Cols/2), computed with
// integer division, so Circle(0, 0, r) on a 10×10 grid is centered on (5, 5).
// Points are (row, col) pairs; primitives clip to the grid wherever clipping
// is meaningful and return an OUT_OF_BOUNDS error where it is not (strips and
// half-planes).
//
// # Arrays
//
// Array variants tile a primitive at (i·RowSpacing + RowOffset,
// j·ColSpacing + ColOffset) for every i in Array.Rows and j in Array.Cols.
// Use [Count] for 0..n-1, [Span] for an arbitrary range, or an explicit
// [Indices] literal:
//
//	p := pattern.Painter{Rows: 1140, Cols: 912}
//	dots := p.ArrayOfCircles(pattern.Array{
//	    RowSpacing: 50, ColSpacing: 50,
//	    Rows: pattern.Count(5), Cols: pattern.Indices{-2, 0, 2},
//	}, 3)
//
// Duplicate points in a PointSet are harmless; call [PointSet.Unique] when a
// canonical form is needed.
package pattern
