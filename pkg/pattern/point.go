package pattern

import "sort"

// Point is a (row, col) grid coordinate.
type Point struct {
	Row int `json:"row" toml:"row"`
	Col int `json:"col" toml:"col"`
}

// PointSet is a collection of "on" cells. Order carries no meaning and
// duplicates are allowed.
type PointSet []Point

// Union concatenates point sets.
func Union(sets ...PointSet) PointSet {
	n := 0
	for _, s := range sets {
		n += len(s)
	}
	out := make(PointSet, 0, n)
	for _, s := range sets {
		out = append(out, s...)
	}
	return out
}

// Unique returns the distinct points sorted in row-major order.
func (s PointSet) Unique() PointSet {
	out := make(PointSet, len(s))
	copy(out, s)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Col < out[j].Col
	})

	n := 0
	for i, p := range out {
		if i > 0 && p == out[n-1] {
			continue
		}
		out[n] = p
		n++
	}
	return out[:n]
}

// Set returns the points as a membership map.
func (s PointSet) Set() map[Point]struct{} {
	m := make(map[Point]struct{}, len(s))
	for _, p := range s {
		m[p] = struct{}{}
	}
	return m
}

// Indices lists the copy indices used by the array primitives.
type Indices []int

// Count returns the indices 0..n-1. A non-positive n yields no indices.
func Count(n int) Indices {
	return Span(0, n)
}

// Span returns the indices from..to-1.
func Span(from, to int) Indices {
	if to <= from {
		return Indices{}
	}
	out := make(Indices, 0, to-from)
	for i := from; i < to; i++ {
		out = append(out, i)
	}
	return out
}

// Array places copies of a primitive on a rectangular lattice of offsets.
type Array struct {
	RowSpacing int
	ColSpacing int
	RowOffset  int
	ColOffset  int
	Rows       Indices // row copy indices
	Cols       Indices // column copy indices
}

// offsets returns the (rowOffset, colOffset) of every copy, rows first.
func (a Array) offsets() []Point {
	out := make([]Point, 0, len(a.Rows)*len(a.Cols))
	for _, i := range a.Rows {
		for _, j := range a.Cols {
			out = append(out, Point{
				Row: i*a.RowSpacing + a.RowOffset,
				Col: j*a.ColSpacing + a.ColOffset,
			})
		}
	}
	return out
}
