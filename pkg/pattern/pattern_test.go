package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/dmdpattern/pkg/errors"
)

func inBounds(t *testing.T, p Painter, s PointSet) {
	t.Helper()
	for _, pt := range s {
		if pt.Row < 0 || pt.Row >= p.Rows || pt.Col < 0 || pt.Col >= p.Cols {
			t.Fatalf("point %v outside %dx%d grid", pt, p.Rows, p.Cols)
		}
	}
}

func TestNewPainter(t *testing.T) {
	p, err := NewPainter(10, 12)
	require.NoError(t, err)
	assert.Equal(t, Painter{Rows: 10, Cols: 12}, p)

	_, err = NewPainter(0, 12)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestCircleRadiusZero(t *testing.T) {
	p := Painter{Rows: 10, Cols: 10}
	assert.Equal(t, PointSet{{5, 5}}, p.Circle(0, 0, 0))
}

func TestCircle(t *testing.T) {
	p := Painter{Rows: 10, Cols: 10}

	got := p.Circle(0, 0, 1).Unique()
	want := PointSet{{4, 5}, {5, 4}, {5, 5}, {5, 6}, {6, 5}}
	assert.Equal(t, want, got)

	t.Run("clipped at the corner", func(t *testing.T) {
		s := p.Circle(-5, -5, 2)
		inBounds(t, p, s)
		assert.ElementsMatch(t, PointSet{{0, 0}, {0, 1}, {0, 2}, {1, 0}, {1, 1}, {2, 0}}, s)
	})

	t.Run("entirely outside", func(t *testing.T) {
		assert.Empty(t, p.Circle(100, 100, 3))
	})
}

func TestArrayOfCircles(t *testing.T) {
	p := Painter{Rows: 20, Cols: 20}
	s := p.ArrayOfCircles(Array{
		RowSpacing: 4,
		ColSpacing: 6,
		RowOffset:  -2,
		Rows:       Count(2),
		Cols:       Indices{-1, 1},
	}, 0)
	assert.ElementsMatch(t, PointSet{{8, 4}, {8, 16}, {12, 4}, {12, 16}}, s)

	assert.Empty(t, p.ArrayOfCircles(Array{Rows: Count(0), Cols: Count(3)}, 2))
}

func TestCheckerBoard(t *testing.T) {
	p := Painter{Rows: 2, Cols: 2}
	s, err := p.CheckerBoard(1)
	require.NoError(t, err)
	assert.Equal(t, PointSet{{0, 1}, {1, 0}}, s)

	t.Run("larger squares", func(t *testing.T) {
		p := Painter{Rows: 4, Cols: 4}
		s, err := p.CheckerBoard(2)
		require.NoError(t, err)
		assert.Len(t, s, 8)
		assert.Contains(t, s, Point{0, 2})
		assert.Contains(t, s, Point{3, 1})
		assert.NotContains(t, s, Point{0, 0})
		assert.NotContains(t, s, Point{3, 3})
	})

	t.Run("invalid size", func(t *testing.T) {
		_, err := p.CheckerBoard(0)
		assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
	})
}

func TestLines(t *testing.T) {
	p := Painter{Rows: 8, Cols: 6}

	h := p.HorizontalLine(0, 1)
	assert.Len(t, h, 3*6)
	for _, pt := range h {
		assert.True(t, pt.Row >= 3 && pt.Row <= 5, "row %d", pt.Row)
	}

	v := p.VerticalLine(2, 0)
	assert.Len(t, v, 8)
	for _, pt := range v {
		assert.Equal(t, 5, pt.Col)
	}

	t.Run("clipped", func(t *testing.T) {
		s := p.HorizontalLine(-4, 1)
		inBounds(t, p, s)
		assert.Len(t, s, 2*6)
	})

	t.Run("cross is union", func(t *testing.T) {
		c := p.Cross(0, 0, 0)
		assert.Len(t, c.Unique(), 6+8-1)
	})
}

func TestLineArrays(t *testing.T) {
	p := Painter{Rows: 20, Cols: 10}
	s := p.HorizontalLines(5, -5, 0, Count(3))
	rows := map[int]bool{}
	for _, pt := range s {
		rows[pt.Row] = true
	}
	assert.Equal(t, map[int]bool{5: true, 10: true, 15: true}, rows)

	v := p.VerticalLines(3, 0, 0, Indices{-1, 1})
	cols := map[int]bool{}
	for _, pt := range v {
		cols[pt.Col] = true
	}
	assert.Equal(t, map[int]bool{2: true, 8: true}, cols)

	c := p.Crosses(Array{RowSpacing: 5, ColSpacing: 3, Rows: Count(1), Cols: Count(1)}, 0)
	assert.ElementsMatch(t, p.Cross(0, 0, 0).Unique(), c.Unique())
}

func TestAngledLineAxisAligned(t *testing.T) {
	p := Painter{Rows: 30, Cols: 40}
	assert.Equal(t, p.HorizontalLine(0, 1), p.AngledLine(0, 0, 0, 1))
	assert.Equal(t, p.HorizontalLine(3, 2), p.AngledLine(180, 3, 7, 2))
	assert.Equal(t, p.VerticalLine(-4, 1), p.AngledLine(90, 0, -4, 1))
	assert.Equal(t, p.VerticalLine(0, 1), p.AngledLine(-90, 0, 0, 1))
}

func TestAngledLineDiagonal(t *testing.T) {
	p := Painter{Rows: 21, Cols: 21}
	s := p.AngledLine(45, 0, 0, 1)
	// |dc - dr|·√2/2 <= 1 keeps the main diagonal and its two neighbours.
	for _, pt := range s {
		d := pt.Row - pt.Col
		assert.True(t, d >= -1 && d <= 1, "point %v off the diagonal band", pt)
	}
	assert.Len(t, s, 21+20+20)

	cross := p.AngledCross(45, 0, 0, 1).Unique()
	assert.Len(t, cross, 61+61-5)
	assert.Contains(t, cross, Point{0, 20})
}

func TestStar(t *testing.T) {
	const n = 40
	p := Painter{Rows: n, Cols: n}
	s, err := p.Star(0, 0, 4)
	require.NoError(t, err)

	frac := float64(len(s)) / float64(n*n)
	assert.InDelta(t, 0.5, frac, 0.05)

	on := s.Set()
	c := n / 2
	has := func(dr, dc int) (bool, bool) {
		r, col := c+dr, c+dc
		if r < 0 || r >= n || col < 0 || col >= n {
			return false, false
		}
		_, ok := on[Point{r, col}]
		return ok, true
	}
	for dr := -c; dr < c; dr++ {
		for dc := -c; dc < c; dc++ {
			if dr == 0 || dc == 0 {
				continue // sector boundaries
			}
			base, _ := has(dr, dc)
			for _, img := range [][2]int{{-dr, -dc}, {dc, dr}, {-dc, -dr}} {
				if got, ok := has(img[0], img[1]); ok && got != base {
					t.Fatalf("star not symmetric: (%d,%d)=%v but (%d,%d)=%v", dr, dc, base, img[0], img[1], got)
				}
			}
		}
	}

	_, err = p.Star(0, 0, 0)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestSquare(t *testing.T) {
	p := Painter{Rows: 10, Cols: 10}
	assert.Len(t, p.Square(1, 0, 0), 9)
	assert.Len(t, p.Square(2, -5, -5), 9) // clipped to 3x3
	assert.Len(t, p.ArrayOfSquares(Array{RowSpacing: 3, ColSpacing: 3, Rows: Indices{-1, 1}, Cols: Count(1)}, 1), 18)
}

func TestStrips(t *testing.T) {
	p := Painter{Rows: 20, Cols: 10}

	s, err := p.HorizontalStrip(3, 0)
	require.NoError(t, err)
	assert.Len(t, s, 3*10)
	assert.Equal(t, Point{10, 0}, s[0])

	_, err = p.HorizontalStrip(3, 8) // starts at row 18, needs < 17
	assert.True(t, errors.Is(err, errors.ErrCodeOutOfBounds))

	_, err = p.VerticalStrip(2, -6)
	assert.True(t, errors.Is(err, errors.ErrCodeOutOfBounds))

	_, err = p.VerticalStrip(0, 0)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	t.Run("tiled", func(t *testing.T) {
		s, err := p.HorizontalStrips(2, 1)
		require.NoError(t, err)
		rows := map[int]bool{}
		for _, pt := range s {
			rows[pt.Row] = true
		}
		// strips start at rows 1, 5, 9, 13 and 17
		want := map[int]bool{1: true, 2: true, 5: true, 6: true, 9: true, 10: true, 13: true, 14: true, 17: true, 18: true}
		assert.Equal(t, want, rows)

		v, err := p.VerticalStrips(3, 0)
		require.NoError(t, err)
		cols := map[int]bool{}
		for _, pt := range v {
			cols[pt.Col] = true
		}
		assert.Equal(t, map[int]bool{0: true, 1: true, 2: true, 6: true, 7: true, 8: true}, cols)
	})

	t.Run("tiled with negative offset", func(t *testing.T) {
		_, err := p.HorizontalStrips(2, -1)
		assert.True(t, errors.Is(err, errors.ErrCodeOutOfBounds))
	})
}

func TestHalfPlanes(t *testing.T) {
	p := Painter{Rows: 10, Cols: 8}

	h, err := p.HorizontalHalfPlane(0)
	require.NoError(t, err)
	assert.Len(t, h, 5*8)

	v, err := p.VerticalHalfPlane(-4)
	require.NoError(t, err)
	assert.Len(t, v, 10*8)

	_, err = p.HorizontalHalfPlane(5)
	assert.True(t, errors.Is(err, errors.ErrCodeOutOfBounds))

	_, err = p.VerticalHalfPlane(-5)
	assert.True(t, errors.Is(err, errors.ErrCodeOutOfBounds))
}

func TestAnchorCircles(t *testing.T) {
	p := Painter{Rows: 100, Cols: 100}
	s := p.AnchorCircles([]Point{{0, 0}, {10, -20}}, 0)
	assert.ElementsMatch(t, PointSet{{50, 50}, {60, 30}}, s)

	bg := p.AnchorCirclesWithBackground(25, 0, []Point{{1, 1}}, 0).Unique()
	// 4x4 background dots at 0, 25, 50, 75 plus one anchor.
	assert.Len(t, bg, 17)
	assert.Contains(t, bg, Point{51, 51})
	assert.Contains(t, bg, Point{0, 75})
}

func TestUnique(t *testing.T) {
	s := PointSet{{2, 1}, {0, 3}, {2, 1}, {0, 0}}
	assert.Equal(t, PointSet{{0, 0}, {0, 3}, {2, 1}}, s.Unique())
	assert.Len(t, s, 4, "Unique must not modify the receiver")
}

func TestSpan(t *testing.T) {
	assert.Equal(t, Indices{-2, -1, 0}, Span(-2, 1))
	assert.Empty(t, Span(3, 3))
	assert.Empty(t, Count(-1))
}
