package pattern

// DefaultAnchors are three asymmetric anchor offsets; the asymmetry lets a
// camera image be registered against the pattern without ambiguity.
var DefaultAnchors = []Point{{0, 0}, {200, 0}, {0, 250}}

// Background lattice extent used by AnchorCirclesWithBackground.
const (
	backgroundFrom = -20
	backgroundTo   = 20
)

// AnchorCircles returns a circle of the given radius at every anchor offset.
func (p Painter) AnchorCircles(anchors []Point, radius int) PointSet {
	sets := make([]PointSet, 0, len(anchors))
	for _, a := range anchors {
		sets = append(sets, p.Circle(a.Row, a.Col, radius))
	}
	return Union(sets...)
}

// AnchorCirclesWithBackground overlays anchor circles on a square lattice of
// small background circles with the given pitch.
func (p Painter) AnchorCirclesWithBackground(bgSpacing, bgRadius int, anchors []Point, anchorRadius int) PointSet {
	bg := p.ArrayOfCircles(Array{
		RowSpacing: bgSpacing,
		ColSpacing: bgSpacing,
		Rows:       Span(backgroundFrom, backgroundTo),
		Cols:       Span(backgroundFrom, backgroundTo),
	}, bgRadius)
	return Union(bg, p.AnchorCircles(anchors, anchorRadius))
}
