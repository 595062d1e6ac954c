package pipeline

import (
	"github.com/matzehuels/dmdpattern/pkg/dither"
	"github.com/matzehuels/dmdpattern/pkg/dmd"
	"github.com/matzehuels/dmdpattern/pkg/errors"
	"github.com/matzehuels/dmdpattern/pkg/io"
	"github.com/matzehuels/dmdpattern/pkg/lattice"
	"github.com/matzehuels/dmdpattern/pkg/pattern"
)

// Rendered is a pattern drawn into a device frame.
type Rendered struct {
	Pattern Pattern
	Frame   *dmd.Frame
	// OnCount is the number of mirror points drawn in the pattern color.
	// Uniform and template patterns report every mirror.
	OnCount int

	// Gray and Binary are the normalized and dithered fields of a lattice
	// pattern; nil for other kinds or when served from cache.
	Gray   *dither.Field
	Binary *dither.Field

	CacheHit bool
}

// Render draws p into a fresh frame for geom. It does not touch the cache.
func Render(p Pattern, geom dmd.Geometry) (*Rendered, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	f, err := dmd.NewFrame(geom)
	if err != nil {
		return nil, err
	}
	c, err := p.color()
	if err != nil {
		return nil, err
	}
	out := &Rendered{Pattern: p, Frame: f}

	switch p.Kind {
	case KindUniform:
		f.SetUniform(c)
		out.OnCount = geom.Rows * geom.Cols
		return out, nil
	case KindTemplate:
		img, err := io.LoadImage(p.Source)
		if err != nil {
			return nil, err
		}
		if err := f.LoadReal(img); err != nil {
			return nil, err
		}
		out.OnCount = geom.Rows * geom.Cols
		return out, nil
	}

	points, err := p.points(geom, out)
	if err != nil {
		return nil, err
	}
	opts := []dmd.DrawOption{dmd.WithReset(p.Reset)}
	if p.ResetColor != nil {
		rc, err := dmd.ParseColor(p.ResetColor)
		if err != nil {
			return nil, err
		}
		opts = append(opts, dmd.WithResetColor(rc))
	}
	if err := f.DrawPattern(points, c, opts...); err != nil {
		return nil, err
	}
	out.OnCount = len(points.Unique())
	return out, nil
}

// points builds the mirror point set of a geometric or lattice kind. Lattice
// kinds also store their fields on out.
func (p *Pattern) points(geom dmd.Geometry, out *Rendered) (pattern.PointSet, error) {
	pt := pattern.Painter{Rows: geom.Rows, Cols: geom.Cols}

	switch p.Kind {
	case KindCircle:
		return pt.Circle(p.RowOffset, p.ColOffset, p.Radius), nil
	case KindCircles:
		return pt.ArrayOfCircles(p.array(), p.Radius), nil
	case KindHLine:
		return pt.HorizontalLine(p.RowOffset, p.HalfWidth), nil
	case KindVLine:
		return pt.VerticalLine(p.ColOffset, p.HalfWidth), nil
	case KindCross:
		return pt.Cross(p.RowOffset, p.ColOffset, p.HalfWidth), nil
	case KindHLines:
		a := p.array()
		return pt.HorizontalLines(a.RowSpacing, a.RowOffset, p.HalfWidth, a.Rows), nil
	case KindVLines:
		a := p.array()
		return pt.VerticalLines(a.ColSpacing, a.ColOffset, p.HalfWidth, a.Cols), nil
	case KindCrosses:
		return pt.Crosses(p.array(), p.HalfWidth), nil
	case KindAngledLine:
		return pt.AngledLine(p.Angle, p.RowOffset, p.ColOffset, p.HalfWidth), nil
	case KindAngledCross:
		return pt.AngledCross(p.Angle, p.RowOffset, p.ColOffset, p.HalfWidth), nil
	case KindStar:
		return pt.Star(p.RowOffset, p.ColOffset, p.Sectors)
	case KindCheckerBoard:
		return pt.CheckerBoard(p.Size)
	case KindSquare:
		return pt.Square(p.Radius, p.RowOffset, p.ColOffset), nil
	case KindSquares:
		return pt.ArrayOfSquares(p.array(), p.Radius), nil
	case KindHStrip:
		return pt.HorizontalStrip(p.Width, p.RowOffset)
	case KindVStrip:
		return pt.VerticalStrip(p.Width, p.ColOffset)
	case KindHStrips:
		return pt.HorizontalStrips(p.Width, p.RowOffset)
	case KindVStrips:
		return pt.VerticalStrips(p.Width, p.ColOffset)
	case KindHHalfPlane:
		return pt.HorizontalHalfPlane(p.RowOffset)
	case KindVHalfPlane:
		return pt.VerticalHalfPlane(p.ColOffset)
	case KindAnchors:
		return pt.AnchorCircles(p.anchors(), p.Radius), nil
	case KindAnchorsBG:
		return pt.AnchorCirclesWithBackground(p.BackgroundSpacing, p.BackgroundRadius, p.anchors(), p.Radius), nil
	case KindLattice1D, KindLattice2D:
		return p.lattice(geom, out)
	}
	return nil, errors.New(errors.ErrCodeInvalidPattern, "pattern %s: unknown kind %q", p.Name, p.Kind)
}

func (p *Pattern) lattice(geom dmd.Geometry, out *Rendered) (pattern.PointSet, error) {
	d, err := p.disperser()
	if err != nil {
		return nil, err
	}
	r, err := lattice.New(geom.Rows, geom.Cols, d)
	if err != nil {
		return nil, err
	}
	k1, err := lattice.ParseVector(p.Vector1)
	if err != nil {
		return nil, err
	}

	var points pattern.PointSet
	if p.Kind == KindLattice1D {
		points, err = r.Lattice1D(k1, p.RowOffset, p.ColOffset)
	} else {
		k2, verr := lattice.ParseVector(p.Vector2)
		if verr != nil {
			return nil, verr
		}
		points, err = r.Lattice2D(k1, k2, p.RowOffset, p.ColOffset, p.Interference)
	}
	if err != nil {
		return nil, err
	}
	out.Gray, out.Binary = r.Gray, r.Binary
	return points, nil
}

// array builds the copy lattice of an array kind. Explicit Rows/Cols
// indices take precedence over NRows/NCols.
func (p *Pattern) array() pattern.Array {
	a := pattern.Array{
		RowSpacing: p.RowSpacing,
		ColSpacing: p.ColSpacing,
		RowOffset:  p.RowOffset,
		ColOffset:  p.ColOffset,
		Rows:       pattern.Count(p.NRows),
		Cols:       pattern.Count(p.NCols),
	}
	if p.Rows != nil {
		a.Rows = pattern.Indices(p.Rows)
	}
	if p.Cols != nil {
		a.Cols = pattern.Indices(p.Cols)
	}
	return a
}

func (p *Pattern) anchors() []pattern.Point {
	if len(p.Anchors) == 0 {
		return pattern.DefaultAnchors
	}
	out := make([]pattern.Point, len(p.Anchors))
	for i, a := range p.Anchors {
		out[i] = pattern.Point{Row: a[0], Col: a[1]}
	}
	return out
}
