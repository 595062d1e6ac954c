package dither

import (
	"math/rand/v2"
	"strings"

	"github.com/matzehuels/dmdpattern/pkg/errors"
)

// Disperser reduces a normalized field to values in {0, 1}.
type Disperser interface {
	Binarize(*Field) *Field
}

// DefaultThreshold is the cutoff level of NewThreshold and of Lookup when no
// level is given.
const DefaultThreshold = 0.5

// Threshold switches on every value at or above Level. Level is used as
// given, so the zero value switches on every cell of a normalized field.
type Threshold struct {
	Level float64
}

// NewThreshold returns a threshold disperser with the default level.
func NewThreshold() Threshold { return Threshold{Level: DefaultThreshold} }

func (t Threshold) Binarize(f *Field) *Field {
	out := NewField(f.Rows, f.Cols)
	for i, v := range f.Pix {
		if v >= t.Level {
			out.Pix[i] = 1
		}
	}
	return out
}

// Random switches on each value v with probability v.
type Random struct {
	rng *rand.Rand
}

// NewRandom returns a deterministic random disperser.
func NewRandom(seed uint64) *Random {
	return &Random{rng: rand.New(rand.NewPCG(seed, 0))}
}

// NewRandomFrom wraps an existing generator. A nil generator uses the
// global source.
func NewRandomFrom(r *rand.Rand) *Random {
	return &Random{rng: r}
}

func (d *Random) Binarize(f *Field) *Field {
	out := NewField(f.Rows, f.Cols)
	for i, v := range f.Pix {
		if v > d.float() {
			out.Pix[i] = 1
		}
	}
	return out
}

func (d *Random) float() float64 {
	if d == nil || d.rng == nil {
		return rand.Float64()
	}
	return d.rng.Float64()
}

// FloydSteinberg diffuses quantization error to unvisited neighbours.
type FloydSteinberg struct{}

// Binarize quantizes in raster order: a value becomes 1 if it is above one
// half and 0 otherwise, and the error spreads 7/16 right, 3/16 down-left,
// 5/16 down and 1/16 down-right. Neighbours outside the grid are skipped.
func (FloydSteinberg) Binarize(f *Field) *Field {
	out := f.Clone()
	p, w, h := out.Pix, out.Cols, out.Rows
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			old := p[i]
			var q float64
			if old > 0.5 {
				q = 1
			}
			p[i] = q
			e := old - q

			if x+1 < w {
				p[i+1] += e * 7 / 16
			}
			if y+1 < h {
				if x > 0 {
					p[i+w-1] += e * 3 / 16
				}
				p[i+w] += e * 5 / 16
				if x+1 < w {
					p[i+w+1] += e * 1 / 16
				}
			}
		}
	}
	return out
}

// Dither method names accepted by Lookup.
const (
	MethodFloydSteinberg = "floyd-steinberg"
	MethodCutoff         = "cutoff"
	MethodRandom         = "random"
)

// Options tune the dispersers built by Lookup.
type Options struct {
	// Threshold is the cutoff level; nil means DefaultThreshold.
	Threshold *float64
	// Seed makes random dithering reproducible when non-nil.
	Seed *uint64
}

// Lookup returns the disperser for a method name. Names are matched
// case-insensitively; "fs" and "threshold" are accepted as aliases.
func Lookup(name string, opts Options) (Disperser, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case MethodFloydSteinberg, "fs", "":
		return FloydSteinberg{}, nil
	case MethodCutoff, "threshold":
		if opts.Threshold != nil {
			return Threshold{Level: *opts.Threshold}, nil
		}
		return NewThreshold(), nil
	case MethodRandom:
		if opts.Seed != nil {
			return NewRandom(*opts.Seed), nil
		}
		return NewRandomFrom(nil), nil
	}
	return nil, errors.New(errors.ErrCodeInvalidDither,
		"unknown dither method %q (want %s, %s or %s)", name, MethodFloydSteinberg, MethodCutoff, MethodRandom)
}

// Deterministic reports whether d always produces the same output for the
// same input.
func Deterministic(d Disperser) bool {
	if r, ok := d.(*Random); ok {
		return r != nil && r.rng != nil
	}
	return true
}
