// Package pipeline turns pattern recipes into saved DMD images.
//
// This package implements the recipe → render → save pipeline used by the
// CLI and the preview server. Centralizing it keeps file naming, caching and
// cataloging identical across entry points.
//
// # Architecture
//
// The pipeline consists of two stages per pattern:
//
//  1. Render: build the mirror point set for the recipe's kind (geometric
//     primitive, dithered lattice, uniform fill or a loaded template) and
//     draw it into a [dmd.Frame]
//  2. Save: write pattern_<name> and template_<name>, optionally an
//     inspection panel, and record the result in the catalog
//
// # Usage
//
// Load a job file and run it:
//
//	job, err := pipeline.LoadJob("job.toml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, job)
//
// Render a single recipe without saving:
//
//	p := pipeline.DefaultPattern(pipeline.KindCircle)
//	p.Name = "spot.bmp"
//	rendered, err := runner.Render(ctx, dmd.DefaultGeometry, p)
//	img := rendered.Frame.Mirror()
//
// [dmd.Frame]: github.com/matzehuels/dmdpattern/pkg/dmd.Frame
package pipeline

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/matzehuels/dmdpattern/pkg/dither"
	"github.com/matzehuels/dmdpattern/pkg/dmd"
	"github.com/matzehuels/dmdpattern/pkg/errors"
	"github.com/matzehuels/dmdpattern/pkg/io"
	"github.com/matzehuels/dmdpattern/pkg/lattice"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Preview Server
// =============================================================================

const (
	// DefaultOutputDir is where patterns are written when the job names no
	// directory.
	DefaultOutputDir = "patterns"

	// DefaultSpacing is the pitch of circle, line, cross and square arrays.
	DefaultSpacing = 50

	// DefaultCount is the number of array elements along each axis.
	DefaultCount = 5
)

// Pattern kinds.
const (
	KindUniform      = "uniform"
	KindCircle       = "circle"
	KindCircles      = "circles"
	KindHLine        = "hline"
	KindVLine        = "vline"
	KindCross        = "cross"
	KindHLines       = "hlines"
	KindVLines       = "vlines"
	KindCrosses      = "crosses"
	KindAngledLine   = "angled-line"
	KindAngledCross  = "angled-cross"
	KindStar         = "star"
	KindCheckerBoard = "checkerboard"
	KindSquare       = "square"
	KindSquares      = "squares"
	KindHStrip       = "hstrip"
	KindVStrip       = "vstrip"
	KindHStrips      = "hstrips"
	KindVStrips      = "vstrips"
	KindHHalfPlane   = "hhalfplane"
	KindVHalfPlane   = "vhalfplane"
	KindAnchors      = "anchors"
	KindAnchorsBG    = "anchors-bg"
	KindLattice1D    = "lattice1d"
	KindLattice2D    = "lattice2d"
	KindTemplate     = "template"
)

// ValidKinds is the set of supported pattern kinds.
var ValidKinds = map[string]bool{
	KindUniform: true, KindCircle: true, KindCircles: true,
	KindHLine: true, KindVLine: true, KindCross: true,
	KindHLines: true, KindVLines: true, KindCrosses: true,
	KindAngledLine: true, KindAngledCross: true, KindStar: true,
	KindCheckerBoard: true, KindSquare: true, KindSquares: true,
	KindHStrip: true, KindVStrip: true, KindHStrips: true, KindVStrips: true,
	KindHHalfPlane: true, KindVHalfPlane: true,
	KindAnchors: true, KindAnchorsBG: true,
	KindLattice1D: true, KindLattice2D: true,
	KindTemplate: true,
}

// Kinds returns the supported kinds in sorted order.
func Kinds() []string {
	out := make([]string, 0, len(ValidKinds))
	for k := range ValidKinds {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// IsLattice reports whether kind renders a dithered lattice field.
func IsLattice(kind string) bool {
	return kind == KindLattice1D || kind == KindLattice2D
}

// =============================================================================
// Pattern - one recipe
// =============================================================================

// Pattern is the recipe for one saved pattern. Offsets are in mirrors,
// relative to the grid center. Parameters that a kind does not use are
// ignored.
type Pattern struct {
	Name string `toml:"name" json:"name"`
	Kind string `toml:"kind" json:"kind"`

	// Color is anything dmd.ParseColor accepts; ResetColor defaults to the
	// inverse of Color.
	Color      any  `toml:"color" json:"color"`
	ResetColor any  `toml:"reset_color" json:"reset_color,omitempty"`
	Reset      bool `toml:"reset" json:"reset"`

	RowOffset int `toml:"row_offset" json:"row_offset,omitempty"`
	ColOffset int `toml:"col_offset" json:"col_offset,omitempty"`

	// Shape parameters
	Radius    int     `toml:"radius" json:"radius,omitempty"`
	HalfWidth int     `toml:"half_width" json:"half_width,omitempty"`
	Width     int     `toml:"width" json:"width,omitempty"`
	Size      int     `toml:"size" json:"size,omitempty"`
	Angle     float64 `toml:"angle" json:"angle,omitempty"`
	Sectors   int     `toml:"sectors" json:"sectors,omitempty"`

	// Array parameters; explicit Rows/Cols indices override the counts.
	RowSpacing int   `toml:"row_spacing" json:"row_spacing,omitempty"`
	ColSpacing int   `toml:"col_spacing" json:"col_spacing,omitempty"`
	NRows      int   `toml:"nrows" json:"nrows,omitempty"`
	NCols      int   `toml:"ncols" json:"ncols,omitempty"`
	Rows       []int `toml:"rows" json:"rows,omitempty"`
	Cols       []int `toml:"cols" json:"cols,omitempty"`

	// Anchor parameters
	Anchors           [][2]int `toml:"anchors" json:"anchors,omitempty"`
	BackgroundSpacing int      `toml:"bg_spacing" json:"bg_spacing,omitempty"`
	BackgroundRadius  int      `toml:"bg_radius" json:"bg_radius,omitempty"`

	// Lattice parameters
	Vector1      []float64 `toml:"vector1" json:"vector1,omitempty"`
	Vector2      []float64 `toml:"vector2" json:"vector2,omitempty"`
	Interference bool      `toml:"interference" json:"interference,omitempty"`
	Dither       string    `toml:"dither" json:"dither,omitempty"`
	Threshold    *float64  `toml:"threshold" json:"threshold,omitempty"`
	Seed         *uint64   `toml:"seed" json:"seed,omitempty"`

	// Source is the real-space image loaded by the template kind.
	Source string `toml:"source" json:"source,omitempty"`
}

// DefaultPattern returns a recipe of the given kind with every parameter at
// its default.
func DefaultPattern(kind string) Pattern {
	p := Pattern{Kind: kind, Color: 1, Reset: true}
	switch kind {
	case KindCircle:
		p.Radius = 50
	case KindCircles:
		p.RowSpacing, p.ColSpacing = DefaultSpacing, DefaultSpacing
		p.NRows, p.NCols = DefaultCount, DefaultCount
		p.Radius = 1
	case KindHLine, KindVLine, KindCross:
		p.HalfWidth = 1
	case KindHLines, KindVLines:
		p.RowSpacing, p.ColSpacing = DefaultSpacing, DefaultSpacing
		p.NRows, p.NCols = DefaultCount, DefaultCount
		p.HalfWidth = 1
	case KindCrosses:
		p.RowSpacing, p.ColSpacing = DefaultSpacing, DefaultSpacing
		p.NRows, p.NCols = DefaultCount, DefaultCount
		p.HalfWidth = 1
	case KindAngledLine, KindAngledCross:
		p.Angle = 45
		p.HalfWidth = 10
	case KindStar:
		p.Sectors = 10
	case KindCheckerBoard:
		p.Size = 20
	case KindSquare:
		p.Radius = 3
	case KindSquares:
		p.RowSpacing, p.ColSpacing = DefaultSpacing, DefaultSpacing
		p.NRows, p.NCols = DefaultCount, DefaultCount
		p.Radius = 3
	case KindHStrip, KindVStrip, KindHStrips, KindVStrips:
		p.Width = 5
	case KindAnchors:
		p.Radius = 10
	case KindAnchorsBG:
		p.Radius = 10
		p.BackgroundSpacing = 50
		p.BackgroundRadius = 2
	case KindLattice1D:
		p.Vector1 = []float64{0.01, 0.01}
		p.Dither = dither.MethodFloydSteinberg
	case KindLattice2D:
		p.Vector1 = []float64{0.01, 0}
		p.Vector2 = []float64{0, 0.01}
		p.Dither = dither.MethodFloydSteinberg
	}
	return p
}

// Validate checks the recipe without rendering it.
func (p *Pattern) Validate() error {
	if err := errors.ValidateFilename(p.Name); err != nil {
		return err
	}
	if _, err := io.FormatFromPath(p.Name); err != nil {
		return err
	}
	if !ValidKinds[p.Kind] {
		return errors.New(errors.ErrCodeInvalidPattern,
			"pattern %s: unknown kind %q (must be one of: %s)", p.Name, p.Kind, strings.Join(Kinds(), ", "))
	}
	if _, err := p.color(); err != nil {
		return fmt.Errorf("pattern %s: %w", p.Name, err)
	}
	if p.ResetColor != nil {
		if _, err := dmd.ParseColor(p.ResetColor); err != nil {
			return fmt.Errorf("pattern %s: reset_color: %w", p.Name, err)
		}
	}

	switch p.Kind {
	case KindTemplate:
		if p.Source == "" {
			return errors.New(errors.ErrCodeInvalidPattern, "pattern %s: template needs a source image", p.Name)
		}
	case KindLattice1D:
		if _, err := lattice.ParseVector(p.Vector1); err != nil {
			return fmt.Errorf("pattern %s: vector1: %w", p.Name, err)
		}
	case KindLattice2D:
		if _, err := lattice.ParseVector(p.Vector1); err != nil {
			return fmt.Errorf("pattern %s: vector1: %w", p.Name, err)
		}
		if _, err := lattice.ParseVector(p.Vector2); err != nil {
			return fmt.Errorf("pattern %s: vector2: %w", p.Name, err)
		}
	}
	if IsLattice(p.Kind) {
		if _, err := p.disperser(); err != nil {
			return fmt.Errorf("pattern %s: %w", p.Name, err)
		}
	}
	for _, err := range []error{
		errors.ValidateNonNegative("nrows", p.NRows),
		errors.ValidateNonNegative("ncols", p.NCols),
		errors.ValidateFinite("angle", p.Angle),
		validateThreshold(p.Threshold),
	} {
		if err != nil {
			return fmt.Errorf("pattern %s: %w", p.Name, err)
		}
	}
	return nil
}

// Recipe returns the JSON encoding of the pattern, used for cache keys and
// catalog records.
func (p *Pattern) Recipe() json.RawMessage {
	data, err := json.Marshal(p)
	if err != nil {
		return json.RawMessage("null")
	}
	return data
}

func (p *Pattern) color() (dmd.Color, error) {
	if p.Color == nil {
		return dmd.White, nil
	}
	return dmd.ParseColor(p.Color)
}

func validateThreshold(level *float64) error {
	if level == nil {
		return nil
	}
	return errors.ValidateFinite("threshold", *level)
}

func (p *Pattern) disperser() (dither.Disperser, error) {
	return dither.Lookup(p.Dither, dither.Options{Threshold: p.Threshold, Seed: p.Seed})
}

// Cacheable reports whether rendering p is deterministic, so the result may
// be served from cache. Templates read an external file and random dithering
// without a seed differs on every run.
func (p *Pattern) Cacheable() bool {
	if p.Kind == KindTemplate {
		return false
	}
	if IsLattice(p.Kind) {
		d, err := p.disperser()
		return err == nil && dither.Deterministic(d)
	}
	return true
}
