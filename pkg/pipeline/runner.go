package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image/png"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/image/font"

	"github.com/matzehuels/dmdpattern/pkg/cache"
	"github.com/matzehuels/dmdpattern/pkg/catalog"
	"github.com/matzehuels/dmdpattern/pkg/dmd"
	"github.com/matzehuels/dmdpattern/pkg/errors"
	"github.com/matzehuels/dmdpattern/pkg/fonts"
	"github.com/matzehuels/dmdpattern/pkg/inspect"
	"github.com/matzehuels/dmdpattern/pkg/io"
	"github.com/matzehuels/dmdpattern/pkg/observability"
)

// InspectPrefix names the inspection panel written next to a lattice pattern.
const InspectPrefix = "inspect_"

// Runner encapsulates pattern rendering with caching.
// Both the CLI and the preview server use it so that cache keys and saved
// file names agree.
//
// The Runner is stateless except for its collaborators; multiple goroutines
// can use the same Runner.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// Face labels template corners. Nil selects the embedded Go font.
	Face font.Face
	// Catalog, when set, records every saved pattern.
	Catalog *catalog.Catalog
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Saved describes one pattern written by Execute.
type Saved struct {
	Name      string        `json:"name"`
	Kind      string        `json:"kind"`
	Paths     io.FramePaths `json:"paths"`
	Inspect   string        `json:"inspect,omitempty"`
	OnCount   int           `json:"on_count"`
	CacheHit  bool          `json:"cache_hit"`
	CatalogID uuid.UUID     `json:"catalog_id,omitempty"`
	Duration  time.Duration `json:"duration"`
}

// Result is the outcome of a job.
type Result struct {
	Saved []Saved `json:"saved"`
	Stats struct {
		Rendered  int           `json:"rendered"`
		CacheHits int           `json:"cache_hits"`
		Duration  time.Duration `json:"duration"`
	} `json:"stats"`
}

// Execute renders and saves every pattern of the job in order. It stops at
// the first failing pattern; patterns saved before it stay on disk and are
// listed in the partial result.
func (r *Runner) Execute(ctx context.Context, job *Job) (*Result, error) {
	if err := job.Validate(); err != nil {
		return nil, fmt.Errorf("invalid job: %w", err)
	}
	start := time.Now()
	result := &Result{}

	if job.Output.Catalog && r.Catalog == nil {
		path := filepath.Join(job.Output.Dir, catalog.FileName)
		cat, err := catalog.Open(ctx, path)
		if err != nil {
			return nil, err
		}
		defer cat.Close()
		scoped := *r
		scoped.Catalog = cat
		r = &scoped
	}

	for _, p := range job.Patterns {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		saved, err := r.renderAndSave(ctx, job, p)
		if err != nil {
			return result, fmt.Errorf("pattern %s: %w", p.Name, err)
		}
		result.Saved = append(result.Saved, saved)
		if saved.CacheHit {
			result.Stats.CacheHits++
		} else {
			result.Stats.Rendered++
		}
	}
	result.Stats.Duration = time.Since(start)

	r.Logger.Info("job complete",
		"patterns", len(result.Saved),
		"rendered", result.Stats.Rendered,
		"cached", result.Stats.CacheHits,
		"dir", job.Output.Dir,
		"duration", result.Stats.Duration)
	return result, nil
}

func (r *Runner) renderAndSave(ctx context.Context, job *Job, p Pattern) (Saved, error) {
	start := time.Now()
	// Inspection needs the lattice fields, which the cache does not keep.
	useCache := !(job.Output.Inspect && IsLattice(p.Kind))

	rendered, err := r.renderWithCacheInfo(ctx, job.Device, p, useCache)
	if err != nil {
		return Saved{}, err
	}

	saved, err := r.Save(ctx, job.Output, rendered)
	if err != nil {
		return Saved{}, err
	}
	saved.Duration = time.Since(start)

	r.Logger.Debug("saved pattern",
		"name", p.Name,
		"kind", p.Kind,
		"on", rendered.OnCount,
		"cached", rendered.CacheHit,
		"duration", saved.Duration)
	return saved, nil
}

// RenderWithCacheInfo renders p for geom, serving deterministic recipes from
// the cache. The returned Rendered reports whether it was a cache hit.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, geom dmd.Geometry, p Pattern) (*Rendered, error) {
	return r.renderWithCacheInfo(ctx, geom, p, true)
}

// Render is RenderWithCacheInfo without the cache.
func (r *Runner) Render(ctx context.Context, geom dmd.Geometry, p Pattern) (*Rendered, error) {
	return r.renderWithCacheInfo(ctx, geom, p, false)
}

// cachedFrame is the cache envelope of a rendered frame.
type cachedFrame struct {
	OnCount int    `json:"on_count"`
	Real    []byte `json:"real"` // PNG
}

func (r *Runner) renderWithCacheInfo(ctx context.Context, geom dmd.Geometry, p Pattern, useCache bool) (*Rendered, error) {
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, p.Name, p.Kind)
	start := time.Now()

	useCache = useCache && p.Cacheable()
	var key string
	if useCache {
		key = r.FrameKey(geom, p)
		if rendered, ok := r.fromCache(ctx, key, geom, p); ok {
			hooks.OnRenderComplete(ctx, p.Name, p.Kind, rendered.OnCount, time.Since(start), nil)
			return rendered, nil
		}
	}

	rendered, err := Render(p, geom)
	hooks.OnRenderComplete(ctx, p.Name, p.Kind, onCount(rendered), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	r.Logger.Debug("rendered pattern", "name", p.Name, "kind", p.Kind, "duration", time.Since(start))

	if useCache {
		r.toCache(ctx, key, rendered)
	}
	return rendered, nil
}

// FrameKey returns the cache key of p rendered for geom.
func (r *Runner) FrameKey(geom dmd.Geometry, p Pattern) string {
	// The name only picks the output file; identical recipes share a frame.
	p.Name = ""
	return r.Keyer.FrameKey(cache.FrameKeyOpts{
		Rows:   geom.Rows,
		Cols:   geom.Cols,
		Flip:   geom.Flip,
		Recipe: p.Recipe(),
	})
}

func (r *Runner) fromCache(ctx context.Context, key string, geom dmd.Geometry, p Pattern) (*Rendered, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "key", key, "error", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "frame")
		return nil, false
	}

	var env cachedFrame
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, false
	}
	img, err := png.Decode(bytes.NewReader(env.Real))
	if err != nil {
		return nil, false
	}
	f, err := dmd.NewFrame(geom)
	if err != nil {
		return nil, false
	}
	if err := f.LoadReal(img); err != nil {
		// Stale entry for a different real size.
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "frame")
	return &Rendered{Pattern: p, Frame: f, OnCount: env.OnCount, CacheHit: true}, true
}

func (r *Runner) toCache(ctx context.Context, key string, rendered *Rendered) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, rendered.Frame.Real()); err != nil {
		return
	}
	data, err := json.Marshal(cachedFrame{OnCount: rendered.OnCount, Real: buf.Bytes()})
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, cache.TTLFrame); err != nil {
		r.Logger.Warn("cache write failed", "key", key, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "frame", len(data))
}

// Save writes the pattern and template images of rendered into out.Dir,
// plus an inspection panel when requested and available, and records the
// result in the catalog if the runner has one.
func (r *Runner) Save(ctx context.Context, out Output, rendered *Rendered) (Saved, error) {
	p := rendered.Pattern
	start := time.Now()
	saved := Saved{Name: p.Name, Kind: p.Kind, OnCount: rendered.OnCount, CacheHit: rendered.CacheHit}

	face, closeFace := r.face()
	defer closeFace()

	paths, err := io.SaveFrame(out.Dir, p.Name, rendered.Frame, face)
	written := []string{paths.Pattern, paths.Template}
	if err == nil && out.Inspect && rendered.Gray != nil {
		saved.Inspect, err = r.saveInspect(out.Dir, rendered)
		written = append(written, saved.Inspect)
	}
	observability.Pipeline().OnSaveComplete(ctx, p.Name, written, time.Since(start), err)
	if err != nil {
		return Saved{}, err
	}
	saved.Paths = paths

	if r.Catalog != nil {
		g := rendered.Frame.Geometry()
		e, err := r.Catalog.Record(ctx, catalog.Entry{
			Name:         p.Name,
			Kind:         p.Kind,
			Rows:         g.Rows,
			Cols:         g.Cols,
			Flip:         g.Flip,
			OnCount:      rendered.OnCount,
			PatternPath:  paths.Pattern,
			TemplatePath: paths.Template,
			Recipe:       p.Recipe(),
		})
		if err != nil {
			return Saved{}, err
		}
		saved.CatalogID = e.ID
	}
	return saved, nil
}

func (r *Runner) saveInspect(dir string, rendered *Rendered) (string, error) {
	panel, err := inspect.Panel(rendered.Gray, rendered.Binary)
	if err != nil {
		return "", err
	}
	name := rendered.Pattern.Name
	path := filepath.Join(dir, InspectPrefix+name[:len(name)-len(filepath.Ext(name))]+".png")
	if err := io.ExportImage(panel, path); err != nil {
		return "", err
	}
	return path, nil
}

// face returns the label face and a func releasing it. If the embedded font
// cannot be loaded, labels fall back to the bitmap face.
func (r *Runner) face() (font.Face, func()) {
	if r.Face != nil {
		return r.Face, func() {}
	}
	face, err := fonts.LabelFace()
	if err != nil {
		r.Logger.Warn("label font unavailable, using fallback", "error", err)
		return nil, func() {}
	}
	return face, func() { face.Close() }
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	var err error
	if r.Cache != nil {
		err = r.Cache.Close()
	}
	if r.Catalog != nil {
		if cerr := r.Catalog.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func onCount(rendered *Rendered) int {
	if rendered == nil {
		return 0
	}
	return rendered.OnCount
}

// IsUserError reports whether err stems from bad input rather than a
// failure of the environment.
func IsUserError(err error) bool {
	return errors.IsValidation(err) || errors.Is(err, errors.ErrCodeFileNotFound) ||
		errors.Is(err, errors.ErrCodeOutOfBounds) || errors.Is(err, errors.ErrCodeSizeMismatch)
}
