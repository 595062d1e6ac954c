// Package preview serves the patterns of a job over HTTP.
//
// The server renders patterns on demand through a [pipeline.Runner] and
// keeps the results in memory, so a browser can compare the mirror image
// uploaded to the device with its real-space view while a job file is being
// tuned. Nothing is written to the output directory.
//
// # Routes
//
//	GET /healthz
//	GET /patterns                          JSON list of the job's patterns
//	GET /patterns/{name}                   JSON recipe of one pattern
//	GET /patterns/{name}/{view}.png        one view, optionally ?width=N
//
// Views are mirror, real, template, intensity and (lattice kinds only)
// inspect.
package preview

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/dmdpattern/pkg/cache"
	dmderrors "github.com/matzehuels/dmdpattern/pkg/errors"
	"github.com/matzehuels/dmdpattern/pkg/httputil"
	"github.com/matzehuels/dmdpattern/pkg/inspect"
	"github.com/matzehuels/dmdpattern/pkg/observability"
	"github.com/matzehuels/dmdpattern/pkg/pipeline"
)

// View names.
const (
	ViewMirror    = "mirror"
	ViewReal      = "real"
	ViewTemplate  = "template"
	ViewIntensity = "intensity"
	ViewInspect   = "inspect"
)

// MaxWidth bounds the width query parameter.
const MaxWidth = 4096

// Server renders and serves the patterns of one job.
type Server struct {
	runner *pipeline.Runner
	job    *pipeline.Job
	logger *log.Logger
	router chi.Router

	byName map[string]pipeline.Pattern

	mu       sync.Mutex
	rendered map[string]*pipeline.Rendered
}

// New builds a server for job. The job is validated here so that handlers
// only see renderable recipes.
func New(runner *pipeline.Runner, job *pipeline.Job, logger *log.Logger) (*Server, error) {
	if err := job.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = runner.Logger
	}
	s := &Server{
		runner:   runner,
		job:      job,
		logger:   logger,
		byName:   make(map[string]pipeline.Pattern, len(job.Patterns)),
		rendered: make(map[string]*pipeline.Rendered),
	}
	for _, p := range job.Patterns {
		s.byName[p.Name] = p
	}
	s.router = s.routes()
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Route("/patterns", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Get("/{name}", s.handleRecipe)
		r.Get("/{name}/{view}.png", s.handleView)
	})
	return r
}

// instrument reports every request to the server hooks and the logger.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.Server()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, time.Since(start))
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// PatternInfo is one entry of the pattern list.
type PatternInfo struct {
	Name  string   `json:"name"`
	Kind  string   `json:"kind"`
	Views []string `json:"views"`
}

func (s *Server) handleList(w http.ResponseWriter, _ *http.Request) {
	out := make([]PatternInfo, 0, len(s.job.Patterns))
	for _, p := range s.job.Patterns {
		out = append(out, PatternInfo{Name: p.Name, Kind: p.Kind, Views: views(p)})
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"device":   s.job.Device,
		"patterns": out,
	})
}

func (s *Server) handleRecipe(w http.ResponseWriter, r *http.Request) {
	p, err := s.lookup(chi.URLParam(r, "name"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, p)
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	p, err := s.lookup(chi.URLParam(r, "name"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	view := chi.URLParam(r, "view")
	if !hasView(p, view) {
		httputil.WriteError(w, dmderrors.New(dmderrors.ErrCodeNotFound,
			"pattern %s has no %s view (want one of %s)", p.Name, view, strings.Join(views(p), ", ")))
		return
	}
	width, err := httputil.QueryInt(r, "width", 0, 1, MaxWidth)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	data, err := s.view(r.Context(), p, view, width)
	if err != nil {
		s.logger.Warn("render view failed", "name", p.Name, "view", view, "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteImage(w, "image/png", data)
}

func (s *Server) lookup(name string) (pipeline.Pattern, error) {
	p, ok := s.byName[name]
	if !ok {
		return pipeline.Pattern{}, dmderrors.New(dmderrors.ErrCodeNotFound, "no pattern named %q", name)
	}
	return p, nil
}

// view returns the PNG encoding of one view. Deterministic recipes are
// served from the runner's cache when possible.
func (s *Server) view(ctx context.Context, p pipeline.Pattern, view string, width int) ([]byte, error) {
	var key string
	if p.Cacheable() {
		frameKey := s.runner.FrameKey(s.job.Device, p)
		key = s.runner.Keyer.ViewKey(frameKey, cache.ViewKeyOpts{View: view, Format: "png", Width: width})
		if data, hit, err := s.runner.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "view")
			return data, nil
		}
		observability.Cache().OnCacheMiss(ctx, "view")
	}

	rendered, err := s.render(ctx, p, view == ViewInspect)
	if err != nil {
		return nil, err
	}
	img, err := viewImage(rendered, view)
	if err != nil {
		return nil, err
	}
	if width > 0 && width < img.Bounds().Dx() {
		img = imaging.Resize(img, width, 0, imaging.NearestNeighbor)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, dmderrors.Wrap(dmderrors.ErrCodeInternal, err, "encode %s view", view)
	}
	data := buf.Bytes()
	if key != "" {
		if err := s.runner.Cache.Set(ctx, key, data, cache.TTLView); err == nil {
			observability.Cache().OnCacheSet(ctx, "view", len(data))
		}
	}
	return data, nil
}

// render returns the in-memory rendering of p. needFields forces a fresh
// render when the stored one came from cache without lattice fields.
func (s *Server) render(ctx context.Context, p pipeline.Pattern, needFields bool) (*pipeline.Rendered, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r, ok := s.rendered[p.Name]; ok && (!needFields || r.Gray != nil) {
		return r, nil
	}

	var (
		r   *pipeline.Rendered
		err error
	)
	if needFields {
		r, err = s.runner.Render(ctx, s.job.Device, p)
	} else {
		r, err = s.runner.RenderWithCacheInfo(ctx, s.job.Device, p)
	}
	if err != nil {
		return nil, err
	}
	s.rendered[p.Name] = r
	return r, nil
}

func viewImage(r *pipeline.Rendered, view string) (image.Image, error) {
	switch view {
	case ViewMirror:
		return r.Frame.Mirror(), nil
	case ViewReal:
		return r.Frame.Real(), nil
	case ViewTemplate:
		return r.Frame.Template(nil), nil
	case ViewIntensity:
		return intensityImage(r), nil
	case ViewInspect:
		if r.Gray == nil {
			return nil, dmderrors.New(dmderrors.ErrCodeNotFound, "pattern %s has no lattice fields", r.Pattern.Name)
		}
		return inspect.Panel(r.Gray, r.Binary)
	}
	return nil, dmderrors.New(dmderrors.ErrCodeNotFound, "unknown view %q", view)
}

// intensityImage renders the simulated real-space intensity as 8-bit gray,
// scaled so that a white mirror is full brightness.
func intensityImage(r *pipeline.Rendered) image.Image {
	rows, cols := r.Frame.RealSize()
	vals := r.Frame.SimulateIntensity()
	img := image.NewGray(image.Rect(0, 0, cols, rows))
	for i, v := range vals {
		img.Pix[i] = uint8(v / 3)
	}
	return img
}

func views(p pipeline.Pattern) []string {
	v := []string{ViewMirror, ViewReal, ViewTemplate, ViewIntensity}
	if pipeline.IsLattice(p.Kind) {
		v = append(v, ViewInspect)
	}
	return v
}

func hasView(p pipeline.Pattern, view string) bool {
	for _, v := range views(p) {
		if v == view {
			return true
		}
	}
	return false
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("preview server listening", "addr", addr, "patterns", len(s.job.Patterns))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down preview server")
		return srv.Shutdown(shutdownCtx)
	}
}
