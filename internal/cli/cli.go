// Package cli implements the dmdpattern command-line interface.
//
// This package provides commands for rendering DMD pattern jobs, writing
// uniform frames, converting edited real-space templates back into device
// patterns, previewing jobs over HTTP and browsing the pattern catalog. The
// CLI is built using cobra and logs via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - render: Render every pattern of a TOML job file
//   - uniform: Write a single uniform pattern
//   - convert: Turn a real-space image into a device pattern
//   - serve: Preview a job in the browser
//   - list: Show patterns recorded in a catalog
//   - kinds: List the supported pattern kinds
//   - cache: Manage the render cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dmdpattern/pkg/buildinfo"
	"github.com/matzehuels/dmdpattern/pkg/cache"
	"github.com/matzehuels/dmdpattern/pkg/dmd"
	"github.com/matzehuels/dmdpattern/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "dmdpattern"

	// defaultAddr is where the preview server listens.
	defaultAddr = "localhost:8080"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// =============================================================================
// Runner Factory
// =============================================================================

// cacheFlags select the render cache backend.
type cacheFlags struct {
	noCache bool
	dir     string
	redis   string
}

func (f *cacheFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the render cache")
	cmd.Flags().StringVar(&f.dir, "cache-dir", "", "render cache directory (default $XDG_CACHE_HOME/dmdpattern)")
	cmd.Flags().StringVar(&f.redis, "redis", "", "use the Redis server at this address as render cache")
}

// newRunner creates a pipeline runner for CLI use. Cache keys are scoped to
// the build so a new release never serves frames rendered by an old one.
func (c *CLI) newRunner(ctx context.Context, flags cacheFlags) (*pipeline.Runner, error) {
	cc, err := newCache(ctx, flags)
	if err != nil {
		return nil, err
	}
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), buildinfo.CacheScope())
	return pipeline.NewRunner(cc, keyer, c.Logger), nil
}

func newCache(ctx context.Context, flags cacheFlags) (cache.Cache, error) {
	switch {
	case flags.noCache:
		return cache.NewNullCache(), nil
	case flags.redis != "":
		return cache.NewRedisCache(ctx, cache.RedisConfig{Addr: flags.redis, Prefix: appName + ":"})
	}
	dir := flags.dir
	if dir == "" {
		d, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		dir = d
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/dmdpattern/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Flag Helpers
// =============================================================================

// addDeviceFlags registers --rows, --cols and --flip, defaulting to g.
func addDeviceFlags(cmd *cobra.Command, g *dmd.Geometry) {
	cmd.Flags().IntVar(&g.Rows, "rows", g.Rows, "mirror rows of the device")
	cmd.Flags().IntVar(&g.Cols, "cols", g.Cols, "mirror columns of the device")
	cmd.Flags().BoolVar(&g.Flip, "flip", g.Flip, "device is mounted flipped")
}
