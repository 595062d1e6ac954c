package cli

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/matzehuels/dmdpattern/pkg/cache"
)

func TestCacheDirLayout(t *testing.T) {
	home := t.TempDir()
	xdg := t.TempDir()

	tests := []struct {
		name string
		xdg  string
		want string
	}{
		{"home fallback", "", filepath.Join(home, ".cache", "dmdpattern")},
		{"xdg cache home", xdg, filepath.Join(xdg, "dmdpattern")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("HOME", home)
			t.Setenv("XDG_CACHE_HOME", tt.xdg)

			got, err := cacheDir()
			if err != nil {
				t.Fatalf("cacheDir: %v", err)
			}
			if got != tt.want {
				t.Errorf("cacheDir() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewCacheBackend(t *testing.T) {
	xdg := t.TempDir()
	explicit := filepath.Join(t.TempDir(), "frames")

	tests := []struct {
		name    string
		flags   cacheFlags
		wantDir string // empty: expect the null cache
	}{
		{"no-cache", cacheFlags{noCache: true}, ""},
		{"no-cache wins over redis", cacheFlags{noCache: true, redis: "localhost:6379"}, ""},
		{"cache-dir", cacheFlags{dir: explicit}, explicit},
		{"default dir", cacheFlags{}, filepath.Join(xdg, appName)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_CACHE_HOME", xdg)

			c, err := newCache(context.Background(), tt.flags)
			if err != nil {
				t.Fatalf("newCache: %v", err)
			}
			defer c.Close()

			if tt.wantDir == "" {
				if _, ok := c.(cache.NullCache); !ok {
					t.Errorf("newCache = %T, want cache.NullCache", c)
				}
				return
			}
			fc, ok := c.(*cache.FileCache)
			if !ok {
				t.Fatalf("newCache = %T, want *cache.FileCache", c)
			}
			if fc.Dir() != tt.wantDir {
				t.Errorf("cache dir = %q, want %q", fc.Dir(), tt.wantDir)
			}
		})
	}
}
