// Package cache stores rendered pattern buffers between runs.
//
// Rendering a full-size lattice pattern evaluates and dithers more than a
// million mirrors, so the pipeline caches the encoded real-space buffer
// under a key derived from the device geometry and the pattern recipe. A
// job re-run with unchanged recipes then only decodes images.
//
// # Backends
//
//   - [NullCache]: stores nothing (--no-cache)
//   - [FileCache]: one JSON file per entry under the user cache directory
//   - [RedisCache]: shared cache for several preview servers
//
// # Keys
//
// Keys come from a [Keyer] so that callers never build key strings by hand:
//
//	k := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "v1:")
//	key := k.FrameKey(cache.FrameKeyOpts{Rows: 1140, Cols: 912, Flip: true, Recipe: p})
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with optional per-entry expiry.
type Cache interface {
	// Get returns the stored value and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data; a zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Entry lifetimes. Frames depend only on their key inputs, so they can live
// long; encoded views are cheap to rebuild.
const (
	TTLFrame = 30 * 24 * time.Hour
	TTLView  = 24 * time.Hour
)

// NullCache misses on every Get and discards every Set. The CLI uses it for
// --no-cache and for one-off commands that render a single pattern.
type NullCache struct{}

// NewNullCache returns a cache that stores nothing.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }
