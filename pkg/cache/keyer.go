package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Keyer derives cache keys.
type Keyer interface {
	// FrameKey identifies a rendered real-space buffer.
	FrameKey(opts FrameKeyOpts) string
	// ViewKey identifies an encoded view (mirror, real, template, ...) of a
	// rendered frame at a given width.
	ViewKey(frameKey string, opts ViewKeyOpts) string
}

// FrameKeyOpts are the inputs that determine a rendered frame.
type FrameKeyOpts struct {
	Rows, Cols int
	Flip       bool
	// Recipe is any JSON-encodable description of the pattern.
	Recipe any
}

// ViewKeyOpts select an encoded view of a frame.
type ViewKeyOpts struct {
	View   string
	Format string
	Width  int
}

// DefaultKeyer hashes key inputs with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

func (DefaultKeyer) FrameKey(opts FrameKeyOpts) string {
	return hashKey("frame", opts.Rows, opts.Cols, opts.Flip, opts.Recipe)
}

func (DefaultKeyer) ViewKey(frameKey string, opts ViewKeyOpts) string {
	return fmt.Sprintf("view:%s:%s.%s@%d", frameKey, opts.View, opts.Format, opts.Width)
}

// hashKey returns prefix:sha256(json(parts)).
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return prefix + ":" + Hash(data)
}

// Hash returns the hex SHA-256 digest of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
