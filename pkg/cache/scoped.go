package cache

// ScopedKeyer wraps a Keyer with a prefix, separating cache namespaces such
// as release versions or preview servers sharing one Redis instance.
//
//	k := NewScopedKeyer(NewDefaultKeyer(), "dmdpattern:"+buildinfo.Version+":")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer uses
// DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// FrameKey generates a prefixed frame key.
func (k *ScopedKeyer) FrameKey(opts FrameKeyOpts) string {
	return k.prefix + k.inner.FrameKey(opts)
}

// ViewKey generates a view key. The frame key already carries the prefix
// when it came from this keyer, so it is not prefixed twice.
func (k *ScopedKeyer) ViewKey(frameKey string, opts ViewKeyOpts) string {
	if len(frameKey) >= len(k.prefix) && frameKey[:len(k.prefix)] == k.prefix {
		return k.prefix + k.inner.ViewKey(frameKey[len(k.prefix):], opts)
	}
	return k.prefix + k.inner.ViewKey(frameKey, opts)
}
