package cache

// ScopedKeyer wraps a Keyer with a prefix so that several boards or tenants
// can share one backing store without colliding.
//
// Example usage:
//
//	// Keys for layouts served by the API
//	apiKeyer := NewScopedKeyer(NewDefaultKeyer(), "api:")
//
//	// Keys for local CLI runs
//	cliKeyer := NewDefaultKeyer()
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(boardHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(boardHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
