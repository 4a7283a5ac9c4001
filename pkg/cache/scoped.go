package cache

// ScopedKeyer wraps a Keyer with a prefix so that several data source
// deployments (e.g. a mirror and the public INSPIRE API) can share one
// Redis cache without serving each other's responses.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "inspirehep.net:")
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
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// HTTPKey generates a prefixed key for HTTP response caching.
func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}
