// Package cache stores raw HTTP response bodies for the data source clients.
//
// Three backends implement [Cache]:
//
//   - [FileCache]: one file per key under a directory (the CLI default)
//   - [RedisCache]: a shared Redis instance, keys under a prefix
//   - [NullCache]: never stores anything (--no-cache)
//
// Keys are produced by a [Keyer] so that the backends never see raw URLs
// from different sources collide.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry TTL.
type Cache interface {
	// Get returns the cached bytes. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Keyer generates cache keys.
type Keyer interface {
	// HTTPKey builds the key for a response fetched from a namespace
	// (e.g. "inspire:authors") and request-specific key (e.g. the URL).
	HTTPKey(namespace, key string) string
}

// DefaultKeyer joins namespace and key verbatim.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// HTTPKey returns "http:<namespace>:<key>".
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}
