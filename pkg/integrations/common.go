package integrations

import (
	"errors"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

const httpTimeout = 10 * time.Second

var (
	// ErrNotFound is the cause of NOT_FOUND errors: the record doesn't exist.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is the cause of SOURCE_UNAVAILABLE errors (timeouts,
	// connection errors, 5xx responses).
	ErrNetwork = errors.New("network error")
)

// NewHTTPClient creates an HTTP client with a standard timeout for API requests.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// LastPathSegment returns the final path element of a record reference such
// as "https://inspirehep.net/api/authors/1006450". It returns "" for
// references without a usable segment.
func LastPathSegment(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	if u, err := url.Parse(ref); err == nil && u.Path != "" {
		ref = u.Path
	}
	ref = strings.TrimRight(ref, "/")
	seg := path.Base(ref)
	if seg == "." || seg == "/" || seg == "" {
		return ""
	}
	return seg
}
