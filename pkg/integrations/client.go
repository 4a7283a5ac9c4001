package integrations

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/matzehuels/authorsphere/pkg/cache"
	apperr "github.com/matzehuels/authorsphere/pkg/errors"
	"github.com/matzehuels/authorsphere/pkg/httputil"
	"github.com/matzehuels/authorsphere/pkg/observability"
)

// Client provides shared HTTP functionality for data source clients.
// It handles caching, throttling, retry logic, and common request headers.
type Client struct {
	http     *http.Client
	cache    cache.Cache
	keyer    cache.Keyer
	prefix   string
	ttl      time.Duration
	headers  map[string]string
	throttle *httputil.Throttle
	attempts int
	backoff  time.Duration
}

// NewClient creates a Client with the given cache backend and default headers.
//
// Parameters:
//   - backend: response cache (use [cache.NewNullCache] to disable caching)
//   - prefix: cache namespace, e.g. "inspire:"
//   - ttl: how long cached responses stay valid
//   - headers: applied to all requests; nil for none
//
// The client starts without a throttle; see [Client.WithThrottle].
func NewClient(backend cache.Cache, prefix string, ttl time.Duration, headers map[string]string) *Client {
	if backend == nil {
		backend = cache.NewNullCache()
	}
	return &Client{
		http:     NewHTTPClient(),
		cache:    backend,
		keyer:    cache.NewDefaultKeyer(),
		prefix:   prefix,
		ttl:      ttl,
		headers:  headers,
		attempts: 3,
		backoff:  time.Second,
	}
}

// WithThrottle sets the delay enforced before every outgoing request.
func (c *Client) WithThrottle(t *httputil.Throttle) *Client {
	c.throttle = t
	return c
}

// WithKeyer replaces the cache key generator.
func (c *Client) WithKeyer(k cache.Keyer) *Client {
	if k != nil {
		c.keyer = k
	}
	return c
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	if h != nil {
		c.http = h
	}
	return c
}

// WithRetry sets the number of attempts and the initial backoff for
// retryable failures.
func (c *Client) WithRetry(attempts int, backoff time.Duration) *Client {
	c.attempts = attempts
	c.backoff = backoff
	return c
}

// Cached retrieves a value from cache or executes fetch and caches the result.
// If refresh is true, the cache is bypassed and fetch is always called.
// The fetch function should populate v; on success, v is stored in the cache.
// Cache failures are never fatal: an unreadable entry is a miss and a failed
// write is dropped.
func (c *Client) Cached(ctx context.Context, key string, refresh bool, v any, fetch func() error) error {
	k := c.keyer.HTTPKey(c.prefix, key)
	hooks := observability.Cache()

	if !refresh {
		if data, ok, err := c.cache.Get(ctx, k); err == nil && ok {
			if json.Unmarshal(data, v) == nil {
				hooks.OnCacheHit(ctx, c.prefix)
				return nil
			}
		}
		hooks.OnCacheMiss(ctx, c.prefix)
	}

	if err := httputil.Retry(ctx, c.attempts, c.backoff, fetch); err != nil {
		return err
	}

	if data, err := json.Marshal(v); err == nil {
		if c.cache.Set(ctx, k, data, c.ttl) == nil {
			hooks.OnCacheSet(ctx, c.prefix, len(data))
		}
	}
	return nil
}

// Get performs an HTTP GET request and JSON-decodes the response into v.
// Undecodable bodies are reported as MALFORMED_RESPONSE.
func (c *Client) Get(ctx context.Context, url string, v any) error {
	return c.GetWithHeaders(ctx, url, nil, v)
}

// GetWithHeaders performs an HTTP GET with additional headers merged with defaults.
// Request-specific headers override client defaults for the same key.
func (c *Client) GetWithHeaders(ctx context.Context, url string, headers map[string]string, v any) error {
	body, err := c.doRequest(ctx, url, headers)
	if err != nil {
		return err
	}
	defer body.Close()
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return apperr.Wrap(apperr.ErrCodeMalformedResponse, err, "decode %s", url)
	}
	return nil
}

func (c *Client) doRequest(ctx context.Context, rawURL string, headers map[string]string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "build request")
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	if err := c.throttle.Wait(ctx); err != nil {
		return nil, err
	}

	hooks := observability.HTTP()
	host, path := splitURL(req.URL)
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, httputil.Retryable(apperr.Wrap(apperr.ErrCodeSourceUnavailable, fmt.Errorf("%w: %v", ErrNetwork, err), "GET %s", rawURL))
	}
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

func checkStatus(resp *http.Response) error {
	code := resp.StatusCode
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return apperr.Wrap(apperr.ErrCodeNotFound, ErrNotFound, "status %d", code)
	case code == http.StatusTooManyRequests:
		retryAfter, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
		return httputil.Retryable(apperr.Wrap(apperr.ErrCodeRateLimited,
			&apperr.RateLimitedError{RetryAfter: retryAfter}, "status %d", code))
	case code >= 500:
		return httputil.Retryable(apperr.Wrap(apperr.ErrCodeSourceUnavailable,
			fmt.Errorf("%w: status %d", ErrNetwork, code), "server error"))
	default:
		return apperr.Wrap(apperr.ErrCodeSourceUnavailable,
			fmt.Errorf("%w: status %d", ErrNetwork, code), "unexpected response")
	}
}

func splitURL(u *url.URL) (host, path string) {
	if u == nil {
		return "", ""
	}
	return u.Host, u.Path
}
