// Package httputil provides HTTP utilities for data source clients.
//
// # Overview
//
//   - [Throttle]: fixed minimum delay before every outgoing request
//   - [Retry]: automatic retry with exponential backoff
//
// Response caching lives in package cache.
//
// # Throttle
//
// Public bibliographic APIs ask clients to stay below a few requests per
// second. [Throttle.Wait] sleeps [DefaultInterval] (340ms) before each request
// regardless of the latency of the previous one:
//
//	th := httputil.NewThrottle(httputil.DefaultInterval)
//	if err := th.Wait(ctx); err != nil {
//	    return err // context cancelled
//	}
//	resp, err := http.DefaultClient.Do(req)
//
// # Retry
//
// [Retry] wraps requests with automatic retry for transient failures:
//
//   - Network errors
//   - 5xx server errors
//   - 429 rate limit responses
//
// Only errors wrapped with [Retryable] are retried:
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    return fetch()
//	})
//
// # Configuration
//
//   - Throttle interval: 340ms
//   - Max retries: 3
//   - Base backoff: 1 second
package httputil
