// Package integrations provides HTTP clients for bibliographic data sources.
//
// # Overview
//
// Each data source has its own subpackage:
//
//   - [inspire]: the INSPIRE-HEP literature database
//
// # Client Pattern
//
// Source clients embed [Client] and follow a consistent pattern:
//
//	client := inspire.NewClient(backend, 24*time.Hour, inspire.Options{})
//	name, err := client.FetchIdentity(ctx, "1006450")
//
// [Client] handles:
//   - a fixed delay before every request ([httputil.Throttle])
//   - retry of transient failures with exponential backoff
//   - response caching through [cache.Cache]
//   - mapping of HTTP failures onto error codes
//
// # Error Mapping
//
//	transport failure, 5xx  → SOURCE_UNAVAILABLE (retried)
//	429                     → RATE_LIMITED (retried)
//	404                     → NOT_FOUND
//	undecodable body        → MALFORMED_RESPONSE
//
// [inspire]: github.com/matzehuels/authorsphere/pkg/integrations/inspire
// [httputil.Throttle]: github.com/matzehuels/authorsphere/pkg/httputil.Throttle
// [cache.Cache]: github.com/matzehuels/authorsphere/pkg/cache.Cache
package integrations
