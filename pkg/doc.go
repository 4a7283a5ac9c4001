// Package pkg provides the libraries behind authorsphere, a co-authorship
// graph crawler and force-layout viewer.
//
// # Overview
//
// Authorsphere discovers who published with whom around one root author on
// INSPIRE-HEP and draws the resulting network with an annealed force
// simulation. The pkg directory is organized by stage:
//
//  1. [graph] - The persisted store of discovered authors, depths and edges
//  2. [crawl] - Memoized, depth-bounded traversal of a data source
//  3. [integrations] - HTTP plumbing and the INSPIRE-HEP data source
//  4. [layout] - The frame-by-frame force simulation
//  5. [render] - Canvas abstraction, terminal raster and Graphviz export
//
// # Architecture
//
// The data flow:
//
//	INSPIRE-HEP REST API
//	         ↓
//	    [integrations/inspire] (throttled, cached, retried queries)
//	         ↓
//	    [crawl] (visit, memoize, tighten depths)
//	         ↓
//	    [graph] (persisted between runs)
//	         ↓
//	    [layout] (one Step per frame)
//	         ↓
//	    [render] (terminal viewer, DOT/SVG/PNG)
//
// # Quick Start
//
//	src := inspire.NewClient(cache.NewNullCache(), 24*time.Hour, inspire.Options{})
//	store, report, err := crawl.New(src, crawl.Options{MaxDepth: 2}).
//	    Crawl(ctx, "1006450", graph.NewStore())
//
//	e := layout.New(store, layout.Size{W: 1800, H: 900}, "1006450", layout.DefaultConfig())
//	for range 1000 {
//	    positions = e.Step()
//	}
//	svg, err := nodelink.RenderSVG(ctx, nodelink.ToDOT(store, positions, nodelink.Options{Size: e.Size()}))
//
// # Supporting Packages
//
//   - [cache]: response cache backends (file, Redis, null)
//   - [httputil]: retry with backoff and the fixed inter-request throttle
//   - [errors]: error codes shared across packages
//   - [observability]: hooks for crawl, layout, cache and HTTP events
//   - [observability/prom]: Prometheus implementation of those hooks
//   - [graph/mongostore]: MongoDB persistence for the graph store
//   - [buildinfo]: version information injected at build time
//
// [graph]: https://pkg.go.dev/github.com/matzehuels/authorsphere/pkg/graph
// [graph/mongostore]: https://pkg.go.dev/github.com/matzehuels/authorsphere/pkg/graph/mongostore
// [crawl]: https://pkg.go.dev/github.com/matzehuels/authorsphere/pkg/crawl
// [integrations]: https://pkg.go.dev/github.com/matzehuels/authorsphere/pkg/integrations
// [integrations/inspire]: https://pkg.go.dev/github.com/matzehuels/authorsphere/pkg/integrations/inspire
// [layout]: https://pkg.go.dev/github.com/matzehuels/authorsphere/pkg/layout
// [render]: https://pkg.go.dev/github.com/matzehuels/authorsphere/pkg/render
// [cache]: https://pkg.go.dev/github.com/matzehuels/authorsphere/pkg/cache
// [httputil]: https://pkg.go.dev/github.com/matzehuels/authorsphere/pkg/httputil
// [errors]: https://pkg.go.dev/github.com/matzehuels/authorsphere/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/authorsphere/pkg/observability
// [observability/prom]: https://pkg.go.dev/github.com/matzehuels/authorsphere/pkg/observability/prom
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/authorsphere/pkg/buildinfo
package pkg
