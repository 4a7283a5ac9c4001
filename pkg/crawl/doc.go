// Package crawl discovers the co-authorship graph around a root author.
//
// # Algorithm
//
// [Crawler.Crawl] performs a depth-first fold over the graph. Visiting a node
// at level L leaves a budget of MaxDepth-L further levels:
//
//  1. A node already explored with at least this budget is not queried; its
//     recorded depth is lowered to L if L is smaller.
//  2. An unfetched node costs one identity query and one neighbor query.
//  3. With budget left, every neighbor is visited at L+1, heaviest edge first.
//
// Because every expansion is recorded in the store, a second crawl over a
// persisted store with the same or smaller depth issues no queries at all.
//
// # Rediscovery at a shallower level
//
// A node reached again through a shorter path always gets its depth lowered.
// If the shorter path also leaves it a larger budget than it was expanded
// with, its neighbors are expanded again with that budget. This differs from
// a pure depth-tightening fold, where a shallower rediscovery never
// re-triggers expansion and nodes behind it can keep a depth that is too
// large or be missed. Re-expansion costs no queries for nodes that are already
// fetched; only newly reachable nodes are queried.
//
// # Failures
//
// With [PolicyAbort] the first data source error ends the crawl and no
// partial store is returned. With [PolicySkip] the failing node is left out
// and the error is listed in [Report.Skipped]. A failing node is queried at
// most once per crawl. Nodes whose subtree lost a node to a skip are not
// recorded as explored, so the next crawl retries the missing nodes.
//
// # Concurrency
//
// Crawls are strictly sequential. The data source is expected to enforce the
// minimum delay between external requests.
package crawl
