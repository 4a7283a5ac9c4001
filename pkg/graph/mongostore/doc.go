// Package mongostore persists a graph store in MongoDB.
//
// The whole store is one document keyed by a name, so several graphs (for
// example one per crawl root) can share a collection. The document body is
// [graph.Document], which carries bson tags next to its json tags.
package mongostore
