// Package graph holds the crawl state of authorsphere: the discovered
// authors, their weighted co-author edges and the minimum depth at which each
// author was scheduled for discovery.
//
// # Core Types
//
//   - [NodeID]: opaque, comparable author identifier
//   - [Node]: display name plus co-author weights
//   - [Store]: fetched nodes and per-node minimum depth
//   - [Document]: JSON/BSON serialization of a Store
//   - [Persister]: backend that loads and saves a Store between runs
//
// # Ownership
//
// The crawler is the only writer of a Store. After a crawl the store is
// handed to the layout engine, which only reads it. Other components hold
// [NodeID] values, never pointers into the store.
//
// # Serialization
//
// Stores are written as indented JSON with sorted keys:
//
//	{
//	  "nodes":  {"1006450": {"name": "Stephen W. Hawking", "edges": {"987332": 3}}},
//	  "depths": {"1006450": 0}
//	}
//
// Common operations:
//
//	s, err := graph.ReadFile("graph.json")   // File → Store
//	graph.WriteFile(s, "graph.json")         // Store → File (atomic)
//	s := graph.LoadOrEmpty(ctx, p, logger)   // never fails; corrupt state warns
package graph
