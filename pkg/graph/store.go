package graph

import (
	"maps"
	"slices"
)

// Store is the authoritative crawl state: fetched nodes and the minimum depth
// at which each node has been scheduled for discovery.
//
// Invariants:
//   - depths[id] only ever decreases.
//   - nodes[id] exists iff id has been fetched at least once; nodes are never removed.
//   - explored keys are a subset of nodes keys.
//
// Store is not safe for concurrent use. The crawler is its only writer and
// the layout engine reads it after the crawl has finished.
type Store struct {
	nodes    map[NodeID]*Node
	depths   map[NodeID]int
	explored map[NodeID]int
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		nodes:    make(map[NodeID]*Node),
		depths:   make(map[NodeID]int),
		explored: make(map[NodeID]int),
	}
}

// Depth returns the minimum recorded discovery depth of id.
func (s *Store) Depth(id NodeID) (int, bool) {
	d, ok := s.depths[id]
	return d, ok
}

// Node returns the fetched node for id.
func (s *Store) Node(id NodeID) (*Node, bool) {
	n, ok := s.nodes[id]
	return n, ok
}

// AddNode inserts or overwrites the node content for id and lowers its
// recorded depth to depth (inserting the depth if absent).
func (s *Store) AddNode(id NodeID, n *Node, depth int) {
	s.nodes[id] = n
	if d, ok := s.depths[id]; !ok || depth < d {
		s.depths[id] = depth
	}
}

// TightenDepth lowers the recorded depth of id to depth.
// It is a no-op when id has no recorded depth.
func (s *Store) TightenDepth(id NodeID, depth int) {
	if d, ok := s.depths[id]; ok && depth < d {
		s.depths[id] = depth
	}
}

// Explored returns the largest remaining depth budget with which the
// neighbors of id have been expanded, or -1 if id was never expanded.
func (s *Store) Explored(id NodeID) int {
	if b, ok := s.explored[id]; ok {
		return b
	}
	return -1
}

// MarkExplored records that the neighbors of id were expanded with budget.
// Only fetched nodes can be marked; the recorded budget never decreases.
func (s *Store) MarkExplored(id NodeID, budget int) {
	if _, ok := s.nodes[id]; !ok {
		return
	}
	if b, ok := s.explored[id]; !ok || budget > b {
		s.explored[id] = budget
	}
}

// SetExplored overwrites the expansion budget recorded for id. A negative
// budget removes the record. Unlike [Store.MarkExplored] it may lower the
// budget, which the crawler uses to withdraw an expansion that left nodes out.
func (s *Store) SetExplored(id NodeID, budget int) {
	if budget < 0 {
		delete(s.explored, id)
		return
	}
	if _, ok := s.nodes[id]; ok {
		s.explored[id] = budget
	}
}

// IDs returns all fetched node IDs in ascending order.
func (s *Store) IDs() []NodeID {
	return slices.Sorted(maps.Keys(s.nodes))
}

// Len returns the number of fetched nodes.
func (s *Store) Len() int { return len(s.nodes) }

// EdgeCount returns the number of directed edges across all fetched nodes.
func (s *Store) EdgeCount() int {
	total := 0
	for _, n := range s.nodes {
		total += len(n.Edges)
	}
	return total
}

// DepthHistogram counts fetched nodes per recorded depth.
func (s *Store) DepthHistogram() map[int]int {
	h := make(map[int]int)
	for id := range s.nodes {
		h[s.depths[id]]++
	}
	return h
}

// Clone returns a deep copy of the store.
func (s *Store) Clone() *Store {
	c := &Store{
		nodes:    make(map[NodeID]*Node, len(s.nodes)),
		depths:   maps.Clone(s.depths),
		explored: maps.Clone(s.explored),
	}
	for id, n := range s.nodes {
		c.nodes[id] = n.Clone()
	}
	return c
}

// Equal reports whether both stores hold the same nodes, edges and depths.
func (s *Store) Equal(o *Store) bool {
	if len(s.nodes) != len(o.nodes) || !maps.Equal(s.depths, o.depths) || !maps.Equal(s.explored, o.explored) {
		return false
	}
	for id, n := range s.nodes {
		m, ok := o.nodes[id]
		if !ok || n.Name != m.Name || !maps.Equal(n.Edges, m.Edges) {
			return false
		}
	}
	return true
}
