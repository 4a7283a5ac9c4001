package graph

import (
	"cmp"
	"maps"
	"slices"

	"github.com/matzehuels/authorsphere/pkg/errors"
)

// =============================================================================
// NodeID - Author Identifier
// =============================================================================

// NodeID identifies a person in the external bibliographic graph.
// It is a comparable value type and is always held by copy.
type NodeID string

// ParseNodeID validates a user-supplied identifier (typically a crawl root).
// Identifiers produced by a data source or decoded from a stored graph do not
// go through ParseNodeID.
func ParseNodeID(s string) (NodeID, error) {
	if err := errors.ValidateNodeID(s); err != nil {
		return "", err
	}
	return NodeID(s), nil
}

// String returns the raw identifier.
func (id NodeID) String() string { return string(id) }

// =============================================================================
// Node - Discovered Author
// =============================================================================

// Node is one fetched author: a display name and the weighted set of
// co-authors. Edge weights count shared records and are always positive.
//
// Edges are directed as observed: Edges[B] on A's node comes from A's query
// and is not required to equal Edges[A] on B's node.
type Node struct {
	Name  string         `json:"name" bson:"name"`
	Edges map[NodeID]int `json:"edges,omitempty" bson:"edges,omitempty"`
}

// NewNode creates a node with the given display name and no edges.
func NewNode(name string) *Node {
	return &Node{Name: name, Edges: make(map[NodeID]int)}
}

// AddEdge accumulates w onto the weight towards id.
// Repeated discoveries of the same neighbor add up rather than overwrite.
// Non-positive weights are ignored.
func (n *Node) AddEdge(id NodeID, w int) {
	if w <= 0 {
		return
	}
	if n.Edges == nil {
		n.Edges = make(map[NodeID]int)
	}
	n.Edges[id] += w
}

// Weight returns the edge weight towards id, or 0 if there is no edge.
func (n *Node) Weight(id NodeID) int {
	if n == nil {
		return 0
	}
	return n.Edges[id]
}

// Degree returns the number of distinct neighbors.
func (n *Node) Degree() int { return len(n.Edges) }

// Neighbors returns neighbor IDs ordered by descending weight, ties broken by ID.
// The order is deterministic so that depth-first crawls are reproducible.
func (n *Node) Neighbors() []NodeID {
	ids := slices.Collect(maps.Keys(n.Edges))
	slices.SortFunc(ids, func(a, b NodeID) int {
		if c := cmp.Compare(n.Edges[b], n.Edges[a]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	return ids
}

// Clone returns a deep copy of the node.
func (n *Node) Clone() *Node {
	return &Node{Name: n.Name, Edges: maps.Clone(n.Edges)}
}
