package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/matzehuels/authorsphere/pkg/errors"
)

// =============================================================================
// Document - Store Serialization
// =============================================================================

// Document is the canonical serialization format of a Store.
// It is human-readable and used for files and database documents alike.
//
// Round trip: Marshal → Unmarshal produces a Store for which Equal holds.
type Document struct {
	Nodes    map[NodeID]*Node `json:"nodes" bson:"nodes"`
	Depths   map[NodeID]int   `json:"depths" bson:"depths"`
	Explored map[NodeID]int   `json:"explored,omitempty" bson:"explored,omitempty"`
}

// ToDocument converts a store to its serialization format.
// The document shares no memory with the store.
func ToDocument(s *Store) Document {
	c := s.Clone()
	return Document{Nodes: c.nodes, Depths: c.depths, Explored: c.explored}
}

// FromDocument validates a document and converts it to a Store.
func FromDocument(doc Document) (*Store, error) {
	if err := Validate(doc); err != nil {
		return nil, err
	}
	s := NewStore()
	for id, n := range doc.Nodes {
		c := n.Clone()
		if c.Edges == nil {
			c.Edges = make(map[NodeID]int)
		}
		s.nodes[id] = c
	}
	for id, d := range doc.Depths {
		s.depths[id] = d
	}
	for id, b := range doc.Explored {
		s.explored[id] = b
	}
	return s, nil
}

// Validate checks a decoded document against the store invariants.
// Violations are reported as PERSISTENCE_CORRUPT.
func Validate(doc Document) error {
	for id, n := range doc.Nodes {
		if n == nil {
			return errors.New(errors.ErrCodePersistenceCorrupt, "node %s has no content", id)
		}
		if _, ok := doc.Depths[id]; !ok {
			return errors.New(errors.ErrCodePersistenceCorrupt, "node %s has no depth", id)
		}
		for other, w := range n.Edges {
			if w <= 0 {
				return errors.New(errors.ErrCodePersistenceCorrupt, "edge %s→%s has non-positive weight %d", id, other, w)
			}
		}
	}
	for id, d := range doc.Depths {
		if _, ok := doc.Nodes[id]; !ok {
			return errors.New(errors.ErrCodePersistenceCorrupt, "depth recorded for unfetched node %s", id)
		}
		if d < 0 {
			return errors.New(errors.ErrCodePersistenceCorrupt, "node %s has negative depth %d", id, d)
		}
	}
	for id := range doc.Explored {
		if _, ok := doc.Nodes[id]; !ok {
			return errors.New(errors.ErrCodePersistenceCorrupt, "explored mark for unfetched node %s", id)
		}
	}
	return nil
}

// =============================================================================
// Store Serialization API
// =============================================================================

// Marshal converts a store to indented JSON bytes with sorted keys.
func Marshal(s *Store) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(s, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes JSON bytes into a validated Store.
func Unmarshal(data []byte) (*Store, error) {
	return Read(bytes.NewReader(data))
}

// Write encodes a store as JSON to an io.Writer.
func Write(s *Store, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ToDocument(s)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Read decodes a JSON store from an io.Reader.
// Decoding and validation failures are reported as PERSISTENCE_CORRUPT.
func Read(r io.Reader) (*Store, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodePersistenceCorrupt, err, "decode graph store")
	}
	return FromDocument(doc)
}

// WriteFile writes a store to path atomically: the JSON is written to a
// temporary file in the same directory and renamed into place.
func WriteFile(s *Store, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	f, err := os.CreateTemp(dir, ".graph-*.json")
	if err != nil {
		return fmt.Errorf("create temp file in %s: %w", dir, err)
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	if err := Write(s, f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}

// ReadFile reads a JSON store from path.
func ReadFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}
