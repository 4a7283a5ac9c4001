package graph

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/authorsphere/pkg/errors"
)

// Persister loads and saves a Store between crawler runs.
type Persister interface {
	// Load returns the stored graph. A missing store yields an empty Store
	// and no error. Unreadable state yields an error with code
	// PERSISTENCE_CORRUPT.
	Load(ctx context.Context) (*Store, error)
	// Save replaces the stored graph with s.
	Save(ctx context.Context, s *Store) error
	// Location describes where the store lives, for display.
	Location() string
	// Delete removes the stored graph. Deleting a missing store is not an
	// error.
	Delete(ctx context.Context) error
}

// FilePersister keeps the store as a JSON file.
type FilePersister struct {
	Path string
}

// NewFilePersister creates a persister for the JSON file at path.
func NewFilePersister(path string) *FilePersister {
	return &FilePersister{Path: path}
}

// Load reads the store file. A missing file is an empty store.
func (p *FilePersister) Load(ctx context.Context) (*Store, error) {
	if _, err := os.Stat(p.Path); os.IsNotExist(err) {
		return NewStore(), nil
	}
	s, err := ReadFile(p.Path)
	if err != nil {
		if errors.Is(err, errors.ErrCodePersistenceCorrupt) {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrCodePersistenceCorrupt, err, "read %s", p.Path)
	}
	return s, nil
}

// Save writes the store file atomically.
func (p *FilePersister) Save(ctx context.Context, s *Store) error {
	return WriteFile(s, p.Path)
}

// Location returns the file path.
func (p *FilePersister) Location() string { return p.Path }

// Delete removes the store file.
func (p *FilePersister) Delete(ctx context.Context) error {
	if err := os.Remove(p.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", p.Path, err)
	}
	return nil
}

// LoadOrEmpty loads the store from p and never fails: unreadable or corrupt
// state is logged as a warning and replaced by an empty store.
func LoadOrEmpty(ctx context.Context, p Persister, logger *log.Logger) *Store {
	s, err := p.Load(ctx)
	if err != nil {
		logger.Warn("ignoring unreadable graph store", "location", p.Location(), "err", err)
		return NewStore()
	}
	return s
}

// SaveBestEffort saves the store and logs a failure instead of returning it.
// It reports whether the save succeeded.
func SaveBestEffort(ctx context.Context, p Persister, s *Store, logger *log.Logger) bool {
	if err := p.Save(ctx, s); err != nil {
		logger.Warn("could not save graph store", "location", p.Location(), "err", err)
		return false
	}
	logger.Debug("saved graph store", "location", p.Location(), "nodes", s.Len())
	return true
}

var _ Persister = (*FilePersister)(nil)
