// Package store persists scan results.
package store

import (
	"fmt"

	"github.com/praetorian-inc/bylight/pkg/types"
)

// MemoryPath selects the in-memory store.
const MemoryPath = ":memory:"

// Store provides persistence for scan results.
type Store interface {
	// AddBlob stores a blob record.
	AddBlob(id types.BlobID, size int64) error

	// AddSet stores a pattern set that matches refer to.
	AddSet(s *types.PatternSet) error

	// AddMatch stores a match record. Matches are deduplicated by
	// structural ID.
	AddMatch(m *types.Match) error

	// AddProvenance associates provenance with a blob.
	AddProvenance(blobID types.BlobID, prov types.Provenance) error

	// GetMatches retrieves matches for a blob.
	GetMatches(blobID types.BlobID) ([]*types.Match, error)

	// GetAllMatches retrieves all matches in insertion order.
	GetAllMatches() ([]*types.Match, error)

	// GetSets retrieves the stored pattern sets.
	GetSets() ([]*types.PatternSet, error)

	// GetProvenance retrieves every provenance record of a blob.
	GetProvenance(blobID types.BlobID) ([]types.Provenance, error)

	// BlobExists checks if a blob has already been scanned.
	BlobExists(id types.BlobID) (bool, error)

	// Close closes the database connection.
	Close() error
}

// Config for store initialization.
type Config struct {
	// Path is the database file path.
	// Use ":memory:" for an in-memory store.
	Path string
}

// New creates a Store: a MemoryStore for ":memory:", SQLite otherwise.
func New(cfg Config) (Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("path is required")
	}

	if cfg.Path == MemoryPath {
		return NewMemory(), nil
	}

	return NewSQLite(cfg.Path)
}
