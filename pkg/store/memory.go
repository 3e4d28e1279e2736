package store

import (
	"sort"
	"sync"

	"github.com/praetorian-inc/bylight/pkg/types"
)

// MemoryStore implements Store using in-memory data structures.
type MemoryStore struct {
	mu         sync.RWMutex
	blobs      map[types.BlobID]int64
	sets       map[string]*types.PatternSet
	matches    []*types.Match
	matchIDs   map[string]struct{} // structural IDs already stored
	provenance map[types.BlobID][]types.Provenance
}

// NewMemory creates a new in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		blobs:      make(map[types.BlobID]int64),
		sets:       make(map[string]*types.PatternSet),
		matchIDs:   make(map[string]struct{}),
		provenance: make(map[types.BlobID][]types.Provenance),
	}
}

// AddBlob stores a blob record.
func (m *MemoryStore) AddBlob(id types.BlobID, size int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.blobs[id]; !exists {
		m.blobs[id] = size
	}
	return nil
}

// AddSet stores a pattern set, replacing an older version with the same ID.
func (m *MemoryStore) AddSet(s *types.PatternSet) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sets[s.ID] = s
	return nil
}

// AddMatch stores a match record.
func (m *MemoryStore) AddMatch(match *types.Match) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.matchIDs[match.StructuralID]; exists {
		return nil
	}
	m.matchIDs[match.StructuralID] = struct{}{}
	m.matches = append(m.matches, match)
	return nil
}

// AddProvenance associates provenance with a blob.
func (m *MemoryStore) AddProvenance(blobID types.BlobID, prov types.Provenance) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range m.provenance[blobID] {
		if p.Kind() == prov.Kind() && p.Path() == prov.Path() {
			return nil
		}
	}
	m.provenance[blobID] = append(m.provenance[blobID], prov)
	return nil
}

// GetMatches retrieves matches for a blob.
func (m *MemoryStore) GetMatches(blobID types.BlobID) ([]*types.Match, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := []*types.Match{}
	for _, match := range m.matches {
		if match.BlobID == blobID {
			result = append(result, match)
		}
	}
	return result, nil
}

// GetAllMatches retrieves all matches in insertion order.
func (m *MemoryStore) GetAllMatches() ([]*types.Match, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*types.Match, len(m.matches))
	copy(result, m.matches)
	return result, nil
}

// GetSets retrieves the stored pattern sets ordered by ID.
func (m *MemoryStore) GetSets() ([]*types.PatternSet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*types.PatternSet, 0, len(m.sets))
	for _, s := range m.sets {
		result = append(result, s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// GetProvenance retrieves every provenance record of a blob.
func (m *MemoryStore) GetProvenance(blobID types.BlobID) ([]types.Provenance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]types.Provenance, len(m.provenance[blobID]))
	copy(result, m.provenance[blobID])
	return result, nil
}

// BlobExists checks if a blob has already been scanned.
func (m *MemoryStore) BlobExists(id types.BlobID) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, exists := m.blobs[id]
	return exists, nil
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() error {
	return nil
}
