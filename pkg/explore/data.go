package explore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/praetorian-inc/bylight/pkg/store"
	"github.com/praetorian-inc/bylight/pkg/types"
)

// DefaultDatastore is the file name used when a directory is given.
const DefaultDatastore = "bylight.db"

// exploreData holds all loaded data for the TUI.
type exploreData struct {
	store store.Store
	sets  map[string]*types.PatternSet
	rows  []*patternRow
}

// loadData opens a datastore and groups its matches by pattern.
// The storePath can be a directory holding bylight.db or a direct .db file path.
func loadData(storePath string) (*exploreData, error) {
	info, err := os.Stat(storePath)
	if err != nil {
		return nil, fmt.Errorf("datastore not found: %s", storePath)
	}
	if info.IsDir() {
		storePath = filepath.Join(storePath, DefaultDatastore)
	}

	s, err := store.New(store.Config{Path: storePath})
	if err != nil {
		return nil, fmt.Errorf("opening datastore: %w", err)
	}

	data, err := buildData(s)
	if err != nil {
		s.Close()
		return nil, err
	}
	return data, nil
}

// buildData reads sets and matches from s into view models.
func buildData(s store.Store) (*exploreData, error) {
	sets, err := s.GetSets()
	if err != nil {
		return nil, fmt.Errorf("retrieving sets: %w", err)
	}
	setMap := make(map[string]*types.PatternSet, len(sets))
	for _, set := range sets {
		setMap[set.ID] = set
	}

	matches, err := s.GetAllMatches()
	if err != nil {
		return nil, fmt.Errorf("retrieving matches: %w", err)
	}

	return &exploreData{
		store: s,
		sets:  setMap,
		rows:  buildPatternRows(matches, setMap, s),
	}, nil
}

// buildPatternRows groups matches by (set, pattern), keeping first-seen order.
func buildPatternRows(matches []*types.Match, sets map[string]*types.PatternSet, s store.Store) []*patternRow {
	index := make(map[string]*patternRow)
	var rows []*patternRow

	for _, m := range matches {
		key := m.SetID + "\x00" + m.Pattern
		row, ok := index[key]
		if !ok {
			row = &patternRow{
				SetID:      m.SetID,
				SetName:    m.SetName,
				Pattern:    m.Pattern,
				GroupIndex: m.GroupIndex,
				Color:      m.Color,
			}
			if row.SetName == "" {
				row.SetName = m.SetID
			}
			if set, ok := sets[m.SetID]; ok && set.Name != "" {
				row.SetName = set.Name
			}
			index[key] = row
			rows = append(rows, row)
		}
		row.addMatch(buildMatchRow(m, s))
	}

	return rows
}

// buildMatchRow creates a matchRow from a Match.
func buildMatchRow(m *types.Match, s store.Store) *matchRow {
	mr := &matchRow{
		StructuralID: m.StructuralID,
		BlobID:       m.BlobID,
		Path:         m.Path,
		Color:        m.Color,
		Location:     m.Location,
		Snippet:      m.Snippet,
	}

	if s != nil {
		provs, err := s.GetProvenance(m.BlobID)
		if err == nil {
			mr.Provenance = provs
		}
	}
	if mr.Path == "" {
		for _, p := range mr.Provenance {
			if p.Path() != "" {
				mr.Path = p.Path()
				break
			}
		}
	}

	return mr
}

// extensionOf returns the facet value for a file path.
func extensionOf(path string) string {
	if ext := filepath.Ext(path); ext != "" {
		return ext
	}
	return "-"
}

// close closes the underlying store.
func (d *exploreData) close() error {
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}
