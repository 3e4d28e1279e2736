package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/praetorian-inc/bylight/pkg/types"
	_ "modernc.org/sqlite"
)

// driverName is the database/sql driver registered by modernc.org/sqlite.
const driverName = "sqlite"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a SQLite-based store at path.
func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// a single connection serializes writers from parallel scan workers
	db.SetMaxOpenConns(1)

	if err := CreateSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// AddBlob stores a blob record.
func (s *SQLiteStore) AddBlob(id types.BlobID, size int64) error {
	_, err := s.db.Exec("INSERT OR IGNORE INTO blobs (id, size) VALUES (?, ?)", id.Hex(), size)
	if err != nil {
		return fmt.Errorf("inserting blob: %w", err)
	}
	return nil
}

// AddSet stores a pattern set, replacing an older version with the same ID.
func (s *SQLiteStore) AddSet(set *types.PatternSet) error {
	groupsJSON, err := json.Marshal(set.Groups)
	if err != nil {
		return fmt.Errorf("marshaling groups: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT OR REPLACE INTO sets (id, name, description, structural_id, groups_json)
		VALUES (?, ?, ?, ?, ?)
	`, set.ID, set.Name, set.Description, set.StructuralID, string(groupsJSON))
	if err != nil {
		return fmt.Errorf("inserting set: %w", err)
	}
	return nil
}

// AddMatch stores a match record.
func (s *SQLiteStore) AddMatch(m *types.Match) error {
	_, err := s.db.Exec(`
		INSERT OR IGNORE INTO matches (
			blob_id, set_id, set_name, structural_id, group_index, pattern, color,
			offset_start, offset_end, start_line, start_column, end_line, end_column,
			snippet_before, snippet_matching, snippet_after, path
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		m.BlobID.Hex(),
		m.SetID,
		m.SetName,
		m.StructuralID,
		m.GroupIndex,
		m.Pattern,
		m.Color,
		m.Location.Offset.Start,
		m.Location.Offset.End,
		m.Location.Source.Start.Line,
		m.Location.Source.Start.Column,
		m.Location.Source.End.Line,
		m.Location.Source.End.Column,
		m.Snippet.Before,
		m.Snippet.Matching,
		m.Snippet.After,
		m.Path,
	)
	if err != nil {
		return fmt.Errorf("inserting match: %w", err)
	}
	return nil
}

// AddProvenance associates provenance with a blob.
func (s *SQLiteStore) AddProvenance(blobID types.BlobID, prov types.Provenance) error {
	switch prov.(type) {
	case types.FileProvenance, types.InlineProvenance:
	default:
		return fmt.Errorf("unknown provenance type: %T", prov)
	}

	_, err := s.db.Exec(`
		INSERT OR IGNORE INTO provenance (blob_id, type, path)
		VALUES (?, ?, ?)
	`, blobID.Hex(), prov.Kind(), prov.Path())
	if err != nil {
		return fmt.Errorf("inserting provenance: %w", err)
	}
	return nil
}

const selectMatches = `
	SELECT blob_id, set_id, set_name, structural_id, group_index, pattern, color,
	       offset_start, offset_end, start_line, start_column, end_line, end_column,
	       snippet_before, snippet_matching, snippet_after, path
	FROM matches
`

// GetMatches retrieves matches for a blob.
func (s *SQLiteStore) GetMatches(blobID types.BlobID) ([]*types.Match, error) {
	return s.queryMatches(selectMatches+" WHERE blob_id = ? ORDER BY id", blobID.Hex())
}

// GetAllMatches retrieves all matches in insertion order.
func (s *SQLiteStore) GetAllMatches() ([]*types.Match, error) {
	return s.queryMatches(selectMatches + " ORDER BY id")
}

func (s *SQLiteStore) queryMatches(query string, args ...any) ([]*types.Match, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying matches: %w", err)
	}
	defer rows.Close()

	matches := []*types.Match{}
	for rows.Next() {
		var m types.Match
		var blobIDHex string
		var color, before, matching, after, path sql.NullString

		err := rows.Scan(
			&blobIDHex,
			&m.SetID,
			&m.SetName,
			&m.StructuralID,
			&m.GroupIndex,
			&m.Pattern,
			&color,
			&m.Location.Offset.Start,
			&m.Location.Offset.End,
			&m.Location.Source.Start.Line,
			&m.Location.Source.Start.Column,
			&m.Location.Source.End.Line,
			&m.Location.Source.End.Column,
			&before,
			&matching,
			&after,
			&path,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning match: %w", err)
		}

		m.BlobID, err = types.ParseBlobID(blobIDHex)
		if err != nil {
			return nil, fmt.Errorf("parsing blob ID: %w", err)
		}
		m.Color = color.String
		m.Snippet = types.Snippet{Before: before.String, Matching: matching.String, After: after.String}
		m.Path = path.String

		matches = append(matches, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating matches: %w", err)
	}
	return matches, nil
}

// GetSets retrieves the stored pattern sets ordered by ID.
func (s *SQLiteStore) GetSets() ([]*types.PatternSet, error) {
	rows, err := s.db.Query("SELECT id, name, description, structural_id, groups_json FROM sets ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("querying sets: %w", err)
	}
	defer rows.Close()

	sets := []*types.PatternSet{}
	for rows.Next() {
		var set types.PatternSet
		var description sql.NullString
		var groupsJSON string
		if err := rows.Scan(&set.ID, &set.Name, &description, &set.StructuralID, &groupsJSON); err != nil {
			return nil, fmt.Errorf("scanning set: %w", err)
		}
		set.Description = description.String
		if err := json.Unmarshal([]byte(groupsJSON), &set.Groups); err != nil {
			return nil, fmt.Errorf("unmarshaling groups: %w", err)
		}
		sets = append(sets, &set)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sets: %w", err)
	}
	return sets, nil
}

// GetProvenance retrieves every provenance record of a blob.
func (s *SQLiteStore) GetProvenance(blobID types.BlobID) ([]types.Provenance, error) {
	rows, err := s.db.Query("SELECT type, path FROM provenance WHERE blob_id = ? ORDER BY id", blobID.Hex())
	if err != nil {
		return nil, fmt.Errorf("querying provenance: %w", err)
	}
	defer rows.Close()

	provs := []types.Provenance{}
	for rows.Next() {
		var kind string
		var path sql.NullString
		if err := rows.Scan(&kind, &path); err != nil {
			return nil, fmt.Errorf("scanning provenance: %w", err)
		}
		switch kind {
		case "file":
			provs = append(provs, types.FileProvenance{FilePath: path.String})
		case "inline":
			provs = append(provs, types.InlineProvenance{Source: path.String})
		default:
			return nil, fmt.Errorf("unknown provenance type: %s", kind)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating provenance: %w", err)
	}
	return provs, nil
}

// BlobExists checks if a blob has already been scanned.
func (s *SQLiteStore) BlobExists(id types.BlobID) (bool, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM blobs WHERE id = ?", id.Hex()).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking blob existence: %w", err)
	}
	return count > 0, nil
}

// DB returns the underlying database handle.
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
