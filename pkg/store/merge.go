package store

import (
	"database/sql"
	"fmt"
)

// MergeConfig configures the merge operation.
type MergeConfig struct {
	// SourcePaths are the database files to merge from.
	SourcePaths []string
	// DestPath is the destination database file.
	DestPath string
}

// MergeStats tracks merge operation statistics.
type MergeStats struct {
	BlobsMerged      int
	SetsMerged       int
	MatchesMerged    int
	ProvenanceMerged int
	SourcesProcessed int
}

// Merge combines several scan databases into one. Rows already present in
// the destination are skipped.
func Merge(cfg MergeConfig) (*MergeStats, error) {
	if len(cfg.SourcePaths) == 0 {
		return nil, fmt.Errorf("no source databases specified")
	}
	if cfg.DestPath == "" {
		return nil, fmt.Errorf("destination path is required")
	}

	destDB, err := sql.Open(driverName, cfg.DestPath)
	if err != nil {
		return nil, fmt.Errorf("opening destination database: %w", err)
	}
	defer destDB.Close()

	if err := CreateSchema(destDB); err != nil {
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	stats := &MergeStats{}
	for _, sourcePath := range cfg.SourcePaths {
		sourceStats, err := mergeFrom(destDB, sourcePath)
		if err != nil {
			return stats, fmt.Errorf("merging from %s: %w", sourcePath, err)
		}
		stats.BlobsMerged += sourceStats.BlobsMerged
		stats.SetsMerged += sourceStats.SetsMerged
		stats.MatchesMerged += sourceStats.MatchesMerged
		stats.ProvenanceMerged += sourceStats.ProvenanceMerged
		stats.SourcesProcessed++
	}

	return stats, nil
}

// table describes how to copy one table.
type table struct {
	name    string
	columns string
	params  string
}

var mergeTables = []table{
	{"blobs", "id, size", "?, ?"},
	{"sets", "id, name, description, structural_id, groups_json", "?, ?, ?, ?, ?"},
	{
		"matches",
		"blob_id, set_id, set_name, structural_id, group_index, pattern, color, " +
			"offset_start, offset_end, start_line, start_column, end_line, end_column, " +
			"snippet_before, snippet_matching, snippet_after, path",
		"?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?",
	},
	{"provenance", "blob_id, type, path", "?, ?, ?"},
}

// mergeFrom copies data from a source database to the destination.
func mergeFrom(destDB *sql.DB, sourcePath string) (*MergeStats, error) {
	sourceDB, err := sql.Open(driverName, sourcePath)
	if err != nil {
		return nil, fmt.Errorf("opening source database: %w", err)
	}
	defer sourceDB.Close()

	if _, err := ReadSchemaVersion(sourceDB); err != nil {
		return nil, fmt.Errorf("not a bylight database: %w", err)
	}

	tx, err := destDB.Begin()
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	counts := make(map[string]int, len(mergeTables))
	for _, t := range mergeTables {
		n, err := copyTable(tx, sourceDB, t)
		if err != nil {
			return nil, fmt.Errorf("merging %s: %w", t.name, err)
		}
		counts[t.name] = n
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}

	return &MergeStats{
		BlobsMerged:      counts["blobs"],
		SetsMerged:       counts["sets"],
		MatchesMerged:    counts["matches"],
		ProvenanceMerged: counts["provenance"],
	}, nil
}

// copyTable inserts every row of t from sourceDB, ignoring conflicts, and
// returns the number of rows actually added.
func copyTable(tx *sql.Tx, sourceDB *sql.DB, t table) (int, error) {
	rows, err := sourceDB.Query(fmt.Sprintf("SELECT %s FROM %s", t.columns, t.name))
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	stmt, err := tx.Prepare(fmt.Sprintf("INSERT OR IGNORE INTO %s (%s) VALUES (%s)", t.name, t.columns, t.params))
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	cols, err := rows.Columns()
	if err != nil {
		return 0, err
	}

	count := 0
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return count, err
		}
		result, err := stmt.Exec(values...)
		if err != nil {
			return count, err
		}
		affected, _ := result.RowsAffected()
		if affected > 0 {
			count++
		}
	}
	return count, rows.Err()
}
