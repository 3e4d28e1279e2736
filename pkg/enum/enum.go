// Package enum discovers the content a scan runs over.
package enum

import (
	"context"

	"github.com/praetorian-inc/bylight/pkg/types"
)

// Callback receives the content of one blob, its ID and where it came from.
// Enumerators may invoke it from several goroutines at once.
type Callback func(content []byte, blobID types.BlobID, prov types.Provenance) error

// Enumerator discovers content to scan from a source.
type Enumerator interface {
	Enumerate(ctx context.Context, callback Callback) error
}

// Config for enumeration.
type Config struct {
	// Root is a directory to walk, or a single file.
	Root string

	// IncludeHidden includes hidden files/directories (starting with .).
	IncludeHidden bool

	// MaxFileSize is the maximum file size to process (0 = no limit).
	MaxFileSize int64

	// FollowSymlinks follows symbolic links.
	FollowSymlinks bool

	// Extensions restricts enumeration to files with these extensions
	// (".go" or "go"). Empty means every text file.
	Extensions []string

	// Workers is the number of parallel readers (0 = one per CPU).
	Workers int
}
