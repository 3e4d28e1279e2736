package scanner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/praetorian-inc/bylight/pkg/enum"
	"github.com/praetorian-inc/bylight/pkg/highlight"
	"github.com/praetorian-inc/bylight/pkg/matcher"
	"github.com/praetorian-inc/bylight/pkg/store"
	"github.com/praetorian-inc/bylight/pkg/types"
)

// Config configures a Scanner.
type Config struct {
	// Sets are evaluated against every blob.
	Sets []*types.PatternSet

	// Store receives blobs, provenance and matches. Required.
	Store store.Store

	// Matcher options. Zero value uses the default engine without prefilter.
	Matcher matcher.Options

	// Colors is the scheme for groups without their own color.
	Colors []string

	// ContextLines is the number of lines kept before and after a match.
	ContextLines int

	// Incremental skips blobs already present in the store.
	Incremental bool

	// Dedupe selects how repeated matches within a run are collapsed.
	Dedupe matcher.DedupeMode

	Logger *slog.Logger
}

// Scanner runs pattern sets over enumerated content and stores the matches.
// ScanBlob may be called from several goroutines.
type Scanner struct {
	cfg     Config
	matcher *matcher.Matcher
	logger  *slog.Logger

	mu    sync.Mutex
	dedup *matcher.Deduplicator
	stats ScanStats
}

// New creates a Scanner and records its sets in the store.
func New(cfg Config) (*Scanner, error) {
	if cfg.Store == nil {
		return nil, errors.New("store is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	mopts := cfg.Matcher
	if mopts.Logger == nil {
		mopts.Logger = logger
	}

	for _, s := range cfg.Sets {
		if err := cfg.Store.AddSet(s); err != nil {
			return nil, fmt.Errorf("storing set %s: %w", s.ID, err)
		}
	}

	return &Scanner{
		cfg:     cfg,
		matcher: matcher.New(mopts),
		logger:  logger,
		dedup:   matcher.NewDeduplicator(cfg.Dedupe),
	}, nil
}

// Run enumerates content and scans every blob.
func (s *Scanner) Run(ctx context.Context, e enum.Enumerator) (ScanStats, error) {
	err := e.Enumerate(ctx, func(content []byte, blobID types.BlobID, prov types.Provenance) error {
		_, err := s.ScanBlob(content, blobID, prov)
		return err
	})
	if err != nil {
		return s.Stats(), fmt.Errorf("scanning: %w", err)
	}
	return s.Stats(), nil
}

// ScanBlob matches every set against content, stores the blob and returns
// the matches that were new to this run.
func (s *Scanner) ScanBlob(content []byte, blobID types.BlobID, prov types.Provenance) ([]*types.Match, error) {
	st := s.cfg.Store

	if s.cfg.Incremental {
		exists, err := st.BlobExists(blobID)
		if err != nil {
			return nil, fmt.Errorf("checking blob: %w", err)
		}
		if exists {
			s.mu.Lock()
			s.stats.Skipped++
			s.mu.Unlock()
			s.logger.Debug("blob already scanned", "blob", blobID.Short(), "path", prov.Path())
			return nil, nil
		}
	}

	if err := st.AddBlob(blobID, int64(len(content))); err != nil {
		return nil, fmt.Errorf("storing blob: %w", err)
	}
	if err := st.AddProvenance(blobID, prov); err != nil {
		return nil, fmt.Errorf("storing provenance: %w", err)
	}

	matches, failed := s.match(content, blobID, prov)

	s.mu.Lock()
	matches = s.dedup.Filter(matches)
	s.stats.Blobs++
	s.stats.Matches += len(matches)
	s.stats.Errors += failed
	s.mu.Unlock()

	for _, m := range matches {
		if err := st.AddMatch(m); err != nil {
			return nil, fmt.Errorf("storing match: %w", err)
		}
	}
	return matches, nil
}

// match evaluates every group of every set. Failing patterns are logged and
// counted; they never stop the scan.
func (s *Scanner) match(content []byte, blobID types.BlobID, prov types.Provenance) ([]*types.Match, int) {
	text := string(content)

	var matches []*types.Match
	failed := 0
	for _, set := range s.cfg.Sets {
		for gi, group := range set.Groups {
			color := group.Color
			if color == "" {
				color = highlight.ColorAt(s.cfg.Colors, gi)
			}

			result := s.matcher.MatchAll(text, group.Patterns)
			for _, pr := range result.Results {
				if pr.Error != nil {
					failed++
					s.logger.Warn("skipping pattern", "set", set.ID, "pattern", pr.Pattern, "error", pr.Error)
					continue
				}
				for _, span := range pr.Spans {
					if span.Empty() {
						continue
					}
					m := &types.Match{
						BlobID:     blobID,
						SetID:      set.ID,
						SetName:    set.Name,
						GroupIndex: gi,
						Pattern:    pr.Pattern,
						Color:      color,
						Location:   types.LocationOf(content, span),
						Snippet:    matcher.ExtractSnippet(content, span, s.cfg.ContextLines),
						Path:       prov.Path(),
					}
					m.StructuralID = m.ComputeStructuralID(set.StructuralID)
					matches = append(matches, m)
				}
			}
		}
	}
	return matches, failed
}

// Stats returns the counters accumulated so far.
func (s *Scanner) Stats() ScanStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}
