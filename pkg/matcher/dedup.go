package matcher

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/praetorian-inc/bylight/pkg/types"
)

// DedupeMode controls how matches are deduplicated.
type DedupeMode int

const (
	// DedupeByLocation deduplicates by structural ID (set + pattern + blob + span).
	// The same text at two offsets counts twice.
	DedupeByLocation DedupeMode = iota

	// DedupeByContent deduplicates by set, pattern and matched text.
	// The same text anywhere counts once.
	DedupeByContent
)

// Deduplicator removes duplicate matches based on configurable criteria.
// It is not safe for concurrent use.
type Deduplicator struct {
	seen map[string]struct{}
	mode DedupeMode
}

// NewDeduplicator creates a deduplicator using mode.
func NewDeduplicator(mode DedupeMode) *Deduplicator {
	return &Deduplicator{
		seen: make(map[string]struct{}),
		mode: mode,
	}
}

// Seen reports whether m was already added, and adds it if not.
func (d *Deduplicator) Seen(m *types.Match) bool {
	key := d.key(m)
	if _, ok := d.seen[key]; ok {
		return true
	}
	d.seen[key] = struct{}{}
	return false
}

// Filter returns the matches of ms not seen before, in order.
func (d *Deduplicator) Filter(ms []*types.Match) []*types.Match {
	out := ms[:0:0]
	for _, m := range ms {
		if !d.Seen(m) {
			out = append(out, m)
		}
	}
	return out
}

// Len returns the number of distinct matches seen.
func (d *Deduplicator) Len() int {
	return len(d.seen)
}

// Reset clears the deduplicator for reuse.
func (d *Deduplicator) Reset() {
	clear(d.seen)
}

func (d *Deduplicator) key(m *types.Match) string {
	if d.mode == DedupeByContent {
		h := sha256.New()
		h.Write([]byte(strings.Join([]string{m.SetID, m.Pattern, m.Snippet.Matching}, "\x00")))
		return hex.EncodeToString(h.Sum(nil))
	}
	return m.StructuralID
}
