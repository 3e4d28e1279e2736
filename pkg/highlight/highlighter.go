// Package highlight turns pattern matches into colored, cross-referenced
// annotations and renders them as HTML or terminal output.
package highlight

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/praetorian-inc/bylight/pkg/matcher"
	"github.com/praetorian-inc/bylight/pkg/types"
)

// Highlighter annotates text with the matches of pattern groups.
type Highlighter struct {
	colors  []string
	matcher *matcher.Matcher
	newID   func() string
	logger  *slog.Logger
}

// Option configures a Highlighter.
type Option func(*Highlighter)

// WithColors sets the color scheme. An empty scheme keeps DefaultColors.
func WithColors(colors []string) Option {
	return func(h *Highlighter) {
		if len(colors) > 0 {
			h.colors = colors
		}
	}
}

// WithMatcher sets the matcher used to evaluate patterns.
func WithMatcher(m *matcher.Matcher) Option {
	return func(h *Highlighter) {
		h.matcher = m
	}
}

// WithIDFunc sets the generator of base match IDs.
func WithIDFunc(fn func() string) Option {
	return func(h *Highlighter) {
		h.newID = fn
	}
}

// WithLogger sets the logger receiving skipped-pattern warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Highlighter) {
		h.logger = logger
	}
}

// New creates a Highlighter.
func New(opts ...Option) *Highlighter {
	h := &Highlighter{
		colors: DefaultColors,
		newID:  NewMatchID,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.logger == nil {
		h.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if h.matcher == nil {
		opts := matcher.DefaultOptions()
		opts.Logger = h.logger
		h.matcher = matcher.New(opts)
	}
	return h
}

// Colors returns the active color scheme.
func (h *Highlighter) Colors() []string {
	return h.colors
}

// NewMatchID returns a fresh base ID of the form match-XXXXXXXXX.
func NewMatchID() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "match-" + id[:9]
}

// Annotate matches every group against text. Group i is colored with its own
// Color, or scheme color i, and its annotations share the ID "<base>-<i>".
// Patterns that fail are logged and skipped; their errors are joined into the
// returned error while the annotations of all other patterns are still
// returned. Empty matches are dropped.
func (h *Highlighter) Annotate(text string, groups []types.PatternGroup) ([]types.Annotation, error) {
	base := h.newID()

	var annotations []types.Annotation
	var errs []error
	for i, g := range groups {
		color := g.Color
		if color == "" {
			color = ColorAt(h.colors, i)
		}

		found, err := h.AnnotateWithID(text, g.Patterns, fmt.Sprintf("%s-%d", base, i), color)
		if err != nil {
			errs = append(errs, err)
		}
		annotations = append(annotations, found...)
	}

	return annotations, errors.Join(errs...)
}

// AnnotateWithID matches patterns against text, giving every annotation the
// same id and color. It is the per-link building block of document
// processing.
func (h *Highlighter) AnnotateWithID(text string, patterns []string, id, color string) ([]types.Annotation, error) {
	var annotations []types.Annotation
	result := h.matcher.MatchAll(text, patterns)
	for _, pr := range result.Results {
		if pr.Error != nil {
			h.logger.Warn("skipping pattern", "pattern", pr.Pattern, "match_id", id, "error", pr.Error)
			continue
		}
		for _, span := range pr.Spans {
			if span.Empty() {
				continue
			}
			annotations = append(annotations, types.Annotation{
				Span:    span,
				MatchID: id,
				Color:   color,
				Pattern: pr.Pattern,
			})
		}
	}
	return annotations, result.Err()
}

// SortForApplication orders annotations by start offset, last first.
// Ties keep their relative order.
func SortForApplication(annotations []types.Annotation) {
	sort.SliceStable(annotations, func(i, j int) bool {
		return annotations[i].Span.Start > annotations[j].Span.Start
	})
}
