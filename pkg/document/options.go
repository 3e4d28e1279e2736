package document

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/praetorian-inc/bylight/pkg/highlight"
)

type options struct {
	colors      []string
	highlighter *highlight.Highlighter
	linkID      func(index int) string
	logger      *slog.Logger
	assets      bool
	fragment    bool
}

// Option configures Process.
type Option func(*options)

// WithColors sets the color scheme links rotate through.
func WithColors(colors []string) Option {
	return func(o *options) {
		if len(colors) > 0 {
			o.colors = colors
		}
	}
}

// WithHighlighter sets the highlighter evaluating link patterns.
func WithHighlighter(h *highlight.Highlighter) Option {
	return func(o *options) {
		o.highlighter = h
	}
}

// WithLinkIDFunc sets the generator of link match IDs. index is the link's
// position among the collected pre and link elements.
func WithLinkIDFunc(fn func(index int) string) Option {
	return func(o *options) {
		o.linkID = fn
	}
}

// WithLogger sets the logger receiving warnings about malformed links.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithAssets injects the stylesheet and hover script into the document.
func WithAssets() Option {
	return func(o *options) {
		o.assets = true
	}
}

// WithFragment treats the input as a body fragment instead of a full
// document; the output then carries no html, head or body wrapper.
func WithFragment() Option {
	return func(o *options) {
		o.fragment = true
	}
}

func defaultLinkID(index int) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("match-%d-%s", index, suffix)
}
