// Package bylight finds code fragments with bracket-aware wildcard patterns
// and highlights them.
//
// A pattern is either literal text with "..." wildcards, where a wildcard
// never crosses an unbalanced bracket or a quoted string, or a regular
// expression between slashes.
//
// # Basic Usage
//
//	spans, err := bylight.FindMatches(src, "fetch(...)")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, s := range spans {
//	    fmt.Println(src[s.Start:s.End])
//	}
//
// # Highlighting
//
//	html, err := bylight.Highlight(src, "fetch(...)", "/await \\w+/")
//
// Each argument is a comma-separated group of patterns and gets its own
// color from DefaultColors.
//
// # Documents
//
// ProcessDocument rewrites an HTML document, turning links with a "bylight"
// href into highlights of the <pre> blocks they point to.
package bylight

import (
	"io"

	"github.com/praetorian-inc/bylight/pkg/document"
	"github.com/praetorian-inc/bylight/pkg/highlight"
	"github.com/praetorian-inc/bylight/pkg/matcher"
	"github.com/praetorian-inc/bylight/pkg/types"
)

// Re-export commonly used types for convenience.
type (
	// Span is a half-open byte range [Start, End) of the searched text.
	Span = types.Span

	// Annotation is a highlighted span with its match id and color.
	Annotation = types.Annotation

	// PatternGroup is a set of patterns sharing one color.
	PatternGroup = types.PatternGroup

	// DocumentOption configures ProcessDocument.
	DocumentOption = document.Option

	// DocumentStats summarizes a ProcessDocument run.
	DocumentStats = document.Stats
)

// DefaultColors is the color scheme assigned to pattern groups in order.
var DefaultColors = highlight.DefaultColors

// ErrInvalidRegex is wrapped by errors from malformed regex patterns.
var ErrInvalidRegex = matcher.ErrInvalidRegex

// IsRegex reports whether pattern is a slash-delimited regular expression.
func IsRegex(pattern string) bool {
	return matcher.IsRegex(pattern)
}

// FindMatches returns every span of text matched by pattern, in order.
func FindMatches(text, pattern string) ([]Span, error) {
	return matcher.FindMatches(text, pattern)
}

// Annotate matches each group against text and returns the annotations.
// Invalid patterns are skipped and reported in the returned error.
func Annotate(text string, groups ...string) ([]Annotation, error) {
	return highlight.New().Annotate(text, highlight.Groups(groups...))
}

// Highlight renders text as HTML with every group's matches wrapped in
// colored spans. Invalid patterns are skipped and reported in the returned
// error alongside the output.
func Highlight(text string, groups ...string) (string, error) {
	annotations, err := Annotate(text, groups...)
	return highlight.RenderHTML(text, annotations), err
}

// ProcessDocument reads an HTML document from r, applies its bylight links
// and writes the result to w.
func ProcessDocument(r io.Reader, w io.Writer, opts ...DocumentOption) (DocumentStats, error) {
	return document.Process(r, w, opts...)
}

// WithAssets injects the bylight stylesheet and hover script.
func WithAssets() DocumentOption {
	return document.WithAssets()
}

// WithFragment treats the input as an HTML fragment rather than a full document.
func WithFragment() DocumentOption {
	return document.WithFragment()
}

// WithColors replaces the color scheme used for links.
func WithColors(colors []string) DocumentOption {
	return document.WithColors(colors)
}
