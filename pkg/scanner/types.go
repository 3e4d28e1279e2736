package scanner

import (
	"fmt"

	"github.com/praetorian-inc/bylight/pkg/types"
)

// Format selects how Highlight renders its annotations.
type Format string

const (
	// FormatNone returns annotations only.
	FormatNone Format = ""
	// FormatHTML renders code spans.
	FormatHTML Format = "html"
	// FormatANSI renders terminal escape sequences.
	FormatANSI Format = "ansi"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatNone, FormatHTML, FormatANSI:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (want html or ansi)", s)
	}
}

// PatternMatches holds the spans of one pattern.
type PatternMatches struct {
	Pattern string       `json:"pattern"`
	Mode    string       `json:"mode"` // "literal" | "regex"
	Spans   []types.Span `json:"spans"`
	Error   string       `json:"error,omitempty"`
}

// MatchOutput is the result of matching several patterns against one text.
type MatchOutput struct {
	Patterns []PatternMatches `json:"patterns"`
	Total    int              `json:"total"`
}

// HighlightOutput is the result of annotating one text.
type HighlightOutput struct {
	Annotations []types.Annotation `json:"annotations"`
	Format      Format             `json:"format,omitempty"`
	Output      string             `json:"output,omitempty"`
	Errors      []string           `json:"errors,omitempty"`
}

// RenderOutput is the result of processing an HTML document.
type RenderOutput struct {
	HTML        string `json:"html"`
	Blocks      int    `json:"blocks"`
	Links       int    `json:"links"`
	Highlighted int    `json:"highlighted"`
	Matches     int    `json:"matches"`
}

// ScanStats summarizes a scan run.
type ScanStats struct {
	Blobs   int `json:"blobs"`
	Skipped int `json:"skipped"`
	Matches int `json:"matches"`
	Errors  int `json:"errors"`
}
