package types

// Span is a byte range [Start, End) - half-open interval.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Empty reports whether the span covers no bytes.
func (s Span) Empty() bool {
	return s.End <= s.Start
}

// Slice returns the covered part of text, clamped to its bounds.
func (s Span) Slice(text string) string {
	start, end := s.Start, s.End
	if start < 0 {
		start = 0
	}
	if end > len(text) {
		end = len(text)
	}
	if start >= end {
		return ""
	}
	return text[start:end]
}

// Overlaps reports whether two spans share at least one byte.
func (s Span) Overlaps(o Span) bool {
	return s.Start < o.End && o.Start < s.End
}

// Contains reports whether o lies entirely within s.
func (s Span) Contains(o Span) bool {
	return s.Start <= o.Start && o.End <= s.End
}

// SourcePoint is line:column position (1-based).
type SourcePoint struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// SourceSpan is start-end line:column range.
type SourceSpan struct {
	Start SourcePoint `json:"start"`
	End   SourcePoint `json:"end"`
}

// Location combines byte offsets and source positions.
type Location struct {
	Offset Span       `json:"offset"`
	Source SourceSpan `json:"source"`
}

// LocationOf computes the full location of span within content.
func LocationOf(content []byte, span Span) Location {
	startLine, startCol := ComputeLineColumn(content, span.Start)
	endLine, endCol := ComputeLineColumn(content, span.End)
	return Location{
		Offset: span,
		Source: SourceSpan{
			Start: SourcePoint{Line: startLine, Column: startCol},
			End:   SourcePoint{Line: endLine, Column: endCol},
		},
	}
}
