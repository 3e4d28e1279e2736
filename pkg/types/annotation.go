package types

// Annotation is a match span decorated for display: every annotation
// sharing a MatchID is cross-referenced, and Color is the CSS color value
// used to render it.
type Annotation struct {
	Span    Span   `json:"span"`
	MatchID string `json:"match_id"`
	Color   string `json:"color"`
	Pattern string `json:"pattern,omitempty"`
}
