package types

// Snippet contains context around a match.
type Snippet struct {
	Before   string `json:"before,omitempty"` // lines leading up to the match
	Matching string `json:"matching"`         // the matched content
	After    string `json:"after,omitempty"`  // lines following the match
}

// String joins the snippet back into contiguous text.
func (s Snippet) String() string {
	return s.Before + s.Matching + s.After
}
