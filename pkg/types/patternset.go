package types

import (
	"crypto/sha1"
	"encoding/hex"
)

// PatternGroup is a set of patterns highlighted with a single color.
type PatternGroup struct {
	Patterns []string `json:"patterns"`
	Color    string   `json:"color,omitempty"` // empty means "next color of the scheme"
}

// PatternSet is a named collection of pattern groups.
type PatternSet struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Description  string         `json:"description,omitempty"`
	Groups       []PatternGroup `json:"groups"`
	Examples     []string       `json:"examples,omitempty"`
	StructuralID string         `json:"structural_id"` // SHA-1 of the patterns (computed)
}

// ComputeStructuralID computes SHA-1 over every pattern of every group.
// Groups and patterns are separated so that regrouping changes the ID.
func (s *PatternSet) ComputeStructuralID() string {
	h := sha1.New()
	for _, g := range s.Groups {
		for _, p := range g.Patterns {
			h.Write([]byte(p))
			h.Write([]byte{0})
		}
		h.Write([]byte{1})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// PatternCount returns the number of patterns across all groups.
func (s *PatternSet) PatternCount() int {
	n := 0
	for _, g := range s.Groups {
		n += len(g.Patterns)
	}
	return n
}
