package patternset

import (
	"errors"
	"fmt"

	"github.com/praetorian-inc/bylight/pkg/matcher"
	"github.com/praetorian-inc/bylight/pkg/types"
)

// ErrNoGroups is returned for a set without any pattern group.
var ErrNoGroups = errors.New("pattern set has no groups")

// ValidateSet checks set consistency and required fields.
// Regex patterns must compile, and every example must be matched by at least
// one pattern of the set.
func ValidateSet(s *types.PatternSet) error {
	if s == nil {
		return fmt.Errorf("set is nil")
	}

	if s.ID == "" {
		return fmt.Errorf("set ID is required")
	}
	if s.Name == "" {
		return fmt.Errorf("set %s: name is required", s.ID)
	}
	if len(s.Groups) == 0 {
		return fmt.Errorf("set %s: %w", s.ID, ErrNoGroups)
	}

	var patterns []string
	for i, g := range s.Groups {
		if len(g.Patterns) == 0 {
			return fmt.Errorf("set %s: group %d has no patterns", s.ID, i)
		}
		patterns = append(patterns, g.Patterns...)
	}

	m := matcher.New(matcher.Options{})
	for _, p := range patterns {
		if !matcher.IsRegex(p) {
			continue
		}
		if _, err := m.FindMatches("", p); err != nil {
			return fmt.Errorf("set %s: %w", s.ID, err)
		}
	}

	for _, example := range s.Examples {
		if m.MatchAll(example, patterns).Summary.TotalMatches == 0 {
			return fmt.Errorf("set %s: example %q matches no pattern", s.ID, example)
		}
	}

	expected := s.ComputeStructuralID()
	if s.StructuralID != "" && s.StructuralID != expected {
		return fmt.Errorf("set %s has inconsistent StructuralID: got %s, expected %s",
			s.ID, s.StructuralID, expected)
	}

	return nil
}
