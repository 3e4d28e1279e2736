package matcher

import (
	"strings"
	"unicode/utf8"

	"github.com/praetorian-inc/bylight/pkg/types"
)

// MatchAt tries to match a literal pattern at exactly offset start.
// Literal bytes must match one for one; each wildcard token jumps the text
// cursor to wherever ScanWildcard stops, using the character that follows
// the token in the pattern as the terminator. The match succeeds only if the
// whole pattern is consumed, so running out of text first is a failure even
// when only a trailing wildcard remains.
func MatchAt(text, pattern string, start int) (types.Span, bool) {
	start = clampOffset(start, len(text))

	ti, pi := start, 0
	for ti < len(text) && pi < len(pattern) {
		if strings.HasPrefix(pattern[pi:], WildcardToken) {
			ti = ScanWildcard(text, ti, terminatorAfter(pattern, pi+len(WildcardToken)))
			pi += len(WildcardToken)
			continue
		}
		if text[ti] != pattern[pi] {
			return types.Span{}, false
		}
		ti++
		pi++
	}

	if pi != len(pattern) {
		return types.Span{}, false
	}
	return types.Span{Start: start, End: ti}, true
}

// terminatorAfter returns the full character at pattern[i:], or "" at the end.
func terminatorAfter(pattern string, i int) string {
	if i >= len(pattern) {
		return ""
	}
	_, size := utf8.DecodeRuneInString(pattern[i:])
	return pattern[i : i+size]
}

// FindAll enumerates the matches of a literal pattern from left to right.
// After a match the scan resumes at its end, so matches of one pattern never
// overlap. A failed attempt, or an empty match, moves on by one character.
func FindAll(text, pattern string) []types.Span {
	var spans []types.Span
	for pos := 0; pos < len(text); {
		span, ok := MatchAt(text, pattern, pos)
		if ok {
			spans = append(spans, span)
			if span.End > pos {
				pos = span.End
				continue
			}
		}
		_, size := utf8.DecodeRuneInString(text[pos:])
		pos += size
	}
	return spans
}

// LiteralPrefix returns the literal text a pattern must start with: everything
// before its first wildcard token. It is empty for regex patterns and for
// patterns that begin with a wildcard.
func LiteralPrefix(pattern string) string {
	if IsRegex(pattern) {
		return ""
	}
	if i := strings.Index(pattern, WildcardToken); i >= 0 {
		return pattern[:i]
	}
	return pattern
}
