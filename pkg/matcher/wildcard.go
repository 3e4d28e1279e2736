package matcher

import "strings"

// WildcardToken skips arbitrary content inside a literal pattern.
const WildcardToken = "..."

// scanState tracks whether the wildcard scanner is inside a string literal.
type scanState int

const (
	stateNormal scanState = iota
	stateSingleQuote
	stateDoubleQuote
)

// closingQuote returns the byte that ends the current string literal.
func (s scanState) closingQuote() byte {
	if s == stateSingleQuote {
		return '\''
	}
	return '"'
}

// ScanWildcard advances over text from start and returns the offset where a
// wildcard run ends. At bracket depth zero and outside string literals the run
// stops in front of terminator, or in front of a closing bracket that has no
// matching opener inside the run. An empty terminator only stops on such a
// bracket or at the end of text. The returned offset is never consumed.
func ScanWildcard(text string, start int, terminator string) int {
	start = clampOffset(start, len(text))

	state := stateNormal
	depth := 0
	for i := start; i < len(text); i++ {
		c := text[i]

		if state != stateNormal {
			if c == state.closingQuote() && !escapedAt(text, i) {
				state = stateNormal
			}
			continue
		}

		if depth == 0 && terminator != "" && strings.HasPrefix(text[i:], terminator) {
			return i
		}

		switch c {
		case '"':
			state = stateDoubleQuote
		case '\'':
			state = stateSingleQuote
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth == 0 {
				return i
			}
			depth--
		}
	}
	return len(text)
}

// escapedAt reports whether the byte at i is preceded by a backslash.
func escapedAt(text string, i int) bool {
	return i > 0 && text[i-1] == '\\'
}

// clampOffset forces an offset into [0, n]. Callers inside this package never
// pass out-of-range offsets; exported entry points clamp instead of panicking.
func clampOffset(offset, n int) int {
	if offset < 0 {
		return 0
	}
	if offset > n {
		return n
	}
	return offset
}
