package matcher

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
	"github.com/praetorian-inc/bylight/pkg/types"
)

// ErrInvalidRegex marks a /.../ pattern whose body the regex engine rejected.
// The engine's own error stays in the chain.
var ErrInvalidRegex = errors.New("invalid regex pattern")

// Engine compiles regular expressions. Swapping the engine changes which
// syntax /.../ patterns accept without touching the literal matcher.
type Engine interface {
	Compile(expr string) (Regexp, error)
}

// Regexp finds successive matches over a rune slice.
type Regexp interface {
	// FindFrom returns the leftmost match that starts at or after rune index
	// from. Offsets are rune indexes into subject; end is exclusive.
	FindFrom(subject []rune, from int) (start, end int, ok bool, err error)
}

// Regexp2Engine compiles expressions with regexp2 in ECMAScript mode, so
// patterns behave as they would in a browser: lazy quantifiers, \b and \d
// follow JavaScript rules, matching is case-sensitive and not multiline.
type Regexp2Engine struct {
	// Timeout bounds a single match attempt (0 = no limit).
	Timeout time.Duration
}

// Compile implements Engine.
func (e Regexp2Engine) Compile(expr string) (Regexp, error) {
	re, err := regexp2.Compile(expr, regexp2.ECMAScript)
	if err != nil {
		return nil, err
	}
	if e.Timeout > 0 {
		re.MatchTimeout = e.Timeout
	}
	return &regexp2Regexp{re: re}, nil
}

type regexp2Regexp struct {
	re *regexp2.Regexp
}

func (r *regexp2Regexp) FindFrom(subject []rune, from int) (int, int, bool, error) {
	m, err := r.re.FindRunesMatchStartingAt(subject, from)
	if err != nil || m == nil {
		return 0, 0, false, err
	}
	return m.Index, m.Index + m.Length, true, nil
}

// FindAllRegex enumerates every match of expr (the pattern without its
// slashes) in text, in the order the engine reports them. The search resumes
// at the end of each match; after an empty match it resumes one character
// later so the scan always terminates. Spans are byte offsets.
func FindAllRegex(engine Engine, text, expr string) ([]types.Span, error) {
	re, err := engine.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("%w /%s/: %w", ErrInvalidRegex, expr, err)
	}

	subject := []rune(text)
	offsets := runeByteOffsets(text, len(subject))

	var spans []types.Span
	for from := 0; from <= len(subject); {
		start, end, ok, err := re.FindFrom(subject, from)
		if err != nil {
			return nil, fmt.Errorf("matching /%s/: %w", expr, err)
		}
		if !ok {
			break
		}
		spans = append(spans, types.Span{Start: offsets[start], End: offsets[end]})

		if end > start {
			from = end
		} else {
			from = end + 1
		}
	}
	return spans, nil
}

// runeByteOffsets maps every rune index of text (plus the end position) to its
// byte offset. Invalid bytes count as one rune each, as []rune conversion does.
func runeByteOffsets(text string, runes int) []int {
	offsets := make([]int, 0, runes+1)
	for i := 0; i < len(text); {
		offsets = append(offsets, i)
		_, size := utf8.DecodeRuneInString(text[i:])
		i += size
	}
	return append(offsets, len(text))
}
