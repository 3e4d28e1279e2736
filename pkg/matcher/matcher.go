// Package matcher finds the substrings of a text that match bylight patterns.
//
// A pattern is either a literal pattern, made of literal characters and the
// bracket-aware wildcard token "...", or a regular expression written between
// slashes, e.g. /func\d\(.*?\)/. Every operation is a pure function of its
// arguments; a Matcher only carries configuration and is safe for concurrent
// use.
package matcher

import (
	"io"
	"log/slog"
	"time"

	"github.com/praetorian-inc/bylight/pkg/prefilter"
	"github.com/praetorian-inc/bylight/pkg/types"
)

// Mode tells how a pattern string is interpreted.
type Mode int

const (
	// ModeLiteral patterns use the wildcard matcher.
	ModeLiteral Mode = iota
	// ModeRegex patterns are delegated to the regex engine.
	ModeRegex
)

func (m Mode) String() string {
	if m == ModeRegex {
		return "regex"
	}
	return "literal"
}

// IsRegex reports whether pattern is delimited as /expr/.
func IsRegex(pattern string) bool {
	return len(pattern) >= 2 && pattern[0] == '/' && pattern[len(pattern)-1] == '/'
}

// Classify returns the mode pattern is evaluated in.
func Classify(pattern string) Mode {
	if IsRegex(pattern) {
		return ModeRegex
	}
	return ModeLiteral
}

// defaultMatcher backs the package-level FindMatches.
var defaultMatcher = New(Options{})

// FindMatches returns every match of pattern in text using the default
// regex engine. No match is an empty result, not an error; the only error is
// a regex pattern the engine cannot compile or run.
func FindMatches(text, pattern string) ([]types.Span, error) {
	return defaultMatcher.FindMatches(text, pattern)
}

// Matcher dispatches patterns to the literal matcher or the regex engine.
type Matcher struct {
	engine    Engine
	prefilter bool
	logger    *slog.Logger
}

// New creates a Matcher from opts.
func New(opts Options) *Matcher {
	engine := opts.Engine
	if engine == nil {
		engine = Regexp2Engine{Timeout: opts.RegexTimeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Matcher{
		engine:    engine,
		prefilter: opts.Prefilter,
		logger:    logger,
	}
}

// FindMatches returns every match of a single pattern in text.
func (m *Matcher) FindMatches(text, pattern string) ([]types.Span, error) {
	if IsRegex(pattern) {
		return FindAllRegex(m.engine, text, pattern[1:len(pattern)-1])
	}
	return FindAll(text, pattern), nil
}

// MatchAll evaluates each pattern independently against text. A pattern that
// fails is recorded as PatternError and does not stop the others.
func (m *Matcher) MatchAll(text string, patterns []string) *MatchResult {
	result := &MatchResult{Results: make([]PatternResult, 0, len(patterns))}

	candidates := m.candidates(text, patterns)
	for i, pattern := range patterns {
		pr := PatternResult{Pattern: pattern, Mode: Classify(pattern)}

		if !candidates[i] {
			pr.Status = PatternSkipped
			m.logger.Debug("pattern skipped by prefilter", "pattern", pattern)
			result.add(pr)
			continue
		}

		start := time.Now()
		spans, err := m.FindMatches(text, pattern)
		pr.Duration = time.Since(start)
		if err != nil {
			pr.Status = PatternError
			pr.Error = err
			m.logger.Debug("pattern failed", "pattern", pattern, "mode", pr.Mode, "error", err)
		} else {
			pr.Spans = spans
			m.logger.Debug("pattern evaluated",
				"pattern", pattern,
				"mode", pr.Mode,
				"matches", len(spans),
				"duration", pr.Duration,
			)
		}
		result.add(pr)
	}

	return result
}

// candidates reports, per pattern, whether it can possibly match text.
func (m *Matcher) candidates(text string, patterns []string) []bool {
	if !m.prefilter {
		all := make([]bool, len(patterns))
		for i := range all {
			all[i] = true
		}
		return all
	}

	keywords := make([]string, len(patterns))
	for i, p := range patterns {
		keywords[i] = LiteralPrefix(p)
	}
	return prefilter.New(keywords).Candidates([]byte(text))
}
