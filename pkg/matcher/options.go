package matcher

import (
	"log/slog"
	"time"
)

// Options configures a Matcher.
type Options struct {
	// Engine compiles /.../ patterns. Nil selects Regexp2Engine.
	Engine Engine

	// RegexTimeout bounds one regex match attempt when Engine is nil
	// (0 = no limit).
	RegexTimeout time.Duration

	// Prefilter skips literal patterns whose leading literal text does not
	// occur anywhere in the subject. Results are identical either way.
	Prefilter bool

	// Logger receives debug traces of each pattern evaluation.
	// Nil discards them.
	Logger *slog.Logger
}

// DefaultOptions returns the default matching options
func DefaultOptions() Options {
	return Options{
		Prefilter: true,
	}
}
