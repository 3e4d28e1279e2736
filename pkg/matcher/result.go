package matcher

import (
	"errors"
	"time"

	"github.com/praetorian-inc/bylight/pkg/types"
)

// PatternStatus represents the outcome of evaluating one pattern.
type PatternStatus int

const (
	// PatternCompleted indicates the pattern was evaluated
	PatternCompleted PatternStatus = iota
	// PatternSkipped indicates the prefilter proved the pattern cannot match
	PatternSkipped
	// PatternError indicates the pattern could not be evaluated
	PatternError
)

// String returns the string representation of PatternStatus
func (ps PatternStatus) String() string {
	switch ps {
	case PatternCompleted:
		return "completed"
	case PatternSkipped:
		return "skipped"
	case PatternError:
		return "error"
	default:
		return "unknown"
	}
}

// PatternResult holds the matches and statistics of a single pattern.
type PatternResult struct {
	Pattern  string        // Pattern as given
	Mode     Mode          // Literal or regex
	Spans    []types.Span  // Matches in discovery order
	Status   PatternStatus // Evaluation status
	Duration time.Duration // Time taken to evaluate
	Error    error         // Error if Status is PatternError
}

// ResultSummary provides aggregate statistics for a MatchAll call
type ResultSummary struct {
	TotalPatterns     int // Patterns attempted
	CompletedPatterns int // Patterns evaluated successfully
	SkippedPatterns   int // Patterns ruled out by the prefilter
	ErrorPatterns     int // Patterns that failed
	TotalMatches      int // Spans across all patterns
}

// MatchResult contains per-pattern results in input order.
type MatchResult struct {
	Results []PatternResult
	Summary ResultSummary
}

// Spans concatenates the spans of every pattern in input order.
func (r *MatchResult) Spans() []types.Span {
	spans := make([]types.Span, 0, r.Summary.TotalMatches)
	for _, pr := range r.Results {
		spans = append(spans, pr.Spans...)
	}
	return spans
}

// Err joins the errors of every failed pattern, or returns nil.
func (r *MatchResult) Err() error {
	var errs []error
	for _, pr := range r.Results {
		if pr.Error != nil {
			errs = append(errs, pr.Error)
		}
	}
	return errors.Join(errs...)
}

func (r *MatchResult) add(pr PatternResult) {
	r.Results = append(r.Results, pr)
	r.Summary.TotalPatterns++
	switch pr.Status {
	case PatternCompleted:
		r.Summary.CompletedPatterns++
	case PatternSkipped:
		r.Summary.SkippedPatterns++
	case PatternError:
		r.Summary.ErrorPatterns++
	}
	r.Summary.TotalMatches += len(pr.Spans)
}
