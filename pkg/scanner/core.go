// Package scanner evaluates pattern sets against content, for one-off
// requests (Core) and for whole trees (Scanner).
package scanner

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/praetorian-inc/bylight/pkg/document"
	"github.com/praetorian-inc/bylight/pkg/highlight"
	"github.com/praetorian-inc/bylight/pkg/matcher"
	"github.com/praetorian-inc/bylight/pkg/patternset"
	"github.com/praetorian-inc/bylight/pkg/types"
)

var (
	// cachedBuiltinSets holds builtin sets loaded once per process
	cachedBuiltinSets []*types.PatternSet
	cachedSetsErr     error
	cacheOnce         sync.Once
)

func loadBuiltinSetsCached() ([]*types.PatternSet, error) {
	cacheOnce.Do(func() {
		cachedBuiltinSets, cachedSetsErr = patternset.NewLoader().LoadBuiltin()
	})
	return cachedBuiltinSets, cachedSetsErr
}

// GetBuiltinSets returns the built-in pattern sets (cached).
func GetBuiltinSets() ([]*types.PatternSet, error) {
	return loadBuiltinSetsCached()
}

// CoreOptions configures a Core.
type CoreOptions struct {
	Matcher matcher.Options
	Colors  []string
	Logger  *slog.Logger
}

// Core answers match, highlight and render requests. It is safe for
// concurrent use.
type Core struct {
	matcher     *matcher.Matcher
	highlighter *highlight.Highlighter
	colors      []string
	logger      *slog.Logger
}

// NewCore creates a Core.
func NewCore(opts CoreOptions) *Core {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	mopts := opts.Matcher
	if mopts.Logger == nil {
		mopts.Logger = logger
	}
	m := matcher.New(mopts)

	logger.Debug("core created", "prefilter", mopts.Prefilter, "colors", len(opts.Colors))
	return &Core{
		matcher: m,
		highlighter: highlight.New(
			highlight.WithMatcher(m),
			highlight.WithColors(opts.Colors),
			highlight.WithLogger(logger),
		),
		colors: opts.Colors,
		logger: logger,
	}
}

// Match evaluates every pattern against text. A failing pattern reports its
// error in its own entry; the others are unaffected.
func (c *Core) Match(text string, patterns []string) *MatchOutput {
	result := c.matcher.MatchAll(text, patterns)

	out := &MatchOutput{
		Patterns: make([]PatternMatches, 0, len(result.Results)),
		Total:    result.Summary.TotalMatches,
	}
	for _, pr := range result.Results {
		pm := PatternMatches{
			Pattern: pr.Pattern,
			Mode:    pr.Mode.String(),
			Spans:   pr.Spans,
		}
		if pm.Spans == nil {
			pm.Spans = []types.Span{}
		}
		if pr.Error != nil {
			pm.Error = pr.Error.Error()
		}
		out.Patterns = append(out.Patterns, pm)
	}
	return out
}

// Highlight annotates text with groups and renders it in format. Pattern
// errors are reported in Errors and never fail the whole request.
func (c *Core) Highlight(text string, groups []types.PatternGroup, format Format) *HighlightOutput {
	annotations, err := c.highlighter.Annotate(text, groups)

	out := &HighlightOutput{
		Annotations: annotations,
		Format:      format,
	}
	if out.Annotations == nil {
		out.Annotations = []types.Annotation{}
	}
	if err != nil {
		out.Errors = strings.Split(err.Error(), "\n")
	}

	switch format {
	case FormatHTML:
		out.Output = highlight.RenderHTML(text, annotations)
	case FormatANSI:
		out.Output = highlight.RenderANSI(text, annotations, true)
	}
	return out
}

// Render processes an HTML document or fragment, turning its bylight links
// into highlights.
func (c *Core) Render(doc string, fragment, assets bool) (*RenderOutput, error) {
	opts := []document.Option{
		document.WithHighlighter(c.highlighter),
		document.WithColors(c.colors),
		document.WithLogger(c.logger),
	}
	if fragment {
		opts = append(opts, document.WithFragment())
	}
	if assets {
		opts = append(opts, document.WithAssets())
	}

	html, stats, err := document.ProcessString(doc, opts...)
	if err != nil {
		return nil, err
	}
	return &RenderOutput{
		HTML:        html,
		Blocks:      stats.Blocks,
		Links:       stats.Links,
		Highlighted: stats.Highlighted,
		Matches:     stats.Matches,
	}, nil
}
