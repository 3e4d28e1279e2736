package scanner

import (
	"testing"

	"github.com/praetorian-inc/bylight/pkg/highlight"
	"github.com/praetorian-inc/bylight/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCore_Match(t *testing.T) {
	core := NewCore(CoreOptions{})

	out := core.Match("go func() {}()", []string{"go func(...)", "/(/", "missing"})

	require.Len(t, out.Patterns, 3)
	assert.Equal(t, 1, out.Total)

	assert.Equal(t, "literal", out.Patterns[0].Mode)
	assert.Equal(t, []types.Span{{Start: 0, End: 9}}, out.Patterns[0].Spans)
	assert.Empty(t, out.Patterns[0].Error)

	assert.Equal(t, "regex", out.Patterns[1].Mode)
	assert.NotEmpty(t, out.Patterns[1].Error)
	assert.Empty(t, out.Patterns[1].Spans)

	assert.NotNil(t, out.Patterns[2].Spans)
	assert.Empty(t, out.Patterns[2].Spans)
}

func TestCore_MatchWithPrefilter(t *testing.T) {
	plain := NewCore(CoreOptions{})
	filtered := NewCore(CoreOptions{Matcher: matcherOptionsWithPrefilter()})

	text := "x := foo(bar(1), [2])"
	patterns := []string{"foo(...)", "bar(...)", "nothing(...)", "/\\d/"}

	assert.Equal(t, plain.Match(text, patterns).Patterns, filtered.Match(text, patterns).Patterns)
}

func TestCore_HighlightHTML(t *testing.T) {
	core := NewCore(CoreOptions{})

	out := core.Highlight("go func() {}()", highlight.Groups("go func(...)"), FormatHTML)

	require.Len(t, out.Annotations, 1)
	assert.Equal(t, highlight.DefaultColors[0], out.Annotations[0].Color)
	assert.Equal(t, FormatHTML, out.Format)
	assert.Contains(t, out.Output, `data-match-id="`+out.Annotations[0].MatchID+`"`)
	assert.Contains(t, out.Output, `>go func()</span> {}()`)
	assert.Empty(t, out.Errors)
}

func TestCore_HighlightUsesConfiguredColors(t *testing.T) {
	core := NewCore(CoreOptions{Colors: []string{"#111111", "#222222"}})

	out := core.Highlight("a b", highlight.Groups("a", "b"), FormatNone)

	require.Len(t, out.Annotations, 2)
	assert.Equal(t, "#111111", out.Annotations[0].Color)
	assert.Equal(t, "#222222", out.Annotations[1].Color)
	assert.Empty(t, out.Output)
}

func TestCore_HighlightReportsPatternErrors(t *testing.T) {
	core := NewCore(CoreOptions{})

	out := core.Highlight("a(b)", []types.PatternGroup{{Patterns: []string{"/(/", "a(...)"}}}, FormatANSI)

	require.Len(t, out.Annotations, 1)
	assert.Len(t, out.Errors, 1)
	assert.Contains(t, out.Output, "a(b)")
}

func TestCore_HighlightNoMatches(t *testing.T) {
	core := NewCore(CoreOptions{})

	out := core.Highlight("abc", highlight.Groups("zzz"), FormatHTML)

	assert.NotNil(t, out.Annotations)
	assert.Empty(t, out.Annotations)
	assert.Equal(t, "abc", out.Output)
}

func TestCore_Render(t *testing.T) {
	core := NewCore(CoreOptions{})

	out, err := core.Render(`<p><a href="bylight">go func(...)</a></p><pre>go func() {}()</pre>`, true, false)
	require.NoError(t, err)

	assert.Equal(t, 1, out.Links)
	assert.Equal(t, 1, out.Blocks)
	assert.Equal(t, 1, out.Highlighted)
	assert.Equal(t, 1, out.Matches)
	assert.Contains(t, out.HTML, `class="bylight-link"`)
	assert.Contains(t, out.HTML, `class="bylight-code"`)
	assert.NotContains(t, out.HTML, "<html>")
}

func TestGetBuiltinSets(t *testing.T) {
	sets, err := GetBuiltinSets()
	require.NoError(t, err)
	assert.NotEmpty(t, sets)

	again, err := GetBuiltinSets()
	require.NoError(t, err)
	assert.Equal(t, len(sets), len(again))
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"", "html", "ansi"} {
		f, err := ParseFormat(s)
		require.NoError(t, err)
		assert.Equal(t, Format(s), f)
	}
	_, err := ParseFormat("pdf")
	assert.Error(t, err)
}
