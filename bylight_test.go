package bylight

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindMatches(t *testing.T) {
	spans, err := FindMatches("a(b(c)d)e f(x)", "a(...)e")
	require.NoError(t, err)
	assert.Equal(t, []Span{{Start: 0, End: 9}}, spans)
}

func TestFindMatchesRegex(t *testing.T) {
	assert.True(t, IsRegex("/x+/"))

	spans, err := FindMatches("x xx", "/x+/")
	require.NoError(t, err)
	assert.Len(t, spans, 2)
}

func TestFindMatchesInvalidRegex(t *testing.T) {
	_, err := FindMatches("abc", "/a(/")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidRegex))
}

func TestAnnotate(t *testing.T) {
	annotations, err := Annotate("foo(1) bar", "foo(...)", "bar")
	require.NoError(t, err)
	require.Len(t, annotations, 2)

	assert.Equal(t, DefaultColors[0], annotations[0].Color)
	assert.Equal(t, DefaultColors[1], annotations[1].Color)
	assert.True(t, strings.HasSuffix(annotations[0].MatchID, "-0"))
	assert.True(t, strings.HasSuffix(annotations[1].MatchID, "-1"))
}

func TestHighlight(t *testing.T) {
	out, err := Highlight("x < foo(1)", "foo(...)")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "x &lt; "))
	assert.Contains(t, out, `class="bylight-code"`)
	assert.Contains(t, out, "foo(1)</span>")
}

func TestHighlightInvalidPattern(t *testing.T) {
	out, err := Highlight("abc", "/a(/,b")
	require.Error(t, err)
	assert.Contains(t, out, "b</span>")
}

func TestProcessDocument(t *testing.T) {
	in := `<html><body><pre>foo(1)</pre><p><a href="bylight:?in=-1">foo</a></p></body></html>`

	var out bytes.Buffer
	stats, err := ProcessDocument(strings.NewReader(in), &out, WithColors([]string{"#123456"}))
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Links)
	assert.Contains(t, out.String(), "bylight-link")
	assert.Contains(t, out.String(), "#123456")
}
