package highlight

import (
	"bytes"
	"log/slog"
	"regexp"
	"testing"

	"github.com/praetorian-inc/bylight/pkg/matcher"
	"github.com/praetorian-inc/bylight/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedID() string { return "match-abc" }

func TestNewMatchID(t *testing.T) {
	id := NewMatchID()
	assert.Regexp(t, regexp.MustCompile(`^match-[0-9a-f]{9}$`), id)
	assert.NotEqual(t, id, NewMatchID())
}

func TestAnnotate_GroupsGetSchemeColors(t *testing.T) {
	h := New(WithIDFunc(fixedID), WithColors([]string{"#ff0000", "#00ff00"}))

	got, err := h.Annotate("func(a, b) other(x, y) more(z)", Groups("func(...)", "other(...)", "more(...)"))
	require.NoError(t, err)

	want := []types.Annotation{
		{Span: types.Span{Start: 0, End: 10}, MatchID: "match-abc-0", Color: "#ff0000", Pattern: "func(...)"},
		{Span: types.Span{Start: 11, End: 22}, MatchID: "match-abc-1", Color: "#00ff00", Pattern: "other(...)"},
		{Span: types.Span{Start: 23, End: 30}, MatchID: "match-abc-2", Color: "#ff0000", Pattern: "more(...)"},
	}
	assert.Equal(t, want, got)
}

func TestAnnotate_GroupColorOverridesScheme(t *testing.T) {
	h := New(WithIDFunc(fixedID))
	groups := []types.PatternGroup{
		{Patterns: []string{"func(...)"}},
		{Patterns: []string{"other(...)"}, Color: "#00ff00"},
	}

	got, err := h.Annotate("func(a, b) other(x, y)", groups)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, DefaultColors[0], got[0].Color)
	assert.Equal(t, "#00ff00", got[1].Color)
}

func TestAnnotate_GroupSharesOneID(t *testing.T) {
	h := New(WithIDFunc(fixedID))

	got, err := h.Annotate("go(a) defer f()", Groups("go(...), defer ...()"))
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "match-abc-0", got[0].MatchID)
	assert.Equal(t, "match-abc-0", got[1].MatchID)
}

func TestAnnotate_InvalidPatternIsSkipped(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	h := New(WithIDFunc(fixedID), WithLogger(logger))

	got, err := h.Annotate("go(a)", Groups("/(/, go(...)"))

	assert.ErrorIs(t, err, matcher.ErrInvalidRegex)
	require.Len(t, got, 1)
	assert.Equal(t, "go(...)", got[0].Pattern)
	assert.Contains(t, buf.String(), "skipping pattern")
}

func TestAnnotate_DropsEmptyMatches(t *testing.T) {
	h := New(WithIDFunc(fixedID))

	got, err := h.Annotate("abc", Groups("/x*/"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestAnnotate_NoGroups(t *testing.T) {
	got, err := New().Annotate("text", nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestParseGroup(t *testing.T) {
	assert.Equal(t, []string{"go(...)", "defer ...()"}, ParseGroup(" go(...) , defer ...() ,"))
	assert.Empty(t, ParseGroup(""))
	assert.Empty(t, ParseGroup(" , "))
}

func TestEscapeRegExp(t *testing.T) {
	assert.Equal(t, `a\.b\*c\(d\)\[e\]\{f\}\|g\^h\$i\+j\?k\\l`, EscapeRegExp(`a.b*c(d)[e]{f}|g^h$i+j?k\l`))
	assert.Equal(t, "plain", EscapeRegExp("plain"))
}

func TestLiteralRegex_MatchesVerbatim(t *testing.T) {
	text := "call f(...) and f(x)"

	spans, err := matcher.FindMatches(text, LiteralRegex("f(...)"))
	require.NoError(t, err)

	require.Len(t, spans, 1)
	assert.Equal(t, "f(...)", spans[0].Slice(text))
}

func TestSortForApplication(t *testing.T) {
	anns := []types.Annotation{
		{Span: types.Span{Start: 0, End: 1}, MatchID: "a"},
		{Span: types.Span{Start: 5, End: 6}, MatchID: "b"},
		{Span: types.Span{Start: 5, End: 9}, MatchID: "c"},
		{Span: types.Span{Start: 2, End: 3}, MatchID: "d"},
	}

	SortForApplication(anns)

	var ids []string
	for _, a := range anns {
		ids = append(ids, a.MatchID)
	}
	assert.Equal(t, []string{"b", "c", "d", "a"}, ids)
}

func TestColorAt(t *testing.T) {
	scheme := []string{"red", "green"}
	assert.Equal(t, "red", ColorAt(scheme, 0))
	assert.Equal(t, "green", ColorAt(scheme, 1))
	assert.Equal(t, "red", ColorAt(scheme, 2))
	assert.Equal(t, DefaultColors[3], ColorAt(nil, 3))
}

func TestHexToRGB(t *testing.T) {
	tests := []struct {
		in      string
		r, g, b int
		wantErr bool
	}{
		{in: "#59a14f", r: 0x59, g: 0xa1, b: 0x4f},
		{in: "ff0000", r: 255},
		{in: "#0f0", g: 255},
		{in: "blue", wantErr: true},
		{in: "#12345", wantErr: true},
		{in: "#zzzzzz", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			r, g, b, err := HexToRGB(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, []int{tt.r, tt.g, tt.b}, []int{r, g, b})
		})
	}
}
