package highlight

import (
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/praetorian-inc/bylight/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xhtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

func ann(start, end int, id, c string) types.Annotation {
	return types.Annotation{Span: types.Span{Start: start, End: end}, MatchID: id, Color: c}
}

func TestRenderHTML_Single(t *testing.T) {
	got := RenderHTML("go(a) x", []types.Annotation{ann(0, 5, "m-0", "#59a14f")})

	assert.Equal(t,
		`<span class="bylight-code" style="--bylight-color: #59a14f;" data-match-id="m-0">go(a)</span> x`,
		got)
}

func TestRenderHTML_NoAnnotations(t *testing.T) {
	assert.Equal(t, "a &lt; b", RenderHTML("a < b", nil))
	assert.Equal(t, "", RenderHTML("", nil))
}

func TestRenderHTML_EscapesText(t *testing.T) {
	got := RenderHTML(`if a<b && c>"d"`, []types.Annotation{ann(3, 6, "m", "red")})

	assert.Equal(t,
		`if <span class="bylight-code" style="--bylight-color: red;" data-match-id="m">a&lt;b</span> &amp;&amp; c&gt;&#34;d&#34;`,
		got)
}

func TestRenderHTML_EscapesAttributes(t *testing.T) {
	got := RenderHTML("ab", []types.Annotation{ann(0, 2, `x"y`, `red"><script>`)})

	assert.NotContains(t, got, "<script>")
	assert.Contains(t, got, `data-match-id="x&#34;y"`)
}

func TestRenderHTML_Nested(t *testing.T) {
	got := RenderHTML("f(g(x))", []types.Annotation{
		ann(2, 6, "inner", "b"),
		ann(0, 7, "outer", "a"),
	})

	want := `<span class="bylight-code" style="--bylight-color: a;" data-match-id="outer">f(` +
		`<span class="bylight-code" style="--bylight-color: b;" data-match-id="inner">g(x)</span>` +
		`)</span>`
	assert.Equal(t, want, got)
}

func TestRenderHTML_CrossingSpansStayWellFormed(t *testing.T) {
	got := RenderHTML("abcdef", []types.Annotation{
		ann(0, 4, "A", "a"),
		ann(2, 6, "B", "b"),
	})

	open := func(id, c string) string {
		return `<span class="bylight-code" style="--bylight-color: ` + c + `;" data-match-id="` + id + `">`
	}
	want := open("A", "a") + "ab" + open("B", "b") + "cd</span></span>" + open("B", "b") + "ef</span>"
	assert.Equal(t, want, got)
	assertBalanced(t, got)
}

func TestRenderHTML_IgnoresEmptyAndClampsSpans(t *testing.T) {
	got := RenderHTML("abc", []types.Annotation{
		ann(1, 1, "empty", "x"),
		ann(2, 10, "tail", "y"),
	})

	assert.Equal(t, `ab<span class="bylight-code" style="--bylight-color: y;" data-match-id="tail">c</span>`, got)
}

func TestRenderHTML_TextContentPreserved(t *testing.T) {
	text := "func(a, b) <other>(x, y) & more"
	anns := []types.Annotation{
		ann(0, 10, "a", "1"),
		ann(5, 9, "b", "2"),
		ann(8, 20, "c", "3"),
	}

	got := RenderHTML(text, anns)

	nodes, err := xhtml.ParseFragment(strings.NewReader(got), &xhtml.Node{Type: xhtml.ElementNode, Data: "div", DataAtom: atom.Div})
	require.NoError(t, err)
	var b strings.Builder
	for _, n := range nodes {
		collectText(n, &b)
	}
	assert.Equal(t, text, b.String())
	assertBalanced(t, got)
}

func collectText(n *xhtml.Node, b *strings.Builder) {
	if n.Type == xhtml.TextNode {
		b.WriteString(n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}
}

func assertBalanced(t *testing.T, s string) {
	t.Helper()
	depth := 0
	for i := 0; i < len(s); i++ {
		switch {
		case strings.HasPrefix(s[i:], "<span "):
			depth++
		case strings.HasPrefix(s[i:], "</span>"):
			depth--
			require.GreaterOrEqual(t, depth, 0, "closing tag without opener at %d", i)
		}
	}
	assert.Zero(t, depth)
}

func TestRenderANSI(t *testing.T) {
	text := "go(a) x"
	anns := []types.Annotation{ann(0, 5, "m", "#ff0000")}

	assert.Equal(t, text, RenderANSI(text, anns, false))

	got := RenderANSI(text, anns, true)
	want := color.RGB(255, 0, 0).Add(color.Bold)
	want.EnableColor()
	assert.Equal(t, want.Sprint("go(a)")+" x", got)
}

func TestRenderANSI_InnermostWins(t *testing.T) {
	anns := []types.Annotation{
		ann(0, 4, "outer", "#ff0000"),
		ann(1, 3, "inner", "#00ff00"),
	}

	got := RenderANSI("abcd", anns, true)

	red := color.RGB(255, 0, 0).Add(color.Bold)
	red.EnableColor()
	green := color.RGB(0, 255, 0).Add(color.Bold)
	green.EnableColor()
	assert.Equal(t, red.Sprint("a")+green.Sprint("bc")+red.Sprint("d"), got)
}

func TestRenderANSI_NamedColorUnderlines(t *testing.T) {
	got := RenderANSI("ab", []types.Annotation{ann(0, 1, "m", "blue")}, true)

	u := color.New(color.Underline)
	u.EnableColor()
	assert.Equal(t, u.Sprint("a")+"b", got)
}
