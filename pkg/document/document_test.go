package document

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/praetorian-inc/bylight/pkg/highlight"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

func indexID(i int) string { return fmt.Sprintf("match-%d", i) }

func process(t *testing.T, doc string, opts ...Option) (*html.Node, Stats) {
	t.Helper()
	opts = append([]Option{WithFragment(), WithLinkIDFunc(indexID)}, opts...)
	out, stats, err := ProcessString(doc, opts...)
	require.NoError(t, err)

	root, err := html.Parse(strings.NewReader(out))
	require.NoError(t, err)
	return root, stats
}

func all(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && match(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func hasClass(class string) func(*html.Node) bool {
	return func(n *html.Node) bool { return attr(n, "class") == class }
}

func color(n *html.Node) string {
	return strings.TrimSuffix(strings.TrimPrefix(attr(n, "style"), "--bylight-color: "), ";")
}

// highlighted returns the indexes of pre elements containing a code span.
func highlighted(root *html.Node) []int {
	var idx []int
	for i, pre := range all(root, func(n *html.Node) bool { return n.DataAtom == atom.Pre }) {
		if len(all(pre, hasClass(highlight.CodeClass))) > 0 {
			idx = append(idx, i)
		}
	}
	return idx
}

func TestProcess_Targets(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want []int
	}{
		{
			name: "in with index",
			doc: `<pre>func(x, y)</pre>
<a href="bylight:?match=func(...)&in=2">Link</a>
<pre>func(a, b)</pre>
<pre>func(c, d)</pre>`,
			want: []int{2},
		},
		{
			name: "in=all",
			doc: `<pre>func(x, y)</pre>
<a href="bylight:?match=func(...)&in=all">Link</a>
<pre>func(a, b)</pre>
<pre>func(c, d)</pre>`,
			want: []int{0, 1, 2},
		},
		{
			name: "negative index",
			doc: `<pre>func(x, y)</pre>
<pre>func(a, b)</pre>
<a href="bylight:?match=func(...)&in=-1">Link</a>
<pre>func(c, d)</pre>`,
			want: []int{1},
		},
		{
			name: "several offsets",
			doc: `<pre>func(x, y)</pre>
<a href="bylight:?match=func(...)&in=-1,2">Link</a>
<pre>func(a, b)</pre>
<pre>func(c, d)</pre>`,
			want: []int{0, 2},
		},
		{
			name: "default is the next block",
			doc: `<pre>func(x, y)</pre>
<a href="bylight:?match=func(...)">Link</a>
<pre>func(a, b)</pre>
<pre>func(c, d)</pre>`,
			want: []int{1},
		},
		{
			name: "dir=down",
			doc: `<pre>func(x, y)</pre>
<a href="bylight:?match=func(...)&dir=down">Link</a>
<pre>func(a, b)</pre>
<pre>func(c, d)</pre>
<pre>func(e, f)</pre>`,
			want: []int{1, 2, 3},
		},
		{
			name: "dir=up",
			doc: `<pre>func(x, y)</pre>
<pre>func(a, b)</pre>
<pre>func(c, d)</pre>
<a href="bylight:?match=func(...)&dir=up">Link</a>
<pre>func(e, f)</pre>`,
			want: []int{0, 1, 2},
		},
		{
			name: "dir=down at the top",
			doc: `<a href="bylight:?match=func(...)&dir=down">Link</a>
<pre>func(x, y)</pre>
<pre>func(a, b)</pre>
<pre>func(c, d)</pre>`,
			want: []int{0, 1, 2},
		},
		{
			name: "no matching blocks in direction",
			doc: `<pre>other(x, y)</pre>
<a href="bylight:?match=func(...)&dir=up">Link Up</a>
<a href="bylight:?match=func(...)&dir=down">Link Down</a>
<pre>other(a, b)</pre>`,
			want: nil,
		},
		{
			name: "offset zero targets nothing",
			doc: `<pre>func(x, y)</pre>
<a href="bylight:?match=func(...)&in=0">Link</a>
<pre>func(a, b)</pre>`,
			want: nil,
		},
		{
			name: "offset past the last block",
			doc: `<a href="bylight:?match=func(...)&in=5">Link</a>
<pre>func(a, b)</pre>`,
			want: nil,
		},
		{
			name: "in takes precedence over dir",
			doc: `<pre>func(x, y)</pre>
<a href="bylight:?match=func(...)&in=1&dir=up">Link</a>
<pre>func(a, b)</pre>`,
			want: []int{1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, _ := process(t, tt.doc)
			assert.Equal(t, tt.want, highlighted(root))
		})
	}
}

func TestProcess_LinksBecomeSpans(t *testing.T) {
	root, stats := process(t, `<pre>func(x, y)</pre>
<a href="bylight:?match=func(...)">Link <b>text</b></a>
<pre>func(a, b)</pre>`)

	assert.Empty(t, all(root, func(n *html.Node) bool { return n.DataAtom == atom.A }))

	spans := all(root, hasClass(highlight.LinkClass))
	require.Len(t, spans, 1)
	assert.Equal(t, "Link text", textContent(spans[0]))
	assert.Equal(t, "match-1", attr(spans[0], "data-match-id"))
	assert.Equal(t, highlight.DefaultColors[0], color(spans[0]))

	code := all(root, hasClass(highlight.CodeClass))
	require.Len(t, code, 1)
	assert.Equal(t, "match-1", attr(code[0], "data-match-id"))
	assert.Equal(t, "func(a, b)", textContent(code[0]))

	assert.Equal(t, Stats{Blocks: 2, Links: 1, Highlighted: 1, Matches: 1}, stats)
}

func TestProcess_OtherLinksUntouched(t *testing.T) {
	root, stats := process(t, `<a href="https://example.com">site</a><pre>x</pre>`)

	assert.Len(t, all(root, func(n *html.Node) bool { return n.DataAtom == atom.A }), 1)
	assert.Equal(t, 0, stats.Links)
}

func TestProcess_LinkTextIsPattern(t *testing.T) {
	root, _ := process(t, `<a href="bylight">go(...)</a><pre>x := 1
go(work)</pre>`)

	code := all(root, hasClass(highlight.CodeClass))
	require.Len(t, code, 1)
	assert.Equal(t, "go(work)", textContent(code[0]))
}

func TestProcess_LinkQueryKeepsSemicolons(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want []string
	}{
		{
			name: "escaped equals",
			doc:  `<a href="bylight?match=x%3Dy;">link</a><pre>x=y; z</pre>`,
			want: []string{"x=y;"},
		},
		{
			name: "escaped plus",
			doc:  `<a href="bylight?match=i%2B%2B;">link</a><pre>for (;;) { i++; }</pre>`,
			want: []string{"i++;"},
		},
		{
			name: "plus is a space",
			doc:  `<a href="bylight?match=i++;">i</a><pre>i  ; i</pre>`,
			want: []string{"i  ;"},
		},
		{
			name: "fragment dropped",
			doc:  `<a href="bylight?match=a#x">link</a><pre>b a#x</pre>`,
			want: []string{"a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, stats := process(t, tt.doc)

			var got []string
			for _, code := range all(root, hasClass(highlight.CodeClass)) {
				got = append(got, textContent(code))
			}
			assert.Equal(t, tt.want, got)
			assert.Equal(t, 1, stats.Highlighted)
		})
	}
}

func TestLinkQuery(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	tests := []struct {
		name  string
		href  string
		match string
		in    string
	}{
		{name: "no query", href: "bylight", match: ""},
		{name: "semicolon literal", href: "bylight:?match=a;b&in=2", match: "a;b", in: "2"},
		{name: "first value wins", href: "bylight?match=a&match=b", match: "a"},
		{name: "bad escape kept", href: "bylight?match=100%zz", match: "100%zz"},
		{name: "bad escape in fragment", href: "bylight?match=go(...)#%zz", match: "go(...)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query := linkQuery(tt.href, logger)
			assert.Equal(t, tt.match, query.Get("match"))
			assert.Equal(t, tt.in, query.Get("in"))
		})
	}
}

func TestProcess_BlockBecomesCode(t *testing.T) {
	out, _, err := ProcessString(`<a href="bylight:?match=a">l</a><pre>a &lt; b</pre>`,
		WithFragment(), WithLinkIDFunc(indexID))
	require.NoError(t, err)

	assert.Contains(t, out,
		`<pre><code><span class="bylight-code" style="--bylight-color: #59a14f;" data-match-id="match-0">a</span> &lt; b</code></pre>`)
}

func TestProcess_ColorScheme(t *testing.T) {
	doc := `<a href="bylight:?match=func(...)">Link 1</a>
<a href="bylight:?match=other(...)">Link 2</a>
<a href="bylight:?match=another(...)">Link 3</a>
<pre>func(a, b) other(x, y) another(z)</pre>`

	t.Run("custom scheme cycles", func(t *testing.T) {
		root, _ := process(t, doc, WithColors([]string{"#ff0000", "#00ff00"}))

		links := all(root, hasClass(highlight.LinkClass))
		require.Len(t, links, 3)
		assert.Equal(t, "#ff0000", color(links[0]))
		assert.Equal(t, "#00ff00", color(links[1]))
		assert.Equal(t, "#ff0000", color(links[2]))
	})

	t.Run("default scheme", func(t *testing.T) {
		root, _ := process(t, doc)

		links := all(root, hasClass(highlight.LinkClass))
		require.Len(t, links, 3)
		assert.Equal(t, highlight.DefaultColors[0], color(links[0]))
		assert.Equal(t, highlight.DefaultColors[1], color(links[1]))

		code := all(root, hasClass(highlight.CodeClass))
		require.NotEmpty(t, code)
		assert.Equal(t, highlight.DefaultColors[0], color(code[0]))
	})
}

func TestProcess_ColorOverride(t *testing.T) {
	doc := `<a href="bylight:?match=func(...)">Link 1</a>
<a href="bylight:?match=other(...)&color=blue">Link 2</a>
<a href="bylight:?match=another(...)">Link 3</a>
<pre>func(a, b) other(x, y) another(z)</pre>`

	root, _ := process(t, doc, WithColors([]string{"red", "green", "yellow"}))

	links := all(root, hasClass(highlight.LinkClass))
	require.Len(t, links, 3)
	assert.Equal(t, "red", color(links[0]))
	assert.Equal(t, "blue", color(links[1]))
	assert.Equal(t, "yellow", color(links[2]))

	// every link targets the one block; "other(...)" also matches inside
	// "another(z)" and is nested in it
	code := all(root, hasClass(highlight.CodeClass))
	require.Len(t, code, 4)
	assert.Equal(t, "red", color(code[0]))
	assert.Equal(t, "blue", color(code[1]))
	assert.Equal(t, "yellow", color(code[2]))
	assert.Equal(t, "blue", color(code[3]))
	assert.Equal(t, "other(z)", textContent(code[3]))
}

func TestProcess_InvalidPatternIsLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	root, _ := process(t, `<a href="bylight:?match=/(/,go(...)">l</a><pre>go(a)</pre>`, WithLogger(logger))

	assert.Equal(t, []int{0}, highlighted(root))
	assert.Contains(t, buf.String(), "link pattern failed")
}

func TestProcess_InvalidOffsetIsLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	root, _ := process(t, `<a href="bylight:?match=go(...)&in=x,1">l</a><pre>go(a)</pre>`, WithLogger(logger))

	assert.Equal(t, []int{0}, highlighted(root))
	assert.Contains(t, buf.String(), "invalid link offset")
}

func TestProcess_FullDocumentWithAssets(t *testing.T) {
	doc := `<!DOCTYPE html><html><head><title>t</title></head><body>
<a href="bylight:?match=go(...)">l</a><pre>go(a)</pre></body></html>`

	var out bytes.Buffer
	_, err := Process(strings.NewReader(doc), &out, WithAssets(), WithLinkIDFunc(indexID))
	require.NoError(t, err)

	s := out.String()
	assert.Contains(t, s, "<style>"+Stylesheet()+"</style></head>")
	assert.Contains(t, s, "<script>"+HoverScript()+"</script></body>")
	assert.Contains(t, s, `class="bylight-link"`)
}

func TestProcess_FragmentWithAssets(t *testing.T) {
	out, _, err := ProcessString(`<pre>x</pre>`, WithFragment(), WithAssets())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "<style>"))
	assert.True(t, strings.HasSuffix(out, "</script>"))
}

func TestDefaultLinkID(t *testing.T) {
	assert.Regexp(t, `^match-3-[0-9a-f]{9}$`, defaultLinkID(3))
}

func TestAssetsEmbedded(t *testing.T) {
	assert.Contains(t, Stylesheet(), ".bylight-hover")
	assert.Contains(t, HoverScript(), "data-match-id")
}
