package highlight

import (
	"strings"

	"github.com/praetorian-inc/bylight/pkg/types"
	"golang.org/x/net/html"
)

const (
	// CodeClass marks a highlighted match inside a code block.
	CodeClass = "bylight-code"
	// LinkClass marks a link that refers to highlighted matches.
	LinkClass = "bylight-link"
)

// RenderHTML escapes text and wraps every annotation in a bylight-code span.
// Overlapping annotations are nested; an annotation that crosses another is
// closed and reopened around it, so the markup is always well-formed.
func RenderHTML(text string, annotations []types.Annotation) string {
	var b strings.Builder
	var open []int

	for _, seg := range segmentize(len(text), annotations) {
		keep := commonPrefix(open, seg.active)
		for range open[keep:] {
			b.WriteString("</span>")
		}
		for _, i := range seg.active[keep:] {
			writeCodeSpan(&b, annotations[i])
		}
		open = seg.active
		b.WriteString(html.EscapeString(text[seg.start:seg.end]))
	}
	for range open {
		b.WriteString("</span>")
	}

	return b.String()
}

// OpenTag returns the opening tag of the code span for a.
func OpenTag(a types.Annotation) string {
	var b strings.Builder
	writeCodeSpan(&b, a)
	return b.String()
}

func writeCodeSpan(b *strings.Builder, a types.Annotation) {
	b.WriteString(`<span class="` + CodeClass + `" style="`)
	b.WriteString(html.EscapeString(StyleFor(a.Color)))
	b.WriteString(`" data-match-id="`)
	b.WriteString(html.EscapeString(a.MatchID))
	b.WriteString(`">`)
}

// StyleFor returns the inline style carrying color.
func StyleFor(color string) string {
	return "--bylight-color: " + color + ";"
}
