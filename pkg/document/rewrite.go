package document

import (
	"strings"

	"github.com/praetorian-inc/bylight/pkg/highlight"
	"github.com/praetorian-inc/bylight/pkg/types"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// rewriteBlock replaces the content of pre with a code element holding the
// highlighted text.
func rewriteBlock(pre *html.Node, anns []types.Annotation) {
	text := textContent(pre)
	code := &html.Node{Type: html.ElementNode, Data: "code", DataAtom: atom.Code}

	nodes, err := html.ParseFragment(strings.NewReader(highlight.RenderHTML(text, anns)), code)
	if err != nil {
		// RenderHTML output is well-formed; fall back to plain text.
		nodes = []*html.Node{{Type: html.TextNode, Data: text}}
	}

	for c := pre.FirstChild; c != nil; c = pre.FirstChild {
		pre.RemoveChild(c)
	}
	for _, n := range nodes {
		code.AppendChild(n)
	}
	pre.AppendChild(code)
}

// replaceLink swaps the link element for a bylight-link span that keeps the
// link's children. A link inside a rewritten block is already gone.
func replaceLink(l *link) {
	parent := l.node.Parent
	if parent == nil {
		return
	}

	span := &html.Node{
		Type:     html.ElementNode,
		Data:     "span",
		DataAtom: atom.Span,
		Attr: []html.Attribute{
			{Key: "class", Val: highlight.LinkClass},
			{Key: "data-match-id", Val: l.id},
			{Key: "style", Val: highlight.StyleFor(l.color)},
		},
	}

	for c := l.node.FirstChild; c != nil; c = l.node.FirstChild {
		l.node.RemoveChild(c)
		span.AppendChild(c)
	}

	parent.InsertBefore(span, l.node)
	parent.RemoveChild(l.node)
}

// injectAssets adds the stylesheet and the hover script. In a full document
// they go to the end of head and body; a fragment gets the stylesheet first
// and the script last.
func injectAssets(root *html.Node, fragment bool) {
	style := element("style", atom.Style, stylesheet)
	script := element("script", atom.Script, hoverScript)

	if fragment {
		root.InsertBefore(style, root.FirstChild)
		root.AppendChild(script)
		return
	}

	if head := find(root, atom.Head); head != nil {
		head.AppendChild(style)
	}
	if body := find(root, atom.Body); body != nil {
		body.AppendChild(script)
	}
}

func element(tag string, a atom.Atom, content string) *html.Node {
	n := &html.Node{Type: html.ElementNode, Data: tag, DataAtom: a}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: content})
	return n
}

func find(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := find(c, a); found != nil {
			return found
		}
	}
	return nil
}
