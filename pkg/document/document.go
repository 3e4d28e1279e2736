// Package document highlights the code blocks of an HTML document that are
// referenced by bylight links.
//
// A link is an <a> element whose href starts with "bylight". Its query
// parameters select patterns and target blocks:
//
//	match  comma-separated patterns (default: the link text)
//	in     "all", or comma-separated signed offsets counted in <pre>
//	       elements from the link (default: 1, the next block)
//	dir    "up" or "down": every block in that direction
//	color  color overriding the scheme
//
// Matches in a targeted <pre> are wrapped in bylight-code spans sharing the
// link's match ID, and the link itself becomes a bylight-link span.
package document

import (
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/praetorian-inc/bylight/pkg/highlight"
	"github.com/praetorian-inc/bylight/pkg/types"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// LinkPrefix starts the href of every bylight link.
const LinkPrefix = "bylight"

// Stats summarizes one Process call.
type Stats struct {
	Blocks      int `json:"blocks"`      // <pre> elements found
	Links       int `json:"links"`       // bylight links found
	Highlighted int `json:"highlighted"` // blocks rewritten
	Matches     int `json:"matches"`     // annotations applied
}

// target selects the blocks a link applies to.
type target struct {
	all     bool
	dir     int   // -1 up, +1 down, 0 none
	offsets []int // used when !all and dir == 0
}

type link struct {
	node     *html.Node
	index    int
	id       string
	color    string
	patterns []string
	target   target
}

// Process reads an HTML document from r, applies every bylight link and
// writes the result to w.
func Process(r io.Reader, w io.Writer, opts ...Option) (Stats, error) {
	o := &options{
		colors: highlight.DefaultColors,
		linkID: defaultLinkID,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	if o.highlighter == nil {
		o.highlighter = highlight.New(highlight.WithLogger(o.logger))
	}

	root, err := parse(r, o.fragment)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to parse HTML: %w", err)
	}

	stats := apply(root, o)

	if o.assets {
		injectAssets(root, o.fragment)
	}

	if !o.fragment {
		if err := html.Render(w, root); err != nil {
			return stats, fmt.Errorf("failed to render HTML: %w", err)
		}
		return stats, nil
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(w, c); err != nil {
			return stats, fmt.Errorf("failed to render HTML: %w", err)
		}
	}
	return stats, nil
}

// ProcessString is Process over strings.
func ProcessString(doc string, opts ...Option) (string, Stats, error) {
	var b strings.Builder
	stats, err := Process(strings.NewReader(doc), &b, opts...)
	return b.String(), stats, err
}

// parse returns the document node, or for a fragment a detached body
// element holding the fragment's nodes.
func parse(r io.Reader, fragment bool) (*html.Node, error) {
	if !fragment {
		return html.Parse(r)
	}
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(r, body)
	if err != nil {
		return nil, err
	}
	for _, n := range nodes {
		body.AppendChild(n)
	}
	return body, nil
}

func apply(root *html.Node, o *options) Stats {
	var elements []*html.Node
	collect(root, &elements)

	var stats Stats
	var links []*link
	colorIndex := 0
	for i, n := range elements {
		if n.DataAtom == atom.Pre {
			stats.Blocks++
			continue
		}
		l := parseLink(n, i, o)
		if l.color == "" {
			l.color = highlight.ColorAt(o.colors, colorIndex)
		}
		colorIndex++
		links = append(links, l)
	}
	stats.Links = len(links)

	annotations := make(map[*html.Node][]types.Annotation)
	for _, l := range links {
		for _, pre := range l.target.resolve(elements, l.index) {
			found, err := o.highlighter.AnnotateWithID(textContent(pre), l.patterns, l.id, l.color)
			if err != nil {
				o.logger.Warn("link pattern failed", "match_id", l.id, "error", err)
			}
			annotations[pre] = append(annotations[pre], found...)
		}
	}

	for _, pre := range elements {
		anns := annotations[pre]
		if len(anns) == 0 {
			continue
		}
		rewriteBlock(pre, anns)
		stats.Highlighted++
		stats.Matches += len(anns)
	}

	for _, l := range links {
		replaceLink(l)
	}

	return stats
}

// collect appends pre elements and bylight links in document order.
func collect(n *html.Node, out *[]*html.Node) {
	if n.Type == html.ElementNode {
		if n.DataAtom == atom.Pre || isLink(n) {
			*out = append(*out, n)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collect(c, out)
	}
}

func isLink(n *html.Node) bool {
	return n.DataAtom == atom.A && strings.HasPrefix(attr(n, "href"), LinkPrefix)
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

func parseLink(n *html.Node, index int, o *options) *link {
	l := &link{
		node:   n,
		index:  index,
		id:     o.linkID(index),
		target: target{offsets: []int{1}},
	}

	href := attr(n, "href")
	query := linkQuery(href, o.logger)

	match := query.Get("match")
	if match == "" {
		match = textContent(n)
	}
	l.patterns = highlight.ParseGroup(match)
	l.color = query.Get("color")

	if in := query.Get("in"); in != "" {
		l.target = parseIn(in, href, o.logger)
	} else if dir := query.Get("dir"); dir != "" {
		switch dir {
		case "up":
			l.target = target{dir: -1}
		case "down":
			l.target = target{dir: 1}
		default:
			o.logger.Warn("unknown link direction", "href", href, "dir", dir)
		}
	}

	return l
}

// linkQuery reads the query of a link the way browsers fill URLSearchParams:
// pairs split on '&' only, so ';' stays literal, and the fragment is dropped.
func linkQuery(href string, logger *slog.Logger) url.Values {
	var raw string
	if u, err := url.Parse(href); err == nil {
		raw = u.RawQuery
	} else {
		logger.Debug("link href is not a valid URL", "href", href, "error", err)
		_, raw, _ = strings.Cut(href, "?")
		raw, _, _ = strings.Cut(raw, "#")
	}

	query := url.Values{}
	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		query.Add(queryUnescape(key), queryUnescape(value))
	}
	return query
}

// queryUnescape decodes '+' and percent escapes, keeping malformed escapes
// as literal text.
func queryUnescape(s string) string {
	if v, err := url.QueryUnescape(s); err == nil {
		return v
	}
	return strings.ReplaceAll(s, "+", " ")
}

func parseIn(in, href string, logger *slog.Logger) target {
	if in == "all" {
		return target{all: true}
	}
	var t target
	for _, part := range strings.Split(in, ",") {
		offset, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			logger.Warn("invalid link offset", "href", href, "offset", part)
			continue
		}
		if offset == 0 {
			continue
		}
		t.offsets = append(t.offsets, offset)
	}
	return t
}

// resolve returns the pre elements targeted from the link at index.
func (t target) resolve(elements []*html.Node, index int) []*html.Node {
	var pres []*html.Node
	switch {
	case t.all:
		for _, n := range elements {
			if n.DataAtom == atom.Pre {
				pres = append(pres, n)
			}
		}
	case t.dir != 0:
		for i := index + t.dir; i >= 0 && i < len(elements); i += t.dir {
			if elements[i].DataAtom == atom.Pre {
				pres = append(pres, elements[i])
			}
		}
	default:
		for _, offset := range t.offsets {
			if pre := nthPre(elements, index, offset); pre != nil {
				pres = append(pres, pre)
			}
		}
	}
	return pres
}

// nthPre walks from index in the direction of offset and returns the
// |offset|-th pre element, or nil.
func nthPre(elements []*html.Node, index, offset int) *html.Node {
	step, want := 1, offset
	if offset < 0 {
		step, want = -1, -offset
	}
	count := 0
	for i := index + step; i >= 0 && i < len(elements); i += step {
		if elements[i].DataAtom != atom.Pre {
			continue
		}
		count++
		if count == want {
			return elements[i]
		}
	}
	return nil
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
