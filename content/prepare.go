package content

import (
	"bytes"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DefaultOwnDomain marks links that stay in the same browser tab.
const DefaultOwnDomain = "digitalagents.io"

// ImageClasses are appended to every <img> in post content.
const ImageClasses = "rounded-lg max-w-full h-auto"

// elementClasses decorate bare block elements in post content.
var elementClasses = map[atom.Atom]string{
	atom.P:          "mb-6",
	atom.H2:         "text-2xl font-bold font-display mt-12 mb-6",
	atom.H3:         "text-xl font-bold font-display mt-10 mb-4",
	atom.H4:         "text-lg font-bold font-display mt-8 mb-4",
	atom.Ul:         "list-disc pl-6 mb-6 space-y-2",
	atom.Ol:         "list-decimal pl-6 mb-6 space-y-2",
	atom.Blockquote: "border-l-4 border-blue-500 pl-4 py-2 my-6 text-gray-700 italic",
}

// Preparer sanitizes and decorates CMS post HTML for rendering.
type Preparer struct {
	// OwnDomain identifies links to our own site; they keep default
	// target/rel behaviour.
	OwnDomain string

	policy *bluemonday.Policy
}

// NewPreparer returns a Preparer that treats links containing ownDomain as
// internal. An empty ownDomain falls back to DefaultOwnDomain.
func NewPreparer(ownDomain string) *Preparer {
	if ownDomain == "" {
		ownDomain = DefaultOwnDomain
	}
	return &Preparer{OwnDomain: ownDomain, policy: newContentPolicy()}
}

// newContentPolicy is the UGC policy widened to keep the markup WordPress
// emits (classes, link targets, figures) without forcing rel="nofollow".
func newContentPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.RequireNoFollowOnLinks(false)
	p.AllowRelativeURLs(true)
	p.AllowAttrs("class").Globally()
	p.AllowAttrs("target", "rel").OnElements("a")
	p.AllowAttrs("srcset", "sizes", "loading", "decoding").OnElements("img")
	p.AllowElements("figure", "figcaption", "iframe")
	p.AllowAttrs("src", "title", "allowfullscreen", "frameborder").OnElements("iframe")
	return p
}

var defaultPreparer = NewPreparer(DefaultOwnDomain)

// PrepareHTML runs the default Preparer over s.
func PrepareHTML(s string) string {
	return defaultPreparer.Prepare(s)
}

// Prepare sanitizes s and applies, in order: external link targets, image
// classes, block element classes and heading anchors. Invalid markup is
// returned sanitized but otherwise untouched.
func (p *Preparer) Prepare(s string) string {
	out, _ := p.PrepareWithTOC(s)
	return out
}

// PrepareWithTOC is Prepare that also returns the table of contents of the
// prepared markup, so every entry's ID is an anchor present in the output.
func (p *Preparer) PrepareWithTOC(s string) (string, []Heading) {
	if s == "" {
		return "", nil
	}
	policy := p.policy
	if policy == nil {
		policy = newContentPolicy()
	}
	clean := policy.Sanitize(s)

	nodes, err := parseFragment(clean)
	if err != nil {
		return clean, TableOfContents(clean)
	}
	var toc []Heading
	for _, n := range nodes {
		walk(n, p.decorateLink)
		walk(n, decorateImage)
		walk(n, decorateBlock)
		walk(n, func(n *html.Node) {
			if h, ok := anchorHeading(n); ok {
				toc = append(toc, h)
			}
		})
	}

	var buf bytes.Buffer
	for _, n := range nodes {
		if err := html.Render(&buf, n); err != nil {
			return clean, TableOfContents(clean)
		}
	}
	return buf.String(), toc
}

func parseFragment(s string) ([]*html.Node, error) {
	return html.ParseFragment(strings.NewReader(s), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
}

func walk(n *html.Node, fn func(*html.Node)) {
	if n.Type == html.ElementNode {
		fn(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func (p *Preparer) decorateLink(n *html.Node) {
	if n.DataAtom != atom.A {
		return
	}
	href, ok := getAttr(n, "href")
	if !ok || !strings.HasPrefix(strings.ToLower(href), "http") {
		return
	}
	if p.OwnDomain != "" && strings.Contains(href, p.OwnDomain) {
		return
	}
	if _, ok := getAttr(n, "target"); !ok {
		n.Attr = append(n.Attr, html.Attribute{Key: "target", Val: "_blank"})
	}
	if _, ok := getAttr(n, "rel"); !ok {
		n.Attr = append(n.Attr, html.Attribute{Key: "rel", Val: "noopener noreferrer"})
	}
}

func decorateImage(n *html.Node) {
	if n.DataAtom != atom.Img {
		return
	}
	if cls, ok := getAttr(n, "class"); ok {
		setAttr(n, "class", strings.TrimSpace(cls+" "+ImageClasses))
		return
	}
	n.Attr = append(n.Attr, html.Attribute{Key: "class", Val: ImageClasses})
}

// decorateBlock only styles bare elements; anything the CMS already
// attributed keeps its own presentation.
func decorateBlock(n *html.Node) {
	cls, ok := elementClasses[n.DataAtom]
	if !ok || len(n.Attr) > 0 {
		return
	}
	n.Attr = append(n.Attr, html.Attribute{Key: "class", Val: cls})
}

// anchorHeading gives an h2-h4 without an id the id its TOC entry links
// to, and returns that entry.
func anchorHeading(n *html.Node) (Heading, bool) {
	h, ok := headingOf(n)
	if !ok {
		return Heading{}, false
	}
	if _, has := getAttr(n, "id"); !has && h.ID != "" {
		n.Attr = append(n.Attr, html.Attribute{Key: "id", Val: h.ID})
	}
	return h, true
}

func getAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			return a.Val, true
		}
	}
	return "", false
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return b.String()
}
