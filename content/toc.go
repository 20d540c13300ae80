package content

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Heading is one table-of-contents entry.
type Heading struct {
	ID    string
	Text  string
	Level int
}

var (
	reNonSlug    = regexp.MustCompile(`[^\w\s-]`)
	reWhitespace = regexp.MustCompile(`\s+`)
)

// HeadingID derives the anchor id used for a heading's text. Two headings
// with the same text get the same id.
func HeadingID(text string) string {
	id := strings.ToLower(text)
	id = reNonSlug.ReplaceAllString(id, "")
	return reWhitespace.ReplaceAllString(id, "-")
}

// TableOfContents lists the h2-h4 headings of htmlContent in document order.
// Use Preparer.PrepareWithTOC when the entries must match prepared markup.
func TableOfContents(htmlContent string) []Heading {
	if htmlContent == "" {
		return nil
	}
	nodes, err := parseFragment(htmlContent)
	if err != nil {
		return nil
	}
	var headings []Heading
	for _, n := range nodes {
		walk(n, func(n *html.Node) {
			if h, ok := headingOf(n); ok {
				headings = append(headings, h)
			}
		})
	}
	return headings
}

// headingOf builds the TOC entry for an h2-h4 node. A heading that already
// carries an id keeps it as its anchor.
func headingOf(n *html.Node) (Heading, bool) {
	level := headingLevel(n)
	if level == 0 {
		return Heading{}, false
	}
	text := textContent(n)
	id, ok := getAttr(n, "id")
	if !ok || id == "" {
		id = HeadingID(text)
	}
	return Heading{ID: id, Text: text, Level: level}, true
}

func headingLevel(n *html.Node) int {
	switch n.DataAtom {
	case atom.H2:
		return 2
	case atom.H3:
		return 3
	case atom.H4:
		return 4
	}
	return 0
}
