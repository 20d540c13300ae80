package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepareHTMLExternalLink(t *testing.T) {
	got := PrepareHTML(`<a href="https://external.com">x</a>`)
	assert.Contains(t, got, `target="_blank"`)
	assert.Contains(t, got, `rel="noopener noreferrer"`)
	assert.Contains(t, got, `href="https://external.com"`)
}

func TestPrepareHTMLOwnDomainLink(t *testing.T) {
	got := PrepareHTML(`<a href="https://digitalagents.io/about">x</a>`)
	assert.NotContains(t, got, "target=")
	assert.NotContains(t, got, "noopener")
}

func TestPrepareHTMLRelativeLinkUntouched(t *testing.T) {
	got := PrepareHTML(`<a href="/blog/">x</a>`)
	assert.NotContains(t, got, "target=")
}

func TestPrepareHTMLKeepsDeclaredTarget(t *testing.T) {
	got := PrepareHTML(`<a href="https://external.com" target="_self">x</a>`)
	assert.Contains(t, got, `target="_self"`)
	assert.NotContains(t, got, `_blank`)
	assert.Contains(t, got, `rel="noopener noreferrer"`)
}

func TestPrepareHTMLCustomOwnDomain(t *testing.T) {
	p := NewPreparer("example.org")
	got := p.Prepare(`<a href="https://example.org/x">in</a><a href="https://digitalagents.io">out</a>`)
	assert.Equal(t, 1, strings.Count(got, `target="_blank"`))
}

func TestPrepareHTMLImages(t *testing.T) {
	got := PrepareHTML(`<img src="a.png">`)
	assert.Contains(t, got, `class="`+ImageClasses+`"`)

	got = PrepareHTML(`<img class="wp-image-12" src="a.png">`)
	assert.Contains(t, got, `class="wp-image-12 `+ImageClasses+`"`)
}

func TestPrepareHTMLBlockClasses(t *testing.T) {
	tests := []struct {
		input string
		class string
	}{
		{"<p>text</p>", "mb-6"},
		{"<h2>Title</h2>", "text-2xl font-bold font-display mt-12 mb-6"},
		{"<h3>Title</h3>", "text-xl font-bold font-display mt-10 mb-4"},
		{"<h4>Title</h4>", "text-lg font-bold font-display mt-8 mb-4"},
		{"<ul><li>a</li></ul>", "list-disc pl-6 mb-6 space-y-2"},
		{"<ol><li>a</li></ol>", "list-decimal pl-6 mb-6 space-y-2"},
		{"<blockquote>q</blockquote>", "border-l-4 border-blue-500 pl-4 py-2 my-6 text-gray-700 italic"},
	}
	for _, tt := range tests {
		got := PrepareHTML(tt.input)
		if !strings.Contains(got, `class="`+tt.class+`"`) {
			t.Errorf("PrepareHTML(%q) = %q, want class %q", tt.input, got, tt.class)
		}
	}
}

func TestPrepareHTMLLeavesStyledBlocks(t *testing.T) {
	got := PrepareHTML(`<p class="has-text-align-center">text</p>`)
	assert.Contains(t, got, `class="has-text-align-center"`)
	assert.NotContains(t, got, "mb-6")
}

func TestPrepareHTMLHeadingAnchorsMatchTOC(t *testing.T) {
	src := `<h2>Getting Started</h2><p>a</p><h3 id="custom">Deep Dive</h3>` +
		`<h2>Intro<script>x()</script></h2><h4>Q&amp;A <em>time</em></h4>`
	got, toc := NewPreparer("").PrepareWithTOC(src)
	require.Len(t, toc, 4)
	assert.Equal(t, "custom", toc[1].ID)
	assert.Equal(t, "intro", toc[2].ID)
	for _, h := range toc {
		assert.Contains(t, got, `id="`+h.ID+`"`, h.Text)
	}
	assert.Equal(t, got, PrepareHTML(src))
}

func TestTableOfContentsKeepsExistingIDs(t *testing.T) {
	toc := TableOfContents(`<h2 id="custom">Deep Dive</h2><h2>Next</h2>`)
	require.Len(t, toc, 2)
	assert.Equal(t, "custom", toc[0].ID)
	assert.Equal(t, "next", toc[1].ID)
}

func TestPrepareHTMLExternalLinkSchemeCase(t *testing.T) {
	got := PrepareHTML(`<a HREF="HTTPS://Elsewhere.example/">x</a>`)
	assert.Contains(t, got, `target="_blank"`)
	assert.Contains(t, got, `rel="noopener noreferrer"`)
}

func TestPrepareHTMLStripsScripts(t *testing.T) {
	got := PrepareHTML(`<p>safe</p><script>alert(1)</script><a href="javascript:alert(1)">x</a>`)
	assert.NotContains(t, got, "<script")
	assert.NotContains(t, got, "javascript:")
	assert.Contains(t, got, "safe")
}

func TestPrepareHTMLEmpty(t *testing.T) {
	assert.Equal(t, "", PrepareHTML(""))
}
