package views

import (
	"html/template"

	"github.com/coresight/coresite/catalog"
	"github.com/coresight/coresite/content"
	"github.com/coresight/coresite/crm"
	"github.com/coresight/coresite/wordpress"
)

// SiteConfig holds site-wide settings every template can read.
type SiteConfig struct {
	Name        string
	URL         string
	Description string
	Catalog     *catalog.Catalog
	Year        int
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	Image       string // og:image
	NoIndex     bool
	JSONLD      string
	Published   string // article:published_time
	Modified    string // article:modified_time
}

// Page is the envelope every template renders in.
type Page struct {
	Site SiteConfig
	Meta PageMeta
	Path string // request path, for active navigation
	CSRF string
	UTM  crm.UTM
}

// TagWeight is a tag with its cloud font size class.
type TagWeight struct {
	Tag   wordpress.Tag
	Class string
}

// BlogIndex is the /blog/ listing.
type BlogIndex struct {
	Featured   *wordpress.Post
	Posts      []wordpress.Post
	Categories []wordpress.Category
	Tags       []TagWeight
	Popular    []wordpress.Post
	NextURL    string // empty when there is no next page
	Paged      bool   // true past the first page
}

// PostPage is a single article.
type PostPage struct {
	Post        wordpress.Post
	Category    *wordpress.Category
	Content     template.HTML // sanitized and decorated
	TOC         []content.Heading
	ReadingTime int
	Share       content.Share
	Related     []wordpress.Post
}

// Taxonomy is a category or tag archive.
type Taxonomy struct {
	Kind    string // "Category" or "Tag"
	Name    string
	Slug    string
	Count   int
	Posts   []wordpress.Post
	NextURL string

	// Sidebar
	Categories []wordpress.Category
	Tags       []TagWeight
}

// Search is the search page.
type Search struct {
	Query    string
	Results  []wordpress.Post
	Searched bool
}
