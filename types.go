package coresite

import (
	"github.com/a-h/templ"

	"github.com/coresight/coresite/views"
)

// ViewFuncs holds the templ components the handlers call when rendering
// pages.
type ViewFuncs struct {
	Home         func(p views.Page) templ.Component
	Features     func(p views.Page) templ.Component
	Pricing      func(p views.Page) templ.Component
	About        func(p views.Page) templ.Component
	Contact      func(p views.Page) templ.Component
	Terms        func(p views.Page) templ.Component
	Privacy      func(p views.Page) templ.Component
	ComingSoon   func(p views.Page) templ.Component
	Feedback     func(p views.Page) templ.Component
	BlogIndex    func(p views.Page, data views.BlogIndex) templ.Component
	BlogPost     func(p views.Page, data views.PostPage) templ.Component
	BlogTaxonomy func(p views.Page, data views.Taxonomy) templ.Component
	BlogSearch   func(p views.Page, data views.Search) templ.Component
	NotFound     func(p views.Page) templ.Component
	ServerError  func(p views.Page) templ.Component
}

// DefaultViews returns the site's built-in templates.
func DefaultViews() ViewFuncs {
	return ViewFuncs{
		Home:         views.Home,
		Features:     views.Features,
		Pricing:      views.Pricing,
		About:        views.About,
		Contact:      views.Contact,
		Terms:        views.Terms,
		Privacy:      views.Privacy,
		ComingSoon:   views.ComingSoon,
		Feedback:     views.Feedback,
		BlogIndex:    views.BlogIndexPage,
		BlogPost:     views.BlogPostPage,
		BlogTaxonomy: views.BlogTaxonomyPage,
		BlogSearch:   views.BlogSearchPage,
		NotFound:     views.NotFound,
		ServerError:  views.ServerError,
	}
}
