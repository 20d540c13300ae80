// Package views renders the site's pages. Each page is an html/template
// file executed inside the shared layout and exposed as a templ.Component
// so handlers render every page the same way.
package views

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/a-h/templ"

	"github.com/coresight/coresite/crm"
)

//go:embed templates/*.html
var files embed.FS

// pages lists every page template; each is parsed with the layout and
// partials into its own set.
var pages = []string{
	"home", "features", "pricing", "about", "contact", "terms", "privacy",
	"coming_soon", "feedback", "blog_index", "blog_post", "blog_taxonomy",
	"blog_search", "not_found", "server_error",
}

var sets = mustParse()

func mustParse() map[string]*template.Template {
	base := template.Must(template.New("layout").Funcs(funcs).ParseFS(files,
		"templates/layout.html", "templates/partials.html"))
	out := make(map[string]*template.Template, len(pages))
	for _, name := range pages {
		t := template.Must(base.Clone())
		out[name] = template.Must(t.ParseFS(files, "templates/"+name+".html"))
	}
	return out
}

// view is the value every template executes against.
type view struct {
	Page
	Data any
}

func render(name string, p Page, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		t, ok := sets[name]
		if !ok {
			return fmt.Errorf("views: unknown page %q", name)
		}
		// A failed execution writes nothing.
		var buf bytes.Buffer
		if err := t.ExecuteTemplate(&buf, "layout", view{Page: p, Data: data}); err != nil {
			return fmt.Errorf("views: render %s: %w", name, err)
		}
		_, err := w.Write(buf.Bytes())
		return err
	})
}

func Home(p Page) templ.Component        { return render("home", p, nil) }
func Features(p Page) templ.Component    { return render("features", p, nil) }
func Pricing(p Page) templ.Component     { return render("pricing", p, nil) }
func About(p Page) templ.Component       { return render("about", p, nil) }
func Contact(p Page) templ.Component     { return render("contact", p, nil) }
func Terms(p Page) templ.Component       { return render("terms", p, nil) }
func Privacy(p Page) templ.Component     { return render("privacy", p, nil) }
func ComingSoon(p Page) templ.Component  { return render("coming_soon", p, nil) }
func NotFound(p Page) templ.Component    { return render("not_found", p, nil) }
func ServerError(p Page) templ.Component { return render("server_error", p, nil) }

// BlogIndexPage renders the paginated blog listing.
func BlogIndexPage(p Page, data BlogIndex) templ.Component {
	return render("blog_index", p, data)
}

// BlogPostPage renders one article.
func BlogPostPage(p Page, data PostPage) templ.Component {
	return render("blog_post", p, data)
}

// BlogTaxonomyPage renders a category or tag archive.
func BlogTaxonomyPage(p Page, data Taxonomy) templ.Component {
	return render("blog_taxonomy", p, data)
}

// BlogSearchPage renders the search form and its results.
func BlogSearchPage(p Page, data Search) templ.Component {
	return render("blog_search", p, data)
}

type feedbackOptions struct {
	Types      []string
	Priorities []string
}

// Feedback renders the feedback form with the options ClickUp accepts.
func Feedback(p Page) templ.Component {
	return render("feedback", p, feedbackOptions{Types: crm.FeedbackTypes, Priorities: crm.FeedbackPriorities})
}
