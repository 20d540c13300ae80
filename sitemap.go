package coresite

import (
	"encoding/xml"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/coresight/coresite/views"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// sitemapPages are the static pages listed before the posts.
var sitemapPages = []struct {
	path       string
	changeFreq string
	priority   string
}{
	{"", "weekly", "1.0"},
	{"features", "monthly", "0.8"},
	{"pricing", "monthly", "0.8"},
	{"about", "monthly", "0.6"},
	{"contact", "yearly", "0.6"},
	{"blog", "daily", "0.9"},
	{"terms", "yearly", "0.3"},
	{"privacy", "yearly", "0.3"},
}

func (a *App) handleSitemap(c echo.Context) error {
	return a.renderSitemap(c, a.Blog.ListPostSlugs(c.Request().Context()))
}

func (a *App) renderSitemap(c echo.Context, slugs []string) error {
	base := a.Config.URL
	urls := make([]sitemapURL, 0, len(sitemapPages)+len(slugs))
	for _, p := range sitemapPages {
		loc := views.BuildURL(base) + "/"
		if p.path != "" {
			loc = views.BuildURL(base, p.path)
		}
		urls = append(urls, sitemapURL{Loc: loc, ChangeFreq: p.changeFreq, Priority: p.priority})
	}
	for _, slug := range slugs {
		urls = append(urls, sitemapURL{
			Loc:        views.BuildURL(base, "blog", slug),
			ChangeFreq: "monthly",
			Priority:   "0.7",
		})
	}
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(sitemap)
}
