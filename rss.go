package coresite

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/coresight/coresite/content"
	"github.com/coresight/coresite/views"
	"github.com/coresight/coresite/wordpress"
)

// FeedSize is the number of posts in /feed.xml.
const FeedSize = 20

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	Language      string    `xml:"language"`
	LastBuildDate string    `xml:"lastBuildDate,omitempty"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	Description string   `xml:"description"`
	PubDate     string   `xml:"pubDate,omitempty"`
	GUID        string   `xml:"guid"`
	Categories  []string `xml:"category,omitempty"`
}

func (a *App) handleFeed(c echo.Context) error {
	page := a.Blog.ListPosts(c.Request().Context(), FeedSize, "")
	return a.renderRSS(c, page.Posts())
}

func (a *App) renderRSS(c echo.Context, posts []wordpress.Post) error {
	base := a.Config.URL
	items := make([]rssItem, 0, len(posts))
	var latest time.Time
	for _, p := range posts {
		pubDate := ""
		if t, ok := content.ParseDate(p.Date); ok {
			pubDate = t.Format(time.RFC1123Z)
			if t.After(latest) {
				latest = t
			}
		}
		postURL := views.BuildURL(base, "blog", p.Slug)
		var cats []string
		for _, cat := range p.Categories {
			cats = append(cats, cat.Name)
		}
		items = append(items, rssItem{
			Title:       p.Title,
			Link:        postURL,
			Description: content.PlainText(p.Excerpt),
			PubDate:     pubDate,
			GUID:        postURL,
			Categories:  cats,
		})
	}
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       a.Config.Name + " Blog",
			Link:        views.BuildURL(base, "blog"),
			Description: a.Config.Description,
			Language:    "en-us",
			Items:       items,
		},
	}
	if !latest.IsZero() {
		feed.Channel.LastBuildDate = latest.Format(time.RFC1123Z)
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(feed)
}
