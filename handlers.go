package coresite

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/coresight/coresite/metrics"
	"github.com/coresight/coresite/views"
)

func (a *App) setupRoutes() {
	e := a.Echo

	// Embedded assets win over same-named files in the static dir.
	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := echo.WrapHandler(http.StripPrefix("/public/", http.FileServer(http.FS(embeddedFS))))
	for _, name := range embeddedAssetNames() {
		e.GET("/public/"+name, embeddedHandler)
	}
	e.Static("/public", a.staticDir)
	e.GET("/favicon.ico", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/healthz", handleHealthz)
	if a.registry != nil {
		e.GET("/metrics", echo.WrapHandler(metrics.HTTPHandler(a.registry)))
	}

	e.GET("/", a.staticPage(a.Views.Home, views.PageMeta{
		JSONLD: views.WebsiteJsonLD(a.site()),
	}))
	e.GET("/features/", a.staticPage(a.Views.Features, views.PageMeta{
		Title:       "Features",
		Description: "AI reskilling, sales coaching and voice agent training in one platform.",
	}))
	e.GET("/pricing/", a.staticPage(a.Views.Pricing, views.PageMeta{
		Title:       "Pricing",
		Description: "Simple, transparent pricing for teams of every size.",
	}))
	e.GET("/about/", a.staticPage(a.Views.About, views.PageMeta{
		Title:       "About",
		Description: a.Catalog.Company.Summary,
	}))
	e.GET("/contact/", a.staticPage(a.Views.Contact, views.PageMeta{
		Title:       "Contact",
		Description: "Talk to the " + a.Config.Name + " team.",
	}))
	e.GET("/terms/", a.staticPage(a.Views.Terms, views.PageMeta{Title: "Terms of Service"}))
	e.GET("/privacy/", a.staticPage(a.Views.Privacy, views.PageMeta{Title: "Privacy Policy"}))
	e.GET("/coming-soon/", a.staticPage(a.Views.ComingSoon, views.PageMeta{Title: "Coming Soon", NoIndex: true}))
	e.GET("/feedback/", a.staticPage(a.Views.Feedback, views.PageMeta{Title: "Feedback", NoIndex: true}))

	e.GET("/blog/", a.handleBlogIndex)
	e.GET("/blog/search/", a.handleBlogSearch)
	e.GET("/blog/categories/:category/", a.handleCategory)
	e.GET("/blog/tags/:tag/", a.handleTag)
	e.GET("/blog/:slug/", a.handlePost)

	api := e.Group("/api", a.rateLimit)
	api.POST("/ghl-webhook", a.handleContactWebhook)
	api.POST("/coming-soon-webhook", a.handleComingSoonWebhook)
	api.POST("/clickup-feedback", a.handleFeedback, middleware.BodyLimit("12M"))
	e.POST("/newsletter/", a.handleNewsletter, a.rateLimit)
}

func (a *App) staticPage(view func(views.Page) templ.Component, meta views.PageMeta) echo.HandlerFunc {
	return func(c echo.Context) error {
		return Render(c, view(a.page(c, meta)))
	}
}

func handleHealthz(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(a.staticDir + "/favicon.ico")
}

func (a *App) handleRobots(c echo.Context) error {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	b.WriteString("Allow: /\n")
	b.WriteString("Disallow: /api/\n")
	b.WriteString("Disallow: /blog/search/\n")
	fmt.Fprintf(&b, "\nSitemap: %s/sitemap.xml\n", a.Config.URL)
	return c.String(http.StatusOK, b.String())
}

func (a *App) notFound(c echo.Context) error {
	return RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.page(c, views.PageMeta{
		Title:   "Page not found",
		NoIndex: true,
	})))
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	if ok && he.Code == http.StatusNotFound {
		_ = a.notFound(c)
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.logger.Error("server error",
			"error", err,
			"uri", c.Request().RequestURI,
			"request_id", c.Response().Header().Get(echo.HeaderXRequestID))
		_ = RenderStatus(c, code, a.Views.ServerError(a.page(c, views.PageMeta{
			Title:   "Something went wrong",
			NoIndex: true,
		})))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
