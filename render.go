package coresite

import (
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/coresight/coresite/views"
)

// Render writes a templ component as an HTTP 200 HTML response.
func Render(c echo.Context, cmp templ.Component) error {
	return RenderStatus(c, http.StatusOK, cmp)
}

// RenderStatus writes a templ component with a specific HTTP status code.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

// site is the template view of the configuration.
func (a *App) site() views.SiteConfig {
	return views.SiteConfig{
		Name:        a.Config.Name,
		URL:         a.Config.URL,
		Description: a.Config.Description,
		Catalog:     a.Catalog,
		Year:        time.Now().Year(),
	}
}

// page builds the envelope for the current request. A meta without a URL
// gets the canonical URL of the request path.
func (a *App) page(c echo.Context, meta views.PageMeta) views.Page {
	path := c.Request().URL.Path
	if meta.URL == "" {
		meta.URL = a.Config.URL + path
	}
	return views.Page{
		Site: a.site(),
		Meta: meta,
		Path: path,
		CSRF: CsrfToken(c),
		UTM:  SessionUTM(c),
	}
}
