package coresite

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/coresight/coresite/catalog"
	"github.com/coresight/coresite/wordpress"
)

// SiteConfig holds all configuration for the site. It is loaded from the
// environment once at startup and passed by value from there on.
type SiteConfig struct {
	Name        string `env:"SITE_NAME" envDefault:"CoreSight"`
	URL         string `env:"SITE_URL" envDefault:"http://localhost:3000"` // canonical URL
	Description string `env:"SITE_DESCRIPTION" envDefault:"AI-powered training agents that get people job-ready in days."`
	Domain      string `env:"SITE_DOMAIN" envDefault:"digitalagents.io"` // links containing it open in the same tab
	Addr        string `env:"ADDR" envDefault:":3000"`

	WordPressURL   string `env:"WORDPRESS_API_URL"`
	WordPressToken string `env:"WORDPRESS_AUTH_TOKEN"`
	PostsPerPage   int    `env:"POSTS_PER_PAGE" envDefault:"9"`

	GHLWebhookURL      string `env:"CONTACT_US_GHL_WEBHOOK_URL"`
	ClickUpAPIKey      string `env:"CLICKUP_API_KEY"`
	ClickUpListID      string `env:"CLICKUP_LIST_ID"`
	ClickUpTypeFieldID string `env:"CLICKUP_TYPE_FIELD_ID"`

	SessionSecret string `env:"SESSION_SECRET"` // required
	CookieSecure  bool   `env:"COOKIE_SECURE" envDefault:"false"`

	FormRateLimit int `env:"FORM_RATE_LIMIT" envDefault:"10"` // submissions per minute per IP
	FormRateBurst int `env:"FORM_RATE_BURST" envDefault:"5"`

	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat      string `env:"LOG_FORMAT" envDefault:"text"` // text or json
	MetricsEnabled bool   `env:"METRICS_ENABLED" envDefault:"true"`
}

// LoadConfig reads SiteConfig from the process environment.
func LoadConfig() (SiteConfig, error) {
	return parseConfig(env.Options{})
}

// LoadConfigFrom reads SiteConfig from the given variables instead of the
// process environment.
func LoadConfigFrom(vars map[string]string) (SiteConfig, error) {
	return parseConfig(env.Options{Environment: vars})
}

func parseConfig(opts env.Options) (SiteConfig, error) {
	var cfg SiteConfig
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return SiteConfig{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.setDefaults()
	return cfg, nil
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "CoreSight"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	c.URL = strings.TrimRight(c.URL, "/")
	if c.Domain == "" {
		c.Domain = "digitalagents.io"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.WordPressURL == "" {
		c.WordPressURL = wordpress.DefaultBaseURL
	}
	if c.PostsPerPage <= 0 {
		c.PostsPerPage = wordpress.DefaultPageSize
	}
	if c.FormRateLimit <= 0 {
		c.FormRateLimit = 10
	}
	if c.FormRateBurst <= 0 {
		c.FormRateBurst = 5
	}
}

// ErrInvalidConfig wraps configuration validation failures.
var ErrInvalidConfig = errors.New("coresite: invalid config")

// Validate reports configuration that would prevent the site from serving.
func (c SiteConfig) Validate() error {
	if c.SessionSecret == "" {
		return fmt.Errorf("%w: SESSION_SECRET is required", ErrInvalidConfig)
	}
	u, err := url.Parse(c.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: SITE_URL %q must be an absolute http(s) URL", ErrInvalidConfig, c.URL)
	}
	return nil
}

// SlogLevel maps LogLevel to a slog level, defaulting to info.
func (c SiteConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback runs after the built-in routes are registered.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithHTTPClient sets the client used for CMS and CRM calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(a *App) {
		a.httpClient = hc
	}
}

// WithRegistry sets the Prometheus registry metrics are registered on.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(a *App) {
		a.registry = reg
	}
}

// WithLogger sets the application logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		a.logger = l
	}
}

// WithClickUpBaseURL points the feedback form at a different ClickUp API
// root.
func WithClickUpBaseURL(u string) Option {
	return func(a *App) {
		a.clickUpBaseURL = u
	}
}

// WithCatalog replaces the embedded product catalog.
func WithCatalog(c *catalog.Catalog) Option {
	return func(a *App) {
		a.Catalog = c
	}
}
