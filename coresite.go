// Package coresite serves the CoreSight marketing site: static product
// pages rendered from an embedded catalog, a blog read from WordPress over
// GraphQL, and form endpoints forwarding leads and feedback to GoHighLevel
// and ClickUp.
//
// Pages are rendered through the ViewFuncs struct so callers can swap any
// template, and the App owns handlers, middleware and outbound clients.
package coresite

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/coresight/coresite/catalog"
	"github.com/coresight/coresite/content"
	"github.com/coresight/coresite/crm"
	"github.com/coresight/coresite/metrics"
	"github.com/coresight/coresite/wordpress"
)

// App is the central application. It wires together the CMS façade, CRM
// clients, handlers, middleware and templates.
type App struct {
	Config  SiteConfig
	Echo    *echo.Echo
	Blog    *wordpress.Blog
	Views   ViewFuncs
	Catalog *catalog.Catalog

	ghl      *crm.GHL
	clickup  *crm.ClickUp
	recorder *metrics.Recorder
	limiter  *FormLimiter
	preparer *content.Preparer

	customRoutes   []func(*App)
	staticDir      string
	httpClient     *http.Client
	registry       *prometheus.Registry
	logger         *slog.Logger
	clickUpBaseURL string

	initOnce sync.Once
	initErr  error
}

// New creates an App with the given configuration and view functions.
// Nothing touches the network until Init or Start.
func New(cfg SiteConfig, v ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     v,
		staticDir: "public",
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	if a.httpClient == nil {
		a.httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	if a.Catalog == nil {
		a.Catalog = catalog.Default()
	}
	a.Echo.HideBanner = true
	a.Echo.HidePort = true
	return a
}

// Init validates the configuration, builds the outbound clients and
// registers middleware and routes. It runs once; later calls return the
// first result.
func (a *App) Init() error {
	a.initOnce.Do(func() {
		a.initErr = a.init()
	})
	return a.initErr
}

func (a *App) init() error {
	if err := a.Config.Validate(); err != nil {
		return err
	}

	if a.Config.MetricsEnabled {
		if a.registry == nil {
			a.registry = prometheus.NewRegistry()
		}
		a.recorder = metrics.NewRecorder(a.registry)
	}

	clientOpts := []wordpress.ClientOption{
		wordpress.WithHTTPClient(a.httpClient),
		wordpress.WithLogger(a.logger.With("component", "wordpress")),
	}
	if a.recorder != nil {
		clientOpts = append(clientOpts, wordpress.WithRecorder(a.recorder))
	}
	cms := wordpress.NewClient(wordpress.Config{
		BaseURL:   a.Config.WordPressURL,
		AuthToken: a.Config.WordPressToken,
	}, clientOpts...)
	a.Blog = wordpress.NewBlog(cms, a.logger.With("component", "blog"))

	crmLogger := a.logger.With("component", "crm")
	a.ghl = crm.NewGHL(a.Config.GHLWebhookURL, crm.WithHTTPClient(a.httpClient), crm.WithLogger(crmLogger))
	a.clickup = crm.NewClickUp(crm.ClickUpConfig{
		APIKey:      a.Config.ClickUpAPIKey,
		ListID:      a.Config.ClickUpListID,
		TypeFieldID: a.Config.ClickUpTypeFieldID,
		BaseURL:     a.clickUpBaseURL,
	}, crm.WithHTTPClient(a.httpClient), crm.WithLogger(crmLogger))
	if !a.ghl.Configured() {
		a.logger.Warn("CONTACT_US_GHL_WEBHOOK_URL not set; contact forms will be rejected")
	}
	if !a.clickup.Configured() {
		a.logger.Warn("ClickUp credentials not set; feedback form will be rejected")
	}

	a.limiter = NewFormLimiter(a.Config.FormRateLimit, a.Config.FormRateBurst)
	a.preparer = content.NewPreparer(a.Config.Domain)

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Start initializes the app and serves until ctx is canceled, then shuts
// down gracefully.
func (a *App) Start(ctx context.Context) error {
	if err := a.Init(); err != nil {
		return fmt.Errorf("coresite: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.limiter.Run(ctx, time.Minute)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("listening", "addr", a.Config.Addr, "url", a.Config.URL)
		if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	a.logger.Info("shutting down")
	return a.Close(shutdownCtx)
}

// Close stops the HTTP server, waiting for in-flight requests until ctx
// expires.
func (a *App) Close(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}

// Handler returns the initialized HTTP handler.
func (a *App) Handler() (http.Handler, error) {
	if err := a.Init(); err != nil {
		return nil, err
	}
	return a.Echo, nil
}
