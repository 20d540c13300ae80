// Command coresite serves the CoreSight website.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/coresight/coresite"
	"github.com/coresight/coresite/catalog"
	"github.com/coresight/coresite/wordpress"
)

// version is set at build time via ldflags.
var version = "dev"

// Global is shared by every command.
type Global struct {
	Config coresite.SiteConfig
	Logger *slog.Logger
}

// CLI definition and global flags.
type CLI struct {
	EnvFile string `name:"env-file" help:"Dotenv file loaded before reading the environment" default:".env"`
	Verbose bool   `short:"v" help:"Enable debug logging regardless of LOG_LEVEL"`

	Serve   ServeCmd   `cmd:"" default:"1" help:"Serve the website"`
	Slugs   SlugsCmd   `cmd:"" help:"List published post slugs from the CMS"`
	Check   CheckCmd   `cmd:"" help:"Validate configuration and the product catalog"`
	Version VersionCmd `cmd:"" help:"Print the coresite version"`
}

// ServeCmd runs the HTTP server until interrupted.
type ServeCmd struct {
	Addr    string `help:"Listen address, overrides ADDR"`
	Static  string `help:"Directory served under /public" default:"public"`
	Catalog string `help:"Catalog YAML replacing the embedded one" type:"existingfile"`
}

func (s *ServeCmd) Run(g *Global) error {
	cfg := g.Config
	if s.Addr != "" {
		cfg.Addr = s.Addr
	}
	opts := []coresite.Option{
		coresite.WithLogger(g.Logger),
		coresite.WithStaticDir(s.Static),
	}
	if s.Catalog != "" {
		cat, err := loadCatalog(s.Catalog)
		if err != nil {
			return err
		}
		opts = append(opts, coresite.WithCatalog(cat))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := coresite.New(cfg, coresite.DefaultViews(), opts...)
	return app.Start(ctx)
}

// SlugsCmd prints every published slug, one per line.
type SlugsCmd struct{}

func (s *SlugsCmd) Run(g *Global) error {
	client := wordpress.NewClient(wordpress.Config{
		BaseURL:   g.Config.WordPressURL,
		AuthToken: g.Config.WordPressToken,
	}, wordpress.WithLogger(g.Logger))
	blog := wordpress.NewBlog(client, g.Logger)

	slugs := blog.ListPostSlugs(context.Background())
	if len(slugs) == 0 {
		return fmt.Errorf("no slugs returned by %s", g.Config.WordPressURL)
	}
	for _, slug := range slugs {
		fmt.Println(slug)
	}
	return nil
}

// CheckCmd validates configuration without serving.
type CheckCmd struct {
	Catalog string `help:"Catalog YAML to validate instead of the embedded one" type:"existingfile"`
}

func (c *CheckCmd) Run(g *Global) error {
	if err := g.Config.Validate(); err != nil {
		return err
	}
	cat := catalog.Default()
	if c.Catalog != "" {
		var err error
		if cat, err = loadCatalog(c.Catalog); err != nil {
			return err
		}
	}
	g.Logger.Info("configuration ok",
		"site", g.Config.URL,
		"cms", g.Config.WordPressURL,
		"features", len(cat.Features),
		"pricing_tiers", len(cat.Pricing))
	return nil
}

// VersionCmd prints the build version.
type VersionCmd struct{}

func (VersionCmd) Run() error {
	fmt.Printf("coresite %s\n", version)
	return nil
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return catalog.Load(f)
}

func newLogger(cfg coresite.SiteConfig, verbose bool) *slog.Logger {
	level := cfg.SlogLevel()
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("coresite"),
		kong.Description("The CoreSight marketing site and blog."),
		kong.UsageOnError(),
	)

	if err := godotenv.Load(cli.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "load %s: %v\n", cli.EnvFile, err)
		os.Exit(1)
	}
	cfg, err := coresite.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	logger := newLogger(cfg, cli.Verbose)
	slog.SetDefault(logger)

	if err := ctx.Run(&Global{Config: cfg, Logger: logger}); err != nil {
		logger.Error("command failed", "command", ctx.Command(), "error", err)
		os.Exit(1)
	}
}
