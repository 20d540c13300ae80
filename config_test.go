package coresite

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coresight/coresite/wordpress"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfigFrom(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, "CoreSight", cfg.Name)
	assert.Equal(t, "http://localhost:3000", cfg.URL)
	assert.Equal(t, ":3000", cfg.Addr)
	assert.Equal(t, wordpress.DefaultBaseURL, cfg.WordPressURL)
	assert.Equal(t, 9, cfg.PostsPerPage)
	assert.Equal(t, 10, cfg.FormRateLimit)
	assert.Equal(t, 5, cfg.FormRateBurst)
	assert.True(t, cfg.MetricsEnabled)
	assert.False(t, cfg.CookieSecure)
}

func TestLoadConfigOverrides(t *testing.T) {
	cfg, err := LoadConfigFrom(map[string]string{
		"SITE_URL":       "https://coresight.net/",
		"POSTS_PER_PAGE": "12",
		"COOKIE_SECURE":  "true",
		"SESSION_SECRET": "s3cret",
	})
	require.NoError(t, err)

	assert.Equal(t, "https://coresight.net", cfg.URL, "trailing slash trimmed")
	assert.Equal(t, 12, cfg.PostsPerPage)
	assert.True(t, cfg.CookieSecure)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	_, err := LoadConfigFrom(map[string]string{"POSTS_PER_PAGE": "many"})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  SiteConfig
		ok   bool
	}{
		{"valid", SiteConfig{SessionSecret: "x", URL: "https://coresight.net"}, true},
		{"missing secret", SiteConfig{URL: "https://coresight.net"}, false},
		{"relative url", SiteConfig{SessionSecret: "x", URL: "/site"}, false},
		{"other scheme", SiteConfig{SessionSecret: "x", URL: "ftp://coresight.net"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestSlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, SiteConfig{LogLevel: in}.SlogLevel(), in)
	}
}

func TestNextPageURL(t *testing.T) {
	assert.Empty(t, nextPageURL("/blog/", wordpress.PageInfo{}))
	assert.Empty(t, nextPageURL("/blog/", wordpress.PageInfo{HasNextPage: true}))
	assert.Empty(t, nextPageURL("/blog/", wordpress.PageInfo{EndCursor: "abc"}))
	assert.Equal(t, "/blog/?after=YXJyYXljb25uZWN0aW9uOjg%3D",
		nextPageURL("/blog/", wordpress.PageInfo{HasNextPage: true, EndCursor: "YXJyYXljb25uZWN0aW9uOjg="}))
}
