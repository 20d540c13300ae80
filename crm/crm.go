// Package crm forwards website submissions to the systems the sales and
// product teams work in: contact and waitlist leads go to a GoHighLevel
// inbound webhook, product feedback becomes a ClickUp task.
package crm

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	// ErrNotConfigured is returned when the destination credentials or URL
	// are missing.
	ErrNotConfigured = errors.New("crm: destination not configured")
	// ErrInvalidFeedback is returned for feedback with an unknown type or
	// priority.
	ErrInvalidFeedback = errors.New("crm: invalid feedback")
)

// StatusError reports a non-2xx answer from an upstream API.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("crm: upstream responded with status %d", e.Status)
	}
	return fmt.Sprintf("crm: upstream responded with status %d: %s", e.Status, e.Body)
}

// maxErrorBody caps how much of an upstream error body is kept.
const maxErrorBody = 2048

func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
}

func ok(resp *http.Response) bool {
	return resp.StatusCode >= 200 && resp.StatusCode <= 299
}

// transport is shared by the CRM clients.
type transport struct {
	httpClient *http.Client
	logger     *slog.Logger
}

func defaultTransport() transport {
	return transport{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     slog.Default(),
	}
}

// Option configures a CRM client.
type Option func(*transport)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(t *transport) {
		if hc != nil {
			t.httpClient = hc
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(t *transport) {
		if l != nil {
			t.logger = l
		}
	}
}

// UTM holds campaign attribution parameters.
type UTM struct {
	Source   string `json:"source,omitempty"`
	Medium   string `json:"medium,omitempty"`
	Campaign string `json:"campaign,omitempty"`
	Term     string `json:"term,omitempty"`
	Content  string `json:"content,omitempty"`
}

// UTMParams are the query parameter names carrying attribution.
var UTMParams = []string{"utm_source", "utm_medium", "utm_campaign", "utm_term", "utm_content"}

// Empty reports whether no parameter is set.
func (u UTM) Empty() bool {
	return u == UTM{}
}

// Merge fills the empty fields of u from fallback.
func (u UTM) Merge(fallback UTM) UTM {
	pick := func(a, b string) string {
		if a != "" {
			return a
		}
		return b
	}
	return UTM{
		Source:   pick(u.Source, fallback.Source),
		Medium:   pick(u.Medium, fallback.Medium),
		Campaign: pick(u.Campaign, fallback.Campaign),
		Term:     pick(u.Term, fallback.Term),
		Content:  pick(u.Content, fallback.Content),
	}
}

// Params returns the set parameters keyed by their utm_* name.
func (u UTM) Params() map[string]string {
	out := make(map[string]string, len(UTMParams))
	for i, v := range []string{u.Source, u.Medium, u.Campaign, u.Term, u.Content} {
		if v != "" {
			out[UTMParams[i]] = v
		}
	}
	return out
}

// UTMFromParams builds a UTM from utm_* keyed values, as found in query
// strings or flat form payloads.
func UTMFromParams(get func(string) string) UTM {
	return UTM{
		Source:   strings.TrimSpace(get("utm_source")),
		Medium:   strings.TrimSpace(get("utm_medium")),
		Campaign: strings.TrimSpace(get("utm_campaign")),
		Term:     strings.TrimSpace(get("utm_term")),
		Content:  strings.TrimSpace(get("utm_content")),
	}
}

// AddTo appends the set parameters to rawURL, keeping any it already
// carries. Unparseable URLs are returned unchanged.
func (u UTM) AddTo(rawURL string) string {
	if u.Empty() {
		return rawURL
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := parsed.Query()
	for k, v := range u.Params() {
		if q.Get(k) == "" {
			q.Set(k, v)
		}
	}
	parsed.RawQuery = q.Encode()
	return parsed.String()
}
