// Package wordpress reads blog content from a WordPress install exposing
// WPGraphQL. Client is the only network boundary: every failure is logged
// and converted to a nil payload so pages degrade to empty states instead
// of erroring. Blog layers typed, pagination-aware accessors on top.
package wordpress

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// DefaultBaseURL is used when no CMS base URL is configured.
const DefaultBaseURL = "https://blogs.digitalagents.io"

// maxResponseSize bounds how much of a CMS response we are willing to read.
const maxResponseSize = 16 << 20

// Config identifies the CMS. Build it once at startup and pass it to
// NewClient.
type Config struct {
	BaseURL   string // e.g. https://blogs.example.com (without /graphql)
	AuthToken string // optional bearer token for private content
}

// Endpoint returns the GraphQL endpoint for the configured base URL.
func (c Config) Endpoint() string {
	base := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	return base + "/graphql"
}

// Variables are the GraphQL variables sent with a query.
type Variables map[string]any

// Fetcher executes a query and returns the unwrapped data payload, or nil
// when the content could not be fetched for any reason.
type Fetcher interface {
	Fetch(ctx context.Context, query string, vars Variables) json.RawMessage
}

// Recorder observes the outcome of every CMS round trip.
type Recorder interface {
	ObserveFetch(operation, outcome string, elapsed time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) ObserveFetch(string, string, time.Duration) {}

// ErrorKind classifies why a fetch produced no data. Kinds only surface in
// logs and metrics.
type ErrorKind string

const (
	KindUnavailable ErrorKind = "unavailable" // transport failure or non-2xx status
	KindQuery       ErrorKind = "query"       // the CMS reported GraphQL errors
	KindDecode      ErrorKind = "decode"      // the body was not the expected shape
	KindCanceled    ErrorKind = "canceled"    // the request context ended first
	KindNotFound    ErrorKind = "not_found"   // the query succeeded but matched nothing
)

var (
	ErrUnavailable = errors.New("wordpress: cms unavailable")
	ErrQuery       = errors.New("wordpress: cms query error")
)

// FetchError describes a failed round trip.
type FetchError struct {
	Operation string
	Kind      ErrorKind
	Status    int
	Err       error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("wordpress %s: %s (status %d): %v", e.Operation, e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("wordpress %s: %s: %v", e.Operation, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Is lets callers match on the coarse sentinel errors.
func (e *FetchError) Is(target error) bool {
	switch target {
	case ErrUnavailable:
		return e.Kind == KindUnavailable || e.Kind == KindCanceled
	case ErrQuery:
		return e.Kind == KindQuery
	}
	return false
}

// Client posts GraphQL queries to the CMS.
type Client struct {
	endpoint   string
	authToken  string
	httpClient *http.Client
	logger     *slog.Logger
	recorder   Recorder
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger used for fetch failures.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) ClientOption {
	return func(c *Client) {
		if r != nil {
			c.recorder = r
		}
	}
}

// NewClient returns a Client for cfg.
func NewClient(cfg Config, opts ...ClientOption) *Client {
	c := &Client{
		endpoint:   cfg.Endpoint(),
		authToken:  cfg.AuthToken,
		httpClient: http.DefaultClient,
		logger:     slog.Default(),
		recorder:   nopRecorder{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type graphQLRequest struct {
	Query     string    `json:"query"`
	Variables Variables `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

// Fetch runs query and returns the data payload, or nil on any failure.
// Failures are logged and recorded, never returned.
func (c *Client) Fetch(ctx context.Context, query string, vars Variables) json.RawMessage {
	op := operationName(query)
	start := time.Now()
	data, err := c.do(ctx, op, query, vars)
	if err != nil {
		kind := KindUnavailable
		var fe *FetchError
		if errors.As(err, &fe) {
			kind = fe.Kind
		}
		level := slog.LevelError
		if kind == KindCanceled {
			level = slog.LevelWarn
		}
		c.logger.Log(ctx, level, "cms fetch failed",
			"operation", op,
			"kind", string(kind),
			"error", err)
		c.recorder.ObserveFetch(op, string(kind), time.Since(start))
		return nil
	}
	c.recorder.ObserveFetch(op, "ok", time.Since(start))
	return data
}

func (c *Client) do(ctx context.Context, op, query string, vars Variables) (json.RawMessage, error) {
	body, err := json.Marshal(graphQLRequest{Query: query, Variables: vars})
	if err != nil {
		return nil, &FetchError{Operation: op, Kind: KindDecode, Err: fmt.Errorf("encode request: %w", err)}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &FetchError{Operation: op, Kind: KindUnavailable, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		kind := KindUnavailable
		if ctx.Err() != nil {
			kind = KindCanceled
		}
		return nil, &FetchError{Operation: op, Kind: kind, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &FetchError{
			Operation: op,
			Kind:      KindUnavailable,
			Status:    resp.StatusCode,
			Err:       fmt.Errorf("cms responded with status %d", resp.StatusCode),
		}
	}

	var gr graphQLResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&gr); err != nil {
		return nil, &FetchError{Operation: op, Kind: KindDecode, Status: resp.StatusCode, Err: err}
	}
	if len(gr.Errors) > 0 {
		return nil, &FetchError{
			Operation: op,
			Kind:      KindQuery,
			Status:    resp.StatusCode,
			Err:       fmt.Errorf("%d graphql error(s), first: %s", len(gr.Errors), gr.Errors[0].Message),
		}
	}
	if isNullJSON(gr.Data) {
		return nil, &FetchError{Operation: op, Kind: KindDecode, Status: resp.StatusCode, Err: errors.New("response carried no data")}
	}
	return gr.Data, nil
}

func isNullJSON(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	return s == "" || s == "null"
}

var reOperation = regexp.MustCompile(`(?:query|mutation)\s+(\w+)`)

// operationName extracts the named operation from a query document, for
// logs and metric labels.
func operationName(query string) string {
	if m := reOperation.FindStringSubmatch(query); len(m) == 2 {
		return m[1]
	}
	return "anonymous"
}
