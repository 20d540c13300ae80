package wordpress

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedFetch struct {
	operation string
	outcome   string
}

type recordingRecorder struct {
	mu      sync.Mutex
	fetches []recordedFetch
}

func (r *recordingRecorder) ObserveFetch(operation, outcome string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fetches = append(r.fetches, recordedFetch{operation, outcome})
}

func (r *recordingRecorder) last() recordedFetch {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fetches[len(r.fetches)-1]
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(url string, rec Recorder, token string) *Client {
	return NewClient(Config{BaseURL: url, AuthToken: token},
		WithLogger(quietLogger()),
		WithRecorder(rec))
}

func TestConfigEndpoint(t *testing.T) {
	tests := []struct {
		base     string
		expected string
	}{
		{"https://blogs.example.com", "https://blogs.example.com/graphql"},
		{"https://blogs.example.com/", "https://blogs.example.com/graphql"},
		{"", DefaultBaseURL + "/graphql"},
	}
	for _, tt := range tests {
		if got := (Config{BaseURL: tt.base}).Endpoint(); got != tt.expected {
			t.Errorf("Endpoint(%q) = %q, want %q", tt.base, got, tt.expected)
		}
	}
}

func TestFetchReturnsData(t *testing.T) {
	cms, srv := newFakeCMS(t, 3)
	rec := &recordingRecorder{}
	c := newTestClient(srv.URL, rec, "secret")

	data := c.Fetch(context.Background(), queryAllPosts, Variables{"first": 2, "after": nil})
	require.NotNil(t, data)
	assert.Contains(t, string(data), `"post-1"`)

	assert.Equal(t, "Bearer secret", cms.lastHeader().Get("Authorization"))
	assert.Equal(t, "application/json", cms.lastHeader().Get("Content-Type"))
	assert.Equal(t, recordedFetch{"AllPosts", "ok"}, rec.last())
}

func TestFetchOmitsAuthorizationWithoutToken(t *testing.T) {
	cms, srv := newFakeCMS(t, 1)
	c := newTestClient(srv.URL, nil, "")
	require.NotNil(t, c.Fetch(context.Background(), queryAllTags, Variables{"first": 10}))
	assert.Empty(t, cms.lastHeader().Get("Authorization"))
}

func TestFetchSendsNullCursor(t *testing.T) {
	cms, srv := newFakeCMS(t, 1)
	c := newTestClient(srv.URL, nil, "")
	c.Fetch(context.Background(), queryAllPosts, Variables{"first": 9, "after": cursor("")})

	vars := cms.lastRequest().Variables
	after, present := vars["after"]
	assert.True(t, present, "after must be sent explicitly")
	assert.Nil(t, after)
}

func TestFetchFailuresReturnNil(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		kind    ErrorKind
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
			kind: KindUnavailable,
		},
		{
			name: "graphql errors",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, `{"data":null,"errors":[{"message":"Cannot query field"}]}`)
			},
			kind: KindQuery,
		},
		{
			name: "not json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, `<html>maintenance</html>`)
			},
			kind: KindDecode,
		},
		{
			name: "null data",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, `{"data":null}`)
			},
			kind: KindDecode,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()
			rec := &recordingRecorder{}
			c := newTestClient(srv.URL, rec, "")

			assert.Nil(t, c.Fetch(context.Background(), queryAllCategories, Variables{"first": 100}))
			assert.Equal(t, recordedFetch{"AllCategories", string(tt.kind)}, rec.last())
		})
	}
}

func TestFetchUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	rec := &recordingRecorder{}
	c := newTestClient(url, rec, "")
	assert.Nil(t, c.Fetch(context.Background(), queryAllTags, nil))
	assert.Equal(t, string(KindUnavailable), rec.last().outcome)
}

func TestFetchCanceled(t *testing.T) {
	_, srv := newFakeCMS(t, 1)
	rec := &recordingRecorder{}
	c := newTestClient(srv.URL, rec, "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Nil(t, c.Fetch(ctx, queryAllTags, Variables{"first": 1}))
	assert.Equal(t, string(KindCanceled), rec.last().outcome)
}

func TestFetchErrorIs(t *testing.T) {
	err := error(&FetchError{Operation: "AllPosts", Kind: KindUnavailable, Status: 502, Err: errors.New("bad gateway")})
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.NotErrorIs(t, err, ErrQuery)
	assert.Contains(t, err.Error(), "status 502")

	qerr := error(&FetchError{Operation: "AllPosts", Kind: KindQuery, Err: errors.New("x")})
	assert.ErrorIs(t, qerr, ErrQuery)
}

func TestOperationName(t *testing.T) {
	tests := []struct {
		query    string
		expected string
	}{
		{queryAllPosts, "AllPosts"},
		{queryPostBySlug, "PostBySlug"},
		{queryRelatedPosts, "RelatedPosts"},
		{"{ posts { edges { node { id } } } }", "anonymous"},
	}
	for _, tt := range tests {
		if got := operationName(tt.query); got != tt.expected {
			t.Errorf("operationName() = %q, want %q", got, tt.expected)
		}
	}
}
