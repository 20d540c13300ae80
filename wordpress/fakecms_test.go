package wordpress

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
)

// fakeCMS is a minimal WPGraphQL stand-in that serves an in-memory post
// list with arrayconnection-style cursors.
type fakeCMS struct {
	mu       sync.Mutex
	posts    []map[string]any
	cats     []Category
	tags     []Tag
	requests []graphQLRequest
	headers  []http.Header
}

func newFakeCMS(t *testing.T, n int) (*fakeCMS, *httptest.Server) {
	t.Helper()
	f := &fakeCMS{}
	for i := 1; i <= n; i++ {
		f.posts = append(f.posts, fakePost(i))
	}
	f.cats = []Category{
		{ID: "c1", Name: "AI", Slug: "ai", Count: n},
		{ID: "c2", Name: "Empty", Slug: "empty", Count: 0},
	}
	f.tags = []Tag{
		{ID: "t1", Name: "LLM", Slug: "llm", Count: 4},
		{ID: "t2", Name: "Unused", Slug: "unused", Count: 0},
	}
	srv := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(srv.Close)
	return f, srv
}

func fakePost(i int) map[string]any {
	return map[string]any{
		"id":       fmt.Sprintf("post-%d", i),
		"title":    fmt.Sprintf("Post %d", i),
		"slug":     fmt.Sprintf("post-%d", i),
		"date":     fmt.Sprintf("2024-01-%02dT10:00:00", i),
		"modified": fmt.Sprintf("2024-01-%02dT11:00:00", i),
		"excerpt":  fmt.Sprintf("<p>Excerpt %d</p>", i),
		"content":  fmt.Sprintf("<h2>Part %d</h2><p>Body</p>", i),
		"featuredImage": map[string]any{"node": map[string]any{
			"sourceUrl":    fmt.Sprintf("https://cdn.example.com/%d.png", i),
			"altText":      "cover",
			"mediaDetails": map[string]any{"width": 1200, "height": 630},
		}},
		"categories": map[string]any{"edges": []any{
			map[string]any{"node": map[string]any{"id": "c1", "name": "AI", "slug": "ai"}},
		}},
		"tags": map[string]any{"edges": []any{}},
		"author": map[string]any{"node": map[string]any{
			"name": "Jane Doe", "firstName": "Jane", "lastName": "Doe",
			"avatar": map[string]any{"url": "https://cdn.example.com/jane.png"},
		}},
	}
}

func encodeCursor(i int) string {
	return base64.StdEncoding.EncodeToString([]byte("arrayconnection:" + strconv.Itoa(i)))
}

func decodeCursor(c any) int {
	s, _ := c.(string)
	if s == "" {
		return -1
	}
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return -1
	}
	n, err := strconv.Atoi(strings.TrimPrefix(string(raw), "arrayconnection:"))
	if err != nil {
		return -1
	}
	return n
}

func intVar(v Variables, key string) int {
	f, _ := v[key].(float64)
	return int(f)
}

func (f *fakeCMS) serve(w http.ResponseWriter, r *http.Request) {
	var req graphQLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.headers = append(f.headers, r.Header.Clone())
	f.mu.Unlock()

	var data any
	switch operationName(req.Query) {
	case "AllPosts", "PostsByCategory", "PostsByTag":
		data = map[string]any{"posts": f.page(intVar(req.Variables, "first"), decodeCursor(req.Variables["after"]))}
	case "PostBySlug":
		var post any
		for _, p := range f.posts {
			if p["slug"] == req.Variables["id"] {
				post = p
			}
		}
		data = map[string]any{"post": post}
	case "AllPostSlugs":
		data = map[string]any{"posts": f.page(intVar(req.Variables, "first"), -1)}
	case "AllCategories":
		data = map[string]any{"categories": taxonomy(f.cats)}
	case "AllTags":
		data = map[string]any{"tags": taxonomy(f.tags)}
	case "SearchPosts":
		q := strings.ToLower(req.Variables["query"].(string))
		var edges []any
		for i, p := range f.posts {
			if strings.Contains(strings.ToLower(p["title"].(string)), q) {
				edges = append(edges, map[string]any{"cursor": encodeCursor(i), "node": p})
			}
		}
		data = map[string]any{"posts": map[string]any{"edges": edges}}
	case "RelatedPosts":
		// Deliberately ignores notIn so the client-side guard is exercised.
		data = map[string]any{"posts": f.page(intVar(req.Variables, "count")+1, -1)}
	default:
		http.Error(w, "unknown operation", http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"data": data})
}

func (f *fakeCMS) page(first, after int) map[string]any {
	start := after + 1
	if start > len(f.posts) {
		start = len(f.posts)
	}
	end := start + first
	if end > len(f.posts) {
		end = len(f.posts)
	}
	edges := []any{}
	for i := start; i < end; i++ {
		edges = append(edges, map[string]any{"cursor": encodeCursor(i), "node": f.posts[i]})
	}
	info := map[string]any{
		"hasNextPage":     end < len(f.posts),
		"hasPreviousPage": start > 0,
		"startCursor":     nil,
		"endCursor":       nil,
	}
	if end > start {
		info["startCursor"] = encodeCursor(start)
		info["endCursor"] = encodeCursor(end - 1)
	}
	return map[string]any{"pageInfo": info, "edges": edges}
}

func taxonomy[T any](items []T) map[string]any {
	edges := make([]any, 0, len(items))
	for _, it := range items {
		edges = append(edges, map[string]any{"node": it})
	}
	return map[string]any{"edges": edges}
}

func (f *fakeCMS) lastRequest() graphQLRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func (f *fakeCMS) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func (f *fakeCMS) lastHeader() http.Header {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.headers[len(f.headers)-1]
}
