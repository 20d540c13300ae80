package wordpress

import (
	"context"
	"encoding/json"
	"log/slog"
)

// Defaults applied by Blog when callers pass a non-positive size.
const (
	DefaultPageSize     = 9
	DefaultSlugLimit    = 100
	DefaultTaxonomySize = 100
	DefaultSearchLimit  = 20
	DefaultRelatedCount = 3
)

// Blog is the typed query façade over a Fetcher. Every method is fail-soft:
// a CMS outage yields an empty result, never an error.
type Blog struct {
	fetcher Fetcher
	logger  *slog.Logger
}

// NewBlog returns a Blog reading through f.
func NewBlog(f Fetcher, logger *slog.Logger) *Blog {
	if logger == nil {
		logger = slog.Default()
	}
	return &Blog{fetcher: f, logger: logger}
}

type postsPayload struct {
	Posts *connection[wirePost] `json:"posts"`
}

// ListPosts returns a page of published posts, newest first. An empty
// after starts from the beginning.
func (b *Blog) ListPosts(ctx context.Context, first int, after string) PostsResponse {
	return b.postsPage(ctx, queryAllPosts, Variables{
		"first": orDefault(first, DefaultPageSize),
		"after": cursor(after),
	})
}

// ListPostsByCategory returns a page of posts in the category with slug.
func (b *Blog) ListPostsByCategory(ctx context.Context, slug string, first int, after string) PostsResponse {
	return b.postsPage(ctx, queryPostsByCategory, Variables{
		"categorySlug": slug,
		"first":        orDefault(first, DefaultPageSize),
		"after":        cursor(after),
	})
}

// ListPostsByTag returns a page of posts carrying the tag with slug.
func (b *Blog) ListPostsByTag(ctx context.Context, slug string, first int, after string) PostsResponse {
	return b.postsPage(ctx, queryPostsByTag, Variables{
		"tagSlug": slug,
		"first":   orDefault(first, DefaultPageSize),
		"after":   cursor(after),
	})
}

func (b *Blog) postsPage(ctx context.Context, query string, vars Variables) PostsResponse {
	var p postsPayload
	if !b.fetch(ctx, query, vars, &p) {
		return PostsResponse{}
	}
	return toPostsResponse(p.Posts)
}

// GetPostBySlug returns the full post, including content. ok is false when
// no post matches or the CMS is unreachable.
func (b *Blog) GetPostBySlug(ctx context.Context, slug string) (post Post, ok bool) {
	var p struct {
		Post *wirePost `json:"post"`
	}
	if !b.fetch(ctx, queryPostBySlug, Variables{"id": slug}, &p) {
		return Post{}, false
	}
	if p.Post == nil {
		b.logger.DebugContext(ctx, "post not found", "slug", slug, "kind", string(KindNotFound))
		return Post{}, false
	}
	return p.Post.toPost(), true
}

// ListPostSlugs returns the slugs of up to DefaultSlugLimit published posts.
func (b *Blog) ListPostSlugs(ctx context.Context) []string {
	var p postsPayload
	if !b.fetch(ctx, queryAllPostSlugs, Variables{"first": DefaultSlugLimit}, &p) || p.Posts == nil {
		return nil
	}
	slugs := make([]string, 0, len(p.Posts.Edges))
	for _, e := range p.Posts.Edges {
		if e.Node.Slug != "" {
			slugs = append(slugs, e.Node.Slug)
		}
	}
	return slugs
}

// ListCategories returns every category, including empty ones.
func (b *Blog) ListCategories(ctx context.Context) []Category {
	var p struct {
		Categories *connection[Category] `json:"categories"`
	}
	if !b.fetch(ctx, queryAllCategories, Variables{"first": DefaultTaxonomySize}, &p) {
		return nil
	}
	return p.Categories.nodes()
}

// ListTags returns every tag, including empty ones.
func (b *Blog) ListTags(ctx context.Context) []Tag {
	var p struct {
		Tags *connection[Tag] `json:"tags"`
	}
	if !b.fetch(ctx, queryAllTags, Variables{"first": DefaultTaxonomySize}, &p) {
		return nil
	}
	return p.Tags.nodes()
}

// SearchPosts runs a full-text search. The query is sent as given; callers
// decide what counts as searchable.
func (b *Blog) SearchPosts(ctx context.Context, query string, limit int) []Post {
	var p postsPayload
	if !b.fetch(ctx, querySearchPosts, Variables{
		"query": query,
		"first": orDefault(limit, DefaultSearchLimit),
	}, &p) {
		return nil
	}
	return toPostsResponse(p.Posts).Posts()
}

// GetRelatedPosts returns up to count posts sharing categorySlug, never
// including the post identified by postID.
func (b *Blog) GetRelatedPosts(ctx context.Context, postID, categorySlug string, count int) []Post {
	if categorySlug == "" {
		return nil
	}
	count = orDefault(count, DefaultRelatedCount)
	var p postsPayload
	if !b.fetch(ctx, queryRelatedPosts, Variables{
		"categorySlug": categorySlug,
		"postId":       postID,
		"count":        count,
	}, &p) {
		return nil
	}
	var related []Post
	for _, post := range toPostsResponse(p.Posts).Posts() {
		if post.ID == postID {
			continue
		}
		related = append(related, post)
		if len(related) == count {
			break
		}
	}
	return related
}

// fetch runs query and decodes the payload into dst. It reports false when
// nothing usable came back.
func (b *Blog) fetch(ctx context.Context, query string, vars Variables, dst any) bool {
	data := b.fetcher.Fetch(ctx, query, vars)
	if data == nil {
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		b.logger.ErrorContext(ctx, "decode cms payload",
			"operation", operationName(query),
			"kind", string(KindDecode),
			"error", err)
		return false
	}
	return true
}

func orDefault(n, def int) int {
	if n <= 0 {
		return def
	}
	return n
}

// cursor maps an empty cursor to JSON null, which WPGraphQL reads as
// "from the start".
func cursor(after string) any {
	if after == "" {
		return nil
	}
	return after
}
