package coresite

import (
	"context"
	"html/template"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"github.com/coresight/coresite/content"
	"github.com/coresight/coresite/views"
	"github.com/coresight/coresite/wordpress"
)

const blogDescription = "Insights on AI training, workforce readiness and sales coaching."

func (a *App) handleBlogIndex(c echo.Context) error {
	ctx := c.Request().Context()
	after := strings.TrimSpace(c.QueryParam("after"))

	var (
		g    errgroup.Group
		page wordpress.PostsResponse
		cats []wordpress.Category
		tags []wordpress.Tag
	)
	// The façade never fails, so the group only joins.
	g.Go(func() error { page = a.Blog.ListPosts(ctx, a.Config.PostsPerPage, after); return nil })
	g.Go(func() error { cats = a.Blog.ListCategories(ctx); return nil })
	g.Go(func() error { tags = a.Blog.ListTags(ctx); return nil })
	_ = g.Wait()

	posts := page.Posts()
	data := views.BlogIndex{
		Posts:      posts,
		Categories: views.CategoryBadges(cats),
		Tags:       views.TagCloud(tags, views.MaxCloudTags),
		Popular:    views.PopularPosts(posts),
		NextURL:    nextPageURL("/blog/", page.PageInfo),
		Paged:      after != "",
	}
	if !data.Paged && len(posts) > 0 {
		featured := posts[0]
		data.Featured = &featured
		data.Posts = posts[1:]
	}

	return Render(c, a.Views.BlogIndex(a.page(c, views.PageMeta{
		Title:       "Blog",
		Description: blogDescription,
		URL:         views.BuildURL(a.Config.URL, "blog"),
	}), data))
}

func (a *App) handlePost(c echo.Context) error {
	ctx := c.Request().Context()
	post, ok := a.Blog.GetPostBySlug(ctx, c.Param("slug"))
	if !ok {
		return a.notFound(c)
	}

	postURL := views.BuildURL(a.Config.URL, "blog", post.Slug)
	prepared, toc := a.preparer.PrepareWithTOC(post.Content)
	data := views.PostPage{
		Post:        post,
		Content:     template.HTML(prepared),
		TOC:         toc,
		ReadingTime: content.ReadingTime(post.Content),
		Share:       content.ShareURLs(post.Title, postURL),
	}
	if cat, ok := post.PrimaryCategory(); ok {
		data.Category = &cat
		data.Related = a.Blog.GetRelatedPosts(ctx, post.ID, cat.Slug, wordpress.DefaultRelatedCount)
	}

	meta := views.PageMeta{
		Title:       post.Title,
		Description: views.Summary(post.Excerpt, 160),
		URL:         postURL,
		OGType:      "article",
		JSONLD:      views.BlogPostingJsonLD(a.site(), post),
		Published:   content.ISODate(post.Date),
		Modified:    content.ISODate(post.Modified),
	}
	if post.FeaturedImage != nil {
		meta.Image = content.SafeURL(post.FeaturedImage.SourceURL)
	}
	return Render(c, a.Views.BlogPost(a.page(c, meta), data))
}

func (a *App) handleCategory(c echo.Context) error {
	slug := c.Param("category")
	return a.renderArchive(c, func(ctx context.Context, after string) wordpress.PostsResponse {
		return a.Blog.ListPostsByCategory(ctx, slug, a.Config.PostsPerPage, after)
	}, func(cats []wordpress.Category, _ []wordpress.Tag) (views.Taxonomy, bool) {
		cat, ok := wordpress.FindCategory(cats, slug)
		return views.Taxonomy{Kind: "Category", Name: cat.Name, Slug: cat.Slug, Count: cat.Count}, ok
	})
}

func (a *App) handleTag(c echo.Context) error {
	slug := c.Param("tag")
	return a.renderArchive(c, func(ctx context.Context, after string) wordpress.PostsResponse {
		return a.Blog.ListPostsByTag(ctx, slug, a.Config.PostsPerPage, after)
	}, func(_ []wordpress.Category, tags []wordpress.Tag) (views.Taxonomy, bool) {
		tag, ok := wordpress.FindTag(tags, slug)
		return views.Taxonomy{Kind: "Tag", Name: tag.Name, Slug: tag.Slug, Count: tag.Count}, ok
	})
}

// renderArchive fetches one archive page together with both taxonomies for
// the sidebar. find picks the archive's own term, or reports it unknown.
func (a *App) renderArchive(c echo.Context,
	list func(ctx context.Context, after string) wordpress.PostsResponse,
	find func([]wordpress.Category, []wordpress.Tag) (views.Taxonomy, bool),
) error {
	ctx := c.Request().Context()
	after := strings.TrimSpace(c.QueryParam("after"))

	var (
		g    errgroup.Group
		cats []wordpress.Category
		tags []wordpress.Tag
		page wordpress.PostsResponse
	)
	g.Go(func() error { cats = a.Blog.ListCategories(ctx); return nil })
	g.Go(func() error { tags = a.Blog.ListTags(ctx); return nil })
	g.Go(func() error { page = list(ctx, after); return nil })
	_ = g.Wait()

	data, ok := find(cats, tags)
	if !ok {
		return a.notFound(c)
	}
	base := views.CategoryURL(data.Slug)
	if data.Kind == "Tag" {
		base = views.TagURL(data.Slug)
	}
	data.Posts = page.Posts()
	data.NextURL = nextPageURL(base, page.PageInfo)
	data.Categories = views.CategoryBadges(cats)
	data.Tags = views.TagCloud(tags, views.MaxCloudTags)

	return Render(c, a.Views.BlogTaxonomy(a.page(c, views.PageMeta{
		Title:       data.Name,
		Description: data.Kind + " archive: posts about " + data.Name + ".",
	}), data))
}

func (a *App) handleBlogSearch(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("query"))
	data := views.Search{Query: query}
	if query != "" {
		data.Searched = true
		data.Results = a.Blog.SearchPosts(c.Request().Context(), query, wordpress.DefaultSearchLimit)
	}
	title := "Search"
	if query != "" {
		title = "Search: " + query
	}
	return Render(c, a.Views.BlogSearch(a.page(c, views.PageMeta{
		Title:   title,
		URL:     views.BuildURL(a.Config.URL, "blog", "search"),
		NoIndex: true,
	}), data))
}
