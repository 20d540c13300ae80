package views

import (
	"encoding/json"
	"html"
	"html/template"
	"net/url"
	"path"
	"sort"
	"strings"

	"github.com/coresight/coresite/content"
	"github.com/coresight/coresite/wordpress"
)

// Listing limits on the blog index.
const (
	MaxCategoryBadges = 8
	MaxCloudTags      = 15
	MaxPopularPosts   = 5
)

// BuildURL joins path segments onto a base URL, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// PostURL is the site-relative URL of a post.
func PostURL(slug string) string {
	return "/blog/" + url.PathEscape(slug) + "/"
}

// CategoryURL is the site-relative URL of a category archive.
func CategoryURL(slug string) string {
	return "/blog/categories/" + url.PathEscape(slug) + "/"
}

// TagURL is the site-relative URL of a tag archive.
func TagURL(slug string) string {
	return "/blog/tags/" + url.PathEscape(slug) + "/"
}

// Summary is the plain-text teaser of a CMS HTML excerpt.
func Summary(excerptHTML string, max int) string {
	return html.UnescapeString(content.Excerpt(excerptHTML, max))
}

// TagSizeClass buckets count into a font size relative to the range
// [min, max] of the cloud.
func TagSizeClass(count, min, max int) string {
	if max == min {
		return "text-base"
	}
	n := float64(count-min) / float64(max-min)
	switch {
	case n < 0.2:
		return "text-xs"
	case n < 0.4:
		return "text-sm"
	case n < 0.6:
		return "text-base"
	case n < 0.8:
		return "text-lg"
	default:
		return "text-xl"
	}
}

// TagCloud keeps tags with posts, most used first, and sizes up to limit of
// them. The size range is taken over every visible tag, not just the ones
// shown.
func TagCloud(tags []wordpress.Tag, limit int) []TagWeight {
	visible := wordpress.VisibleTags(tags)
	if len(visible) == 0 {
		return nil
	}
	sort.SliceStable(visible, func(i, j int) bool { return visible[i].Count > visible[j].Count })
	max, min := visible[0].Count, visible[len(visible)-1].Count
	if limit > 0 && len(visible) > limit {
		visible = visible[:limit]
	}
	out := make([]TagWeight, 0, len(visible))
	for _, t := range visible {
		out = append(out, TagWeight{Tag: t, Class: TagSizeClass(t.Count, min, max)})
	}
	return out
}

// CategoryBadges returns the categories shown as filters on the index.
func CategoryBadges(cats []wordpress.Category) []wordpress.Category {
	visible := wordpress.VisibleCategories(cats)
	if len(visible) > MaxCategoryBadges {
		visible = visible[:MaxCategoryBadges]
	}
	return visible
}

// PopularPosts picks the sidebar list from the current page.
func PopularPosts(posts []wordpress.Post) []wordpress.Post {
	if len(posts) > MaxPopularPosts {
		return posts[:MaxPopularPosts]
	}
	return posts
}

// AuthorName falls back to the site name for posts without an author.
func AuthorName(p wordpress.Post, fallback string) string {
	if p.Author.Name != "" {
		return p.Author.Name
	}
	return fallback
}

// ImageAlt falls back to the post title.
func ImageAlt(p wordpress.Post) string {
	if p.FeaturedImage != nil && p.FeaturedImage.AltText != "" {
		return p.FeaturedImage.AltText
	}
	return p.Title
}

// WebsiteJsonLD produces a Schema.org WebSite JSON-LD block using cfg values.
func WebsiteJsonLD(cfg SiteConfig) string {
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     cfg.Name,
		"url":      BuildURL(cfg.URL),
	}
	if cfg.Description != "" {
		data["description"] = cfg.Description
	}
	data["potentialAction"] = map[string]string{
		"@type":       "SearchAction",
		"target":      BuildURL(cfg.URL, "blog", "search") + "?query={search_term_string}",
		"query-input": "required name=search_term_string",
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// BlogPostingJsonLD produces a Schema.org BlogPosting JSON-LD block for a post.
func BlogPostingJsonLD(cfg SiteConfig, post wordpress.Post) string {
	postURL := BuildURL(cfg.URL, "blog", post.Slug)
	data := map[string]interface{}{
		"@context":      "https://schema.org",
		"@type":         "BlogPosting",
		"headline":      post.Title,
		"description":   content.PlainText(post.Excerpt),
		"datePublished": content.ISODate(post.Date),
		"url":           postURL,
		"author": map[string]string{
			"@type": "Person",
			"name":  AuthorName(post, cfg.Name),
		},
		"publisher": map[string]string{
			"@type": "Organization",
			"name":  cfg.Name,
		},
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
	}
	if m := content.ISODate(post.Modified); m != "" {
		data["dateModified"] = m
	}
	if post.FeaturedImage != nil {
		data["image"] = post.FeaturedImage.SourceURL
	}
	if len(post.Tags) > 0 {
		names := make([]string, 0, len(post.Tags))
		for _, t := range post.Tags {
			names = append(names, t.Name)
		}
		data["keywords"] = strings.Join(names, ", ")
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

var funcs = template.FuncMap{
	"postURL":     PostURL,
	"categoryURL": CategoryURL,
	"tagURL":      TagURL,
	"summary":     Summary,
	"formatDate":  content.FormatDate,
	"relTime":     content.RelativeTime,
	"isoDate":     content.ISODate,
	"safeURL":     content.SafeURL,
	"author":      AuthorName,
	"imageAlt":    ImageAlt,
	"jsonLD":      func(s string) template.JS { return template.JS(s) },
	"inc":         func(i int) int { return i + 1 },
	"primaryCategory": func(p wordpress.Post) *wordpress.Category {
		if c, ok := p.PrimaryCategory(); ok {
			return &c
		}
		return nil
	},
	"navClass": func(current, target string) string {
		if current == target || (target != "/" && strings.HasPrefix(current, target)) {
			return "text-primary-700 font-semibold"
		}
		return "text-gray-600 hover:text-gray-900"
	},
}
