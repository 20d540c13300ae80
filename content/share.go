package content

import (
	"html"
	"net/url"
	"strings"
)

// Share holds the per-platform share links for a post.
type Share struct {
	Twitter  string
	Facebook string
	LinkedIn string
	Email    string
}

// ShareURLs builds share links for a page title and absolute URL.
func ShareURLs(title, pageURL string) Share {
	t := EncodeURIComponent(title)
	u := EncodeURIComponent(pageURL)
	return Share{
		Twitter:  "https://x.com/intent/tweet?text=" + t + "&url=" + u,
		Facebook: "https://www.facebook.com/sharer/sharer.php?u=" + u,
		LinkedIn: "https://www.linkedin.com/sharing/share-offsite/?url=" + u,
		Email:    "mailto:?subject=" + t + "&body=" + u,
	}
}

var uriComponentFixups = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EncodeURIComponent escapes s the way browsers escape a URI component:
// spaces become %20 and !'()* are left alone.
func EncodeURIComponent(s string) string {
	return uriComponentFixups.Replace(url.QueryEscape(s))
}

// SafeURL validates a URL coming from the CMS for use in src/href
// attributes. Relative paths and fragments pass; absolute URLs must use an
// http, https, mailto or tel scheme. Anything else yields "".
func SafeURL(raw string) string {
	val := strings.TrimSpace(html.UnescapeString(raw))
	if val == "" {
		return ""
	}
	if strings.HasPrefix(val, "/") || strings.HasPrefix(val, "#") {
		return val
	}
	parsed, err := url.Parse(val)
	if err != nil || parsed.Scheme == "" {
		return ""
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https", "mailto", "tel":
		return val
	default:
		return ""
	}
}
