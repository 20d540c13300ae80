package coresite

import (
	"net/url"

	"github.com/coresight/coresite/wordpress"
)

// nextPageURL links the "Load More" button to the page after info, or
// returns "" on the last page.
func nextPageURL(base string, info wordpress.PageInfo) string {
	if !info.HasNextPage || info.EndCursor == "" {
		return ""
	}
	return base + "?after=" + url.QueryEscape(info.EndCursor)
}
