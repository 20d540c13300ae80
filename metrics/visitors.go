package metrics

import (
	"regexp"
	"strings"
)

// UserAgent is the coarse classification used for visitor labels.
type UserAgent struct {
	Browser string
	OS      string
	Device  string
}

// ParseUserAgent extracts browser, OS and device class from a User-Agent
// header. Order of checks matters: Edge and Opera also claim Chrome,
// Android claims Linux, and iPad claims mobile.
func ParseUserAgent(ua string) UserAgent {
	ua = strings.ToLower(ua)
	var out UserAgent

	switch {
	case strings.Contains(ua, "firefox"):
		out.Browser = "Firefox"
	case strings.Contains(ua, "opera") || strings.Contains(ua, "opr/"):
		out.Browser = "Opera"
	case strings.Contains(ua, "edg"):
		out.Browser = "Edge"
	case strings.Contains(ua, "chrome"):
		out.Browser = "Chrome"
	case strings.Contains(ua, "safari"):
		out.Browser = "Safari"
	default:
		out.Browser = "Other"
	}

	switch {
	case strings.Contains(ua, "windows"):
		out.OS = "Windows"
	case strings.Contains(ua, "android"):
		out.OS = "Android"
	case strings.Contains(ua, "iphone") || strings.Contains(ua, "ipad"):
		out.OS = "iOS"
	case strings.Contains(ua, "macintosh") || strings.Contains(ua, "mac os"):
		out.OS = "macOS"
	case strings.Contains(ua, "linux"):
		out.OS = "Linux"
	default:
		out.OS = "Other"
	}

	switch {
	case strings.Contains(ua, "tablet") || strings.Contains(ua, "ipad"):
		out.Device = "Tablet"
	case strings.Contains(ua, "mobile"):
		out.Device = "Mobile"
	default:
		out.Device = "Desktop"
	}
	return out
}

// knownBots is checked in order; specific names come before the generic
// crawler and spider patterns.
var knownBots = []struct {
	pattern string
	name    string
}{
	{"googlebot", "Googlebot"},
	{"bingbot", "Bingbot"},
	{"yandex", "Yandex"},
	{"baidu", "Baidu"},
	{"duckduckbot", "DuckDuckBot"},
	{"facebookexternalhit", "Facebook"},
	{"twitterbot", "Twitterbot"},
	{"linkedinbot", "LinkedIn"},
	{"ahrefsbot", "Ahrefs"},
	{"semrushbot", "SEMrush"},
	{"mj12bot", "Majestic"},
	{"dotbot", "Moz"},
	{"gptbot", "GPTBot"},
	{"slurp", "Yahoo Slurp"},
	{"crawler", "Generic Crawler"},
	{"spider", "Generic Spider"},
}

var botMarkers = []string{"bot", "crawl", "spider", "slurp", "scrape", "facebookexternalhit"}

// IsBot reports whether ua looks like a crawler.
func IsBot(ua string) bool {
	ua = strings.ToLower(ua)
	for _, m := range botMarkers {
		if strings.Contains(ua, m) {
			return true
		}
	}
	return false
}

// BotName names the crawler behind ua.
func BotName(ua string) string {
	ua = strings.ToLower(ua)
	for _, b := range knownBots {
		if strings.Contains(ua, b.pattern) {
			return b.name
		}
	}
	if strings.Contains(ua, "bot") {
		return "Other Bot"
	}
	return "Unknown"
}

var referrerHost = regexp.MustCompile(`^https?://(?:www\.)?([^/:?#]+)`)

// referrers maps known sources to labels. Anything else is "Other" so a
// forged Referer cannot mint new series.
var referrers = []struct {
	marker string
	name   string
}{
	{"google.", "Google"},
	{"bing.", "Bing"},
	{"duckduckgo.", "DuckDuckGo"},
	{"yahoo.", "Yahoo"},
	{"linkedin.", "LinkedIn"},
	{"lnkd.in", "LinkedIn"},
	{"github.", "GitHub"},
	{"facebook.", "Facebook"},
	{"t.co", "X"},
	{"twitter.", "X"},
	{"x.com", "X"},
	{"reddit.", "Reddit"},
	{"news.ycombinator.", "Hacker News"},
}

// CleanReferrer reduces a Referer header to one of a fixed set of labels.
func CleanReferrer(ref string) string {
	if ref == "" {
		return "Direct"
	}
	m := referrerHost.FindStringSubmatch(strings.ToLower(ref))
	if len(m) < 2 {
		return "Other"
	}
	host := m[1]
	for _, r := range referrers {
		if matchHost(host, r.marker) {
			return r.name
		}
	}
	return "Other"
}

// matchHost reports whether host belongs to marker. A marker ending in a dot
// ("google.") matches any TLD; otherwise it is a full domain.
func matchHost(host, marker string) bool {
	if strings.HasSuffix(marker, ".") {
		return strings.HasPrefix(host, marker) || strings.Contains(host, "."+marker)
	}
	return host == marker || strings.HasSuffix(host, "."+marker)
}
