package content

import (
	"fmt"
	"strings"
	"time"
)

// InvalidDate is returned by the date helpers when the input cannot be parsed.
const InvalidDate = "Invalid date"

// LongDateLayout renders dates the way the site displays them, e.g.
// "January 2, 2006".
const LongDateLayout = "January 2, 2006"

// dateLayouts are the shapes WordPress and our own callers hand us.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate parses a CMS date string. Dates without a zone are taken as UTC.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// FormatDate renders s as a long-form date. Empty input yields "" and
// unparseable input yields InvalidDate.
func FormatDate(s string) string {
	if s == "" {
		return ""
	}
	t, ok := ParseDate(s)
	if !ok {
		return InvalidDate
	}
	return t.Format(LongDateLayout)
}

// ISODate renders s as YYYY-MM-DD for sitemaps and machine-readable markup,
// or "" when s cannot be parsed.
func ISODate(s string) string {
	t, ok := ParseDate(s)
	if !ok {
		return ""
	}
	return t.Format("2006-01-02")
}

// RelativeTime describes how long ago s was, relative to now.
func RelativeTime(s string) string {
	return RelativeTimeAt(s, time.Now())
}

// RelativeTimeAt is RelativeTime with an explicit reference time. Anything
// older than 30 days falls back to FormatDate.
func RelativeTimeAt(s string, now time.Time) string {
	if s == "" {
		return ""
	}
	t, ok := ParseDate(s)
	if !ok {
		return InvalidDate
	}
	seconds := int64(now.Sub(t) / time.Second)
	switch {
	case seconds < 60:
		return "Just now"
	case seconds < 3600:
		return ago(seconds/60, "minute")
	case seconds < 86400:
		return ago(seconds/3600, "hour")
	case seconds < 604800:
		return ago(seconds/86400, "day")
	case seconds < 2592000:
		return ago(seconds/604800, "week")
	}
	return FormatDate(s)
}

func ago(n int64, unit string) string {
	if n > 1 {
		unit += "s"
	}
	return fmt.Sprintf("%d %s ago", n, unit)
}
