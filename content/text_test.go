package content

import (
	"strings"
	"testing"
)

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

func TestReadingTime(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"empty", "", 1},
		{"only tags", "<p></p>", 1},
		{"single word", "<p>hello</p>", 1},
		{"exactly one minute", words(225), 1},
		{"just over one minute", words(226), 2},
		{"two minutes", "<p>" + words(450) + "</p>", 2},
		{"three minutes", words(451), 3},
	}
	for _, tt := range tests {
		got := ReadingTime(tt.input)
		if got != tt.want {
			t.Errorf("%s: ReadingTime() = %d, want %d", tt.name, got, tt.want)
		}
		if got < 1 {
			t.Errorf("%s: ReadingTime() = %d, must be at least 1", tt.name, got)
		}
	}
}

func TestStripTags(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"<p>Hello <strong>world</strong></p>", "Hello world"},
		{"no tags", "no tags"},
		{"broken <em", "broken "},
		{"Q&amp;A", "Q&amp;A"},
	}
	for _, tt := range tests {
		if got := StripTags(tt.input); got != tt.expected {
			t.Errorf("StripTags(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestPlainTextDecodesEntities(t *testing.T) {
	got := PlainText("<p>Q&amp;A &hellip;</p>\n")
	if got != "Q&A …" {
		t.Errorf("PlainText() = %q, want %q", got, "Q&A …")
	}
}

func TestExcerpt(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		max      int
		expected string
	}{
		{"empty", "", 160, ""},
		{"short kept with tags stripped", "<p>Short <b>post</b></p>", 160, "Short post"},
		{"exact length kept", "abcde", 5, "abcde"},
		{"cut at word boundary", "The quick brown fox jumps", 10, "The quick..."},
		{"space right at the limit", "The quick brown", 9, "The quick..."},
		{"hard cut without spaces", "abcdefghijklmnop", 5, "abcde..."},
		{"leading space only", " abcdefghij", 5, " abcd..."},
	}
	for _, tt := range tests {
		if got := Excerpt(tt.input, tt.max); got != tt.expected {
			t.Errorf("%s: Excerpt(%q, %d) = %q, want %q", tt.name, tt.input, tt.max, got, tt.expected)
		}
	}
}

func TestExcerptNeverExceedsLimit(t *testing.T) {
	input := "<p>" + words(100) + "</p>"
	got := Excerpt(input, DefaultExcerptLength)
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("Excerpt() = %q, want trailing ellipsis", got)
	}
	body := strings.TrimSuffix(got, "...")
	if len([]rune(body)) > DefaultExcerptLength {
		t.Errorf("excerpt body has %d runes, want <= %d", len([]rune(body)), DefaultExcerptLength)
	}
	if strings.HasSuffix(body, " ") || strings.HasSuffix(body, "wor") {
		t.Errorf("excerpt %q should end on a whole word", got)
	}
}
