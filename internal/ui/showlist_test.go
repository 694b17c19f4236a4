package ui

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/muraschal/radiox-frontend/internal/show"
)

func TestTruncateRowRuneSafe(t *testing.T) {
	line := "♪ " + strings.Repeat("ü", 60) + "  01.01.2026 06:00"
	got := truncateRow(line, 40)

	if !utf8.ValidString(got) {
		t.Errorf("truncated row is not valid UTF-8: %q", got)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("long row not truncated: %q", got)
	}
	if n := len([]rune(got)); n != 38 {
		t.Errorf("truncated row has %d runes, want 38", n)
	}

	// Short rows and tiny widths pass through untouched.
	if got := truncateRow("kurz", 40); got != "kurz" {
		t.Errorf("short row changed: %q", got)
	}
	if got := truncateRow(line, 4); got != line {
		t.Errorf("tiny width changed row: %q", got)
	}
}

func TestCursorForID(t *testing.T) {
	shows := []show.Show{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	if got := cursorForID(shows, "b", 0); got != 1 {
		t.Errorf("cursor = %d, want 1", got)
	}

	// A new show prepended above must not move the cursor off its show.
	shows = append([]show.Show{{ID: "new"}}, shows...)
	if got := cursorForID(shows, "b", 1); got != 2 {
		t.Errorf("cursor after prepend = %d, want 2", got)
	}

	// Vanished id clamps the old index instead of jumping to the top.
	if got := cursorForID(shows[:2], "gone", 5); got != 1 {
		t.Errorf("clamped cursor = %d, want 1", got)
	}
	if got := cursorForID(nil, "", -1); got != 0 {
		t.Errorf("empty-list cursor = %d, want 0", got)
	}
}

func TestFormatClock(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{0, "0:00"},
		{59.9, "0:59"},
		{75, "1:15"},
		{600, "10:00"},
		{-3, "0:00"},
	}
	for _, c := range cases {
		if got := formatClock(c.seconds); got != c.want {
			t.Errorf("formatClock(%v) = %q, want %q", c.seconds, got, c.want)
		}
	}
}
