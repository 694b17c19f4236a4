package ui

import (
	"fmt"
	"strings"

	"github.com/muraschal/radiox-frontend/internal/show"
)

// renderShowList draws the show collection with the cursor row
// highlighted. The placeholder row gets its own animation-friendly
// style.
func renderShowList(shows []show.Show, cursor, width int) string {
	if len(shows) == 0 {
		return dimStyle.Render("Keine Shows geladen.")
	}

	var b strings.Builder
	for i, s := range shows {
		line := truncateRow(formatListRow(s), width)
		switch {
		case s.IsPlaceholder():
			b.WriteString(generatingStyle.Render("⟳ " + line))
		case i == cursor:
			b.WriteString(selectedStyle.Render("> " + line))
		default:
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func formatListRow(s show.Show) string {
	f := show.Format(s)
	audio := " "
	if f.HasAudio {
		audio = "♪"
	}
	row := fmt.Sprintf("%s %s  %s", audio, s.Title, f.FormattedDate)
	if f.FormattedDuration != "" {
		row += "  " + f.FormattedDuration
	}
	return row
}

// truncateRow shortens a row to the terminal width on rune boundaries
// so umlauts in titles never get split into invalid bytes.
func truncateRow(line string, width int) string {
	if width <= 5 {
		return line
	}
	r := []rune(line)
	if len(r) <= width-2 {
		return line
	}
	return string(r[:width-5]) + "..."
}

// cursorForID keeps the cursor on the same show across refreshes. When
// the id vanished, the old index is clamped instead of jumping to the
// top.
func cursorForID(shows []show.Show, id string, previous int) int {
	if id != "" {
		for i := range shows {
			if shows[i].ID == id {
				return i
			}
		}
	}
	if previous >= len(shows) {
		return len(shows) - 1
	}
	if previous < 0 {
		return 0
	}
	return previous
}
