package ui

import (
	"fmt"
	"strings"

	"github.com/muraschal/radiox-frontend/internal/player"
	"github.com/muraschal/radiox-frontend/internal/show"
)

// renderPlayerBar draws the bottom bar: play state, title, progress,
// times, volume, connectivity.
func renderPlayerBar(p *player.Player, current *show.Show, online bool, status string, width int) string {
	var b strings.Builder

	icon := "▶"
	if p.IsPlaying() {
		icon = "⏸"
	}

	title := "Keine Show geladen"
	if current != nil {
		title = current.Title
	}

	displayed := p.DisplayedTime()
	duration := p.Duration()
	if duration == 0 && current != nil {
		duration = current.TotalDuration()
	}

	line := fmt.Sprintf(" %s  %s  %s / %s",
		icon, title, formatClock(displayed), formatClock(duration))
	b.WriteString(line)
	b.WriteString("\n")

	barWidth := width - 4
	if barWidth < 10 {
		barWidth = 10
	}
	b.WriteString(" " + renderProgress(displayed, duration, barWidth))
	b.WriteString("\n")

	vol := fmt.Sprintf("vol %d%%", int(p.Volume()*100))
	if p.Muted() {
		vol = "muted"
	}
	conn := onlineStyle.Render("● online")
	if !online {
		conn = offlineStyle.Render("● " + status)
	}
	b.WriteString(dimStyle.Render(" "+vol+"  ") + conn)

	return playerBarStyle.Width(width).Render(b.String())
}

// renderProgress draws a simple filled bar for the playhead.
func renderProgress(position, duration float64, width int) string {
	if duration <= 0 {
		return dimStyle.Render(strings.Repeat("─", width))
	}
	frac := position / duration
	if frac > 1 {
		frac = 1
	}
	if frac < 0 {
		frac = 0
	}
	filled := int(frac * float64(width))
	if filled > width {
		filled = width
	}
	return spokenWordStyle.Render(strings.Repeat("━", filled)) +
		dimStyle.Render(strings.Repeat("─", width-filled))
}

// formatClock renders seconds as m:ss.
func formatClock(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
