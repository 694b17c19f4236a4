package ui

import (
	"fmt"
	"strings"

	"github.com/muraschal/radiox-frontend/internal/player"
	"github.com/muraschal/radiox-frontend/internal/show"
)

// renderTeleprompter draws the transcript of the current segment with
// karaoke-style word highlighting: the previous and next lines for
// context, the active line split into spoken and unspoken words.
func renderTeleprompter(p *player.Player, s *show.Show, width int) string {
	if s == nil || len(s.Segments) == 0 {
		return dimStyle.Render("Kein Transkript verfügbar.")
	}

	segIdx := p.CurrentSegmentIndex()
	if segIdx < 0 {
		segIdx = 0
	}
	seg := s.Segments[segIdx]

	var b strings.Builder
	header := fmt.Sprintf("Segment %d/%d - %s", segIdx+1, len(s.Segments), seg.Title)
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	if len(seg.Transcript) == 0 {
		b.WriteString(dimStyle.Render("(nur Audio)"))
		return b.String()
	}

	active := p.ActiveLine(segIdx)

	if active > 0 {
		b.WriteString(renderContextLine(seg.Transcript[active-1], width))
		b.WriteString("\n")
	}

	b.WriteString(renderActiveLine(seg.Transcript[active], p.WordProgress(segIdx, active), width))
	b.WriteString("\n")

	if active+1 < len(seg.Transcript) {
		b.WriteString(renderContextLine(seg.Transcript[active+1], width))
		b.WriteString("\n")
	}

	return b.String()
}

func renderContextLine(line show.TranscriptLine, width int) string {
	text := fmt.Sprintf("%s: %s", line.Speaker, line.Text)
	return contextLineStyle.Width(width).Render(text)
}

// renderActiveLine highlights the words already spoken.
func renderActiveLine(line show.TranscriptLine, fraction float64, width int) string {
	words := strings.Fields(line.Text)
	spoken := player.SpokenWordCount(len(words), fraction)

	var parts []string
	for i, w := range words {
		if i < spoken {
			parts = append(parts, spokenWordStyle.Render(w))
		} else {
			parts = append(parts, unspokenWordStyle.Render(w))
		}
	}

	prefix := speakerStyle.Render(line.Speaker + ": ")
	return prefix + strings.Join(parts, " ")
}
