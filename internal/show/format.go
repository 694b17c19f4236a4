package show

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// FormattedShow is a Show plus display-only derived fields. Building one
// never mutates the source record.
type FormattedShow struct {
	Show

	FormattedDate     string
	FormattedDuration string
	AudioFileSize     string
	ReleasedAgo       string
	HasAudio          bool
}

// Format derives the display fields for a show.
func Format(s Show) FormattedShow {
	return FormattedShow{
		Show:              s,
		FormattedDate:     formatDate(s.CreatedAt),
		FormattedDuration: formatDuration(s.EstimatedDurationMinutes),
		AudioFileSize:     formatFileSize(s.AudioFileSizeBytes),
		ReleasedAgo:       formatReleasedAgo(s.CreatedAt),
		HasAudio:          s.AudioURL != "",
	}
}

// formatDate renders the creation timestamp the way the product always
// has: dd.mm.yyyy hh:mm.
func formatDate(t time.Time) string {
	if t.IsZero() {
		return "Unbekannt"
	}
	return t.Format("02.01.2006 15:04")
}

func formatDuration(minutes int) string {
	if minutes <= 0 {
		return ""
	}
	if minutes < 60 {
		return fmt.Sprintf("%d Min", minutes)
	}
	return fmt.Sprintf("%dh %dmin", minutes/60, minutes%60)
}

func formatFileSize(bytes int64) string {
	if bytes <= 0 {
		return ""
	}
	return humanize.Bytes(uint64(bytes))
}

func formatReleasedAgo(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.Time(t)
}
