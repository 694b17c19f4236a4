package show

import (
	"testing"
	"time"
)

func f64(v float64) *float64 { return &v }

func TestSegmentStartExplicit(t *testing.T) {
	s := Show{Segments: []Segment{
		{Duration: 30},
		{Duration: 45},
		{Duration: 60, StartTime: f64(100)},
	}}
	if got := s.SegmentStart(2); got != 100 {
		t.Errorf("SegmentStart(2) = %v, want 100", got)
	}
}

func TestSegmentStartDerived(t *testing.T) {
	s := Show{Segments: []Segment{
		{Duration: 30},
		{Duration: 45},
		{Duration: 60},
	}}
	if got := s.SegmentStart(2); got != 75 {
		t.Errorf("SegmentStart(2) = %v, want 75", got)
	}
	if got := s.SegmentStart(0); got != 0 {
		t.Errorf("SegmentStart(0) = %v, want 0", got)
	}
	if got := s.SegmentStart(7); got != 0 {
		t.Errorf("SegmentStart out of range = %v, want 0", got)
	}
}

func TestTotalDuration(t *testing.T) {
	s := Show{AudioDurationSeconds: 180}
	if got := s.TotalDuration(); got != 180 {
		t.Errorf("TotalDuration = %v, want 180", got)
	}

	s = Show{Segments: []Segment{{Duration: 30}, {Duration: 45}}}
	if got := s.TotalDuration(); got != 75 {
		t.Errorf("derived TotalDuration = %v, want 75", got)
	}
}

func TestHasAudio(t *testing.T) {
	s := Show{}
	if s.HasAudio() {
		t.Error("show without audio_url reported playable")
	}
	s.AudioURL = "https://example.com/show.mp3"
	if !s.HasAudio() {
		t.Error("show with audio_url reported non-playable")
	}
}

func TestNewPlaceholderDefaults(t *testing.T) {
	p := NewPlaceholder(GenerateRequest{})
	if p.ID != PlaceholderID {
		t.Fatalf("placeholder id = %q, want %q", p.ID, PlaceholderID)
	}
	if !p.IsPlaceholder() {
		t.Error("IsPlaceholder() = false for placeholder")
	}
	if p.Channel != "zurich" || p.Language != "de" || p.NewsCount != 2 {
		t.Errorf("placeholder defaults = %q/%q/%d", p.Channel, p.Language, p.NewsCount)
	}
	if p.HasAudio() {
		t.Error("placeholder must not be playable")
	}
}

func TestFormat(t *testing.T) {
	created := time.Date(2025, 6, 14, 9, 30, 0, 0, time.Local)
	s := Show{
		Title:                    "Morning Show",
		CreatedAt:                created,
		EstimatedDurationMinutes: 75,
		AudioFileSizeBytes:       2 * 1024 * 1024,
		AudioURL:                 "https://example.com/a.mp3",
	}
	got := Format(s)
	if got.FormattedDate != "14.06.2025 09:30" {
		t.Errorf("FormattedDate = %q", got.FormattedDate)
	}
	if got.FormattedDuration != "1h 15min" {
		t.Errorf("FormattedDuration = %q", got.FormattedDuration)
	}
	if got.AudioFileSize == "" {
		t.Error("AudioFileSize empty for 2 MiB file")
	}
	if !got.HasAudio {
		t.Error("HasAudio = false")
	}
	// Format must not mutate its input.
	if s.Title != "Morning Show" || s.AudioFileSizeBytes != 2*1024*1024 {
		t.Error("Format mutated the input show")
	}
}

func TestFormatShortDuration(t *testing.T) {
	got := Format(Show{EstimatedDurationMinutes: 3})
	if got.FormattedDuration != "3 Min" {
		t.Errorf("FormattedDuration = %q, want \"3 Min\"", got.FormattedDuration)
	}
	if got.FormattedDate != "Unbekannt" {
		t.Errorf("FormattedDate for zero time = %q", got.FormattedDate)
	}
}

func TestDemoShowsNonEmpty(t *testing.T) {
	shows := DemoShows()
	if len(shows) == 0 {
		t.Fatal("demo fixtures are empty")
	}
	for _, s := range shows {
		if !s.HasAudio() {
			t.Errorf("demo show %s has no audio url", s.ID)
		}
	}
	if shows[0].CreatedAt.Before(shows[1].CreatedAt) {
		t.Error("demo shows not ordered newest first")
	}
}
