// Package show defines the canonical show model every data source is
// normalized into, plus pure helpers for formatting and client-side
// filtering. The package has no I/O - adapters map their raw response
// shapes into these types at the boundary, and everything above operates
// on them without knowing which source produced a record.
package show

import "time"

// PlaceholderID is the synthetic id of the optimistic record inserted at
// the head of the list while a generation request is in flight.
const PlaceholderID = "generating"

// TranscriptLine is one spoken utterance within a segment.
type TranscriptLine struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
	// Timestamp is seconds relative to the segment start, not the show.
	Timestamp float64 `json:"timestamp"`
}

// Segment is one chaptered portion of a show's timeline. Segments are
// ordered by broadcast order. An empty transcript means an audio-only
// segment (music, intro/outro).
type Segment struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Category string  `json:"category,omitempty"`
	Duration float64 `json:"duration"`
	// StartTime is the offset into the full-show audio. When nil the
	// segment is assumed to start where the previous one ended.
	StartTime  *float64         `json:"start_time,omitempty"`
	SourceURL  string           `json:"source_url,omitempty"`
	SourceName string           `json:"source_name,omitempty"`
	Transcript []TranscriptLine `json:"transcript,omitempty"`
}

// Show is a single generated broadcast.
type Show struct {
	ID        string `json:"id"`
	SessionID string `json:"session_id,omitempty"`

	Title          string `json:"title"`
	ScriptPreview  string `json:"script_preview,omitempty"`
	ScriptContent  string `json:"script_content,omitempty"`
	BroadcastStyle string `json:"broadcast_style"`
	Channel        string `json:"channel"`
	Language       string `json:"language"`
	PresetName     string `json:"preset_name,omitempty"`

	// AudioURL empty means the show is in progress or audio-less; it must
	// render as non-playable.
	AudioURL             string  `json:"audio_url,omitempty"`
	AudioDurationSeconds float64 `json:"audio_duration_seconds,omitempty"`
	AudioFileSizeBytes   int64   `json:"audio_file_size,omitempty"`

	EstimatedDurationMinutes int                    `json:"estimated_duration_minutes,omitempty"`
	NewsCount                int                    `json:"news_count,omitempty"`
	CreatedAt                time.Time              `json:"created_at"`
	Segments                 []Segment              `json:"segments,omitempty"`
	Metadata                 map[string]interface{} `json:"metadata,omitempty"`
}

// HasAudio reports whether the show is playable.
func (s *Show) HasAudio() bool {
	return s.AudioURL != ""
}

// IsPlaceholder reports whether this is the in-flight generation record.
func (s *Show) IsPlaceholder() bool {
	return s.ID == PlaceholderID
}

// SegmentStart resolves the absolute start time of the segment at idx.
// Explicit StartTime wins; otherwise prior segments are assumed
// back-to-back and their durations are summed.
func (s *Show) SegmentStart(idx int) float64 {
	if idx < 0 || idx >= len(s.Segments) {
		return 0
	}
	if st := s.Segments[idx].StartTime; st != nil {
		return *st
	}
	var sum float64
	for i := 0; i < idx; i++ {
		sum += s.Segments[i].Duration
	}
	return sum
}

// TotalDuration is the full show length in seconds: the known audio
// duration if present, otherwise derived from the segment timeline.
func (s *Show) TotalDuration() float64 {
	if s.AudioDurationSeconds > 0 {
		return s.AudioDurationSeconds
	}
	if len(s.Segments) == 0 {
		return 0
	}
	last := s.Segments[len(s.Segments)-1]
	if last.StartTime != nil {
		return *last.StartTime + last.Duration
	}
	var sum float64
	for _, seg := range s.Segments {
		sum += seg.Duration
	}
	return sum
}

// Preset is a named generation configuration bundle. Read-only from this
// client's perspective - presets are created and edited elsewhere.
type Preset struct {
	ID                    string    `json:"id"`
	PresetName            string    `json:"preset_name"`
	DisplayName           string    `json:"display_name"`
	Description           string    `json:"description,omitempty"`
	CityFocus             string    `json:"city_focus,omitempty"`
	PrimarySpeaker        string    `json:"primary_speaker"`
	SecondarySpeaker      string    `json:"secondary_speaker,omitempty"`
	WeatherSpeaker        string    `json:"weather_speaker,omitempty"`
	SelectionInstructions string    `json:"gpt_selection_instructions,omitempty"`
	RSSFeedFilter         string    `json:"rss_feed_filter,omitempty"`
	Active                bool      `json:"is_active"`
	CreatedAt             time.Time `json:"created_at,omitempty"`
}

// Voice binds a speaker name to a synthesis voice and its parameters.
// Read-only from this client's perspective.
type Voice struct {
	SpeakerName     string  `json:"speaker_name"`
	VoiceName       string  `json:"voice_name"`
	VoiceID         string  `json:"voice_id"`
	Language        string  `json:"language"`
	Model           string  `json:"model,omitempty"`
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	SpeakerBoost    bool    `json:"use_speaker_boost"`
	Primary         bool    `json:"is_primary"`
	Active          bool    `json:"is_active"`
}

// GenerateRequest is a user-triggered show generation request.
type GenerateRequest struct {
	Preset          string `json:"preset,omitempty"`
	Channel         string `json:"channel,omitempty"`
	Language        string `json:"language,omitempty"`
	NewsCount       int    `json:"news_count,omitempty"`
	DurationMinutes int    `json:"duration_minutes,omitempty"`
	PrimarySpeaker  string `json:"primary_speaker,omitempty"`
	IncludeMusic    bool   `json:"include_music,omitempty"`
}

// NewPlaceholder builds the optimistic record shown while req is being
// generated.
func NewPlaceholder(req GenerateRequest) Show {
	channel := req.Channel
	if channel == "" {
		channel = "zurich"
	}
	language := req.Language
	if language == "" {
		language = "de"
	}
	newsCount := req.NewsCount
	if newsCount == 0 {
		newsCount = 2
	}
	return Show{
		ID:             PlaceholderID,
		Title:          "KI generiert Show...",
		CreatedAt:      time.Now(),
		Channel:        channel,
		Language:       language,
		NewsCount:      newsCount,
		BroadcastStyle: "Generating",
		ScriptPreview:  "KI arbeitet an deiner personalisierten Radio Show...",
	}
}
