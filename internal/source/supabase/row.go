package supabase

import (
	"time"

	"github.com/muraschal/radiox-frontend/internal/show"
)

// row is the shows table record. It differs from the canonical model
// only in its timestamp encoding and a couple of column names, so the
// mapping is mostly mechanical.
type row struct {
	ID                       string                 `json:"id"`
	SessionID                string                 `json:"session_id,omitempty"`
	Title                    string                 `json:"title"`
	ScriptPreview            string                 `json:"script_preview,omitempty"`
	ScriptContent            string                 `json:"script_content,omitempty"`
	BroadcastStyle           string                 `json:"broadcast_style,omitempty"`
	Channel                  string                 `json:"channel,omitempty"`
	Language                 string                 `json:"language,omitempty"`
	PresetName               string                 `json:"preset_name,omitempty"`
	AudioURL                 string                 `json:"audio_url,omitempty"`
	AudioDuration            float64                `json:"audio_duration,omitempty"`
	AudioFileSize            int64                  `json:"audio_file_size,omitempty"`
	EstimatedDurationMinutes int                    `json:"estimated_duration_minutes,omitempty"`
	NewsCount                int                    `json:"news_count,omitempty"`
	CreatedAt                string                 `json:"created_at,omitempty"`
	Timestamp                string                 `json:"timestamp,omitempty"`
	Segments                 []show.Segment         `json:"segments,omitempty"`
	Metadata                 map[string]interface{} `json:"metadata,omitempty"`
}

func normalizeRow(r row) show.Show {
	s := show.Show{
		ID:                       r.ID,
		SessionID:                r.SessionID,
		Title:                    r.Title,
		ScriptPreview:            r.ScriptPreview,
		ScriptContent:            r.ScriptContent,
		BroadcastStyle:           r.BroadcastStyle,
		Channel:                  r.Channel,
		Language:                 r.Language,
		PresetName:               r.PresetName,
		AudioURL:                 r.AudioURL,
		AudioDurationSeconds:     r.AudioDuration,
		AudioFileSizeBytes:       r.AudioFileSize,
		EstimatedDurationMinutes: r.EstimatedDurationMinutes,
		NewsCount:                r.NewsCount,
		Segments:                 r.Segments,
		Metadata:                 r.Metadata,
	}
	// broadcast_logs rows carry "timestamp" instead of "created_at".
	for _, raw := range []string{r.CreatedAt, r.Timestamp} {
		if raw == "" {
			continue
		}
		if t, err := parseTimestamp(raw); err == nil {
			s.CreatedAt = t
			break
		}
	}
	return s
}

func normalizeRows(rows []row) []show.Show {
	shows := make([]show.Show, 0, len(rows))
	for _, r := range rows {
		shows = append(shows, normalizeRow(r))
	}
	return shows
}

func toRow(s show.Show) row {
	return row{
		ID:                       s.ID,
		SessionID:                s.SessionID,
		Title:                    s.Title,
		ScriptPreview:            s.ScriptPreview,
		ScriptContent:            s.ScriptContent,
		BroadcastStyle:           s.BroadcastStyle,
		Channel:                  s.Channel,
		Language:                 s.Language,
		PresetName:               s.PresetName,
		AudioURL:                 s.AudioURL,
		AudioDuration:            s.AudioDurationSeconds,
		AudioFileSize:            s.AudioFileSizeBytes,
		EstimatedDurationMinutes: s.EstimatedDurationMinutes,
		NewsCount:                s.NewsCount,
		CreatedAt:                s.CreatedAt.UTC().Format(time.RFC3339),
		Segments:                 s.Segments,
		Metadata:                 s.Metadata,
	}
}

// parseTimestamp accepts the timestamp encodings Postgres actually
// emits, with and without timezone.
func parseTimestamp(raw string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05.999999",
		"2006-01-02T15:04:05",
	}
	var lastErr error
	for _, f := range formats {
		t, err := time.Parse(f, raw)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
