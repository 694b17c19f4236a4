// Package api is the typed client for the public RadioX show API. It is
// the primary source in the repository's fallback chain. Responses are
// normalized into the canonical show model at this boundary; callers
// never see the wire shapes.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/muraschal/radiox-frontend/internal/show"
	"github.com/muraschal/radiox-frontend/internal/source"
)

const userAgent = "RadioX-Terminal/1.0"

// Client talks to the public show API.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates an API client for baseURL. An empty baseURL yields a
// client whose calls fail with ErrNotConfigured.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
		// The public API is shared infrastructure; stay polite even when
		// the UI refreshes aggressively.
		limiter: rate.NewLimiter(rate.Every(200*time.Millisecond), 5),
	}
}

// listResponse is the wire shape of GET /api/v1/shows.
type listResponse struct {
	Shows   []wireShow `json:"shows"`
	Total   int        `json:"total"`
	Limit   int        `json:"limit"`
	Offset  int        `json:"offset"`
	HasMore bool       `json:"has_more"`
}

// wireShow is the API's show record. Fields the API does not carry stay
// zero after normalization.
type wireShow struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	CreatedAt      string  `json:"created_at"`
	Channel        string  `json:"channel"`
	Language       string  `json:"language"`
	NewsCount      int     `json:"news_count"`
	BroadcastStyle string  `json:"broadcast_style"`
	ScriptPreview  string  `json:"script_preview"`
	ScriptContent  string  `json:"script_content,omitempty"`
	PresetName     string  `json:"preset_name,omitempty"`
	AudioURL       string  `json:"audio_url,omitempty"`
	AudioDuration  float64 `json:"audio_duration,omitempty"`
	AudioFileSize  int64   `json:"audio_file_size,omitempty"`
	EstimatedMins  int     `json:"estimated_duration_minutes,omitempty"`

	Segments []wireSegment          `json:"segments,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

type wireSegment struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Category   string     `json:"category,omitempty"`
	Duration   float64    `json:"duration"`
	StartTime  *float64   `json:"start_time,omitempty"`
	SourceURL  string     `json:"source_url,omitempty"`
	SourceName string     `json:"source_name,omitempty"`
	Transcript []wireLine `json:"transcript,omitempty"`
}

type wireLine struct {
	Speaker   string  `json:"speaker"`
	Text      string  `json:"text"`
	Timestamp float64 `json:"timestamp"`
}

// ListShows fetches shows ordered newest first. An empty result with a
// 2xx status is a valid answer, not a failure.
func (c *Client) ListShows(ctx context.Context, limit, offset int) ([]show.Show, error) {
	if c.baseURL == "" {
		return nil, source.ErrNotConfigured
	}
	u := fmt.Sprintf("%s/api/v1/shows?limit=%d&offset=%d", c.baseURL, limit, offset)

	var resp listResponse
	if err := c.getJSON(ctx, u, &resp); err != nil {
		return nil, err
	}

	shows := make([]show.Show, 0, len(resp.Shows))
	for _, w := range resp.Shows {
		shows = append(shows, normalize(w))
	}
	return shows, nil
}

// GetShow fetches one show with full details. A 404 maps to ErrNotFound.
func (c *Client) GetShow(ctx context.Context, id string) (*show.Show, error) {
	if c.baseURL == "" {
		return nil, source.ErrNotConfigured
	}
	u := fmt.Sprintf("%s/api/v1/shows/%s", c.baseURL, url.PathEscape(id))

	var w wireShow
	if err := c.getJSON(ctx, u, &w); err != nil {
		return nil, err
	}
	s := normalize(w)
	return &s, nil
}

// GenerateShow submits a generation request through the public API.
func (c *Client) GenerateShow(ctx context.Context, req show.GenerateRequest) (*show.Show, error) {
	if c.baseURL == "" {
		return nil, source.ErrNotConfigured
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode generate request: %w", err)
	}
	u := c.baseURL + "/api/v1/shows/generate"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build generate request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call show api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &source.UpstreamError{Service: "show api", Status: resp.StatusCode}
	}

	var w wireShow
	if err := json.NewDecoder(resp.Body).Decode(&w); err != nil {
		return nil, fmt.Errorf("failed to decode generate response: %w", err)
	}
	s := normalize(w)
	return &s, nil
}

func (c *Client) getJSON(ctx context.Context, u string, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call show api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return source.ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &source.UpstreamError{Service: "show api", Status: resp.StatusCode}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode show api response: %w", err)
	}
	return nil
}

// normalize maps the API wire shape into the canonical model.
func normalize(w wireShow) show.Show {
	s := show.Show{
		ID:                       w.ID,
		Title:                    w.Title,
		Channel:                  w.Channel,
		Language:                 w.Language,
		NewsCount:                w.NewsCount,
		BroadcastStyle:           w.BroadcastStyle,
		ScriptPreview:            w.ScriptPreview,
		ScriptContent:            w.ScriptContent,
		PresetName:               w.PresetName,
		AudioURL:                 w.AudioURL,
		AudioDurationSeconds:     w.AudioDuration,
		AudioFileSizeBytes:       w.AudioFileSize,
		EstimatedDurationMinutes: w.EstimatedMins,
		Metadata:                 w.Metadata,
	}
	if t, err := time.Parse(time.RFC3339, w.CreatedAt); err == nil {
		s.CreatedAt = t
	}
	for _, seg := range w.Segments {
		ns := show.Segment{
			ID:         seg.ID,
			Title:      seg.Title,
			Category:   seg.Category,
			Duration:   seg.Duration,
			StartTime:  seg.StartTime,
			SourceURL:  seg.SourceURL,
			SourceName: seg.SourceName,
		}
		for _, l := range seg.Transcript {
			ns.Transcript = append(ns.Transcript, show.TranscriptLine{
				Speaker:   l.Speaker,
				Text:      l.Text,
				Timestamp: l.Timestamp,
			})
		}
		s.Segments = append(s.Segments, ns)
	}
	return s
}
