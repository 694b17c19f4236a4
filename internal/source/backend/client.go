// Package backend wraps the two generation services: the show backend
// that writes scripts and the audio service that synthesizes them. The
// orchestrator drives these two calls as one workflow.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/muraschal/radiox-frontend/internal/source"
)

// VoiceQuality selects the synthesis tier.
type VoiceQuality string

const (
	QualityLow   VoiceQuality = "low"
	QualityHigh  VoiceQuality = "high"
	QualityUltra VoiceQuality = "ultra"
)

// Client talks to the script and audio services.
type Client struct {
	backendURL string
	audioURL   string
	http       *http.Client
}

// NewClient creates a backend client. Generation runs remote LLM and TTS
// pipelines, so the timeout is generous.
func NewClient(backendURL, audioURL string) *Client {
	return &Client{
		backendURL: backendURL,
		audioURL:   audioURL,
		http:       &http.Client{Timeout: 5 * time.Minute},
	}
}

// ScriptRequest is the payload for the script-generation call.
type ScriptRequest struct {
	Preset          string `json:"preset"`
	DurationMinutes int    `json:"duration_minutes"`
	TargetHour      string `json:"target_hour,omitempty"`
}

// ScriptResult is the script service's answer.
type ScriptResult struct {
	SessionID                string                 `json:"session_id"`
	ScriptContent            string                 `json:"script_content"`
	BroadcastStyle           string                 `json:"broadcast_style"`
	EstimatedDurationMinutes int                    `json:"estimated_duration_minutes"`
	Metadata                 map[string]interface{} `json:"metadata,omitempty"`
}

// GenerateScript asks the show backend to write a script for req.
func (c *Client) GenerateScript(ctx context.Context, req ScriptRequest) (*ScriptResult, error) {
	if c.backendURL == "" {
		return nil, source.ErrNotConfigured
	}
	if req.Preset == "" {
		req.Preset = "zurich"
	}
	if req.DurationMinutes == 0 {
		req.DurationMinutes = 3
	}
	if req.TargetHour == "" {
		req.TargetHour = time.Now().Format("15:04")
	}

	var result ScriptResult
	if err := c.postJSON(ctx, c.backendURL+"/generate", "show backend", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// AudioRequest is the payload for the audio-synthesis call.
type AudioRequest struct {
	ScriptContent string       `json:"script_content"`
	SessionID     string       `json:"session_id"`
	VoiceQuality  VoiceQuality `json:"voice_quality"`
	ExportFormat  string       `json:"export_format"`
	IncludeMusic  bool         `json:"include_music"`
}

// AudioResult is the audio service's answer. AudioFile is a server-side
// path; Filename() extracts the addressable name.
type AudioResult struct {
	Success         bool    `json:"success"`
	AudioFile       string  `json:"audio_file"`
	SessionID       string  `json:"session_id"`
	DurationSeconds float64 `json:"duration_seconds"`
	FileSizeBytes   int64   `json:"file_size_bytes"`
	SegmentsCount   int     `json:"segments_count"`
}

// Filename returns the last path element of the generated audio file.
func (r *AudioResult) Filename() string {
	if r.AudioFile == "" {
		return ""
	}
	parts := strings.Split(r.AudioFile, "/")
	return parts[len(parts)-1]
}

// SynthesizeAudio sends a finished script to the audio service. The
// export format is always mp3.
func (c *Client) SynthesizeAudio(ctx context.Context, req AudioRequest) (*AudioResult, error) {
	if c.audioURL == "" {
		return nil, source.ErrNotConfigured
	}
	if req.ScriptContent == "" {
		return nil, fmt.Errorf("script content is required")
	}
	if req.VoiceQuality == "" {
		req.VoiceQuality = QualityHigh
	}
	req.ExportFormat = "mp3"

	var result AudioResult
	if err := c.postJSON(ctx, c.audioURL+"/script", "audio service", req, &result); err != nil {
		return nil, err
	}
	if !result.Success || result.AudioFile == "" {
		return nil, fmt.Errorf("audio synthesis did not produce a file")
	}
	return &result, nil
}

// AudioFileURL resolves a generated filename to its streaming URL on the
// audio service.
func (c *Client) AudioFileURL(filename string) string {
	if c.audioURL == "" || filename == "" {
		return ""
	}
	return c.audioURL + "/temp-files/" + filename
}

func (c *Client) postJSON(ctx context.Context, u, service string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", service, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", service, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call %s: %w", service, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &source.UpstreamError{Service: service, Status: resp.StatusCode}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", service, err)
	}
	return nil
}
