// Package generate drives the two-step show generation workflow:
// script writing on the show backend, then audio synthesis on the audio
// service. It owns the optimistic placeholder discipline and reconciles
// success or failure back into the repository. Failures never escape as
// errors; callers get a nil show and a user-facing message.
package generate

import (
	"context"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/muraschal/radiox-frontend/internal/logging"
	"github.com/muraschal/radiox-frontend/internal/repo"
	"github.com/muraschal/radiox-frontend/internal/show"
	"github.com/muraschal/radiox-frontend/internal/source/backend"
)

// State of the current generation request.
type State int

const (
	StateIdle State = iota
	StateRequesting
	StateSynthesizing
	StateSettled
)

// userErrorMessage is deliberately non-technical; the real cause goes to
// the log.
const userErrorMessage = "Show-Generierung fehlgeschlagen. Bitte versuche es später erneut."

// Backend is the generation service surface the orchestrator needs.
type Backend interface {
	GenerateScript(ctx context.Context, req backend.ScriptRequest) (*backend.ScriptResult, error)
	SynthesizeAudio(ctx context.Context, req backend.AudioRequest) (*backend.AudioResult, error)
	AudioFileURL(filename string) string
}

// Syncer receives the fire-and-forget write-through after a successful
// generation.
type Syncer interface {
	UpsertShow(ctx context.Context, s show.Show) error
}

// CacheSyncer is the local half of the write-through.
type CacheSyncer interface {
	SaveShow(s show.Show) error
}

// Orchestrator runs one generation at a time.
type Orchestrator struct {
	backend Backend
	repo    *repo.Repository
	store   Syncer      // may be nil
	cache   CacheSyncer // may be nil

	mu         sync.Mutex
	state      State
	generating bool
}

// New creates an orchestrator. store and cache may be nil.
func New(b Backend, r *repo.Repository, store Syncer, cache CacheSyncer) *Orchestrator {
	return &Orchestrator{backend: b, repo: r, store: store, cache: cache}
}

// IsGenerating reports whether a request is in flight.
func (o *Orchestrator) IsGenerating() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.generating
}

// State returns the current workflow state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Generate runs the full workflow for req. On success the real show has
// replaced the placeholder in the repository and is returned. On any
// failure the placeholder is removed and a user-facing message is
// returned instead; Generate never returns an error value.
//
// Overlapping triggers are rejected, not queued: while a request is in
// flight the call returns immediately with no show and no message.
func (o *Orchestrator) Generate(ctx context.Context, req show.GenerateRequest) (*show.Show, string) {
	o.mu.Lock()
	if o.generating {
		o.mu.Unlock()
		return nil, ""
	}
	o.generating = true
	o.state = StateRequesting
	o.mu.Unlock()

	defer func() {
		o.mu.Lock()
		o.generating = false
		o.state = StateSettled
		o.mu.Unlock()
	}()

	if !o.repo.InsertPlaceholder(req) {
		// A placeholder from an earlier run is still visible; treat it
		// like an in-flight request.
		return nil, ""
	}

	script, err := o.backend.GenerateScript(ctx, backend.ScriptRequest{
		Preset:          req.Preset,
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil || script.ScriptContent == "" {
		if err == nil {
			err = fmt.Errorf("backend returned an empty script")
		}
		return o.fail("script generation failed", err)
	}

	o.setState(StateSynthesizing)

	sessionID := script.SessionID
	if sessionID == "" {
		sessionID = "frontend_" + uuid.NewString()
	}

	quality := backend.QualityHigh
	if req.IncludeMusic {
		quality = backend.QualityUltra
	}
	audio, err := o.backend.SynthesizeAudio(ctx, backend.AudioRequest{
		ScriptContent: script.ScriptContent,
		SessionID:     sessionID,
		VoiceQuality:  quality,
		IncludeMusic:  req.IncludeMusic,
	})
	if err != nil {
		return o.fail("audio synthesis failed", err)
	}

	real := o.buildShow(req, sessionID, script, audio)
	o.repo.ResolvePlaceholder(real)
	o.repo.SelectShow(real.ID)
	o.syncInBackground(real)

	logging.Info("show generated",
		"id", real.ID,
		"duration_seconds", real.AudioDurationSeconds,
		"segments", audio.SegmentsCount)
	return &real, ""
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
}

// fail settles the workflow on the failure path: the placeholder is
// removed so no dangling "generating" entry remains, and only a
// non-technical message reaches the caller.
func (o *Orchestrator) fail(stage string, err error) (*show.Show, string) {
	logging.Error(stage, "error", err)
	o.repo.RemovePlaceholder()
	return nil, userErrorMessage
}

func (o *Orchestrator) buildShow(req show.GenerateRequest, sessionID string, script *backend.ScriptResult, audio *backend.AudioResult) show.Show {
	channel := req.Channel
	if channel == "" {
		channel = "zurich"
	}
	language := req.Language
	if language == "" {
		language = "de"
	}

	preview := script.ScriptContent
	if len(preview) > 200 {
		cut := 200
		// Back up to a rune boundary so umlauts never get split.
		for cut > 0 && !utf8.RuneStart(preview[cut]) {
			cut--
		}
		preview = preview[:cut] + "..."
	}

	title := script.BroadcastStyle
	if title == "" {
		title = "Radio Show"
	}
	title = title + " - " + titleCase(channel)

	return show.Show{
		ID:                       sessionID,
		SessionID:                sessionID,
		Title:                    title,
		ScriptPreview:            preview,
		ScriptContent:            script.ScriptContent,
		BroadcastStyle:           script.BroadcastStyle,
		Channel:                  channel,
		Language:                 language,
		PresetName:               req.Preset,
		NewsCount:                req.NewsCount,
		CreatedAt:                time.Now(),
		AudioURL:                 o.backend.AudioFileURL(audio.Filename()),
		AudioDurationSeconds:     audio.DurationSeconds,
		AudioFileSizeBytes:       audio.FileSizeBytes,
		EstimatedDurationMinutes: script.EstimatedDurationMinutes,
		Metadata:                 script.Metadata,
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	if r[0] >= 'a' && r[0] <= 'z' {
		r[0] = r[0] - 'a' + 'A'
	}
	return string(r)
}

// syncInBackground writes the finished show through to the datastore and
// the local cache. Both are fire-and-forget: failures are logged, never
// surfaced to the user.
func (o *Orchestrator) syncInBackground(s show.Show) {
	if o.store != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if err := o.store.UpsertShow(ctx, s); err != nil {
				logging.Warn("datastore sync failed", "id", s.ID, "error", err)
			}
		}()
	}
	if o.cache != nil {
		go func() {
			if err := o.cache.SaveShow(s); err != nil {
				logging.Warn("cache sync failed", "id", s.ID, "error", err)
			}
		}()
	}
}
