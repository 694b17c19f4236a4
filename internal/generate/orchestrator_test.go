package generate

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muraschal/radiox-frontend/internal/repo"
	"github.com/muraschal/radiox-frontend/internal/show"
	"github.com/muraschal/radiox-frontend/internal/source"
	"github.com/muraschal/radiox-frontend/internal/source/backend"
)

type fakeBackend struct {
	scriptErr error
	audioErr  error
	script    backend.ScriptResult
	audio     backend.AudioResult
}

func (f *fakeBackend) GenerateScript(ctx context.Context, req backend.ScriptRequest) (*backend.ScriptResult, error) {
	if f.scriptErr != nil {
		return nil, f.scriptErr
	}
	s := f.script
	return &s, nil
}

func (f *fakeBackend) SynthesizeAudio(ctx context.Context, req backend.AudioRequest) (*backend.AudioResult, error) {
	if f.audioErr != nil {
		return nil, f.audioErr
	}
	a := f.audio
	return &a, nil
}

func (f *fakeBackend) AudioFileURL(filename string) string {
	if filename == "" {
		return ""
	}
	return "http://localhost:8003/temp-files/" + filename
}

type recordingSyncer struct {
	mu    sync.Mutex
	shows []show.Show
}

func (r *recordingSyncer) UpsertShow(ctx context.Context, s show.Show) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shows = append(r.shows, s)
	return nil
}

func (r *recordingSyncer) SaveShow(s show.Show) error {
	return r.UpsertShow(context.Background(), s)
}

func (r *recordingSyncer) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.shows)
}

func healthyBackend() *fakeBackend {
	return &fakeBackend{
		script: backend.ScriptResult{
			SessionID:                "sess-1",
			ScriptContent:            "MARCEL: Guten Morgen Zürich!",
			BroadcastStyle:           "Morning Energy",
			EstimatedDurationMinutes: 3,
		},
		audio: backend.AudioResult{
			Success:         true,
			AudioFile:       "/tmp/audio/radiox_sess-1.mp3",
			SessionID:       "sess-1",
			DurationSeconds: 182,
			FileSizeBytes:   2_900_000,
			SegmentsCount:   5,
		},
	}
}

func newRepo() *repo.Repository {
	return repo.New(nil, nil, nil)
}

func TestGenerateSuccess(t *testing.T) {
	r := newRepo()
	syncer := &recordingSyncer{}
	o := New(healthyBackend(), r, syncer, syncer)

	got, msg := o.Generate(context.Background(), show.GenerateRequest{Preset: "zurich"})
	require.NotNil(t, got)
	assert.Empty(t, msg)
	assert.Equal(t, "sess-1", got.ID)
	assert.Equal(t, "Morning Energy - Zurich", got.Title)
	assert.Equal(t, "http://localhost:8003/temp-files/radiox_sess-1.mp3", got.AudioURL)
	assert.Equal(t, 182.0, got.AudioDurationSeconds)

	// Placeholder replaced, not appended.
	shows := r.Shows()
	require.Len(t, shows, 1)
	assert.Equal(t, "sess-1", shows[0].ID)
	assert.False(t, r.HasPlaceholder())
	assert.False(t, o.IsGenerating())

	// Fire-and-forget sync reaches both targets.
	deadline := time.Now().Add(time.Second)
	for syncer.count() < 2 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	assert.Equal(t, 2, syncer.count())
}

func TestGeneratePreviewTruncatesOnRuneBoundary(t *testing.T) {
	b := healthyBackend()
	// 199 ASCII bytes followed by umlauts puts a two-byte rune across
	// the truncation point.
	b.script.ScriptContent = strings.Repeat("a", 199) + strings.Repeat("ü", 20)
	r := newRepo()
	o := New(b, r, nil, nil)

	got, msg := o.Generate(context.Background(), show.GenerateRequest{Preset: "zurich"})
	require.NotNil(t, got)
	assert.Empty(t, msg)
	assert.True(t, utf8.ValidString(got.ScriptPreview), "preview must stay valid UTF-8")
	assert.True(t, strings.HasSuffix(got.ScriptPreview, "..."))
	assert.LessOrEqual(t, len(got.ScriptPreview), 203)
}

func TestGenerateAudioFailure(t *testing.T) {
	// Script succeeds, audio returns 500: no placeholder survives and
	// the user gets a non-technical message.
	b := healthyBackend()
	b.audioErr = &source.UpstreamError{Service: "audio service", Status: 500}
	r := newRepo()
	o := New(b, r, nil, nil)

	got, msg := o.Generate(context.Background(), show.GenerateRequest{Preset: "zurich"})
	assert.Nil(t, got)
	require.NotEmpty(t, msg)
	assert.NotContains(t, msg, "500")
	assert.NotContains(t, msg, "HTTP")
	assert.False(t, r.HasPlaceholder())
	assert.Empty(t, r.Shows())
	assert.False(t, o.IsGenerating())
}

func TestGenerateScriptFailure(t *testing.T) {
	b := healthyBackend()
	b.scriptErr = errors.New("connection refused")
	r := newRepo()
	o := New(b, r, nil, nil)

	got, msg := o.Generate(context.Background(), show.GenerateRequest{})
	assert.Nil(t, got)
	assert.NotEmpty(t, msg)
	assert.False(t, r.HasPlaceholder())
}

func TestGenerateEmptyScriptFails(t *testing.T) {
	b := healthyBackend()
	b.script.ScriptContent = ""
	r := newRepo()
	o := New(b, r, nil, nil)

	got, msg := o.Generate(context.Background(), show.GenerateRequest{})
	assert.Nil(t, got)
	assert.NotEmpty(t, msg)
	assert.False(t, r.HasPlaceholder())
}

func TestGenerateSessionIDFallback(t *testing.T) {
	b := healthyBackend()
	b.script.SessionID = ""
	r := newRepo()
	o := New(b, r, nil, nil)

	got, msg := o.Generate(context.Background(), show.GenerateRequest{})
	require.NotNil(t, got, msg)
	assert.Contains(t, got.ID, "frontend_")
}

func TestGenerateRejectsOverlap(t *testing.T) {
	r := newRepo()
	// A lingering placeholder means a request is effectively in flight.
	require.True(t, r.InsertPlaceholder(show.GenerateRequest{}))

	o := New(healthyBackend(), r, nil, nil)
	got, msg := o.Generate(context.Background(), show.GenerateRequest{})
	assert.Nil(t, got)
	assert.Empty(t, msg)

	// The existing placeholder is untouched.
	assert.True(t, r.HasPlaceholder())
	require.Len(t, r.Shows(), 1)
}
