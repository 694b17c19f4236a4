package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muraschal/radiox-frontend/internal/source"
)

func TestGenerateScriptDefaults(t *testing.T) {
	var got ScriptRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"session_id": "sess-1", "script_content": "MARCEL: Hallo Zürich", "broadcast_style": "Morning Energy"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	res, err := c.GenerateScript(context.Background(), ScriptRequest{})
	require.NoError(t, err)

	assert.Equal(t, "zurich", got.Preset)
	assert.Equal(t, 3, got.DurationMinutes)
	assert.NotEmpty(t, got.TargetHour)
	assert.Equal(t, "sess-1", res.SessionID)
	assert.Equal(t, "MARCEL: Hallo Zürich", res.ScriptContent)
}

func TestGenerateScriptNotConfigured(t *testing.T) {
	_, err := NewClient("", "").GenerateScript(context.Background(), ScriptRequest{})
	assert.ErrorIs(t, err, source.ErrNotConfigured)
}

func TestSynthesizeAudio(t *testing.T) {
	var got AudioRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/script", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"success": true, "audio_file": "/tmp/audio/radiox_sess-1.mp3",
			"session_id": "sess-1", "duration_seconds": 187.4, "file_size_bytes": 2900000, "segments_count": 5}`))
	}))
	defer srv.Close()

	c := NewClient("", srv.URL)
	res, err := c.SynthesizeAudio(context.Background(), AudioRequest{
		ScriptContent: "MARCEL: Hallo",
		SessionID:     "sess-1",
		VoiceQuality:  QualityUltra,
		IncludeMusic:  true,
	})
	require.NoError(t, err)

	assert.Equal(t, "mp3", got.ExportFormat)
	assert.Equal(t, QualityUltra, got.VoiceQuality)
	assert.True(t, got.IncludeMusic)
	assert.Equal(t, "radiox_sess-1.mp3", res.Filename())
	assert.Equal(t, 187.4, res.DurationSeconds)
}

func TestSynthesizeAudioRequiresScript(t *testing.T) {
	_, err := NewClient("", "http://localhost:8003").SynthesizeAudio(context.Background(), AudioRequest{})
	assert.Error(t, err)
}

func TestSynthesizeAudioUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewClient("", srv.URL).SynthesizeAudio(context.Background(), AudioRequest{ScriptContent: "x"})
	ue, ok := source.IsUpstream(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, ue.Status)
}

func TestSynthesizeAudioFailureFlag(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": false}`))
	}))
	defer srv.Close()

	_, err := NewClient("", srv.URL).SynthesizeAudio(context.Background(), AudioRequest{ScriptContent: "x"})
	assert.Error(t, err)
}

func TestAudioFileURL(t *testing.T) {
	c := NewClient("", "http://localhost:8003")
	assert.Equal(t, "http://localhost:8003/temp-files/a.mp3", c.AudioFileURL("a.mp3"))
	assert.Equal(t, "", c.AudioFileURL(""))
}
