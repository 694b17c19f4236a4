package supabase

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muraschal/radiox-frontend/internal/show"
	"github.com/muraschal/radiox-frontend/internal/source"
)

func TestListShowsQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/shows", r.URL.Path)
		assert.Equal(t, "created_at.desc", r.URL.Query().Get("order"))
		assert.Equal(t, "20", r.URL.Query().Get("limit"))
		assert.Equal(t, "test-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Write([]byte(`[
			{"id": "s1", "title": "Morning", "created_at": "2025-06-14T09:30:00Z",
			 "audio_url": "https://cdn.example.com/s1.mp3", "audio_duration": 180}
		]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key")
	shows, err := c.ListShows(context.Background(), 20, 0)
	require.NoError(t, err)
	require.Len(t, shows, 1)
	assert.Equal(t, "s1", shows[0].ID)
	assert.Equal(t, 180.0, shows[0].AudioDurationSeconds)
}

func TestSearchShowsPushdown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "eq.zurich", q.Get("channel"))
		assert.Equal(t, "not.is.null", q.Get("audio_url"))
		assert.Equal(t, "title.asc", q.Get("order"))
		assert.Contains(t, q.Get("or"), "title.ilike.*morgen*")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	hasAudio := true
	c := NewClient(srv.URL, "test-key")
	_, err := c.SearchShows(context.Background(), show.SearchParams{
		Filters:   show.Filters{Channel: "zurich", HasAudio: &hasAudio},
		Query:     "morgen",
		SortBy:    show.SortByTitle,
		SortOrder: "asc",
	})
	require.NoError(t, err)
}

func TestGetShowNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "k").GetShow(context.Background(), "missing")
	assert.ErrorIs(t, err, source.ErrNotFound)
}

func TestNotConfigured(t *testing.T) {
	c := NewClient("", "")
	_, err := c.ListShows(context.Background(), 10, 0)
	assert.ErrorIs(t, err, source.ErrNotConfigured)

	err = c.UpsertShow(context.Background(), show.Show{ID: "x"})
	assert.ErrorIs(t, err, source.ErrNotConfigured)
}

func TestFetchPresetDataDegradesToMocks(t *testing.T) {
	presets, voices, err := NewClient("", "").FetchPresetData(context.Background())
	require.NoError(t, err)
	assert.Empty(t, voices)
	require.NotEmpty(t, presets)
	assert.Equal(t, "zurich", presets[0].PresetName)
}

func TestFetchPresetDataParallel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/rest/v1/show_presets":
			assert.Equal(t, "eq.true", r.URL.Query().Get("is_active"))
			w.Write([]byte(`[{"id": "p1", "preset_name": "zurich", "display_name": "Zürich", "is_active": true}]`))
		case "/rest/v1/voice_configurations":
			assert.Equal(t, "speaker_name.asc", r.URL.Query().Get("order"))
			w.Write([]byte(`[{"speaker_name": "marcel", "voice_name": "Marcel", "voice_id": "v1", "language": "de", "is_active": true}]`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	presets, voices, err := NewClient(srv.URL, "k").FetchPresetData(context.Background())
	require.NoError(t, err)
	require.Len(t, presets, 1)
	require.Len(t, voices, 1)
	assert.Equal(t, "marcel", voices[0].SpeakerName)
}

func TestUpsertShow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/rest/v1/shows", r.URL.Path)
		assert.Equal(t, "resolution=merge-duplicates", r.Header.Get("Prefer"))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	err := NewClient(srv.URL, "k").UpsertShow(context.Background(), show.Show{
		ID:        "s1",
		Title:     "Morning",
		CreatedAt: time.Now(),
	})
	require.NoError(t, err)
}

func TestParseTimestampVariants(t *testing.T) {
	for _, raw := range []string{
		"2025-06-14T09:30:00Z",
		"2025-06-14T09:30:00.123456Z",
		"2025-06-14T09:30:00.123456",
		"2025-06-14T09:30:00",
	} {
		ts, err := parseTimestamp(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, 2025, ts.Year(), raw)
	}
}
