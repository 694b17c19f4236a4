package cache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/muraschal/radiox-frontend/internal/show"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "radiox.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testShow(id string, created time.Time) show.Show {
	return show.Show{
		ID:             id,
		Title:          "Show " + id,
		Channel:        "zurich",
		Language:       "de",
		BroadcastStyle: "Morning Energy",
		AudioURL:       "https://cdn.example.com/" + id + ".mp3",
		CreatedAt:      created,
		Segments: []show.Segment{
			{ID: id + "-seg", Title: "Intro", Duration: 30, Transcript: []show.TranscriptLine{
				{Speaker: "Marcel", Text: "Hallo", Timestamp: 0},
			}},
		},
	}
}

func TestSaveAndGetShows(t *testing.T) {
	s := testStore(t)
	now := time.Now()

	saved, err := s.SaveShows([]show.Show{
		testShow("a", now),
		testShow("b", now.Add(-time.Hour)),
	})
	if err != nil {
		t.Fatalf("SaveShows failed: %v", err)
	}
	if saved != 2 {
		t.Errorf("saved = %d, want 2", saved)
	}

	shows, err := s.GetShows(10, 0)
	if err != nil {
		t.Fatalf("GetShows failed: %v", err)
	}
	if len(shows) != 2 {
		t.Fatalf("got %d shows, want 2", len(shows))
	}
	if shows[0].ID != "a" {
		t.Errorf("shows not ordered newest first: %s", shows[0].ID)
	}
	if len(shows[0].Segments) != 1 || shows[0].Segments[0].Transcript[0].Speaker != "Marcel" {
		t.Error("segments did not round-trip")
	}
}

func TestSaveShowsUpsertIdempotent(t *testing.T) {
	s := testStore(t)
	sh := testShow("a", time.Now())

	if _, err := s.SaveShows([]show.Show{sh}); err != nil {
		t.Fatalf("first save failed: %v", err)
	}
	sh.Title = "Updated Title"
	if _, err := s.SaveShows([]show.Show{sh}); err != nil {
		t.Fatalf("second save failed: %v", err)
	}

	count, err := s.Count()
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1 after upsert", count)
	}

	got, err := s.GetShow("a")
	if err != nil {
		t.Fatalf("GetShow failed: %v", err)
	}
	if got.Title != "Updated Title" {
		t.Errorf("title = %q, want updated value", got.Title)
	}
}

func TestPlaceholderNeverPersisted(t *testing.T) {
	s := testStore(t)

	saved, err := s.SaveShows([]show.Show{show.NewPlaceholder(show.GenerateRequest{})})
	if err != nil {
		t.Fatalf("SaveShows failed: %v", err)
	}
	if saved != 0 {
		t.Errorf("saved = %d, want 0 for placeholder", saved)
	}
}

func TestGetShowMissing(t *testing.T) {
	s := testStore(t)
	got, err := s.GetShow("missing")
	if err != nil {
		t.Fatalf("GetShow failed: %v", err)
	}
	if got != nil {
		t.Errorf("GetShow(missing) = %+v, want nil", got)
	}
}

func TestGetShowsPagination(t *testing.T) {
	s := testStore(t)
	now := time.Now()
	for i, id := range []string{"a", "b", "c"} {
		if err := s.SaveShow(testShow(id, now.Add(-time.Duration(i)*time.Hour))); err != nil {
			t.Fatalf("SaveShow failed: %v", err)
		}
	}

	shows, err := s.GetShows(1, 1)
	if err != nil {
		t.Fatalf("GetShows failed: %v", err)
	}
	if len(shows) != 1 || shows[0].ID != "b" {
		t.Errorf("GetShows(1,1) = %v", shows)
	}
}

func TestPrune(t *testing.T) {
	s := testStore(t)
	now := time.Now()
	s.SaveShow(testShow("old", now.Add(-48*time.Hour)))
	s.SaveShow(testShow("new", now))

	removed, err := s.Prune(now.Add(-24 * time.Hour))
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}

	count, _ := s.Count()
	if count != 1 {
		t.Errorf("count after prune = %d, want 1", count)
	}
}
