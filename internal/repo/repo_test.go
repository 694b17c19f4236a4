package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muraschal/radiox-frontend/internal/show"
	"github.com/muraschal/radiox-frontend/internal/source"
)

type fakeAPI struct {
	shows []show.Show
	err   error
	calls int
}

func (f *fakeAPI) ListShows(ctx context.Context, limit, offset int) ([]show.Show, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if limit > 0 && limit < len(f.shows) {
		return f.shows[:limit], nil
	}
	return f.shows, nil
}

func (f *fakeAPI) GetShow(ctx context.Context, id string) (*show.Show, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.shows {
		if f.shows[i].ID == id {
			return &f.shows[i], nil
		}
	}
	return nil, source.ErrNotFound
}

type fakeStore struct {
	shows []show.Show
	err   error
}

func (f *fakeStore) ListShows(ctx context.Context, limit, offset int) ([]show.Show, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.shows, nil
}

func (f *fakeStore) SearchShows(ctx context.Context, params show.SearchParams) ([]show.Show, error) {
	if f.err != nil {
		return nil, f.err
	}
	return show.Search(f.shows, params), nil
}

func (f *fakeStore) GetShow(ctx context.Context, id string) (*show.Show, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.shows {
		if f.shows[i].ID == id {
			return &f.shows[i], nil
		}
	}
	return nil, source.ErrNotFound
}

type fakeCache struct {
	shows []show.Show
	saved [][]show.Show
	err   error
}

func (f *fakeCache) GetShows(limit, offset int) ([]show.Show, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.shows, nil
}

func (f *fakeCache) GetShow(id string) (*show.Show, error) {
	for i := range f.shows {
		if f.shows[i].ID == id {
			return &f.shows[i], nil
		}
	}
	return nil, nil
}

func (f *fakeCache) SaveShows(shows []show.Show) (int, error) {
	f.saved = append(f.saved, shows)
	return len(shows), nil
}

func mkShow(id string, age time.Duration) show.Show {
	return show.Show{
		ID:        id,
		Title:     "Show " + id,
		Channel:   "zurich",
		CreatedAt: time.Now().Add(-age),
		AudioURL:  "https://cdn.example.com/" + id + ".mp3",
	}
}

var errDown = errors.New("connection refused")

func TestFetchShowsHealthyPrimary(t *testing.T) {
	api := &fakeAPI{shows: []show.Show{mkShow("a", 0), mkShow("b", time.Hour)}}
	r := New(api, nil, nil)

	res := r.FetchShows(context.Background(), 10, 0)
	require.Len(t, res.Shows, 2)
	assert.True(t, res.IsOnline)
	// The source order (newest first) is preserved.
	assert.True(t, res.Shows[0].CreatedAt.After(res.Shows[1].CreatedAt))
}

func TestFetchShowsEmptyPrimaryIsSuccess(t *testing.T) {
	api := &fakeAPI{shows: []show.Show{}}
	store := &fakeStore{shows: []show.Show{mkShow("x", 0)}}
	r := New(api, store, nil)

	res := r.FetchShows(context.Background(), 10, 0)
	assert.True(t, res.IsOnline)
	assert.Empty(t, res.Shows, "HTTP success with empty body must not fall through")
}

func TestFetchShowsFallsBackToDatastore(t *testing.T) {
	api := &fakeAPI{err: errDown}
	store := &fakeStore{shows: []show.Show{mkShow("x", 0)}}
	r := New(api, store, nil)

	res := r.FetchShows(context.Background(), 10, 0)
	assert.True(t, res.IsOnline)
	assert.Equal(t, StatusDatastore, res.Status)
	require.Len(t, res.Shows, 1)
	assert.Equal(t, "x", res.Shows[0].ID)
}

func TestFetchShowsFallsBackToCache(t *testing.T) {
	api := &fakeAPI{err: errDown}
	store := &fakeStore{err: errDown}
	cache := &fakeCache{shows: []show.Show{mkShow("c", 0)}}
	r := New(api, store, cache)

	res := r.FetchShows(context.Background(), 10, 0)
	assert.False(t, res.IsOnline)
	assert.Equal(t, StatusOffline, res.Status)
	require.Len(t, res.Shows, 1)
}

func TestFetchShowsDemoFloor(t *testing.T) {
	// Total outage still yields a non-empty list, offline.
	api := &fakeAPI{err: errDown}
	store := &fakeStore{err: errDown}
	cache := &fakeCache{err: errDown}
	r := New(api, store, cache)

	res := r.FetchShows(context.Background(), 10, 0)
	assert.False(t, res.IsOnline)
	assert.Equal(t, StatusDemo, res.Status)
	assert.NotEmpty(t, res.Shows)
}

func TestFailedRefreshKeepsLastKnownGood(t *testing.T) {
	api := &fakeAPI{shows: []show.Show{mkShow("a", 0)}}
	r := New(api, nil, nil)
	r.FetchShows(context.Background(), 10, 0)

	api.err = errDown
	res := r.FetchShows(context.Background(), 10, 0)
	assert.False(t, res.IsOnline)
	assert.Equal(t, StatusLastKnown, res.Status)
	require.Len(t, res.Shows, 1)
	assert.Equal(t, "a", res.Shows[0].ID)
}

func TestWriteThroughOnSuccess(t *testing.T) {
	cache := &fakeCache{}
	api := &fakeAPI{shows: []show.Show{mkShow("a", 0)}}
	r := New(api, nil, cache)

	r.FetchShows(context.Background(), 10, 0)
	// Write-through is fire-and-forget; give it a beat.
	deadline := time.Now().Add(time.Second)
	for len(cache.saved) == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	require.NotEmpty(t, cache.saved)
	assert.Equal(t, "a", cache.saved[0][0].ID)
}

func TestStaleResponseDropped(t *testing.T) {
	api := &fakeAPI{shows: []show.Show{mkShow("new", 0)}}
	r := New(api, nil, nil)

	// Simulate an older fetch finishing after a newer one.
	oldSeq := r.nextSeq()
	newSeq := r.nextSeq()
	r.apply(newSeq, []show.Show{mkShow("new", 0)}, true, StatusLive)
	res := r.apply(oldSeq, []show.Show{mkShow("stale", time.Hour)}, true, StatusLive)

	require.Len(t, res.Shows, 1)
	assert.Equal(t, "new", res.Shows[0].ID, "stale response must not overwrite newer data")
}

func TestSearchShowsClientSideFallback(t *testing.T) {
	api := &fakeAPI{shows: []show.Show{mkShow("a", 0), mkShow("b", time.Hour)}}
	r := New(api, nil, nil)

	res := r.SearchShows(context.Background(), show.SearchParams{Query: "Show a"})
	require.Len(t, res.Shows, 1)
	assert.Equal(t, "a", res.Shows[0].ID)

	// The filtered result must also win the fence and become repository
	// state, not be discarded in favor of the unfiltered chain result.
	shows := r.Shows()
	require.Len(t, shows, 1)
	assert.Equal(t, "a", shows[0].ID)
}

func TestSearchShowsOfflineFiltersCurrentList(t *testing.T) {
	api := &fakeAPI{shows: []show.Show{mkShow("a", 0), mkShow("b", time.Hour)}}
	r := New(api, nil, nil)
	r.FetchShows(context.Background(), 10, 0)

	// All sources go dark; the search runs over the last known list.
	api.err = errDown
	res := r.SearchShows(context.Background(), show.SearchParams{Query: "Show b"})
	require.Len(t, res.Shows, 1)
	assert.Equal(t, "b", res.Shows[0].ID)
	assert.False(t, res.IsOnline)
	assert.Equal(t, StatusLastKnown, res.Status)
}

func TestGetShowByIDFallsBackToAPI(t *testing.T) {
	api := &fakeAPI{shows: []show.Show{mkShow("a", 0)}}
	store := &fakeStore{err: errDown}
	r := New(api, store, nil)

	s := r.GetShowByID(context.Background(), "a")
	require.NotNil(t, s)
	assert.Equal(t, "a", s.ID)

	assert.Nil(t, r.GetShowByID(context.Background(), "missing"))
}

func TestSelectionPointersAreWeak(t *testing.T) {
	api := &fakeAPI{shows: []show.Show{mkShow("a", 0)}}
	r := New(api, nil, nil)
	r.FetchShows(context.Background(), 10, 0)

	r.SelectShow("a")
	require.NotNil(t, r.SelectedShow())

	r.SetCurrentlyPlaying("a")
	require.NotNil(t, r.CurrentlyPlaying())
	r.SetCurrentlyPlaying("")
	assert.Nil(t, r.CurrentlyPlaying())

	r.SelectShow("gone")
	assert.Nil(t, r.SelectedShow())
}
