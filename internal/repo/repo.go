// Package repo reconciles every data source into one ordered show
// collection. It owns the in-memory list, the selected and
// currently-playing pointers, and the fallback policy; everything above
// it sees normalized shows and never learns which source produced them.
//
// Fallback chain for reads, in strict priority order:
//
//  1. public show API - any HTTP success counts, even an empty list
//  2. managed datastore - only a non-empty result counts
//  3. local SQLite cache - offline tier, only a non-empty result counts
//  4. built-in demo fixtures - the floor, so the list is never empty
//
// Successful network reads are written through to the cache in the
// background; cache failures are logged, never surfaced.
package repo

import (
	"context"
	"errors"
	"sync"

	"github.com/muraschal/radiox-frontend/internal/logging"
	"github.com/muraschal/radiox-frontend/internal/show"
	"github.com/muraschal/radiox-frontend/internal/source"
)

// PrimarySource is the public show API surface the repository needs.
type PrimarySource interface {
	ListShows(ctx context.Context, limit, offset int) ([]show.Show, error)
	GetShow(ctx context.Context, id string) (*show.Show, error)
}

// Datastore is the managed-datastore surface the repository needs.
type Datastore interface {
	ListShows(ctx context.Context, limit, offset int) ([]show.Show, error)
	SearchShows(ctx context.Context, params show.SearchParams) ([]show.Show, error)
	GetShow(ctx context.Context, id string) (*show.Show, error)
}

// Cache is the local offline tier.
type Cache interface {
	GetShows(limit, offset int) ([]show.Show, error)
	GetShow(id string) (*show.Show, error)
	SaveShows(shows []show.Show) (int, error)
}

// Status messages surfaced alongside the list. These are informational,
// never errors; the list itself is always populated.
const (
	StatusLive      = "live data"
	StatusDatastore = "using cached data"
	StatusOffline   = "offline - using cached shows"
	StatusDemo      = "all sources unavailable - showing demo content"
	StatusLastKnown = "connection lost - showing last known shows"
)

// Repository owns the show collection.
//
// Safe for concurrent use: fetches run in background commands while the
// UI reads state.
type Repository struct {
	api   PrimarySource
	store Datastore
	cache Cache

	mu        sync.Mutex
	shows     []show.Show
	isOnline  bool
	status    string
	selected  string
	playing   string
	seq       uint64
	appliedAt uint64
}

// New creates a repository. store and cache may be nil when not
// configured; the fallback chain skips them.
func New(api PrimarySource, store Datastore, cache Cache) *Repository {
	return &Repository{api: api, store: store, cache: cache}
}

// FetchResult is the outcome of one fetch or search.
type FetchResult struct {
	Shows    []show.Show
	IsOnline bool
	Status   string
}

// FetchShows walks the fallback chain and applies the winning result.
// It never returns an error: total failure lands on the last-known-good
// list or the demo fixtures.
func (r *Repository) FetchShows(ctx context.Context, limit, offset int) FetchResult {
	seq := r.nextSeq()
	shows, online, status := r.walkChain(ctx, limit, offset)
	if status == StatusLastKnown {
		return r.applyStatus(seq, online, status)
	}
	return r.apply(seq, shows, online, status)
}

// walkChain resolves the freshest list the sources can produce without
// touching repository state or the fence. A StatusLastKnown outcome
// carries no list: the caller keeps what is already displayed.
func (r *Repository) walkChain(ctx context.Context, limit, offset int) ([]show.Show, bool, string) {
	if r.api != nil {
		shows, err := r.api.ListShows(ctx, limit, offset)
		if err == nil {
			// HTTP success is authoritative even when the list is empty.
			r.writeThrough(shows)
			return shows, true, StatusLive
		}
		logging.Warn("primary show api failed", "error", err)
	}

	if r.store != nil {
		shows, err := r.store.ListShows(ctx, limit, offset)
		if err == nil && len(shows) > 0 {
			r.writeThrough(shows)
			return shows, true, StatusDatastore
		}
		if err != nil && !errors.Is(err, source.ErrNotConfigured) {
			logging.Warn("datastore query failed", "error", err)
		}
	}

	if r.cache != nil {
		shows, err := r.cache.GetShows(limit, offset)
		if err == nil && len(shows) > 0 {
			return shows, false, StatusOffline
		}
		if err != nil {
			logging.Warn("show cache read failed", "error", err)
		}
	}

	r.mu.Lock()
	hasCurrent := len(r.shows) > 0
	r.mu.Unlock()
	if hasCurrent {
		// A failed refresh never clears already-displayed content.
		return nil, false, StatusLastKnown
	}

	return show.DemoShows(), false, StatusDemo
}

// SearchShows queries with filters. The datastore handles the push-down
// when available; otherwise the query runs client-side over the freshest
// list the fallback chain can produce, applied under the sequence number
// taken at the start so a concurrent fetch cannot outrank it.
func (r *Repository) SearchShows(ctx context.Context, params show.SearchParams) FetchResult {
	seq := r.nextSeq()

	if r.store != nil {
		shows, err := r.store.SearchShows(ctx, params)
		if err == nil {
			return r.apply(seq, shows, true, StatusDatastore)
		}
		if !errors.Is(err, source.ErrNotConfigured) {
			logging.Warn("datastore search failed", "error", err)
		}
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}
	shows, online, status := r.walkChain(ctx, limit+params.Offset, 0)
	if status == StatusLastKnown {
		shows = r.Shows()
	}
	filtered := show.Search(shows, params)
	return r.apply(seq, filtered, online, status)
}

// GetShowByID resolves one show with full details: datastore first for
// the fast complete record, then the API, then the cache, then the
// already-loaded collection. Returns nil when no source has the id.
func (r *Repository) GetShowByID(ctx context.Context, id string) *show.Show {
	if r.store != nil {
		s, err := r.store.GetShow(ctx, id)
		if err == nil {
			return s
		}
		if !errors.Is(err, source.ErrNotFound) && !errors.Is(err, source.ErrNotConfigured) {
			logging.Warn("datastore get failed", "id", id, "error", err)
		}
	}
	if r.api != nil {
		s, err := r.api.GetShow(ctx, id)
		if err == nil {
			return s
		}
		if !errors.Is(err, source.ErrNotFound) {
			logging.Warn("show api get failed", "id", id, "error", err)
		}
	}
	if r.cache != nil {
		if s, err := r.cache.GetShow(id); err == nil && s != nil {
			return s
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.shows {
		if r.shows[i].ID == id {
			s := r.shows[i]
			return &s
		}
	}
	return nil
}

// Shows returns a copy of the current collection.
func (r *Repository) Shows() []show.Show {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]show.Show, len(r.shows))
	copy(out, r.shows)
	return out
}

// IsOnline reports whether the last fetch reached a network source.
func (r *Repository) IsOnline() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.isOnline
}

// Status returns the human-readable source status of the last fetch.
func (r *Repository) Status() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// FilterShows runs a pure predicate filter over the loaded collection.
func (r *Repository) FilterShows(f show.Filters) []show.Show {
	return show.Filter(r.Shows(), f)
}

// SelectShow sets the selected pointer. An id absent from the
// collection still selects; the pointer is weak.
func (r *Repository) SelectShow(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.selected = id
}

// SelectedShow resolves the selected pointer, or nil.
func (r *Repository) SelectedShow() *show.Show {
	return r.lookup(func() string { return r.selected })
}

// SetCurrentlyPlaying sets the playing pointer; empty id clears it.
func (r *Repository) SetCurrentlyPlaying(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.playing = id
}

// CurrentlyPlaying resolves the playing pointer, or nil.
func (r *Repository) CurrentlyPlaying() *show.Show {
	return r.lookup(func() string { return r.playing })
}

func (r *Repository) lookup(idFn func() string) *show.Show {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := idFn()
	if id == "" {
		return nil
	}
	for i := range r.shows {
		if r.shows[i].ID == id {
			s := r.shows[i]
			return &s
		}
	}
	return nil
}

// nextSeq hands out fetch sequence numbers for stale-response fencing.
func (r *Repository) nextSeq() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	return r.seq
}

// apply installs a fetch result unless a newer fetch already landed.
func (r *Repository) apply(seq uint64, shows []show.Show, online bool, status string) FetchResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	if seq < r.appliedAt {
		// A newer response already won; report current state instead.
		return FetchResult{Shows: cloneShows(r.shows), IsOnline: r.isOnline, Status: r.status}
	}
	r.appliedAt = seq

	// The in-flight generation placeholder survives refreshes, pinned
	// back to the head of the list.
	if i := placeholderIndex(r.shows); i >= 0 && placeholderIndex(shows) < 0 {
		shows = append([]show.Show{r.shows[i]}, shows...)
	}

	r.shows = cloneShows(shows)
	r.isOnline = online
	r.status = status
	return FetchResult{Shows: cloneShows(r.shows), IsOnline: online, Status: status}
}

// applyStatus updates flags without touching the collection.
func (r *Repository) applyStatus(seq uint64, online bool, status string) FetchResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	if seq >= r.appliedAt {
		r.appliedAt = seq
		r.isOnline = online
		r.status = status
	}
	return FetchResult{Shows: cloneShows(r.shows), IsOnline: r.isOnline, Status: r.status}
}

// writeThrough persists a successful network read in the background.
func (r *Repository) writeThrough(shows []show.Show) {
	if r.cache == nil || len(shows) == 0 {
		return
	}
	snapshot := cloneShows(shows)
	go func() {
		if _, err := r.cache.SaveShows(snapshot); err != nil {
			logging.Warn("cache write-through failed", "error", err)
		}
	}()
}

func cloneShows(shows []show.Show) []show.Show {
	out := make([]show.Show, len(shows))
	copy(out, shows)
	return out
}

func containsPlaceholder(shows []show.Show) bool {
	return placeholderIndex(shows) >= 0
}

func placeholderIndex(shows []show.Show) int {
	for i := range shows {
		if shows[i].IsPlaceholder() {
			return i
		}
	}
	return -1
}
