package repo

import "github.com/muraschal/radiox-frontend/internal/show"

// InsertPlaceholder puts the optimistic generation record at the head of
// the list. Returns false without inserting when a placeholder already
// exists, which is the double-submission guard.
func (r *Repository) InsertPlaceholder(req show.GenerateRequest) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if containsPlaceholder(r.shows) {
		return false
	}
	r.shows = append([]show.Show{show.NewPlaceholder(req)}, r.shows...)
	return true
}

// HasPlaceholder reports whether a generation is optimistically shown.
func (r *Repository) HasPlaceholder() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return containsPlaceholder(r.shows)
}

// ResolvePlaceholder replaces the placeholder in place with the real
// record, keeping its position so the user's show stays first. When the
// record's id already landed through another path (the realtime feed
// races the synthesis response), that entry is updated and the
// placeholder removed, never leaving two rows with the same id. Without
// a placeholder the record is prepended instead.
func (r *Repository) ResolvePlaceholder(real show.Show) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.shows {
		if r.shows[i].ID == real.ID {
			r.shows[i] = real
			r.shows = dropPlaceholder(r.shows)
			return
		}
	}
	if i := placeholderIndex(r.shows); i >= 0 {
		r.shows[i] = real
		return
	}
	r.shows = append([]show.Show{real}, r.shows...)
}

// RemovePlaceholder drops the placeholder entirely. Used on generation
// failure so no dangling "generating" entry remains.
func (r *Repository) RemovePlaceholder() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shows = dropPlaceholder(r.shows)
}

func dropPlaceholder(shows []show.Show) []show.Show {
	out := shows[:0]
	for _, s := range shows {
		if !s.IsPlaceholder() {
			out = append(out, s)
		}
	}
	return out
}

// Upsert applies a realtime row change: known ids are replaced in place
// so scroll position survives, unknown ids arrive as new entries below
// the pinned generation placeholder, or at the head without one.
// Applying the same change twice is a no-op.
func (r *Repository) Upsert(s show.Show) {
	if s.ID == "" || s.ID == show.PlaceholderID {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.shows {
		if r.shows[i].ID == s.ID {
			r.shows[i] = s
			return
		}
	}
	if len(r.shows) > 0 && r.shows[0].IsPlaceholder() {
		r.shows = append([]show.Show{r.shows[0], s}, r.shows[1:]...)
		return
	}
	r.shows = append([]show.Show{s}, r.shows...)
}
