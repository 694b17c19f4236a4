package show

import (
	"sort"
	"strings"
	"time"
)

// Filters are equality/range predicates applied to a show collection.
// Zero values mean "no constraint"; HasAudio is a tri-state pointer.
type Filters struct {
	Channel        string
	BroadcastStyle string
	Language       string
	PresetName     string
	DateFrom       time.Time
	DateTo         time.Time
	HasAudio       *bool
}

// Matches reports whether s passes every set predicate.
func (f Filters) Matches(s Show) bool {
	if f.Channel != "" && s.Channel != f.Channel {
		return false
	}
	if f.BroadcastStyle != "" && s.BroadcastStyle != f.BroadcastStyle {
		return false
	}
	if f.Language != "" && s.Language != f.Language {
		return false
	}
	if f.PresetName != "" && s.PresetName != f.PresetName {
		return false
	}
	if f.HasAudio != nil && s.HasAudio() != *f.HasAudio {
		return false
	}
	if !f.DateFrom.IsZero() && s.CreatedAt.Before(f.DateFrom) {
		return false
	}
	if !f.DateTo.IsZero() && s.CreatedAt.After(f.DateTo) {
		return false
	}
	return true
}

// Filter returns the shows passing f, preserving input order. The input
// slice is never modified.
func Filter(shows []Show, f Filters) []Show {
	out := make([]Show, 0, len(shows))
	for _, s := range shows {
		if f.Matches(s) {
			out = append(out, s)
		}
	}
	return out
}

// Sort keys accepted by SearchParams.
const (
	SortByCreatedAt = "created_at"
	SortByTitle     = "title"
	SortByDuration  = "estimated_duration_minutes"
)

// SearchParams extends Filters with substring search, sorting, and
// pagination. Used both for datastore queries and for the client-side
// search over already-loaded shows.
type SearchParams struct {
	Filters
	Query     string
	SortBy    string
	SortOrder string // "asc" or "desc"; default desc
	Limit     int
	Offset    int
}

// Search applies params to an in-memory collection: filter, substring
// match over title+preview, sort, then paginate. The input slice is
// never modified.
func Search(shows []Show, params SearchParams) []Show {
	out := Filter(shows, params.Filters)

	if q := strings.ToLower(strings.TrimSpace(params.Query)); q != "" {
		matched := out[:0]
		for _, s := range out {
			if strings.Contains(strings.ToLower(s.Title), q) ||
				strings.Contains(strings.ToLower(s.ScriptPreview), q) {
				matched = append(matched, s)
			}
		}
		out = matched
	}

	SortShows(out, params.SortBy, params.SortOrder)

	if params.Offset > 0 {
		if params.Offset >= len(out) {
			return []Show{}
		}
		out = out[params.Offset:]
	}
	if params.Limit > 0 && params.Limit < len(out) {
		out = out[:params.Limit]
	}
	return out
}

// SortShows orders shows in place by the given key and direction.
// Unknown keys fall back to created_at; the default direction is
// descending (newest first).
func SortShows(shows []Show, sortBy, sortOrder string) {
	asc := sortOrder == "asc"
	sort.SliceStable(shows, func(i, j int) bool {
		var less bool
		switch sortBy {
		case SortByTitle:
			less = shows[i].Title < shows[j].Title
		case SortByDuration:
			less = shows[i].EstimatedDurationMinutes < shows[j].EstimatedDurationMinutes
		default:
			less = shows[i].CreatedAt.Before(shows[j].CreatedAt)
		}
		if asc {
			return less
		}
		return !less && !equalByKey(shows[i], shows[j], sortBy)
	})
}

func equalByKey(a, b Show, sortBy string) bool {
	switch sortBy {
	case SortByTitle:
		return a.Title == b.Title
	case SortByDuration:
		return a.EstimatedDurationMinutes == b.EstimatedDurationMinutes
	default:
		return a.CreatedAt.Equal(b.CreatedAt)
	}
}
