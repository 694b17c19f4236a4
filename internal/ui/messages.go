// Package ui provides the Bubble Tea TUI for the RadioX terminal client.
package ui

import (
	"github.com/muraschal/radiox-frontend/internal/repo"
	"github.com/muraschal/radiox-frontend/internal/show"
	"github.com/muraschal/radiox-frontend/internal/source/supabase"
)

// ShowsLoaded is sent when a fetch or search resolves. The result always
// carries a list; total failure lands on cache or demo content.
type ShowsLoaded struct {
	Result repo.FetchResult
}

// ShowDetailLoaded is sent when a full-detail lookup resolves. Show is
// nil when no source has the id.
type ShowDetailLoaded struct {
	ID   string
	Show *show.Show
}

// GenerationFinished is sent when the generation workflow settles.
// Show is nil on failure, with a user-facing message instead.
type GenerationFinished struct {
	Show    *show.Show
	Message string
}

// PresetsLoaded is sent when preset and voice data arrives.
type PresetsLoaded struct {
	Presets []show.Preset
	Voices  []show.Voice
	Err     error
}

// RealtimeChange is one datastore row change from the live feed.
type RealtimeChange struct {
	Change supabase.ShowChange
}

// RealtimeClosed is sent when the live feed ends.
type RealtimeClosed struct{}

// PlaybackTick drives the player/transcript synchronization.
type PlaybackTick struct{}

// NoticeExpired clears a transient status notice.
type NoticeExpired struct{}
