// Package player binds the single playback primitive to show state: a
// progress position, a current-segment pointer, and the word-highlighted
// transcript. It owns only transient playback state; show data stays in
// the repository.
package player

import (
	"fmt"

	"github.com/muraschal/radiox-frontend/internal/config"
	"github.com/muraschal/radiox-frontend/internal/logging"
	"github.com/muraschal/radiox-frontend/internal/show"
)

// Player is the playback/transcript synchronizer. Not safe for
// concurrent use; the UI event loop is its only caller.
type Player struct {
	backend AudioBackend
	tuning  config.Playback

	current     *show.Show
	currentTime float64
	duration    float64
	isPlaying   bool
	volume      float64
	muted       bool

	dragging  bool
	dragValue float64

	errMsg string
}

// New creates a player over the given backend.
func New(backend AudioBackend, tuning config.Playback) *Player {
	return &Player{
		backend: backend,
		tuning:  tuning,
		volume:  tuning.Volume,
	}
}

// LoadShow makes s the now-playing show: position resets to zero, any
// error clears, and the audio source is pointed at the show's URL.
// Playback does not start automatically. Loading the already-loaded show
// is a no-op.
func (p *Player) LoadShow(s *show.Show) {
	if s == nil {
		return
	}
	if p.current != nil && p.current.ID == s.ID {
		return
	}
	p.errMsg = ""
	p.currentTime = 0
	p.duration = 0
	p.isPlaying = false
	p.current = s

	if !s.HasAudio() {
		p.setError("Diese Show hat noch kein Audio.")
		return
	}
	if err := p.backend.Load(s.AudioURL); err != nil {
		logging.Error("failed to load show audio", "id", s.ID, "error", err)
		p.setError("Audio konnte nicht geladen werden.")
		return
	}
	p.duration = p.backend.Duration()
	p.applyVolume()
}

// Current returns the loaded show, or nil.
func (p *Player) Current() *show.Show {
	return p.current
}

// Toggle flips play/pause for the loaded show.
func (p *Player) Toggle() {
	if p.current == nil || p.errMsg != "" {
		return
	}
	if p.isPlaying {
		p.Pause()
	} else {
		p.Play()
	}
}

// Play starts playback.
func (p *Player) Play() {
	if p.current == nil {
		return
	}
	if err := p.backend.Play(); err != nil {
		logging.Error("playback failed", "error", err)
		p.setError("Wiedergabe fehlgeschlagen.")
		return
	}
	p.isPlaying = true
}

// Pause stops playback without losing position.
func (p *Player) Pause() {
	if err := p.backend.Pause(); err != nil {
		logging.Debug("pause failed", "error", err)
	}
	p.isPlaying = false
}

// Seek moves to t, clamped to [0, duration].
func (p *Player) Seek(t float64) {
	if p.current == nil {
		return
	}
	t = p.clamp(t)
	if err := p.backend.Seek(t); err != nil {
		logging.Debug("seek failed", "error", err)
		return
	}
	p.currentTime = t
}

// BeginDrag starts a drag-seek gesture. While dragging, DisplayedTime
// follows the drag value instead of the live position so the bar does
// not jitter.
func (p *Player) BeginDrag() {
	p.dragging = true
	p.dragValue = p.currentTime
}

// Drag updates the gesture value without touching the backend.
func (p *Player) Drag(t float64) {
	if !p.dragging {
		return
	}
	p.dragValue = p.clamp(t)
}

// EndDrag commits the gesture as a real seek.
func (p *Player) EndDrag() {
	if !p.dragging {
		return
	}
	p.dragging = false
	p.Seek(p.dragValue)
}

// DisplayedTime is what the progress bar shows: the drag value mid-
// gesture, the live position otherwise.
func (p *Player) DisplayedTime() float64 {
	if p.dragging {
		return p.dragValue
	}
	return p.currentTime
}

// Duration is the known total length in seconds.
func (p *Player) Duration() float64 {
	return p.duration
}

// IsPlaying reports the play/pause state.
func (p *Player) IsPlaying() bool {
	return p.isPlaying
}

// JumpToSegment seeks to the start of segment idx of s, loading s first
// if it isn't the current show.
func (p *Player) JumpToSegment(s *show.Show, idx int) {
	if s == nil || idx < 0 || idx >= len(s.Segments) {
		return
	}
	if p.current == nil || p.current.ID != s.ID {
		p.LoadShow(s)
		if p.errMsg != "" {
			return
		}
		p.Play()
	}
	p.Seek(s.SegmentStart(idx))
}

// Tick polls the backend. The UI calls this on a fixed interval; it
// mirrors the backend's real position, duration, and end-of-stream
// state.
func (p *Player) Tick() {
	if p.current == nil || p.errMsg != "" {
		return
	}
	if !p.dragging {
		p.currentTime = p.backend.Position()
	}
	if d := p.backend.Duration(); d > 0 {
		p.duration = d
	}
	if p.backend.Finished() {
		p.isPlaying = false
	} else {
		p.isPlaying = p.backend.Playing()
	}
}

// CurrentSegmentIndex resolves which segment the playhead is in, or -1
// when no show with segments is loaded.
func (p *Player) CurrentSegmentIndex() int {
	if p.current == nil || len(p.current.Segments) == 0 {
		return -1
	}
	idx := 0
	for i := range p.current.Segments {
		if p.current.SegmentStart(i) <= p.currentTime {
			idx = i
		} else {
			break
		}
	}
	return idx
}

// ActiveLine resolves the highlighted transcript line for segment
// segIdx. When the playhead is not inside that segment the first line is
// active, so scrubbing an inactive segment shows no mid-line highlight.
func (p *Player) ActiveLine(segIdx int) int {
	if p.current == nil || segIdx < 0 || segIdx >= len(p.current.Segments) {
		return 0
	}
	if p.CurrentSegmentIndex() != segIdx || !p.isPlaying && p.currentTime == 0 {
		return 0
	}
	rel := p.currentTime - p.current.SegmentStart(segIdx)
	return ActiveLineIndex(p.current.Segments[segIdx].Transcript, rel)
}

// WordProgress is the spoken-word fraction of the active line of segment
// segIdx, lead-in applied.
func (p *Player) WordProgress(segIdx, lineIdx int) float64 {
	if p.current == nil || segIdx < 0 || segIdx >= len(p.current.Segments) {
		return 0
	}
	if p.CurrentSegmentIndex() != segIdx {
		return 0
	}
	rel := p.currentTime - p.current.SegmentStart(segIdx)
	return WordFraction(p.current.Segments[segIdx].Transcript, lineIdx, rel,
		p.tuning.TailWindowSeconds, p.tuning.HighlightLeadIn)
}

// SetVolume sets the linear volume in [0, 1] and unmutes.
func (p *Player) SetVolume(v float64) {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	p.volume = v
	p.muted = false
	p.applyVolume()
}

// Volume returns the linear volume setting.
func (p *Player) Volume() float64 {
	return p.volume
}

// ToggleMute flips mute without forgetting the volume.
func (p *Player) ToggleMute() {
	p.muted = !p.muted
	p.applyVolume()
}

// Muted reports the mute state.
func (p *Player) Muted() bool {
	return p.muted
}

func (p *Player) applyVolume() {
	if p.muted {
		p.backend.SetVolume(0)
		return
	}
	p.backend.SetVolume(p.volume)
}

// Err returns the user-facing playback error, empty when healthy.
func (p *Player) Err() string {
	return p.errMsg
}

// ClearError dismisses the error notice.
func (p *Player) ClearError() {
	p.errMsg = ""
}

// setError forces the terminal error state: playback stops and stays
// stopped until the user acts again.
func (p *Player) setError(msg string) {
	p.errMsg = msg
	p.isPlaying = false
}

// Close releases the audio backend.
func (p *Player) Close() error {
	if err := p.backend.Close(); err != nil {
		return fmt.Errorf("failed to close audio backend: %w", err)
	}
	return nil
}

func (p *Player) clamp(t float64) float64 {
	if t < 0 {
		return 0
	}
	if p.duration > 0 && t > p.duration {
		return p.duration
	}
	return t
}
