package player

// AudioBackend is the single underlying playback primitive. Exactly one
// show's audio is loaded at a time; the synchronizer owns the instance
// and polls it on every tick.
type AudioBackend interface {
	// Load points the backend at a new audio URL without starting
	// playback. Any previously loaded audio is released.
	Load(url string) error
	Play() error
	Pause() error
	// Seek sets the position in seconds. Callers clamp before calling.
	Seek(seconds float64) error
	// Position is the current playback position in seconds.
	Position() float64
	// Duration is the total length in seconds, 0 until known.
	Duration() float64
	Playing() bool
	// Finished reports whether playback ran off the end of the stream.
	Finished() bool
	SetVolume(v float64)
	Close() error
}
