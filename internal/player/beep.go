package player

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"

	"github.com/muraschal/radiox-frontend/internal/logging"
)

// BeepBackend plays MP3 audio through the system speaker. Shows are
// short (a few minutes), so the whole file is fetched before decoding;
// that keeps seeking exact and avoids mid-play network stalls.
type BeepBackend struct {
	httpClient *http.Client

	mu       sync.Mutex
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	volume   *effects.Volume
	finished bool
	initOnce bool
}

// NewBeepBackend creates an idle backend. The speaker is initialized on
// the first Load, once the sample rate is known.
func NewBeepBackend() *BeepBackend {
	return &BeepBackend{
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

type readSeekNopCloser struct {
	*bytes.Reader
}

func (readSeekNopCloser) Close() error { return nil }

// Load fetches and decodes the audio at url. Playback starts paused.
func (b *BeepBackend) Load(url string) error {
	resp, err := b.httpClient.Get(url)
	if err != nil {
		return fmt.Errorf("failed to fetch audio: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("audio fetch returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read audio: %w", err)
	}

	streamer, format, err := mp3.Decode(readSeekNopCloser{bytes.NewReader(data)})
	if err != nil {
		return fmt.Errorf("failed to decode audio: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.streamer != nil {
		speaker.Clear()
		b.streamer.Close()
	}

	if !b.initOnce {
		if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
			streamer.Close()
			return fmt.Errorf("failed to init speaker: %w", err)
		}
		b.initOnce = true
	}

	b.streamer = streamer
	b.format = format
	b.finished = false
	b.ctrl = &beep.Ctrl{Streamer: streamer, Paused: true}
	b.volume = &effects.Volume{Streamer: b.ctrl, Base: 2}

	done := beep.Callback(func() {
		b.mu.Lock()
		b.finished = true
		b.mu.Unlock()
	})
	speaker.Play(beep.Seq(b.volume, done))
	logging.Debug("audio loaded", "url", url, "samples", streamer.Len())
	return nil
}

func (b *BeepBackend) Play() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ctrl == nil {
		return fmt.Errorf("no audio loaded")
	}
	speaker.Lock()
	b.ctrl.Paused = false
	speaker.Unlock()
	return nil
}

func (b *BeepBackend) Pause() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ctrl == nil {
		return fmt.Errorf("no audio loaded")
	}
	speaker.Lock()
	b.ctrl.Paused = true
	speaker.Unlock()
	return nil
}

func (b *BeepBackend) Seek(seconds float64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.streamer == nil {
		return fmt.Errorf("no audio loaded")
	}
	pos := b.format.SampleRate.N(time.Duration(seconds * float64(time.Second)))
	if pos < 0 {
		pos = 0
	}
	if limit := b.streamer.Len(); pos > limit {
		pos = limit
	}
	speaker.Lock()
	err := b.streamer.Seek(pos)
	b.finished = false
	speaker.Unlock()
	if err != nil {
		return fmt.Errorf("failed to seek: %w", err)
	}
	return nil
}

func (b *BeepBackend) Position() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.streamer == nil {
		return 0
	}
	speaker.Lock()
	pos := b.streamer.Position()
	speaker.Unlock()
	return b.format.SampleRate.D(pos).Seconds()
}

func (b *BeepBackend) Duration() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.streamer == nil {
		return 0
	}
	return b.format.SampleRate.D(b.streamer.Len()).Seconds()
}

func (b *BeepBackend) Playing() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ctrl == nil {
		return false
	}
	speaker.Lock()
	paused := b.ctrl.Paused
	speaker.Unlock()
	return !paused && !b.finished
}

func (b *BeepBackend) Finished() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.finished
}

// SetVolume maps a linear [0, 1] volume onto the exponential scale the
// effects package expects. Zero mutes outright.
func (b *BeepBackend) SetVolume(v float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.volume == nil {
		return
	}
	speaker.Lock()
	b.volume.Silent = v <= 0
	b.volume.Volume = (v - 1) * 4
	speaker.Unlock()
}

func (b *BeepBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.streamer != nil {
		speaker.Clear()
		err := b.streamer.Close()
		b.streamer = nil
		b.ctrl = nil
		b.volume = nil
		return err
	}
	return nil
}
