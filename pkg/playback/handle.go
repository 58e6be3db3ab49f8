// ABOUTME: Playback handle
// ABOUTME: One in-flight playback owning its stream and output device
package playback

import (
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/readaloud/readaloud-go/pkg/audio"
	"github.com/readaloud/readaloud-go/pkg/audio/output"
	"github.com/readaloud/readaloud-go/pkg/audio/resample"
)

// Handle is one playback of a buffer on a channel
type Handle struct {
	id      string
	channel Channel
	buf     *audio.Buffer
	stream  *resample.Stream
	device  output.Device

	alive    atomic.Bool
	once     sync.Once
	released chan struct{}
}

// ID returns the unique handle id
func (h *Handle) ID() string { return h.id }

// Channel returns the channel the handle was started on
func (h *Handle) Channel() Channel { return h.channel }

// Buffer returns the bound audio
func (h *Handle) Buffer() *audio.Buffer { return h.buf }

// Alive reports whether the handle still owns its device
func (h *Handle) Alive() bool { return h.alive.Load() }

// Rate returns the rate the handle is playing at or moving toward
func (h *Handle) Rate() float64 { return h.stream.TargetRate() }

// Position returns how much of the buffer has been played
func (h *Handle) Position() time.Duration { return h.stream.Elapsed() }

// release closes the device once; later calls are no-ops
func (h *Handle) release() {
	h.once.Do(func() {
		h.alive.Store(false)
		if h.device != nil {
			if err := h.device.Close(); err != nil {
				log.Printf("Playback: %s handle %s close error: %v", h.channel, h.id, err)
			}
		}
		close(h.released)
	})
}
