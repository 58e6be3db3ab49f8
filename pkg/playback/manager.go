// ABOUTME: Playback session manager
// ABOUTME: Start/stop/rate control with one live handle per channel
package playback

import (
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/readaloud/readaloud-go/pkg/audio"
	"github.com/readaloud/readaloud-go/pkg/audio/output"
	"github.com/readaloud/readaloud-go/pkg/audio/resample"
)

// Config holds manager configuration
type Config struct {
	// Backend opens output devices (default: malgo)
	Backend output.Backend

	// DefaultRate is the initial segment rate (default: 1.0)
	DefaultRate float64

	// Smoothing is the time constant for rate changes (default: 100ms)
	Smoothing time.Duration

	// OnEnded is called for every ended event on any channel
	OnEnded func(Event)
}

// Manager owns the live handle of every channel
type Manager struct {
	cfg Config

	mu      sync.Mutex
	handles [numChannels]*Handle
	rate    float64
	subs    map[Channel][]subscription
	nextSub int
	closed  bool
}

// NewManager creates a manager with no live playback
func NewManager(cfg Config) *Manager {
	if cfg.Backend == nil {
		cfg.Backend = output.NewMalgo()
	}
	if cfg.DefaultRate <= 0 || math.IsInf(cfg.DefaultRate, 0) || math.IsNaN(cfg.DefaultRate) {
		cfg.DefaultRate = 1.0
	}
	if cfg.Smoothing <= 0 {
		cfg.Smoothing = resample.DefaultSmoothing
	}

	return &Manager{
		cfg:  cfg,
		rate: cfg.DefaultRate,
		subs: make(map[Channel][]subscription),
	}
}

func validRate(rate float64) bool {
	return rate > 0 && !math.IsInf(rate, 0) && !math.IsNaN(rate)
}

// Start plays buf on channel c and returns the new handle.
//
// Any live handle on c is stopped and its device released before the new
// device is opened. A rate of 0 selects the channel default: the manager
// rate for segments and 1.0 for vocabulary. A device that cannot be
// acquired does not produce an error; the returned handle is already dead
// and an EndResourceError event is delivered before Start returns.
func (m *Manager) Start(c Channel, buf *audio.Buffer, rate float64) (*Handle, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChannel, int(c))
	}
	if err := buf.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBuffer, err)
	}
	if rate != 0 && !validRate(rate) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRate, rate)
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, ErrClosed
	}

	if old := m.handles[c]; old != nil {
		m.handles[c] = nil
		old.release()
		log.Printf("Playback: %s handle %s replaced", c, old.id)
	}

	if rate == 0 {
		rate = 1.0
		if c == ChannelSegment {
			rate = m.rate
		}
	}

	format := m.cfg.Backend.Format(buf.Format())
	h := &Handle{
		id:       uuid.New().String(),
		channel:  c,
		buf:      buf,
		stream:   resample.NewWithSmoothing(buf, format, rate, m.cfg.Smoothing),
		released: make(chan struct{}),
	}

	if rerr := m.acquire(h, format); rerr != nil {
		h.release()
		fns := m.listeners(c)
		m.mu.Unlock()

		log.Printf("Playback: %v", rerr)
		notify(fns, Event{Channel: c, HandleID: h.id, Reason: EndResourceError, Err: rerr})
		return h, nil
	}

	h.alive.Store(true)
	m.handles[c] = h
	m.mu.Unlock()

	log.Printf("Playback: %s handle %s started (%s %s, %d frames, rate %.2f)",
		c, h.id, buf.Codec, buf.Format(), buf.Frames(), rate)

	go m.watch(h)
	return h, nil
}

// acquire opens and starts the device for h (caller holds m.mu)
func (m *Manager) acquire(h *Handle, format audio.Format) *ResourceError {
	dev, err := m.cfg.Backend.Open(format, h.stream)
	if err != nil {
		return &ResourceError{Channel: h.channel, Op: "open", Err: err}
	}
	h.device = dev

	if err := dev.Start(); err != nil {
		return &ResourceError{Channel: h.channel, Op: "start", Err: err}
	}
	return nil
}

// watch waits for h to end on its own or be released
func (m *Manager) watch(h *Handle) {
	select {
	case <-h.released:
		return
	case <-h.device.Done():
	}

	m.mu.Lock()
	if m.handles[h.channel] != h {
		// stopped or replaced while the device was finishing
		m.mu.Unlock()
		return
	}
	m.handles[h.channel] = nil
	h.release()
	fns := m.listeners(h.channel)
	m.mu.Unlock()

	ev := Event{Channel: h.channel, HandleID: h.id, Reason: EndCompleted}
	if err := h.device.Err(); err != nil {
		ev.Reason = EndResourceError
		ev.Err = &ResourceError{Channel: h.channel, Op: "play", Err: err}
		log.Printf("Playback: %v", ev.Err)
	} else {
		log.Printf("Playback: %s handle %s completed", h.channel, h.id)
	}

	notify(fns, ev)
}

// Stop halts the live handle on c, if any. Stopping an idle channel is a no-op.
func (m *Manager) Stop(c Channel) {
	if !c.Valid() {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	h := m.handles[c]
	if h == nil {
		return
	}
	m.handles[c] = nil
	h.release()
	log.Printf("Playback: %s handle %s stopped", c, h.id)
}

// SetRate sets the segment rate. The live segment handle glides to the new
// rate; later segment playback starts at it. Vocabulary is unaffected.
func (m *Manager) SetRate(rate float64) error {
	if !validRate(rate) {
		return fmt.Errorf("%w: %v", ErrInvalidRate, rate)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.rate = rate
	if h := m.handles[ChannelSegment]; h != nil {
		h.stream.SetTargetRate(rate)
	}
	return nil
}

// Rate returns the segment rate
func (m *Manager) Rate() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rate
}

// Active returns the live handle on c, or nil when c is idle
func (m *Manager) Active(c Channel) *Handle {
	if !c.Valid() {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.handles[c]
}

// State reports whether c is idle or active
func (m *Manager) State(c Channel) ChannelState {
	if m.Active(c) != nil {
		return Active
	}
	return Idle
}

// Close stops every channel. Later Start calls fail with ErrClosed.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	for c, h := range m.handles {
		if h != nil {
			m.handles[c] = nil
			h.release()
		}
	}
}
