// ABOUTME: Audio output interface definition
// ABOUTME: Common Backend/Device/Source contracts and backend selection
package output

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/readaloud/readaloud-go/pkg/audio"
)

var (
	// ErrDeviceStopped means the device stopped without being closed
	ErrDeviceStopped = errors.New("audio device stopped unexpectedly")

	// ErrUnknownBackend means no backend is registered under a name
	ErrUnknownBackend = errors.New("unknown audio backend")
)

// Source supplies interleaved float frames to a device
type Source interface {
	// Read fills out and returns the number of frames carrying audio;
	// the remainder of out is zeroed
	Read(out []float32) int

	// Done reports whether the source is exhausted
	Done() bool
}

// Device is one acquired audio output
type Device interface {
	// Start begins pulling from the source
	Start() error

	// Done is closed once the source has played out or the device failed
	Done() <-chan struct{}

	// Err returns the failure that closed Done, if any
	Err() error

	// Close stops output and releases resources (idempotent)
	Close() error
}

// Backend opens devices
type Backend interface {
	// Name identifies the backend
	Name() string

	// Format returns the device format used for a source format
	Format(src audio.Format) audio.Format

	// Open acquires a device rendering src in the given format
	Open(format audio.Format, src Source) (Device, error)
}

var (
	registryMu sync.Mutex
	registry   = map[string]func() Backend{
		"malgo": func() Backend { return NewMalgo() },
		"oto":   func() Backend { return NewOto(DefaultOtoFormat) },
		"null":  func() Backend { return NewNull() },
	}
)

// Register makes a backend constructor available to NewBackend
func Register(name string, ctor func() Backend) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = ctor
}

// NewBackend creates a backend by name
func NewBackend(name string) (Backend, error) {
	registryMu.Lock()
	ctor, ok := registry[name]
	registryMu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
	return ctor(), nil
}

// Names lists registered backends
func Names() []string {
	registryMu.Lock()
	defer registryMu.Unlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// completion tracks the one-shot end of a device
type completion struct {
	once sync.Once
	done chan struct{}

	mu  sync.Mutex
	err error
}

func newCompletion() *completion {
	return &completion{done: make(chan struct{})}
}

// finish closes done once, recording err if it is the first call
func (c *completion) finish(err error) {
	c.once.Do(func() {
		c.mu.Lock()
		c.err = err
		c.mu.Unlock()
		close(c.done)
	})
}

func (c *completion) Done() <-chan struct{} { return c.done }

func (c *completion) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}
