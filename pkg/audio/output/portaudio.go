//go:build portaudio

// ABOUTME: PortAudio output implementation
// ABOUTME: Opens one PortAudio stream per playback
package output

import (
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
	"github.com/readaloud/readaloud-go/pkg/audio"
)

func init() {
	Register("portaudio", func() Backend { return NewPortAudio() })
}

// PortAudio backend
type PortAudio struct{}

// NewPortAudio creates a PortAudio backend
func NewPortAudio() *PortAudio {
	return &PortAudio{}
}

// Name implements Backend
func (p *PortAudio) Name() string { return "portaudio" }

// Format implements Backend
func (p *PortAudio) Format(src audio.Format) audio.Format { return src }

// Open initializes PortAudio and opens a callback stream
func (p *PortAudio) Open(format audio.Format, src Source) (Device, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize portaudio: %w", err)
	}

	d := &portAudioDevice{completion: newCompletion(), src: src}
	stream, err := portaudio.OpenDefaultStream(0, format.Channels, float64(format.SampleRate), 0, d.callback)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("failed to open stream: %w", err)
	}
	d.stream = stream
	return d, nil
}

type portAudioDevice struct {
	*completion
	src Source

	mu      sync.Mutex
	stream  *portaudio.Stream
	drained bool
}

// callback runs on the PortAudio thread
func (d *portAudioDevice) callback(out []float32) {
	if d.drained {
		clear(out)
		return
	}
	if n := d.src.Read(out); n == 0 && d.src.Done() {
		d.drained = true
		d.finish(nil)
	}
}

func (d *portAudioDevice) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stream == nil {
		return fmt.Errorf("stream closed")
	}
	return d.stream.Start()
}

func (d *portAudioDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stream == nil {
		return nil
	}
	var firstErr error
	if err := d.stream.Stop(); err != nil {
		firstErr = err
	}
	if err := d.stream.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	d.stream = nil
	if err := portaudio.Terminate(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
