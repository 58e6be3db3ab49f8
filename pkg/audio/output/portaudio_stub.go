//go:build !portaudio

// ABOUTME: PortAudio stub when library not available
// ABOUTME: Registers a backend whose Open reports the missing build tag
package output

import (
	"errors"

	"github.com/readaloud/readaloud-go/pkg/audio"
)

var errPortAudioDisabled = errors.New("PortAudio support not enabled (build with -tags portaudio)")

func init() {
	Register("portaudio", func() Backend { return NewPortAudio() })
}

// PortAudio backend (stub)
type PortAudio struct{}

// NewPortAudio creates a PortAudio backend
func NewPortAudio() *PortAudio {
	return &PortAudio{}
}

// Name implements Backend
func (p *PortAudio) Name() string { return "portaudio" }

// Format implements Backend
func (p *PortAudio) Format(src audio.Format) audio.Format { return src }

// Open always fails without the portaudio build tag
func (p *PortAudio) Open(format audio.Format, src Source) (Device, error) {
	return nil, errPortAudioDisabled
}
