// ABOUTME: Malgo-based audio output implementation
// ABOUTME: Opens a dedicated miniaudio context and device for every playback
package output

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/gen2brain/malgo"
	"github.com/readaloud/readaloud-go/pkg/audio"
	"github.com/readaloud/readaloud-go/pkg/audio/encode"
)

// Malgo backend using malgo/miniaudio
type Malgo struct{}

// NewMalgo creates a malgo backend
func NewMalgo() *Malgo {
	return &Malgo{}
}

// Name implements Backend
func (m *Malgo) Name() string { return "malgo" }

// Format implements Backend; the device is opened at the source format
func (m *Malgo) Format(src audio.Format) audio.Format { return src }

// Open initializes a context and playback device for one source
func (m *Malgo) Open(format audio.Format, src Source) (Device, error) {
	d := &malgoDevice{
		completion: newCompletion(),
		src:        src,
		channels:   format.Channels,
	}

	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize malgo context: %w", err)
	}
	d.ctx = ctx

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = malgo.FormatS16
	deviceConfig.Playback.Channels = uint32(format.Channels)
	deviceConfig.SampleRate = uint32(format.SampleRate)
	deviceConfig.Alsa.NoMMap = 1

	callbacks := malgo.DeviceCallbacks{
		Data: func(pOutputSample, pInputSamples []byte, frameCount uint32) {
			d.dataCallback(pOutputSample, frameCount)
		},
		Stop: d.stopCallback,
	}

	device, err := malgo.InitDevice(ctx.Context, deviceConfig, callbacks)
	if err != nil {
		d.releaseContext()
		return nil, fmt.Errorf("failed to initialize playback device: %w", err)
	}
	d.device = device

	return d, nil
}

type malgoDevice struct {
	*completion
	src      Source
	channels int

	mu      sync.Mutex
	ctx     *malgo.AllocatedContext
	device  *malgo.Device
	scratch []float32
	closing atomic.Bool
	drained atomic.Bool
}

func (d *malgoDevice) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.device == nil {
		return fmt.Errorf("device closed")
	}
	if err := d.device.Start(); err != nil {
		return fmt.Errorf("failed to start device: %w", err)
	}
	log.Printf("Audio output started: %dHz, %d channels (malgo)", d.device.SampleRate(), d.channels)
	return nil
}

// dataCallback runs on the audio thread
func (d *malgoDevice) dataCallback(pOutput []byte, frameCount uint32) {
	total := int(frameCount) * d.channels
	if cap(d.scratch) < total {
		d.scratch = make([]float32, total)
	}
	samples := d.scratch[:total]

	if d.drained.Load() {
		clear(samples)
	} else if n := d.src.Read(samples); n == 0 && d.src.Done() {
		// the previous period held the last audio; it has been handed to the device
		d.drained.Store(true)
		d.finish(nil)
	}

	encode.PutPCM16(pOutput, samples)
}

// stopCallback fires on Stop and on device loss
func (d *malgoDevice) stopCallback() {
	if !d.closing.Load() {
		d.finish(ErrDeviceStopped)
	}
}

func (d *malgoDevice) Close() error {
	d.closing.Store(true)

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.device != nil {
		if err := d.device.Stop(); err != nil {
			log.Printf("Warning: device stop error: %v", err)
		}
		d.device.Uninit()
		d.device = nil
	}
	d.releaseContext()
	return nil
}

// releaseContext frees the miniaudio context (caller holds d.mu or owns d)
func (d *malgoDevice) releaseContext() {
	if d.ctx == nil {
		return
	}
	if err := d.ctx.Uninit(); err != nil {
		log.Printf("Warning: malgo context uninit error: %v", err)
	}
	d.ctx.Free()
	d.ctx = nil
}
