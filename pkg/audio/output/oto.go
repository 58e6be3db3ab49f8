// ABOUTME: Oto-based audio output implementation
// ABOUTME: Shares one process-wide oto context and opens one player per playback
package output

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/readaloud/readaloud-go/pkg/audio"
	"github.com/readaloud/readaloud-go/pkg/audio/encode"
)

// DefaultOtoFormat is the context format used by the registry
var DefaultOtoFormat = audio.Format{SampleRate: 48000, Channels: 2}

const otoPollInterval = 10 * time.Millisecond

// oto allows only one context per process, so every Oto backend shares it
var (
	otoMu      sync.Mutex
	otoCtx     *oto.Context
	otoFormat  audio.Format
	otoPlayers int
)

// Oto backend using the oto library
type Oto struct {
	format audio.Format
}

// NewOto creates an oto backend. The first backend to open a device fixes
// the process-wide context format.
func NewOto(format audio.Format) *Oto {
	return &Oto{format: format}
}

// Name implements Backend
func (o *Oto) Name() string { return "oto" }

// Format implements Backend; all players share the context format
func (o *Oto) Format(src audio.Format) audio.Format {
	otoMu.Lock()
	defer otoMu.Unlock()
	if otoCtx != nil {
		return otoFormat
	}
	return o.format
}

// Open acquires a player on the shared context
func (o *Oto) Open(format audio.Format, src Source) (Device, error) {
	otoMu.Lock()
	defer otoMu.Unlock()

	if otoCtx == nil {
		op := &oto.NewContextOptions{
			SampleRate:   format.SampleRate,
			ChannelCount: format.Channels,
			Format:       oto.FormatSignedInt16LE,
		}
		ctx, readyChan, err := oto.NewContext(op)
		if err != nil {
			return nil, fmt.Errorf("failed to create oto context: %w", err)
		}
		<-readyChan
		otoCtx = ctx
		otoFormat = format
		log.Printf("Audio output initialized: %dHz, %d channels (oto)", format.SampleRate, format.Channels)
	} else if format != otoFormat {
		return nil, fmt.Errorf("oto context is %s, cannot open %s", otoFormat, format)
	}

	if otoPlayers == 0 {
		if err := otoCtx.Resume(); err != nil {
			return nil, fmt.Errorf("failed to resume oto context: %w", err)
		}
	}
	otoPlayers++

	reader := &otoReader{src: src, channels: format.Channels}
	ctx, cancel := context.WithCancel(context.Background())
	return &otoDevice{
		completion: newCompletion(),
		reader:     reader,
		player:     otoCtx.NewPlayer(reader),
		ctx:        ctx,
		cancel:     cancel,
	}, nil
}

// releasePlayer suspends the shared context once no players remain
func releasePlayer() {
	otoMu.Lock()
	defer otoMu.Unlock()

	otoPlayers--
	if otoPlayers == 0 && otoCtx != nil {
		if err := otoCtx.Suspend(); err != nil {
			log.Printf("Warning: oto suspend error: %v", err)
		}
	}
}

// otoReader adapts a Source to the s16le io.Reader oto pulls from
type otoReader struct {
	src      Source
	channels int
	scratch  []float32

	mu  sync.Mutex
	eof bool
}

func (r *otoReader) Read(p []byte) (int, error) {
	frameBytes := r.channels * 2
	frames := len(p) / frameBytes
	if frames == 0 {
		return 0, nil
	}

	total := frames * r.channels
	if cap(r.scratch) < total {
		r.scratch = make([]float32, total)
	}
	samples := r.scratch[:total]

	n := r.src.Read(samples)
	if n == 0 && r.src.Done() {
		r.mu.Lock()
		r.eof = true
		r.mu.Unlock()
		return 0, io.EOF
	}

	encode.PutPCM16(p, samples[:n*r.channels])
	return n * frameBytes, nil
}

func (r *otoReader) drained() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.eof
}

type otoDevice struct {
	*completion
	reader *otoReader
	player *oto.Player

	ctx       context.Context
	cancel    context.CancelFunc
	startOnce sync.Once
	closeOnce sync.Once
	wg        sync.WaitGroup
}

func (d *otoDevice) Start() error {
	d.startOnce.Do(func() {
		d.player.Play()
		d.wg.Add(1)
		go d.watch()
	})
	return nil
}

// watch polls the player until it has played out or failed
func (d *otoDevice) watch() {
	defer d.wg.Done()

	ticker := time.NewTicker(otoPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-d.ctx.Done():
			return
		case <-ticker.C:
			if err := d.player.Err(); err != nil {
				d.finish(fmt.Errorf("%w: %v", ErrDeviceStopped, err))
				return
			}
			if d.reader.drained() && !d.player.IsPlaying() {
				d.finish(nil)
				return
			}
		}
	}
}

func (d *otoDevice) Close() error {
	var err error
	d.closeOnce.Do(func() {
		d.cancel()
		d.wg.Wait()
		d.player.Pause()
		err = d.player.Close()
		releasePlayer()
	})
	return err
}
