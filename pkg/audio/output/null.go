// ABOUTME: Null audio output
// ABOUTME: Consumes the source in real time without producing sound
package output

import (
	"sync"
	"time"

	"github.com/readaloud/readaloud-go/pkg/audio"
)

const nullTick = 10 * time.Millisecond

// Null discards audio at real-time pace
type Null struct {
	tick time.Duration
}

// NewNull creates a null backend
func NewNull() *Null {
	return &Null{tick: nullTick}
}

// NewNullWithTick creates a null backend with a custom pull interval
func NewNullWithTick(tick time.Duration) *Null {
	return &Null{tick: tick}
}

// Name implements Backend
func (n *Null) Name() string { return "null" }

// Format implements Backend
func (n *Null) Format(src audio.Format) audio.Format { return src }

// Open implements Backend
func (n *Null) Open(format audio.Format, src Source) (Device, error) {
	frames := int(int64(format.SampleRate) * int64(n.tick) / int64(time.Second))
	if frames < 1 {
		frames = 1
	}
	return &nullDevice{
		completion: newCompletion(),
		src:        src,
		tick:       n.tick,
		scratch:    make([]float32, frames*format.Channels),
		stop:       make(chan struct{}),
	}, nil
}

type nullDevice struct {
	*completion
	src     Source
	tick    time.Duration
	scratch []float32

	startOnce sync.Once
	closeOnce sync.Once
	stop      chan struct{}
	wg        sync.WaitGroup
}

func (d *nullDevice) Start() error {
	d.startOnce.Do(func() {
		d.wg.Add(1)
		go d.run()
	})
	return nil
}

func (d *nullDevice) run() {
	defer d.wg.Done()

	ticker := time.NewTicker(d.tick)
	defer ticker.Stop()

	for {
		select {
		case <-d.stop:
			return
		case <-ticker.C:
			if d.src.Read(d.scratch) == 0 && d.src.Done() {
				d.finish(nil)
				return
			}
		}
	}
}

func (d *nullDevice) Close() error {
	d.closeOnce.Do(func() {
		close(d.stop)
		d.wg.Wait()
	})
	return nil
}
