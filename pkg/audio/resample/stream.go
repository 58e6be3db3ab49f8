// ABOUTME: Variable-rate linear interpolation stream
// ABOUTME: Converts buffer rate/channels to the device format with smoothed speed changes
package resample

import (
	"math"
	"sync"
	"time"

	"github.com/readaloud/readaloud-go/pkg/audio"
)

// DefaultSmoothing is the time constant for rate changes
const DefaultSmoothing = 100 * time.Millisecond

// rateEpsilon snaps the current rate onto the target
const rateEpsilon = 1e-6

// Stream pulls interleaved frames from a buffer at a playback rate
type Stream struct {
	mu sync.Mutex

	buf         *audio.Buffer
	outChannels int
	outRate     int
	ratio       float64 // source frames per output frame at 1x

	position float64 // in source frames
	rate     float64
	target   float64
	alpha    float64
	done     bool
}

// New creates a stream rendering buf to the out format at the given rate
func New(buf *audio.Buffer, out audio.Format, rate float64) *Stream {
	return NewWithSmoothing(buf, out, rate, DefaultSmoothing)
}

// NewWithSmoothing creates a stream with a custom rate-change time constant.
// A zero smoothing applies rate changes immediately.
func NewWithSmoothing(buf *audio.Buffer, out audio.Format, rate float64, smoothing time.Duration) *Stream {
	if rate <= 0 {
		rate = 1
	}
	alpha := 1.0
	if smoothing > 0 {
		alpha = 1 - math.Exp(-1/(smoothing.Seconds()*float64(out.SampleRate)))
	}
	return &Stream{
		buf:         buf,
		outChannels: out.Channels,
		outRate:     out.SampleRate,
		ratio:       float64(buf.SampleRate) / float64(out.SampleRate),
		rate:        rate,
		target:      rate,
		alpha:       alpha,
	}
}

// Format returns the output format
func (s *Stream) Format() audio.Format {
	return audio.Format{SampleRate: s.outRate, Channels: s.outChannels}
}

// SetTargetRate changes speed gradually
func (s *Stream) SetTargetRate(rate float64) {
	if rate <= 0 {
		return
	}
	s.mu.Lock()
	s.target = rate
	s.mu.Unlock()
}

// SetRate changes speed immediately
func (s *Stream) SetRate(rate float64) {
	if rate <= 0 {
		return
	}
	s.mu.Lock()
	s.rate = rate
	s.target = rate
	s.mu.Unlock()
}

// Rate returns the current (possibly still ramping) rate
func (s *Stream) Rate() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rate
}

// TargetRate returns the rate being ramped towards
func (s *Stream) TargetRate() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.target
}

// Position returns the read position in source frames
func (s *Stream) Position() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.position
}

// Elapsed returns the read position as source time
func (s *Stream) Elapsed() time.Duration {
	return time.Duration(s.Position() / float64(s.buf.SampleRate) * float64(time.Second))
}

// Done reports whether the source is exhausted
func (s *Stream) Done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// Read fills out (interleaved, device channels) and returns the number of
// frames carrying audio. Frames after the end of the source are zeroed.
func (s *Stream) Read(out []float32) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	outFrames := len(out) / s.outChannels
	total := s.buf.Frames()
	last := total - 1

	written := 0
	for written < outFrames {
		if s.done || s.position >= float64(total) {
			s.done = true
			break
		}

		idx := int(s.position)
		frac := float32(s.position - float64(idx))
		next := idx + 1
		if next > last {
			next = last
		}

		base := written * s.outChannels
		for ch := 0; ch < s.outChannels; ch++ {
			out[base+ch] = s.sample(ch, idx, next, frac)
		}
		written++

		if s.rate != s.target {
			s.rate += (s.target - s.rate) * s.alpha
			if math.Abs(s.target-s.rate) < rateEpsilon {
				s.rate = s.target
			}
		}
		s.position += s.rate * s.ratio
	}

	for i := written * s.outChannels; i < len(out); i++ {
		out[i] = 0
	}
	return written
}

// sample interpolates one output channel
func (s *Stream) sample(outCh, idx, next int, frac float32) float32 {
	in := s.buf.Channels
	switch {
	case in == s.outChannels:
		return lerp(s.buf.Samples[outCh], idx, next, frac)
	case in == 1:
		return lerp(s.buf.Samples[0], idx, next, frac)
	case s.outChannels == 1:
		var sum float32
		for ch := 0; ch < in; ch++ {
			sum += lerp(s.buf.Samples[ch], idx, next, frac)
		}
		return sum / float32(in)
	default:
		return lerp(s.buf.Samples[outCh%in], idx, next, frac)
	}
}

func lerp(samples []float32, idx, next int, frac float32) float32 {
	return samples[idx]*(1-frac) + samples[next]*frac
}
