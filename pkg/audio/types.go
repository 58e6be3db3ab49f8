// ABOUTME: Audio type definitions
// ABOUTME: Defines formats, decoded buffers and sample conversions
package audio

import (
	"errors"
	"fmt"
	"time"
)

// Int16Scale maps signed 16-bit samples onto [-1, 1).
const Int16Scale = 32768.0

// ErrInvalidBuffer is returned by Validate for malformed buffers.
var ErrInvalidBuffer = errors.New("invalid audio buffer")

// Format describes sample rate and channel layout
type Format struct {
	SampleRate int
	Channels   int
}

// String renders the format as "24000Hz/1ch"
func (f Format) String() string {
	return fmt.Sprintf("%dHz/%dch", f.SampleRate, f.Channels)
}

// Buffer represents decoded, normalized PCM audio.
// Samples holds one slice per channel; every slice has the same length.
type Buffer struct {
	SampleRate int
	Channels   int
	Samples    [][]float32
	Codec      string // strategy that produced the buffer
}

// NewBuffer allocates a zeroed buffer with the given layout
func NewBuffer(sampleRate, channels, frames int) *Buffer {
	samples := make([][]float32, channels)
	for ch := range samples {
		samples[ch] = make([]float32, frames)
	}
	return &Buffer{
		SampleRate: sampleRate,
		Channels:   channels,
		Samples:    samples,
	}
}

// Format returns the buffer's sample rate and channel count
func (b *Buffer) Format() Format {
	return Format{SampleRate: b.SampleRate, Channels: b.Channels}
}

// Frames returns the number of samples per channel
func (b *Buffer) Frames() int {
	if len(b.Samples) == 0 {
		return 0
	}
	return len(b.Samples[0])
}

// Duration returns the playback length at 1x speed
func (b *Buffer) Duration() time.Duration {
	if b.SampleRate <= 0 {
		return 0
	}
	return time.Duration(int64(b.Frames()) * int64(time.Second) / int64(b.SampleRate))
}

// Validate checks the buffer invariants
func (b *Buffer) Validate() error {
	if b == nil {
		return fmt.Errorf("%w: nil buffer", ErrInvalidBuffer)
	}
	if b.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d", ErrInvalidBuffer, b.SampleRate)
	}
	if b.Channels < 1 || len(b.Samples) != b.Channels {
		return fmt.Errorf("%w: %d channels, %d sample slices", ErrInvalidBuffer, b.Channels, len(b.Samples))
	}
	frames := len(b.Samples[0])
	for ch, s := range b.Samples {
		if len(s) != frames {
			return fmt.Errorf("%w: channel %d has %d frames, expected %d", ErrInvalidBuffer, ch, len(s), frames)
		}
	}
	if frames == 0 {
		return fmt.Errorf("%w: no frames", ErrInvalidBuffer)
	}
	return nil
}

// SampleFromInt16 converts a signed 16-bit sample to the normalized range
func SampleFromInt16(sample int16) float32 {
	return float32(float64(sample) / Int16Scale)
}

// SampleToInt16 converts a normalized sample to signed 16-bit with clipping
func SampleToInt16(sample float32) int16 {
	scaled := float64(Clamp(sample)) * Int16Scale
	if scaled > 32767 {
		return 32767
	}
	if scaled < -32768 {
		return -32768
	}
	return int16(scaled)
}

// SampleFromInt32 converts a signed sample of the given bit depth to the normalized range
func SampleFromInt32(sample int32, bitDepth int) float32 {
	if bitDepth <= 0 || bitDepth > 32 {
		return 0
	}
	return float32(float64(sample) / float64(int64(1)<<(bitDepth-1)))
}

// Clamp limits a sample to [-1, 1]
func Clamp(sample float32) float32 {
	if sample > 1 {
		return 1
	}
	if sample < -1 {
		return -1
	}
	return sample
}
