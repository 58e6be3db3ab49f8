// ABOUTME: Test tone generator
// ABOUTME: Builds sine-wave buffers for fixtures and device checks
package audio

import (
	"math"
	"time"
)

// DefaultToneFrequency is A4
const DefaultToneFrequency = 440.0

// Tone returns a sine wave of the given frequency and length at half volume,
// duplicated to every channel
func Tone(frequency float64, sampleRate, channels int, d time.Duration) *Buffer {
	if frequency <= 0 {
		frequency = DefaultToneFrequency
	}
	frames := int(d.Seconds() * float64(sampleRate))
	buf := NewBuffer(sampleRate, channels, frames)
	buf.Codec = "tone"

	for i := 0; i < frames; i++ {
		t := float64(i) / float64(sampleRate)
		sample := float32(0.5 * math.Sin(2*math.Pi*frequency*t))
		for ch := 0; ch < channels; ch++ {
			buf.Samples[ch][i] = sample
		}
	}
	return buf
}
