// ABOUTME: Variable-rate playback stream using linear interpolation
// ABOUTME: Renders decoded buffers to a device format at an adjustable speed
// Package resample renders a decoded buffer at a playback-rate multiplier.
//
// Uses linear interpolation for both sample rate conversion and speed
// changes. Speed changes are smoothed exponentially so an in-flight stream
// never jumps audibly.
//
// Example:
//
//	s := resample.New(buf, audio.Format{SampleRate: 48000, Channels: 2}, 1.0)
//	s.SetTargetRate(1.5)
//	frames := s.Read(out) // out is interleaved float32
package resample
