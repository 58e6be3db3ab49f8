// ABOUTME: Audio fundamentals package providing core types and utilities
// ABOUTME: Defines the decoded Buffer type and float/int16 sample conversion
// Package audio provides the decoded audio representation shared by the
// decoder, the resampler and the playback session manager.
//
// This package defines:
//   - Buffer: normalized PCM, one float32 slice per channel, values in [-1, 1]
//   - Format: sample rate and channel count of a buffer or output device
//
// It also provides conversions between 16-bit integer samples and the
// normalized float range.
//
// Example:
//
//	buf := audio.NewBuffer(24000, 1, 24000)
//	buf.Samples[0][0] = audio.SampleFromInt16(-32768) // -1.0
//	fmt.Println(buf.Duration())                       // 1s
package audio
