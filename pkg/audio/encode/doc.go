// ABOUTME: Audio encoder package for writing normalized PCM
// ABOUTME: Provides s16le interleaving for output devices plus WAV and Ogg Opus writers
// Package encode converts normalized float audio back to byte formats.
//
// Supports: interleaved signed 16-bit little-endian PCM, RIFF/WAVE (16-bit PCM),
// Ogg Opus (libopus via hraban/opus)
//
// Example:
//
//	wav, err := encode.WAV(buf)
//	raw := encode.PCM16(interleaved)
package encode
