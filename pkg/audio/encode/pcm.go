// ABOUTME: PCM audio encoder
// ABOUTME: Encodes normalized float samples to signed 16-bit little-endian bytes
package encode

import (
	"encoding/binary"

	"github.com/readaloud/readaloud-go/pkg/audio"
)

// PCM16 converts interleaved float samples to s16le bytes
func PCM16(samples []float32) []byte {
	output := make([]byte, len(samples)*2)
	PutPCM16(output, samples)
	return output
}

// PutPCM16 writes interleaved float samples into dst as s16le.
// dst must hold at least 2*len(samples) bytes.
func PutPCM16(dst []byte, samples []float32) {
	for i, sample := range samples {
		binary.LittleEndian.PutUint16(dst[i*2:], uint16(audio.SampleToInt16(sample)))
	}
}

// Interleave flattens a buffer into frame-major order
func Interleave(buf *audio.Buffer) []float32 {
	frames := buf.Frames()
	out := make([]float32, frames*buf.Channels)
	for i := 0; i < frames; i++ {
		for ch := 0; ch < buf.Channels; ch++ {
			out[i*buf.Channels+ch] = buf.Samples[ch][i]
		}
	}
	return out
}

// RawPCM encodes a buffer as headerless interleaved s16le
func RawPCM(buf *audio.Buffer) ([]byte, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}
	return PCM16(Interleave(buf)), nil
}
