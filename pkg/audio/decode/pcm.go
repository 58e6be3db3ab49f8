// ABOUTME: Raw PCM fallback strategy
// ABOUTME: Interprets headerless bytes as signed 16-bit little-endian samples
package decode

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/readaloud/readaloud-go/pkg/audio"
)

const (
	// FallbackSampleRate is the rate assumed for headerless payloads
	FallbackSampleRate = 24000

	// FallbackChannels is the channel count assumed for headerless payloads
	FallbackChannels = 1
)

// RawPCM decodes headerless s16le audio. Zero values mean the fallback
// rate and channel count.
type RawPCM struct {
	SampleRate int
	Channels   int
}

// Name implements Strategy
func (p RawPCM) Name() string { return "pcm" }

// Decode implements Strategy
func (p RawPCM) Decode(ctx context.Context, data []byte) (*audio.Buffer, error) {
	rate := p.SampleRate
	if rate <= 0 {
		rate = FallbackSampleRate
	}
	channels := p.Channels
	if channels <= 0 {
		channels = FallbackChannels
	}

	if len(data) == 0 {
		return nil, ErrEmptyAudio
	}
	frameBytes := 2 * channels
	if len(data)%frameBytes != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrOddLength, len(data))
	}

	frames := len(data) / frameBytes
	buf := audio.NewBuffer(rate, channels, frames)
	buf.Codec = "pcm"
	for i := 0; i < frames; i++ {
		if i%65536 == 0 && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		for ch := 0; ch < channels; ch++ {
			off := (i*channels + ch) * 2
			buf.Samples[ch][i] = audio.SampleFromInt16(int16(binary.LittleEndian.Uint16(data[off:])))
		}
	}
	return buf, nil
}
