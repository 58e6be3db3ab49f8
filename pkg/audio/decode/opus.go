// ABOUTME: Ogg Opus audio decoder
// ABOUTME: Decodes Ogg Opus files at 48kHz with hraban/opus streams
package decode

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/readaloud/readaloud-go/pkg/audio"
	"gopkg.in/hraban/opus.v2"
)

const (
	// Opus always decodes at 48kHz
	opusSampleRate = 48000

	// 120ms at 48kHz, the largest Opus packet duration
	opusMaxFrameSamples = 5760
)

func decodeOpus(ctx context.Context, data []byte, maxFrames int) (*audio.Buffer, error) {
	channels, err := opusChannels(data)
	if err != nil {
		return nil, err
	}

	stream, err := opus.NewStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open opus stream: %w", err)
	}
	defer stream.Close()

	b, err := newBuilder(opusSampleRate, channels, maxFrames, 0)
	if err != nil {
		return nil, err
	}

	pcm := make([]int16, opusMaxFrameSamples*channels)
	empty := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		n, err := stream.Read(pcm)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("opus decode failed: %w", err)
		}
		if n == 0 {
			if empty++; empty >= maxEmptyReads {
				break
			}
			continue
		}
		empty = 0

		if err := b.reserve(n); err != nil {
			return nil, err
		}
		for i := 0; i < n; i++ {
			for ch := 0; ch < channels; ch++ {
				b.samples[ch] = append(b.samples[ch], audio.SampleFromInt16(pcm[i*channels+ch]))
			}
		}
	}

	return b.buffer()
}

// opusChannels reads the output channel count from the OpusHead packet
func opusChannels(data []byte) (int, error) {
	idx := bytes.Index(data, []byte("OpusHead"))
	if idx < 0 || idx+10 > len(data) {
		return 0, errors.New("missing OpusHead header")
	}
	channels := int(data[idx+9])
	if channels == 0 {
		return 0, errors.New("invalid OpusHead channel count")
	}
	return channels, nil
}
