// ABOUTME: FLAC audio decoder
// ABOUTME: Decodes FLAC files frame by frame with mewkiz/flac
package decode

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/mewkiz/flac"
	"github.com/readaloud/readaloud-go/pkg/audio"
)

func decodeFLAC(ctx context.Context, data []byte, maxFrames int) (*audio.Buffer, error) {
	stream, err := flac.New(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open flac stream: %w", err)
	}
	defer stream.Close()

	info := stream.Info
	channels := int(info.NChannels)
	bitDepth := int(info.BitsPerSample)

	b, err := newBuilder(int(info.SampleRate), channels, maxFrames, int(info.NSamples))
	if err != nil {
		return nil, err
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		f, err := stream.ParseNext()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("flac frame error: %w", err)
		}

		n := int(f.BlockSize)
		if err := b.reserve(n); err != nil {
			return nil, err
		}
		for ch := 0; ch < channels; ch++ {
			var samples []int32
			if ch < len(f.Subframes) {
				samples = f.Subframes[ch].Samples
			}
			for i := 0; i < n; i++ {
				var s float32
				if i < len(samples) {
					s = audio.SampleFromInt32(samples[i], bitDepth)
				}
				b.samples[ch] = append(b.samples[ch], s)
			}
		}
	}

	return b.buffer()
}
