// ABOUTME: WAV and Ogg Vorbis decoders
// ABOUTME: Drains gopxl/beep streamers into normalized buffers
package decode

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
	"github.com/readaloud/readaloud-go/pkg/audio"
)

const beepChunkFrames = 4096

func decodeWAV(ctx context.Context, data []byte, maxFrames int) (*audio.Buffer, error) {
	s, format, err := wav.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return drainBeep(ctx, s, format, maxFrames)
}

func decodeVorbis(ctx context.Context, data []byte, maxFrames int) (*audio.Buffer, error) {
	s, format, err := vorbis.Decode(io.NopCloser(bytes.NewReader(data)))
	if err != nil {
		return nil, err
	}
	return drainBeep(ctx, s, format, maxFrames)
}

// drainBeep reads a beep streamer to the end. beep always streams stereo
// pairs, so mono sources keep only the left sample. The wav streamer keeps
// reporting ok with zero samples once a truncated data chunk runs out, so an
// empty read also ends the stream and the frames read so far are kept.
func drainBeep(ctx context.Context, s beep.StreamSeekCloser, format beep.Format, maxFrames int) (*audio.Buffer, error) {
	defer s.Close()

	channels := format.NumChannels
	if channels > 2 {
		return nil, fmt.Errorf("unsupported channel count %d", channels)
	}

	b, err := newBuilder(int(format.SampleRate), channels, maxFrames, s.Len())
	if err != nil {
		return nil, err
	}

	chunk := make([][2]float64, beepChunkFrames)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		n, ok := s.Stream(chunk)
		if n > 0 {
			if err := b.reserve(n); err != nil {
				return nil, err
			}
			for ch := 0; ch < channels; ch++ {
				for i := 0; i < n; i++ {
					b.samples[ch] = append(b.samples[ch], audio.Clamp(float32(chunk[i][ch])))
				}
			}
		}
		if !ok || n == 0 {
			break
		}
	}

	if err := s.Err(); err != nil {
		return nil, err
	}
	return b.buffer()
}
