// ABOUTME: MP3 audio decoder
// ABOUTME: Decodes MP3 files to normalized stereo buffers with go-mp3
package decode

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/hajimehoshi/go-mp3"
	"github.com/readaloud/readaloud-go/pkg/audio"
)

// go-mp3 always emits interleaved stereo s16le
const (
	mp3Channels   = 2
	mp3FrameBytes = mp3Channels * 2
)

func decodeMP3(ctx context.Context, data []byte, maxFrames int) (*audio.Buffer, error) {
	decoder, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create mp3 decoder: %w", err)
	}

	hint := 0
	if length := decoder.Length(); length > 0 {
		hint = int(length / mp3FrameBytes)
	}
	b, err := newBuilder(decoder.SampleRate(), mp3Channels, maxFrames, hint)
	if err != nil {
		return nil, err
	}

	chunk := make([]byte, 8192)
	var pending []byte
	empty := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		n, readErr := decoder.Read(chunk)
		pending = append(pending, chunk[:n]...)
		if n == 0 && readErr == nil {
			if empty++; empty >= maxEmptyReads {
				break
			}
			continue
		}
		empty = 0

		whole := len(pending) / mp3FrameBytes
		if whole > 0 {
			if err := b.reserve(whole); err != nil {
				return nil, err
			}
			for i := 0; i < whole; i++ {
				off := i * mp3FrameBytes
				left := int16(binary.LittleEndian.Uint16(pending[off:]))
				right := int16(binary.LittleEndian.Uint16(pending[off+2:]))
				b.samples[0] = append(b.samples[0], audio.SampleFromInt16(left))
				b.samples[1] = append(b.samples[1], audio.SampleFromInt16(right))
			}
			pending = append(pending[:0], pending[whole*mp3FrameBytes:]...)
		}

		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return nil, fmt.Errorf("mp3 decode error: %w", readErr)
		}
	}

	return b.buffer()
}
