// ABOUTME: Container-aware decode strategy
// ABOUTME: Sniffs the payload and dispatches to the matching codec
package decode

import (
	"context"
	"fmt"

	"github.com/readaloud/readaloud-go/pkg/audio"
)

// codecFunc decodes one container kind
type codecFunc func(ctx context.Context, data []byte, maxFrames int) (*audio.Buffer, error)

var codecs = map[Kind]codecFunc{
	KindWAV:    decodeWAV,
	KindMP3:    decodeMP3,
	KindFLAC:   decodeFLAC,
	KindVorbis: decodeVorbis,
	KindOpus:   decodeOpus,
}

// Container decodes self-describing audio files without hints
type Container struct {
	MaxFrames int
}

// Name implements Strategy
func (c Container) Name() string { return "container" }

// Decode implements Strategy
func (c Container) Decode(ctx context.Context, data []byte) (*audio.Buffer, error) {
	kind := Sniff(data)
	codec, ok := codecs[kind]
	if !ok {
		return nil, ErrUnrecognizedContainer
	}

	maxFrames := c.MaxFrames
	if maxFrames <= 0 {
		maxFrames = DefaultMaxFrames
	}

	buf, err := codec(ctx, data, maxFrames)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", kind, err)
	}
	buf.Codec = string(kind)
	return buf, nil
}

// maxPrealloc caps up-front allocation from header-declared lengths
const maxPrealloc = 1 << 20

// builder accumulates per-channel samples with a frame limit
type builder struct {
	rate      int
	maxFrames int
	samples   [][]float32
}

func newBuilder(rate, channels, maxFrames, hint int) (*builder, error) {
	if rate <= 0 {
		return nil, fmt.Errorf("invalid sample rate %d", rate)
	}
	if channels < 1 {
		return nil, fmt.Errorf("invalid channel count %d", channels)
	}
	if hint < 0 || hint > maxPrealloc {
		hint = maxPrealloc
	}
	if hint > maxFrames {
		hint = maxFrames
	}
	samples := make([][]float32, channels)
	for ch := range samples {
		samples[ch] = make([]float32, 0, hint)
	}
	return &builder{rate: rate, maxFrames: maxFrames, samples: samples}, nil
}

// maxEmptyReads bounds consecutive reads that make no progress without
// reporting an error
const maxEmptyReads = 8

func (b *builder) channels() int { return len(b.samples) }

func (b *builder) frames() int { return len(b.samples[0]) }

// reserve fails when n more frames would exceed the limit
func (b *builder) reserve(n int) error {
	if b.frames()+n > b.maxFrames {
		return fmt.Errorf("%w: more than %d frames", ErrTooLong, b.maxFrames)
	}
	return nil
}

func (b *builder) buffer() (*audio.Buffer, error) {
	if b.frames() == 0 {
		return nil, ErrEmptyAudio
	}
	return &audio.Buffer{
		SampleRate: b.rate,
		Channels:   b.channels(),
		Samples:    b.samples,
	}, nil
}
