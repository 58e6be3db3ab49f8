// ABOUTME: Encoder interface definition
// ABOUTME: Common interface for buffer encoders
package encode

import "github.com/readaloud/readaloud-go/pkg/audio"

// Encoder serializes a decoded buffer
type Encoder interface {
	// Encode converts a buffer to encoded bytes
	Encode(buf *audio.Buffer) ([]byte, error)
}

// EncoderFunc adapts a function to Encoder
type EncoderFunc func(buf *audio.Buffer) ([]byte, error)

// Encode calls f(buf)
func (f EncoderFunc) Encode(buf *audio.Buffer) ([]byte, error) {
	return f(buf)
}

// ByName returns the encoder for "wav", "pcm" or "opus"
func ByName(name string) (Encoder, bool) {
	switch name {
	case "wav":
		return EncoderFunc(WAV), true
	case "pcm":
		return EncoderFunc(RawPCM), true
	case "opus":
		return EncoderFunc(OggOpus), true
	default:
		return nil, false
	}
}
