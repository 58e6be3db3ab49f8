// ABOUTME: WAV file writer
// ABOUTME: Wraps 16-bit PCM in a canonical 44-byte RIFF/WAVE header
package encode

import (
	"encoding/binary"

	"github.com/readaloud/readaloud-go/pkg/audio"
)

const wavHeaderSize = 44

// WAV encodes a buffer as a 16-bit PCM RIFF/WAVE file
func WAV(buf *audio.Buffer) ([]byte, error) {
	data, err := RawPCM(buf)
	if err != nil {
		return nil, err
	}

	out := make([]byte, wavHeaderSize+len(data))
	le := binary.LittleEndian
	blockAlign := buf.Channels * 2

	copy(out[0:], "RIFF")
	le.PutUint32(out[4:], uint32(36+len(data)))
	copy(out[8:], "WAVE")
	copy(out[12:], "fmt ")
	le.PutUint32(out[16:], 16)
	le.PutUint16(out[20:], 1) // PCM
	le.PutUint16(out[22:], uint16(buf.Channels))
	le.PutUint32(out[24:], uint32(buf.SampleRate))
	le.PutUint32(out[28:], uint32(buf.SampleRate*blockAlign))
	le.PutUint16(out[32:], uint16(blockAlign))
	le.PutUint16(out[34:], 16)
	copy(out[36:], "data")
	le.PutUint32(out[40:], uint32(len(data)))
	copy(out[wavHeaderSize:], data)

	return out, nil
}
