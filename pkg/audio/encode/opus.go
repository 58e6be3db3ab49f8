// ABOUTME: Ogg Opus audio encoder
// ABOUTME: Encodes buffers to Opus packets and muxes them into an Ogg stream
package encode

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/readaloud/readaloud-go/pkg/audio"
	"gopkg.in/hraban/opus.v2"
)

// ErrUnsupportedFormat means the buffer cannot be encoded as Opus
var ErrUnsupportedFormat = errors.New("unsupported format for opus")

const (
	opusPreSkip    = 312
	opusMaxPacket  = 4000 // max Opus packet size
	oggSerial      = 0x52414c44
	oggFlagBOS     = 0x02
	oggFlagEOS     = 0x04
	oggGranuleRate = 48000
)

// OggOpus encodes a mono or stereo buffer as an Ogg Opus stream in 20ms
// packets. The sample rate must be one Opus accepts: 8, 12, 16, 24 or 48 kHz.
func OggOpus(buf *audio.Buffer) ([]byte, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}
	if buf.Channels > 2 {
		return nil, fmt.Errorf("%w: %d channels", ErrUnsupportedFormat, buf.Channels)
	}
	switch buf.SampleRate {
	case 8000, 12000, 16000, 24000, 48000:
	default:
		return nil, fmt.Errorf("%w: %dHz", ErrUnsupportedFormat, buf.SampleRate)
	}

	encoder, err := opus.NewEncoder(buf.SampleRate, buf.Channels, opus.AppAudio)
	if err != nil {
		return nil, fmt.Errorf("failed to create opus encoder: %w", err)
	}

	ch := buf.Channels
	frameSize := buf.SampleRate / 50 // 20ms frame
	granuleScale := oggGranuleRate / buf.SampleRate
	interleaved := Interleave(buf)
	frames := buf.Frames()

	w := &oggWriter{serial: oggSerial}
	w.page(opusHead(buf), oggFlagBOS, 0)
	w.page(opusTags(), 0, 0)

	pcm := make([]int16, frameSize*ch)
	packet := make([]byte, opusMaxPacket)
	for start := 0; start < frames; start += frameSize {
		end := min(start+frameSize, frames)

		clear(pcm)
		for i, s := range interleaved[start*ch : end*ch] {
			pcm[i] = audio.SampleToInt16(s)
		}

		n, err := encoder.Encode(pcm, packet)
		if err != nil {
			return nil, fmt.Errorf("opus encode error: %w", err)
		}

		flags := byte(0)
		if end == frames {
			flags = oggFlagEOS
		}
		w.page(packet[:n], flags, int64(opusPreSkip+end*granuleScale))
	}

	return w.buf, nil
}

func opusHead(buf *audio.Buffer) []byte {
	head := make([]byte, 19)
	copy(head, "OpusHead")
	head[8] = 1 // version
	head[9] = byte(buf.Channels)
	binary.LittleEndian.PutUint16(head[10:], opusPreSkip)
	binary.LittleEndian.PutUint32(head[12:], uint32(buf.SampleRate))
	// output gain 0, mapping family 0
	return head
}

func opusTags() []byte {
	const vendor = "readaloud"
	tags := make([]byte, 8+4+len(vendor)+4)
	copy(tags, "OpusTags")
	binary.LittleEndian.PutUint32(tags[8:], uint32(len(vendor)))
	copy(tags[12:], vendor)
	return tags
}

// oggWriter writes one packet per page
type oggWriter struct {
	serial uint32
	seq    uint32
	buf    []byte
}

func (w *oggWriter) page(packet []byte, flags byte, granule int64) {
	// lacing values; a packet that is a multiple of 255 ends with a 0
	var lacing []byte
	for n := len(packet); ; n -= 255 {
		if n < 255 {
			lacing = append(lacing, byte(n))
			break
		}
		lacing = append(lacing, 255)
	}

	header := make([]byte, 27+len(lacing))
	copy(header, "OggS")
	header[5] = flags
	binary.LittleEndian.PutUint64(header[6:], uint64(granule))
	binary.LittleEndian.PutUint32(header[14:], w.serial)
	binary.LittleEndian.PutUint32(header[18:], w.seq)
	header[26] = byte(len(lacing))
	copy(header[27:], lacing)

	start := len(w.buf)
	w.buf = append(w.buf, header...)
	w.buf = append(w.buf, packet...)
	binary.LittleEndian.PutUint32(w.buf[start+22:], oggCRC(w.buf[start:]))
	w.seq++
}

// Ogg uses the unreflected CRC-32 with polynomial 0x04c11db7
var oggCRCTable = func() (t [256]uint32) {
	for i := range t {
		r := uint32(i) << 24
		for j := 0; j < 8; j++ {
			if r&0x80000000 != 0 {
				r = r<<1 ^ 0x04c11db7
			} else {
				r <<= 1
			}
		}
		t[i] = r
	}
	return t
}()

func oggCRC(data []byte) uint32 {
	var crc uint32
	for _, b := range data {
		crc = crc<<8 ^ oggCRCTable[byte(crc>>24)^b]
	}
	return crc
}
