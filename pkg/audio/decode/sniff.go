// ABOUTME: Container signature detection
// ABOUTME: Identifies WAV, MP3, FLAC and Ogg payloads from their leading bytes
package decode

import "bytes"

// Kind identifies a container format
type Kind string

const (
	KindUnknown Kind = ""
	KindWAV     Kind = "wav"
	KindMP3     Kind = "mp3"
	KindFLAC    Kind = "flac"
	KindVorbis  Kind = "vorbis"
	KindOpus    Kind = "opus"
)

// oggProbeBytes bounds the search for the Opus identification header;
// it always sits in the first Ogg page.
const oggProbeBytes = 512

// Sniff returns the container kind of data, or KindUnknown
func Sniff(data []byte) Kind {
	switch {
	case len(data) >= 12 && bytes.Equal(data[0:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WAVE")):
		return KindWAV
	case bytes.HasPrefix(data, []byte("fLaC")):
		return KindFLAC
	case bytes.HasPrefix(data, []byte("OggS")):
		head := data
		if len(head) > oggProbeBytes {
			head = head[:oggProbeBytes]
		}
		if bytes.Contains(head, []byte("OpusHead")) {
			return KindOpus
		}
		return KindVorbis
	case bytes.HasPrefix(data, []byte("ID3")):
		return KindMP3
	case isMPEGFrameHeader(data):
		return KindMP3
	}
	return KindUnknown
}

// isMPEGFrameHeader checks for a plausible MPEG audio frame header
func isMPEGFrameHeader(data []byte) bool {
	if len(data) < 4 {
		return false
	}
	if data[0] != 0xFF || data[1]&0xE0 != 0xE0 {
		return false
	}
	version := (data[1] >> 3) & 0x03
	layer := (data[1] >> 1) & 0x03
	bitrate := data[2] >> 4
	sampleRate := (data[2] >> 2) & 0x03
	return version != 0x01 && layer != 0x00 && bitrate != 0x0F && bitrate != 0x00 && sampleRate != 0x03
}
