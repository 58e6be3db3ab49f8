// ABOUTME: Unit tests for PCM and WAV encoders
// ABOUTME: Tests s16le conversion, interleaving and RIFF header layout
package encode

import (
	"encoding/binary"
	"testing"

	"github.com/readaloud/readaloud-go/pkg/audio"
)

func TestPCM16(t *testing.T) {
	input := []float32{0, 0.5, -0.5, 1, -1}
	output := PCM16(input)

	if len(output) != len(input)*2 {
		t.Fatalf("expected %d bytes, got %d", len(input)*2, len(output))
	}

	expected := []int16{0, 16384, -16384, 32767, -32768}
	for i, want := range expected {
		got := int16(binary.LittleEndian.Uint16(output[i*2:]))
		if got != want {
			t.Errorf("sample %d: expected %d, got %d", i, want, got)
		}
	}
}

func TestInterleave(t *testing.T) {
	buf := audio.NewBuffer(8000, 2, 3)
	buf.Samples[0] = []float32{0.1, 0.2, 0.3}
	buf.Samples[1] = []float32{-0.1, -0.2, -0.3}

	out := Interleave(buf)
	expected := []float32{0.1, -0.1, 0.2, -0.2, 0.3, -0.3}
	if len(out) != len(expected) {
		t.Fatalf("expected %d samples, got %d", len(expected), len(out))
	}
	for i := range expected {
		if out[i] != expected[i] {
			t.Errorf("index %d: expected %f, got %f", i, expected[i], out[i])
		}
	}
}

func TestRawPCM_InvalidBuffer(t *testing.T) {
	if _, err := RawPCM(audio.NewBuffer(8000, 1, 0)); err == nil {
		t.Fatal("expected error for empty buffer")
	}
}

func TestWAVHeader(t *testing.T) {
	buf := audio.NewBuffer(24000, 1, 24000)
	data, err := WAV(buf)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	if len(data) != 44+48000 {
		t.Fatalf("expected %d bytes, got %d", 44+48000, len(data))
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		t.Errorf("missing RIFF/WAVE magic: %q", data[0:12])
	}
	le := binary.LittleEndian
	if rate := le.Uint32(data[24:]); rate != 24000 {
		t.Errorf("expected sample rate 24000, got %d", rate)
	}
	if ch := le.Uint16(data[22:]); ch != 1 {
		t.Errorf("expected 1 channel, got %d", ch)
	}
	if size := le.Uint32(data[40:]); size != 48000 {
		t.Errorf("expected data size 48000, got %d", size)
	}
}

func TestByName(t *testing.T) {
	for _, name := range []string{"wav", "pcm", "opus"} {
		if _, ok := ByName(name); !ok {
			t.Errorf("expected encoder for %q", name)
		}
	}
	if _, ok := ByName("mp3"); ok {
		t.Error("expected no encoder for mp3")
	}
}
