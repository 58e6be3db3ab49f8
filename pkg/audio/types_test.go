// ABOUTME: Tests for audio types
// ABOUTME: Tests sample conversion functions and buffer invariants
package audio

import (
	"errors"
	"testing"
	"time"
)

func TestSampleFromInt16(t *testing.T) {
	tests := []struct {
		name     string
		input    int16
		expected float32
	}{
		{"zero", 0, 0},
		{"half", 16384, 0.5},
		{"negative half", -16384, -0.5},
		{"min", -32768, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SampleFromInt16(tt.input)
			if result != tt.expected {
				t.Errorf("expected %f, got %f", tt.expected, result)
			}
		})
	}
}

func TestSampleToInt16(t *testing.T) {
	tests := []struct {
		name     string
		input    float32
		expected int16
	}{
		{"zero", 0, 0},
		{"half", 0.5, 16384},
		{"negative half", -0.5, -16384},
		{"full scale", 1, 32767},
		{"clipped high", 1.5, 32767},
		{"clipped low", -3, -32768},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SampleToInt16(tt.input)
			if result != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestRoundTrip16Bit(t *testing.T) {
	samples := []int16{0, 100, -100, 1000, -1000, 32767, -32768}

	for _, original := range samples {
		result := SampleToInt16(SampleFromInt16(original))
		if result != original {
			t.Errorf("round-trip failed: %d -> %d", original, result)
		}
	}
}

func TestSampleFromInt32(t *testing.T) {
	if got := SampleFromInt32(-8388608, 24); got != -1 {
		t.Errorf("expected -1 for 24-bit min, got %f", got)
	}
	if got := SampleFromInt32(64, 8); got != 0.5 {
		t.Errorf("expected 0.5 for 8-bit 64, got %f", got)
	}
	if got := SampleFromInt32(1, 0); got != 0 {
		t.Errorf("expected 0 for invalid bit depth, got %f", got)
	}
}

func TestBufferFramesAndDuration(t *testing.T) {
	buf := NewBuffer(24000, 2, 12000)

	if buf.Frames() != 12000 {
		t.Errorf("expected 12000 frames, got %d", buf.Frames())
	}
	if buf.Duration() != 500*time.Millisecond {
		t.Errorf("expected 500ms, got %v", buf.Duration())
	}
	if buf.Format().String() != "24000Hz/2ch" {
		t.Errorf("unexpected format string %q", buf.Format().String())
	}
}

func TestBufferValidate(t *testing.T) {
	tests := []struct {
		name  string
		buf   *Buffer
		valid bool
	}{
		{"valid mono", NewBuffer(24000, 1, 10), true},
		{"valid stereo", NewBuffer(44100, 2, 10), true},
		{"nil", nil, false},
		{"zero rate", NewBuffer(0, 1, 10), false},
		{"no frames", NewBuffer(24000, 1, 0), false},
		{"channel mismatch", &Buffer{SampleRate: 24000, Channels: 2, Samples: [][]float32{make([]float32, 4)}}, false},
		{"ragged", &Buffer{SampleRate: 24000, Channels: 2, Samples: [][]float32{make([]float32, 4), make([]float32, 3)}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.buf.Validate()
			if tt.valid && err != nil {
				t.Fatalf("expected valid buffer, got %v", err)
			}
			if !tt.valid {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !errors.Is(err, ErrInvalidBuffer) {
					t.Errorf("expected ErrInvalidBuffer, got %v", err)
				}
			}
		})
	}
}

func TestTone(t *testing.T) {
	buf := Tone(0, 24000, 2, 500*time.Millisecond)

	if err := buf.Validate(); err != nil {
		t.Fatalf("invalid tone: %v", err)
	}
	if buf.Frames() != 12000 {
		t.Errorf("expected 12000 frames, got %d", buf.Frames())
	}

	var peak float32
	for i, s := range buf.Samples[0] {
		if s != buf.Samples[1][i] {
			t.Fatalf("channels differ at %d", i)
		}
		if s > peak {
			peak = s
		}
	}
	if peak < 0.49 || peak > 0.5 {
		t.Errorf("expected peak near 0.5, got %v", peak)
	}
}
