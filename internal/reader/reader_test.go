package reader

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/readaloud/readaloud-go/internal/lesson"
	"github.com/readaloud/readaloud-go/pkg/audio/decode"
	"github.com/readaloud/readaloud-go/pkg/audio/output"
	"github.com/readaloud/readaloud-go/pkg/playback"
)

// rawPayload is headerless s16le audio lasting the given number of 24kHz frames
func rawPayload(frames int) string {
	return base64.StdEncoding.EncodeToString(make([]byte, frames*2))
}

func testArticle() *lesson.Article {
	return &lesson.Article{
		ID:    "a1",
		Title: "Test",
		Segments: []lesson.Segment{
			{ID: "long1", Text: "First long sentence.", AudioData: rawPayload(48000)},
			{ID: "long2", Text: "Second long sentence.", AudioData: rawPayload(48000)},
			{ID: "short", Text: "Short.", AudioData: rawPayload(1200)},
			{ID: "silent", Text: "No audio here."},
			{ID: "broken", Text: "Broken payload.", AudioData: "!!!not base64!!!"},
			{ID: "odd", Text: "Odd payload.", AudioData: base64.StdEncoding.EncodeToString([]byte{1, 2, 3})},
		},
		KeyVocabulary: []lesson.VocabularyItem{
			{ID: "w1", Word: "sentence", AudioData: rawPayload(24000)},
			{ID: "w2", Word: "payload"},
		},
	}
}

func newTestReader(t *testing.T) (*Reader, *playback.Manager) {
	t.Helper()
	mgr := playback.NewManager(playback.Config{Backend: output.NewNullWithTick(time.Millisecond)})
	r, err := New(Config{Article: testArticle(), Manager: mgr})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() {
		r.Close()
		mgr.Close()
	})
	return r, mgr
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestToggleSegment(t *testing.T) {
	r, mgr := newTestReader(t)
	ctx := context.Background()

	playing, err := r.ToggleSegment(ctx, "long1")
	if err != nil {
		t.Fatalf("ToggleSegment failed: %v", err)
	}
	if !playing || r.ActiveSegment() != "long1" {
		t.Fatalf("expected long1 playing, got playing=%v active=%q", playing, r.ActiveSegment())
	}
	if mgr.State(playback.ChannelSegment) != playback.Active {
		t.Error("segment channel should be active")
	}

	playing, err = r.ToggleSegment(ctx, "long1")
	if err != nil {
		t.Fatalf("second ToggleSegment failed: %v", err)
	}
	if playing || r.ActiveSegment() != "" {
		t.Errorf("expected toggle off, got playing=%v active=%q", playing, r.ActiveSegment())
	}
	if mgr.State(playback.ChannelSegment) != playback.Idle {
		t.Error("segment channel should be idle")
	}
}

func TestSwitchSegment(t *testing.T) {
	r, mgr := newTestReader(t)
	ctx := context.Background()

	if _, err := r.ToggleSegment(ctx, "long1"); err != nil {
		t.Fatal(err)
	}
	first := mgr.Active(playback.ChannelSegment)

	if _, err := r.ToggleSegment(ctx, "long2"); err != nil {
		t.Fatal(err)
	}
	second := mgr.Active(playback.ChannelSegment)

	if r.ActiveSegment() != "long2" {
		t.Errorf("expected long2 active, got %q", r.ActiveSegment())
	}
	if first == nil || second == nil || first == second {
		t.Fatal("expected a new handle after switching")
	}
	if first.Alive() {
		t.Error("previous handle should be released")
	}
}

func TestSegmentFailuresLeaveStateUntouched(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want error
	}{
		{"no audio", "silent", ErrNoAudio},
		{"malformed payload", "broken", decode.ErrMalformedPayload},
		{"undecodable", "odd", decode.ErrDecode},
		{"unknown", "nope", ErrUnknownItem},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, mgr := newTestReader(t)
			ctx := context.Background()

			if _, err := r.ToggleSegment(ctx, "long1"); err != nil {
				t.Fatal(err)
			}
			h := mgr.Active(playback.ChannelSegment)

			playing, err := r.ToggleSegment(ctx, tt.id)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
			if playing {
				t.Error("failed toggle should not report playing")
			}
			if r.ActiveSegment() != "long1" {
				t.Errorf("active segment changed to %q", r.ActiveSegment())
			}
			if mgr.Active(playback.ChannelSegment) != h || !h.Alive() {
				t.Error("current playback should be untouched")
			}
		})
	}
}

func TestSegmentEndsNaturally(t *testing.T) {
	var mu sync.Mutex
	var statuses []Status

	mgr := playback.NewManager(playback.Config{Backend: output.NewNullWithTick(time.Millisecond)})
	defer mgr.Close()
	r, err := New(Config{
		Article: testArticle(),
		Manager: mgr,
		OnChange: func(s Status) {
			mu.Lock()
			statuses = append(statuses, s)
			mu.Unlock()
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	if _, err := r.ToggleSegment(context.Background(), "short"); err != nil {
		t.Fatal(err)
	}

	waitFor(t, "segment to end", func() bool { return r.ActiveSegment() == "" })

	if mgr.State(playback.ChannelSegment) != playback.Idle {
		t.Error("segment channel should be idle")
	}

	mu.Lock()
	defer mu.Unlock()
	sawLoading := false
	for _, s := range statuses {
		if s.Loading == "short" {
			sawLoading = true
		}
	}
	if !sawLoading {
		t.Error("expected a loading status")
	}
	if last := statuses[len(statuses)-1]; last.ActiveSegment != "" {
		t.Errorf("final status still active: %+v", last)
	}
}

func TestPlayWord(t *testing.T) {
	r, mgr := newTestReader(t)
	ctx := context.Background()

	if err := r.SetSpeed(1.5); err != nil {
		t.Fatal(err)
	}
	if _, err := r.ToggleSegment(ctx, "long1"); err != nil {
		t.Fatal(err)
	}
	seg := mgr.Active(playback.ChannelSegment)

	if err := r.PlayWord(ctx, "w1"); err != nil {
		t.Fatalf("PlayWord failed: %v", err)
	}
	word := mgr.Active(playback.ChannelVocabulary)
	if word == nil {
		t.Fatal("vocabulary channel should be active")
	}
	if word.Rate() != 1.0 {
		t.Errorf("word should play at 1.0, got %v", word.Rate())
	}
	if seg.Rate() != 1.5 {
		t.Errorf("segment should play at 1.5, got %v", seg.Rate())
	}

	if err := r.PlayWord(ctx, "w1"); err != nil {
		t.Fatal(err)
	}
	if word.Alive() {
		t.Error("replaying a word should restart it")
	}
	if !seg.Alive() {
		t.Error("word playback must not affect the segment")
	}
	if r.Status().ActiveWord != "w1" {
		t.Errorf("expected w1 selected, got %q", r.Status().ActiveWord)
	}
}

func TestPlayWordWithoutAudio(t *testing.T) {
	r, mgr := newTestReader(t)
	ctx := context.Background()

	if err := r.PlayWord(ctx, "w1"); err != nil {
		t.Fatal(err)
	}

	err := r.PlayWord(ctx, "w2")
	if !errors.Is(err, ErrNoAudio) {
		t.Errorf("expected ErrNoAudio, got %v", err)
	}
	if r.Status().ActiveWord != "w2" {
		t.Errorf("word should still be selected, got %q", r.Status().ActiveWord)
	}
	if mgr.State(playback.ChannelVocabulary) != playback.Idle {
		t.Error("previous word audio should be stopped")
	}

	if err := r.PlayWord(ctx, "missing"); !errors.Is(err, ErrUnknownItem) {
		t.Errorf("expected ErrUnknownItem, got %v", err)
	}

	r.ClearWord()
	if r.Status().ActiveWord != "" {
		t.Error("ClearWord should deselect")
	}
}

func TestSetSpeed(t *testing.T) {
	r, _ := newTestReader(t)

	if err := r.SetSpeed(0.75); err != nil {
		t.Fatal(err)
	}
	if r.Speed() != 0.75 || r.Status().Rate != 0.75 {
		t.Errorf("expected speed 0.75, got %v", r.Speed())
	}
	if err := r.SetSpeed(-1); !errors.Is(err, playback.ErrInvalidRate) {
		t.Errorf("expected ErrInvalidRate, got %v", err)
	}
}

func TestStop(t *testing.T) {
	r, mgr := newTestReader(t)

	r.Stop()
	if _, err := r.ToggleSegment(context.Background(), "long1"); err != nil {
		t.Fatal(err)
	}
	r.Stop()
	r.Stop()

	if r.ActiveSegment() != "" || mgr.State(playback.ChannelSegment) != playback.Idle {
		t.Error("Stop should idle the segment channel")
	}
}

func TestCanceledDecode(t *testing.T) {
	r, _ := newTestReader(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := r.ToggleSegment(ctx, "long1"); err == nil {
		t.Fatal("expected error for canceled context")
	}
	if r.ActiveSegment() != "" || r.Status().Loading != "" {
		t.Errorf("canceled decode should not change state: %+v", r.Status())
	}
}

func TestNewValidation(t *testing.T) {
	if _, err := New(Config{Manager: playback.NewManager(playback.Config{Backend: output.NewNull()})}); err == nil {
		t.Error("expected error without article")
	}
	if _, err := New(Config{Article: testArticle()}); err == nil {
		t.Error("expected error without manager")
	}
}

func TestPlayAll(t *testing.T) {
	article := &lesson.Article{
		Segments: []lesson.Segment{
			{ID: "a", AudioData: rawPayload(480)},
			{ID: "b"},
			{ID: "c", AudioData: "%%%"},
			{ID: "d", AudioData: rawPayload(480)},
		},
	}

	mgr := playback.NewManager(playback.Config{Backend: output.NewNullWithTick(time.Millisecond)})
	defer mgr.Close()

	var mu sync.Mutex
	var started []string
	r, err := New(Config{
		Article: article,
		Manager: mgr,
		OnChange: func(s Status) {
			mu.Lock()
			defer mu.Unlock()
			if s.ActiveSegment != "" && (len(started) == 0 || started[len(started)-1] != s.ActiveSegment) {
				started = append(started, s.ActiveSegment)
			}
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := r.PlayAll(ctx); err != nil {
		t.Fatalf("PlayAll failed: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if strings.Join(started, ",") != "a,d" {
		t.Errorf("expected a,d to play, got %v", started)
	}
	if mgr.State(playback.ChannelSegment) != playback.Idle {
		t.Error("segment channel should be idle after PlayAll")
	}
}

func TestPlayAllCanceled(t *testing.T) {
	r, mgr := newTestReader(t)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	if err := r.PlayAll(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
	if mgr.State(playback.ChannelSegment) != playback.Idle {
		t.Error("canceled PlayAll should stop playback")
	}
}
