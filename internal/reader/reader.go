// ABOUTME: Point-reading controller
// ABOUTME: Toggles segments, plays vocabulary and tracks what is active
package reader

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/readaloud/readaloud-go/internal/lesson"
	"github.com/readaloud/readaloud-go/pkg/audio/decode"
	"github.com/readaloud/readaloud-go/pkg/playback"
)

var (
	// ErrNoAudio means the item has no local audio configured
	ErrNoAudio = errors.New("no local audio configured")

	// ErrUnknownItem means no segment or word has the requested id
	ErrUnknownItem = errors.New("unknown lesson item")

	// ErrBusy means a segment is still being decoded
	ErrBusy = errors.New("segment audio is loading")
)

// Status is a snapshot of the reader
type Status struct {
	ActiveSegment string
	ActiveWord    string
	Loading       string // segment being decoded
	Rate          float64
}

// Config holds reader dependencies
type Config struct {
	Article *lesson.Article
	Decoder *decode.Decoder   // default: decode.Default()
	Manager *playback.Manager // required

	// OnChange is called after every status change, outside the reader lock
	OnChange func(Status)
}

// Reader plays one article
type Reader struct {
	article  *lesson.Article
	dec      *decode.Decoder
	mgr      *playback.Manager
	onChange func(Status)

	mu            sync.Mutex
	activeSegment string
	segmentHandle string
	activeWord    string
	wordHandle    string
	loading       string

	unsubscribe []func()
}

// New creates a reader and subscribes to the manager's ended events
func New(cfg Config) (*Reader, error) {
	if cfg.Article == nil {
		return nil, fmt.Errorf("reader: article is required")
	}
	if cfg.Manager == nil {
		return nil, fmt.Errorf("reader: manager is required")
	}
	if cfg.Decoder == nil {
		cfg.Decoder = decode.Default()
	}

	r := &Reader{
		article:  cfg.Article,
		dec:      cfg.Decoder,
		mgr:      cfg.Manager,
		onChange: cfg.OnChange,
	}
	r.unsubscribe = []func(){
		cfg.Manager.Subscribe(playback.ChannelSegment, r.segmentEnded),
		cfg.Manager.Subscribe(playback.ChannelVocabulary, r.wordEnded),
	}
	return r, nil
}

// Article returns the article being read
func (r *Reader) Article() *lesson.Article { return r.article }

// ToggleSegment stops the segment if it is playing, otherwise decodes it and
// switches the segment channel to it. It reports whether the segment is now
// playing. Decode failures leave playback untouched.
func (r *Reader) ToggleSegment(ctx context.Context, id string) (bool, error) {
	seg, ok := r.article.Segment(id)
	if !ok {
		return false, fmt.Errorf("%w: segment %q", ErrUnknownItem, id)
	}

	r.mu.Lock()
	if r.loading != "" {
		r.mu.Unlock()
		return false, ErrBusy
	}
	if r.activeSegment == id {
		r.activeSegment = ""
		r.segmentHandle = ""
		r.mu.Unlock()

		r.mgr.Stop(playback.ChannelSegment)
		r.changed()
		return false, nil
	}
	if !seg.HasAudio() {
		r.mu.Unlock()
		return false, fmt.Errorf("segment %q: %w", id, ErrNoAudio)
	}
	r.loading = id
	r.mu.Unlock()
	r.changed()

	res, err := r.decode(ctx, seg.AudioData)

	r.mu.Lock()
	r.loading = ""
	r.mu.Unlock()

	if err != nil {
		r.changed()
		return false, fmt.Errorf("segment %q: %w", id, err)
	}

	h, err := r.mgr.Start(playback.ChannelSegment, res.Buffer, 0)
	if err != nil {
		r.changed()
		return false, fmt.Errorf("segment %q: %w", id, err)
	}

	playing := r.bindSegment(id, h)
	r.changed()
	return playing, nil
}

// bindSegment records h as the active segment unless it already ended
func (r *Reader) bindSegment(id string, h *playback.Handle) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !h.Alive() {
		r.activeSegment = ""
		r.segmentHandle = ""
		return false
	}
	r.activeSegment = id
	r.segmentHandle = h.ID()
	return true
}

// PlayWord selects a vocabulary item and plays it from the start at 1x
func (r *Reader) PlayWord(ctx context.Context, id string) error {
	item, ok := r.article.Vocabulary(id)
	if !ok {
		return fmt.Errorf("%w: word %q", ErrUnknownItem, id)
	}

	r.mgr.Stop(playback.ChannelVocabulary)

	r.mu.Lock()
	r.activeWord = id
	r.wordHandle = ""
	r.mu.Unlock()
	r.changed()

	if !item.HasAudio() {
		return fmt.Errorf("word %q: %w", item.Word, ErrNoAudio)
	}

	res, err := r.decode(ctx, item.AudioData)
	if err != nil {
		return fmt.Errorf("word %q: %w", item.Word, err)
	}

	h, err := r.mgr.Start(playback.ChannelVocabulary, res.Buffer, 1.0)
	if err != nil {
		return fmt.Errorf("word %q: %w", item.Word, err)
	}

	r.mu.Lock()
	if h.Alive() && r.activeWord == id {
		r.wordHandle = h.ID()
	}
	r.mu.Unlock()
	return nil
}

// ClearWord deselects the active word without stopping its audio
func (r *Reader) ClearWord() {
	r.mu.Lock()
	r.activeWord = ""
	r.mu.Unlock()
	r.changed()
}

func (r *Reader) decode(ctx context.Context, payload string) (decode.Result, error) {
	select {
	case res := <-r.dec.DecodeAsync(ctx, payload):
		if !res.OK() {
			return res, res.Err
		}
		log.Printf("Reader: decoded %s audio via %s (%s, %v)",
			res.Buffer.Codec, res.Strategy, res.Buffer.Format(), res.Buffer.Duration())
		return res, nil
	case <-ctx.Done():
		return decode.Result{}, ctx.Err()
	}
}

// SetSpeed changes the segment rate
func (r *Reader) SetSpeed(rate float64) error {
	if err := r.mgr.SetRate(rate); err != nil {
		return err
	}
	r.changed()
	return nil
}

// Speed returns the segment rate
func (r *Reader) Speed() float64 { return r.mgr.Rate() }

// Stop halts the segment channel
func (r *Reader) Stop() {
	r.mu.Lock()
	r.activeSegment = ""
	r.segmentHandle = ""
	r.mu.Unlock()

	r.mgr.Stop(playback.ChannelSegment)
	r.changed()
}

// ActiveSegment returns the playing segment id, or ""
func (r *Reader) ActiveSegment() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.activeSegment
}

// Status returns a snapshot of the reader
func (r *Reader) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Status{
		ActiveSegment: r.activeSegment,
		ActiveWord:    r.activeWord,
		Loading:       r.loading,
		Rate:          r.mgr.Rate(),
	}
}

// Close unsubscribes and stops both channels
func (r *Reader) Close() {
	for _, unsubscribe := range r.unsubscribe {
		unsubscribe()
	}
	r.mgr.Stop(playback.ChannelSegment)
	r.mgr.Stop(playback.ChannelVocabulary)
}

func (r *Reader) segmentEnded(ev playback.Event) {
	r.mu.Lock()
	if ev.HandleID != r.segmentHandle {
		r.mu.Unlock()
		return
	}
	r.activeSegment = ""
	r.segmentHandle = ""
	r.mu.Unlock()

	if ev.Reason == playback.EndResourceError {
		log.Printf("Reader: segment playback stopped: %v", ev.Err)
	}
	r.changed()
}

func (r *Reader) wordEnded(ev playback.Event) {
	r.mu.Lock()
	if ev.HandleID == r.wordHandle {
		r.wordHandle = ""
	}
	r.mu.Unlock()
}

func (r *Reader) changed() {
	if r.onChange != nil {
		r.onChange(r.Status())
	}
}
