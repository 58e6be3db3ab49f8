// ABOUTME: Sequential reading of a whole article
// ABOUTME: Plays every segment with audio in order and waits for each to end
package reader

import (
	"context"
	"log"
	"sync"

	"github.com/readaloud/readaloud-go/pkg/playback"
)

// PlayAll reads every playable segment in order. Segments without audio or
// with undecodable audio are logged and skipped. It returns ctx.Err() if ctx
// ends first, after stopping playback.
func (r *Reader) PlayAll(ctx context.Context) error {
	for _, seg := range r.article.Segments {
		if !seg.HasAudio() {
			log.Printf("Reader: skipping %s: %v", seg.ID, ErrNoAudio)
			continue
		}

		ended := make(chan struct{})
		var once sync.Once
		unsubscribe := r.mgr.Subscribe(playback.ChannelSegment, func(playback.Event) {
			once.Do(func() { close(ended) })
		})

		playing, err := r.ToggleSegment(ctx, seg.ID)
		if err != nil {
			unsubscribe()
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Printf("Reader: skipping %s: %v", seg.ID, err)
			continue
		}
		if !playing {
			unsubscribe()
			continue
		}

		log.Printf("Reader: %s", seg.Text)

		select {
		case <-ended:
			unsubscribe()
		case <-ctx.Done():
			unsubscribe()
			r.Stop()
			return ctx.Err()
		}
	}
	return nil
}
