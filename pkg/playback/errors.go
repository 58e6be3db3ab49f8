// ABOUTME: Playback error types
// ABOUTME: Validation sentinels and the absorbed output resource error
package playback

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidChannel = errors.New("invalid playback channel")
	ErrInvalidRate    = errors.New("playback rate must be positive")
	ErrInvalidBuffer  = errors.New("invalid audio buffer")
	ErrClosed         = errors.New("playback manager closed")
)

// ResourceError reports an output device that could not be acquired or
// failed mid-stream. It only reaches callers inside an Event.
type ResourceError struct {
	Channel Channel
	Op      string // "open", "start" or "play"
	Err     error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("playback %s: %s: %v", e.Channel, e.Op, e.Err)
}

func (e *ResourceError) Unwrap() error { return e.Err }
