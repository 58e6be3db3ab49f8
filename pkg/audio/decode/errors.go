// ABOUTME: Decoder error taxonomy
// ABOUTME: Sentinel errors plus typed payload and decode failures
package decode

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformedPayload means the payload text is not valid base64
	ErrMalformedPayload = errors.New("malformed audio payload")

	// ErrDecode means every decode strategy failed
	ErrDecode = errors.New("audio decode failed")

	// ErrUnrecognizedContainer means no known container signature matched
	ErrUnrecognizedContainer = errors.New("unrecognized audio container")

	// ErrEmptyAudio means a strategy produced zero frames
	ErrEmptyAudio = errors.New("no audio samples")

	// ErrOddLength means the raw bytes cannot be split into whole PCM frames
	ErrOddLength = errors.New("byte count is not a whole number of 16-bit frames")

	// ErrTooLong means a container exceeded the configured frame limit
	ErrTooLong = errors.New("audio exceeds frame limit")
)

// PayloadError reports a payload that failed base64 decoding
type PayloadError struct {
	Err error
}

func (e *PayloadError) Error() string {
	return fmt.Sprintf("%v: %v", ErrMalformedPayload, e.Err)
}

func (e *PayloadError) Unwrap() error { return e.Err }

// Is matches ErrMalformedPayload
func (e *PayloadError) Is(target error) bool { return target == ErrMalformedPayload }

// Attempt records the outcome of one strategy
type Attempt struct {
	Strategy string
	Err      error // nil when the strategy succeeded
}

// DecodeError reports that every strategy failed
type DecodeError struct {
	Attempts []Attempt
}

func (e *DecodeError) Error() string {
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, fmt.Sprintf("%s: %v", a.Strategy, a.Err))
	}
	return fmt.Sprintf("%v (%s)", ErrDecode, strings.Join(parts, "; "))
}

// Unwrap exposes the individual strategy failures
func (e *DecodeError) Unwrap() []error {
	errs := make([]error, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		if a.Err != nil {
			errs = append(errs, a.Err)
		}
	}
	return errs
}

// Is matches ErrDecode
func (e *DecodeError) Is(target error) bool { return target == ErrDecode }
