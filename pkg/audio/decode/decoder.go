// ABOUTME: Ordered-strategy decoder
// ABOUTME: Tries each strategy in turn and returns a tagged Result
package decode

import (
	"context"
	"log"

	"github.com/readaloud/readaloud-go/pkg/audio"
)

// DefaultMaxFrames bounds container decodes (10 minutes at 48kHz)
const DefaultMaxFrames = 10 * 60 * 48000

// Strategy is one way of interpreting raw payload bytes
type Strategy interface {
	// Name identifies the strategy in results and errors
	Name() string

	// Decode interprets data, returning a validated buffer
	Decode(ctx context.Context, data []byte) (*audio.Buffer, error)
}

// Options configures the default strategy list
type Options struct {
	// MaxFrames limits container decodes (0 means DefaultMaxFrames)
	MaxFrames int

	// Verbose logs every failed strategy
	Verbose bool
}

// ResultKind tags a Result
type ResultKind int

const (
	ResultFailed ResultKind = iota
	ResultDecoded
)

func (k ResultKind) String() string {
	if k == ResultDecoded {
		return "decoded"
	}
	return "failed"
}

// Result is the outcome of a decode
type Result struct {
	Kind     ResultKind
	Strategy string // winning strategy when Kind == ResultDecoded
	Buffer   *audio.Buffer
	Attempts []Attempt
	Err      error // set when Kind == ResultFailed
}

// OK reports whether the result carries a buffer
func (r Result) OK() bool {
	return r.Kind == ResultDecoded
}

// Decoder runs strategies in order
type Decoder struct {
	strategies []Strategy
	verbose    bool
}

// New creates a decoder with the default container-then-PCM strategies
func New(opts Options) *Decoder {
	if opts.MaxFrames <= 0 {
		opts.MaxFrames = DefaultMaxFrames
	}
	return &Decoder{
		strategies: []Strategy{
			Container{MaxFrames: opts.MaxFrames},
			RawPCM{},
		},
		verbose: opts.Verbose,
	}
}

// NewWithStrategies creates a decoder with a custom strategy order
func NewWithStrategies(strategies ...Strategy) *Decoder {
	return &Decoder{strategies: strategies}
}

var defaultDecoder = New(Options{})

// Default returns the shared default decoder
func Default() *Decoder {
	return defaultDecoder
}

// Decode decodes a base64 payload with the default decoder
func Decode(ctx context.Context, payload string) (*audio.Buffer, error) {
	return defaultDecoder.Decode(ctx, payload)
}

// Strategies returns the strategy names in attempt order
func (d *Decoder) Strategies() []string {
	names := make([]string, len(d.strategies))
	for i, s := range d.strategies {
		names[i] = s.Name()
	}
	return names
}

// Attempt runs the strategies over raw bytes until one succeeds
func (d *Decoder) Attempt(ctx context.Context, data []byte) Result {
	res := Result{Kind: ResultFailed}

	for _, s := range d.strategies {
		if err := ctx.Err(); err != nil {
			res.Err = err
			return res
		}

		buf, err := s.Decode(ctx, data)
		if err == nil {
			err = buf.Validate()
		}
		res.Attempts = append(res.Attempts, Attempt{Strategy: s.Name(), Err: err})

		if err == nil {
			res.Kind = ResultDecoded
			res.Strategy = s.Name()
			res.Buffer = buf
			return res
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			res.Err = ctxErr
			return res
		}
		if d.verbose {
			log.Printf("decode: strategy %s failed: %v", s.Name(), err)
		}
	}

	res.Err = &DecodeError{Attempts: res.Attempts}
	return res
}

// DecodeResult decodes a base64 payload and returns the tagged result
func (d *Decoder) DecodeResult(ctx context.Context, payload string) Result {
	raw, err := DecodePayload(payload)
	if err != nil {
		return Result{Kind: ResultFailed, Err: err}
	}
	return d.Attempt(ctx, raw)
}

// Decode decodes a base64 payload into a buffer
func (d *Decoder) Decode(ctx context.Context, payload string) (*audio.Buffer, error) {
	res := d.DecodeResult(ctx, payload)
	if !res.OK() {
		return nil, res.Err
	}
	return res.Buffer, nil
}

// DecodeAsync decodes on a separate goroutine. The channel receives exactly
// one Result and is then closed.
func (d *Decoder) DecodeAsync(ctx context.Context, payload string) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		out <- d.DecodeResult(ctx, payload)
	}()
	return out
}
