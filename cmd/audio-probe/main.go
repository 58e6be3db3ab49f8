// ABOUTME: Entry point for the audio probe tool
// ABOUTME: Decodes a base64 audio payload, reports its format and optionally exports or plays it
package main

import (
	"context"
	"encoding/base64"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/readaloud/readaloud-go/internal/version"
	"github.com/readaloud/readaloud-go/pkg/audio"
	"github.com/readaloud/readaloud-go/pkg/audio/decode"
	"github.com/readaloud/readaloud-go/pkg/audio/encode"
	"github.com/readaloud/readaloud-go/pkg/audio/output"
	"github.com/readaloud/readaloud-go/pkg/playback"
)

var (
	wavOut   = flag.String("wav", "", "Write the decoded audio to this WAV file")
	play     = flag.Bool("play", false, "Play the decoded audio")
	backend  = flag.String("backend", "malgo", fmt.Sprintf("Audio backend for -play %v", output.Names()))
	rate     = flag.Float64("rate", 1.0, "Playback rate for -play")
	verbose  = flag.Bool("verbose", false, "Log every decode strategy attempt")
	tone     = flag.Duration("tone", 0, "Instead of probing, write a test tone payload of this length to stdout")
	toneType = flag.String("tone-format", "wav", "Test tone encoding: wav or pcm")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "%s audio probe\n\nUsage: audio-probe [flags] [payload-file|-]\n", version.String())
		flag.PrintDefaults()
	}
	flag.Parse()

	log.SetFlags(log.Ltime | log.Lmicroseconds)

	if *tone > 0 {
		if err := writeTone(os.Stdout, *tone, *toneType); err != nil {
			log.Fatalf("Tone failed: %v", err)
		}
		return
	}

	payload, err := readPayload(flag.Arg(0))
	if err != nil {
		log.Fatalf("Failed to read payload: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dec := decode.New(decode.Options{Verbose: *verbose})
	res := dec.DecodeResult(ctx, payload)
	report(os.Stdout, res)
	if !res.OK() {
		os.Exit(1)
	}

	if *wavOut != "" {
		if err := writeWAV(*wavOut, res.Buffer); err != nil {
			log.Fatalf("WAV export failed: %v", err)
		}
		log.Printf("Wrote %s", *wavOut)
	}

	if *play {
		if err := playBuffer(ctx, res.Buffer, *backend, *rate); err != nil {
			log.Fatalf("Playback failed: %v", err)
		}
	}
}

// readPayload reads a file, or stdin for "" and "-"
func readPayload(path string) (string, error) {
	var data []byte
	var err error
	if path == "" || path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// report prints the decode outcome
func report(w io.Writer, res decode.Result) {
	for _, a := range res.Attempts {
		status := "ok"
		if a.Err != nil {
			status = a.Err.Error()
		}
		fmt.Fprintf(w, "attempt   %-10s %s\n", a.Strategy, status)
	}

	if !res.OK() {
		fmt.Fprintf(w, "result    failed: %v\n", res.Err)
		return
	}

	buf := res.Buffer
	fmt.Fprintf(w, "strategy  %s\n", res.Strategy)
	fmt.Fprintf(w, "codec     %s\n", buf.Codec)
	fmt.Fprintf(w, "format    %s\n", buf.Format())
	fmt.Fprintf(w, "frames    %d\n", buf.Frames())
	fmt.Fprintf(w, "duration  %v\n", buf.Duration().Round(time.Millisecond))
	fmt.Fprintf(w, "peak      %.3f\n", peak(buf))
}

func peak(buf *audio.Buffer) float32 {
	var p float32
	for _, ch := range buf.Samples {
		for _, s := range ch {
			if s < 0 {
				s = -s
			}
			if s > p {
				p = s
			}
		}
	}
	return p
}

func writeWAV(path string, buf *audio.Buffer) error {
	data, err := encode.WAV(buf)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// writeTone writes a base64 test tone payload
func writeTone(w io.Writer, d time.Duration, format string) error {
	enc, ok := encode.ByName(format)
	if !ok {
		return fmt.Errorf("unknown tone format %q", format)
	}

	buf := audio.Tone(audio.DefaultToneFrequency, decode.FallbackSampleRate, decode.FallbackChannels, d)
	data, err := enc.Encode(buf)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, base64.StdEncoding.EncodeToString(data))
	return err
}

// playBuffer plays buf on the segment channel and waits for it to end
func playBuffer(ctx context.Context, buf *audio.Buffer, backendName string, rate float64) error {
	b, err := output.NewBackend(backendName)
	if err != nil {
		return err
	}

	ended := make(chan playback.Event, 1)
	mgr := playback.NewManager(playback.Config{
		Backend:     b,
		DefaultRate: rate,
		OnEnded:     func(ev playback.Event) { ended <- ev },
	})
	defer mgr.Close()

	if _, err := mgr.Start(playback.ChannelSegment, buf, 0); err != nil {
		return err
	}

	select {
	case ev := <-ended:
		if ev.Reason == playback.EndResourceError {
			return ev.Err
		}
		return nil
	case <-ctx.Done():
		mgr.Stop(playback.ChannelSegment)
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil
		}
		return ctx.Err()
	}
}

