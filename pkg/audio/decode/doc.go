// ABOUTME: Audio decoder package for payloads of unknown format
// ABOUTME: Provides a two-strategy decoder: container-aware first, raw PCM fallback
// Package decode turns base64 audio payloads of unknown encoding into
// normalized audio buffers.
//
// Decoding is an ordered list of strategies. The default list is:
//   - Container: sniffs WAV, MP3, FLAC, Ogg Vorbis and Ogg Opus and decodes natively
//   - RawPCM: headerless signed 16-bit little-endian mono at 24000 Hz
//
// The first strategy that succeeds wins. Every attempt is recorded in the
// returned Result, so callers and tests can see why a strategy was skipped.
//
// Example:
//
//	buf, err := decode.Decode(ctx, payload)
//	if errors.Is(err, decode.ErrMalformedPayload) {
//	    // not base64
//	}
//
//	res := <-decode.Default().DecodeAsync(ctx, payload)
//	if res.OK() {
//	    fmt.Println(res.Strategy, res.Buffer.Frames())
//	}
package decode
