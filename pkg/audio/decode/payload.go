// ABOUTME: Base64 payload handling
// ABOUTME: Forgiving base64 decode with data URL prefix and whitespace stripping
package decode

import (
	"encoding/base64"
	"strings"
	"unicode"
)

// DecodePayload converts base64 payload text to raw bytes.
// Whitespace is ignored, a "data:<mime>;base64," prefix is dropped and
// trailing padding is optional.
func DecodePayload(payload string) ([]byte, error) {
	text := payload
	if strings.HasPrefix(text, "data:") {
		idx := strings.Index(text, ",")
		if idx < 0 {
			return nil, &PayloadError{Err: base64.CorruptInputError(0)}
		}
		text = text[idx+1:]
	}

	text = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, text)

	if len(text)%4 == 0 {
		text = strings.TrimSuffix(text, "=")
		text = strings.TrimSuffix(text, "=")
	}

	raw, err := base64.RawStdEncoding.DecodeString(text)
	if err != nil {
		return nil, &PayloadError{Err: err}
	}
	return raw, nil
}
