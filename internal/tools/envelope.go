// File: internal/tools/envelope.go
package tools

import (
	"fmt"
	"strings"
	"unicode/utf8"

	json "github.com/json-iterator/go"
)

// Result envelopes are the only contract between the dispatcher and the
// model: always valid JSON, always ASCII, compact separators. Success is
// {"ok":true,...}; failure is {"ok":false,"error":{"type":...,"message":...}}.

// OKPayload encodes a success envelope with the given extra fields.
func OKPayload(extra map[string]any) string {
	envelope := map[string]any{"ok": true}
	for k, v := range extra {
		envelope[k] = v
	}
	return encodeEnvelope(envelope)
}

// ErrPayload encodes a failure envelope.
func ErrPayload(code ErrorCode, message string) string {
	return encodeEnvelope(map[string]any{
		"ok": false,
		"error": map[string]any{
			"type":    string(code),
			"message": message,
		},
	})
}

func encodeEnvelope(v map[string]any) string {
	data, err := json.ConfigCompatibleWithStandardLibrary.Marshal(v)
	if err != nil {
		// Envelope fields are strings and numbers; marshal cannot fail for
		// them. Fall back to a fixed error rather than panicking mid-run.
		return fmt.Sprintf(`{"ok":false,"error":{"type":"invalid_args","message":%q}}`, err.Error())
	}
	return escapeNonASCII(string(data))
}

// escapeNonASCII rewrites any rune above 0x7F as a \uXXXX escape so the
// payload survives transports that mangle non-ASCII bytes. Runes outside the
// BMP become surrogate pairs, mirroring encoding/json's escaping.
func escapeNonASCII(s string) string {
	ascii := true
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7F {
			ascii = false
			break
		}
	}
	if ascii {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r < utf8.RuneSelf:
			b.WriteRune(r)
		case r > 0xFFFF:
			r -= 0x10000
			b.WriteString(fmt.Sprintf(`\u%04x\u%04x`, 0xD800+(r>>10), 0xDC00+(r&0x3FF)))
		default:
			b.WriteString(fmt.Sprintf(`\u%04x`, r))
		}
	}
	return b.String()
}
