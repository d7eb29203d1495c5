// File: internal/chat/exchange_test.go
package chat

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeDataURL(t *testing.T) {
	long := "data:image/png;base64," + strings.Repeat("A", 200)
	out := SummarizeDataURL(long)
	assert.True(t, strings.HasPrefix(out, "data:image/png;base64,[b64 sha="))
	assert.Contains(t, out, "len=200")
	assert.Less(t, len(out), len(long))

	// Short payloads and non-image URLs pass through.
	short := "data:image/png;base64,aGk="
	assert.Equal(t, short, SummarizeDataURL(short))
	assert.Equal(t, "https://example.com", SummarizeDataURL("https://example.com"))
	assert.Equal(t, "data:image/png;base64", SummarizeDataURL("data:image/png;base64"))
}

func TestExchangeLogWritesRedactedTranscript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exchange.log")
	log := NewExchangeLog(path, 10, 1)
	defer log.Close()

	b64 := strings.Repeat("B", 300)
	req := Request{
		Model: "qwen3-vl-8b-instruct",
		Messages: []Message{
			{Role: RoleSystem, Content: Text("seed system prompt")},
			{Role: RoleUser, Content: Text("seed task prompt")},
			{Role: RoleUser, Content: Parts(
				Part{Type: PartTypeText, Text: "Current screen state."},
				Part{Type: PartTypeImageURL, ImageURL: &ImageURL{URL: "data:image/png;base64," + b64}},
			)},
		},
		Tools:      []Tool{{Type: "function", Function: Function{Name: "observe_screen"}}},
		ToolChoice: "auto",
	}
	log.LogRequest(req)
	log.LogResponse([]byte(`{"choices":[{"message":{"role":"assistant","content":"hi"}}]}`))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(content)

	assert.Contains(t, text, "REQUEST TO MODEL")
	assert.Contains(t, text, "RESPONSE FROM MODEL")
	// The raw screenshot payload never lands in the transcript.
	assert.NotContains(t, text, b64)
	assert.Contains(t, text, "[b64 sha=")
	// Seed prompts and the tool schema are elided.
	assert.NotContains(t, text, "seed system prompt")
	assert.Contains(t, text, "[seed prompt elided]")
	assert.Contains(t, text, "[tool schema elided]")
}

func TestExchangeLogNilSafe(t *testing.T) {
	var log *ExchangeLog
	log.LogRequest(Request{})
	log.LogResponse([]byte("x"))
	assert.NoError(t, log.Close())
}
