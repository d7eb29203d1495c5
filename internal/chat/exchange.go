// File: internal/chat/exchange.go
package chat

import (
	"crypto/sha256"
	"fmt"
	"io"
	"strings"
	"sync"

	json "github.com/json-iterator/go"
	"gopkg.in/natefinch/lumberjack.v2"
)

// ExchangeLog records every model request/response pair in a readable form.
// Inline base64 images are summarized to a digest so the log stays small, and
// the bulky fixed blocks of each request (tool schema, seed system and task
// bodies) are elided. A nil ExchangeLog discards everything.
type ExchangeLog struct {
	mu sync.Mutex
	w  io.WriteCloser
}

const (
	elidedTools  = "[tool schema elided]"
	elidedSeed   = "[seed prompt elided]"
	exchangeRule = "================================================================================"
)

// NewExchangeLog opens (or rotates) the log file at path.
func NewExchangeLog(path string, maxSizeMB, maxBackups int) *ExchangeLog {
	return &ExchangeLog{w: &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
	}}
}

// Close releases the underlying file.
func (e *ExchangeLog) Close() error {
	if e == nil || e.w == nil {
		return nil
	}
	return e.w.Close()
}

// LogRequest writes a redacted copy of the outgoing request.
func (e *ExchangeLog) LogRequest(req Request) {
	if e == nil || e.w == nil {
		return
	}
	body, err := json.MarshalIndent(redactRequest(req), "", "  ")
	if err != nil {
		return
	}
	e.write("REQUEST TO MODEL", body)
}

// LogResponse writes the raw response body, reindented.
func (e *ExchangeLog) LogResponse(body []byte) {
	if e == nil || e.w == nil {
		return
	}
	var parsed any
	if err := json.Unmarshal(body, &parsed); err == nil {
		if pretty, err := json.MarshalIndent(parsed, "", "  "); err == nil {
			body = pretty
		}
	}
	e.write("RESPONSE FROM MODEL", body)
}

func (e *ExchangeLog) write(header string, body []byte) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fmt.Fprintf(e.w, "%s\n%s:\n%s\n%s\n\n", exchangeRule, header, exchangeRule, body)
}

// redactRequest clones the request into a loggable form: image payloads are
// summarized, the tool schema collapses to a marker, and the invariant seed
// messages (system instruction, initial task) are elided since they never
// change across steps. The original request is left untouched.
func redactRequest(req Request) map[string]any {
	messages := make([]Message, len(req.Messages))
	for i, m := range req.Messages {
		messages[i] = redactMessage(m)
	}
	if len(messages) > 0 {
		messages[0].Content = Text(elidedSeed)
	}
	if len(messages) > 1 {
		messages[1].Content = Text(elidedSeed)
	}
	return map[string]any{
		"model":       req.Model,
		"messages":    messages,
		"tools":       elidedTools,
		"tool_choice": req.ToolChoice,
		"temperature": req.Temperature,
		"max_tokens":  req.MaxTokens,
	}
}

func redactMessage(m Message) Message {
	if !m.Content.IsParts() {
		return m
	}
	parts := make([]Part, len(m.Content.Parts))
	copy(parts, m.Content.Parts)
	for i, p := range parts {
		if p.Type == PartTypeImageURL && p.ImageURL != nil {
			parts[i].ImageURL = &ImageURL{URL: SummarizeDataURL(p.ImageURL.URL)}
		}
	}
	m.Content = Parts(parts...)
	return m
}

// SummarizeDataURL replaces the base64 payload of a data:image/* URL with a
// short digest. Anything else passes through unchanged.
func SummarizeDataURL(url string) string {
	if !strings.HasPrefix(url, "data:image/") {
		return url
	}
	comma := strings.IndexByte(url, ',')
	if comma < 0 {
		return url
	}
	payload := url[comma+1:]
	if len(payload) < 100 {
		return url
	}
	sum := sha256.Sum256([]byte(payload))
	return fmt.Sprintf("%s[b64 sha=%x len=%d]", url[:comma+1], sum[:6], len(payload))
}
