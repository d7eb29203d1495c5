// File: internal/history/history.go

// Package history bounds transcript growth. Two independent retention
// passes redact bulky message categories in place: old screenshot
// attachments and stale reasoning spans. Both passes are idempotent, a
// message redacted once no longer matches the scan predicate, so the loop
// can invoke them after every qualifying append.
package history

import (
	"strings"

	"github.com/perchlabs/deskpilot/internal/chat"
)

const (
	thinkOpen  = "<think>"
	thinkClose = "</think>"

	// ScreenshotPlaceholder replaces the content of a redacted screenshot
	// message. Kept short: the model only needs to know an image was here.
	ScreenshotPlaceholder = "captured image data (omitted)"
)

// PruneOldScreenshots redacts every image-bearing user message except the
// most recent keepLast, replacing its content with a placeholder string.
// Message order and roles are preserved; recency is transcript index order.
func PruneOldScreenshots(messages []chat.Message, keepLast int) {
	var idxs []int
	for i, m := range messages {
		if m.Role == chat.RoleUser && m.Content.HasImage() {
			idxs = append(idxs, i)
		}
	}
	if len(idxs) <= keepLast {
		return
	}
	for _, i := range idxs[:len(idxs)-keepLast] {
		messages[i].Content = chat.Text(ScreenshotPlaceholder)
	}
}

// PruneOldThinks strips the delimited reasoning span from every assistant
// message except the most recent keepLast that still carry one. Stripping is
// whole-message: a message either keeps all its spans or loses them all.
func PruneOldThinks(messages []chat.Message, keepLast int) {
	var idxs []int
	for i, m := range messages {
		if m.Role == chat.RoleAssistant && hasThink(m.Content) {
			idxs = append(idxs, i)
		}
	}
	if len(idxs) <= keepLast {
		return
	}
	for _, i := range idxs[:len(idxs)-keepLast] {
		messages[i].Content = chat.Text(StripThink(messages[i].Content.Text))
	}
}

func hasThink(c chat.Content) bool {
	if !c.IsText() {
		return false
	}
	open := strings.Index(c.Text, thinkOpen)
	return open >= 0 && strings.Contains(c.Text[open+len(thinkOpen):], thinkClose)
}

// StripThink removes every <think>...</think> span from text and trims the
// result. Spans never nest in this protocol, so a single forward scan
// suffices: seek the open delimiter, seek the close delimiter, splice. An
// unterminated open delimiter is left untouched.
func StripThink(text string) string {
	if text == "" {
		return ""
	}
	var out strings.Builder
	rest := text
	for {
		open := strings.Index(rest, thinkOpen)
		if open < 0 {
			out.WriteString(rest)
			break
		}
		closing := strings.Index(rest[open+len(thinkOpen):], thinkClose)
		if closing < 0 {
			out.WriteString(rest)
			break
		}
		out.WriteString(rest[:open])
		rest = rest[open+len(thinkOpen)+closing+len(thinkClose):]
	}
	return strings.TrimSpace(out.String())
}
