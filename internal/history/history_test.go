// File: internal/history/history_test.go
package history

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perchlabs/deskpilot/internal/chat"
)

func imageMessage(n int) chat.Message {
	return chat.Message{
		Role: chat.RoleUser,
		Content: chat.Parts(
			chat.Part{Type: chat.PartTypeText, Text: fmt.Sprintf("screen %d", n)},
			chat.Part{Type: chat.PartTypeImageURL, ImageURL: &chat.ImageURL{URL: "data:image/png;base64,AAAA"}},
		),
	}
}

func countImages(msgs []chat.Message) int {
	n := 0
	for _, m := range msgs {
		if m.Role == chat.RoleUser && m.Content.HasImage() {
			n++
		}
	}
	return n
}

func TestPruneOldScreenshots(t *testing.T) {
	msgs := []chat.Message{
		{Role: chat.RoleSystem, Content: chat.Text("sys")},
		{Role: chat.RoleUser, Content: chat.Text("task")},
	}
	for i := 0; i < 5; i++ {
		msgs = append(msgs, imageMessage(i))
	}

	PruneOldScreenshots(msgs, 2)

	assert.Equal(t, 2, countImages(msgs))
	// The first three screenshot messages are now placeholders, in place.
	for i := 2; i < 5; i++ {
		m := msgs[i]
		assert.Equal(t, chat.RoleUser, m.Role)
		assert.True(t, m.Content.IsText())
		assert.Equal(t, ScreenshotPlaceholder, m.Content.Text)
	}
	// The last two survive verbatim.
	assert.True(t, msgs[5].Content.HasImage())
	assert.True(t, msgs[6].Content.HasImage())
	// Seed messages untouched.
	assert.Equal(t, "sys", msgs[0].Content.Text)
	assert.Equal(t, "task", msgs[1].Content.Text)
}

func TestPruneOldScreenshots_Idempotent(t *testing.T) {
	msgs := []chat.Message{imageMessage(0), imageMessage(1), imageMessage(2)}
	PruneOldScreenshots(msgs, 1)
	first := fmt.Sprintf("%v", msgs)
	PruneOldScreenshots(msgs, 1)
	assert.Equal(t, first, fmt.Sprintf("%v", msgs))
	assert.Equal(t, 1, countImages(msgs))
}

func TestPruneOldScreenshots_UnderLimitNoop(t *testing.T) {
	msgs := []chat.Message{imageMessage(0), imageMessage(1)}
	PruneOldScreenshots(msgs, 2)
	assert.Equal(t, 2, countImages(msgs))
}

func thinkMessage(n int) chat.Message {
	return chat.Message{
		Role:    chat.RoleAssistant,
		Content: chat.Text(fmt.Sprintf("<think>pondering %d</think>answer %d", n, n)),
	}
}

func TestPruneOldThinks(t *testing.T) {
	msgs := []chat.Message{
		{Role: chat.RoleSystem, Content: chat.Text("sys")},
		thinkMessage(0),
		thinkMessage(1),
		thinkMessage(2),
	}

	PruneOldThinks(msgs, 2)

	assert.Equal(t, "answer 0", msgs[1].Content.Text)
	assert.Contains(t, msgs[2].Content.Text, "<think>")
	assert.Contains(t, msgs[3].Content.Text, "<think>")
}

func TestPruneOldThinks_Idempotent(t *testing.T) {
	msgs := []chat.Message{thinkMessage(0), thinkMessage(1), thinkMessage(2)}
	PruneOldThinks(msgs, 1)
	require.Equal(t, "answer 0", msgs[0].Content.Text)
	require.Equal(t, "answer 1", msgs[1].Content.Text)

	before := fmt.Sprintf("%v", msgs)
	PruneOldThinks(msgs, 1)
	assert.Equal(t, before, fmt.Sprintf("%v", msgs))
}

func TestPruneOldThinks_IgnoresNonAssistant(t *testing.T) {
	msgs := []chat.Message{
		{Role: chat.RoleUser, Content: chat.Text("<think>not mine</think>")},
		thinkMessage(0),
	}
	PruneOldThinks(msgs, 1)
	assert.Contains(t, msgs[0].Content.Text, "<think>")
}

func TestStripThink(t *testing.T) {
	cases := []struct {
		name, in, want string
	}{
		{"empty", "", ""},
		{"no span", "final answer", "final answer"},
		{"single span", "<think>hmm</think>done", "done"},
		{"span after text", "done<think>hmm</think>", "done"},
		{"two spans", "<think>a</think>x<think>b</think>y", "xy"},
		{"unterminated", "<think>never closed", "<think>never closed"},
		{"close before open", "</think>text<think>", "</think>text<think>"},
		{"multiline span", "<think>line1\nline2</think>  result  ", "result"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StripThink(tc.in))
		})
	}
}
