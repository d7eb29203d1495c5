// File: internal/chat/message_test.go
package chat

import (
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var std = jsoniter.ConfigCompatibleWithStandardLibrary

func TestContentMarshalForms(t *testing.T) {
	text, err := std.Marshal(Text("hello"))
	require.NoError(t, err)
	assert.Equal(t, `"hello"`, string(text))

	empty, err := std.Marshal(Text(""))
	require.NoError(t, err)
	assert.Equal(t, `""`, string(empty))

	null, err := std.Marshal(Content{})
	require.NoError(t, err)
	assert.Equal(t, `null`, string(null))

	parts, err := std.Marshal(Parts(
		Part{Type: PartTypeText, Text: "look"},
		Part{Type: PartTypeImageURL, ImageURL: &ImageURL{URL: "data:image/png;base64,aGk="}},
	))
	require.NoError(t, err)
	assert.Contains(t, string(parts), `"image_url"`)
	assert.Contains(t, string(parts), `"look"`)
}

func TestContentUnmarshalForms(t *testing.T) {
	var c Content
	require.NoError(t, std.Unmarshal([]byte(`"answer"`), &c))
	assert.True(t, c.IsText())
	assert.Equal(t, "answer", c.Text)

	var n Content
	require.NoError(t, std.Unmarshal([]byte(`null`), &n))
	assert.False(t, n.IsText())
	assert.False(t, n.IsParts())

	var p Content
	require.NoError(t, std.Unmarshal([]byte(`[{"type":"text","text":"a"},{"type":"image_url","image_url":{"url":"u"}}]`), &p))
	assert.True(t, p.IsParts())
	assert.True(t, p.HasImage())
}

func TestContentRoundTripInsideMessage(t *testing.T) {
	in := Message{Role: RoleUser, Content: Parts(
		Part{Type: PartTypeText, Text: "screen"},
		Part{Type: PartTypeImageURL, ImageURL: &ImageURL{URL: "data:image/png;base64,aGk="}},
	)}
	data, err := std.Marshal(in)
	require.NoError(t, err)

	var out Message
	require.NoError(t, std.Unmarshal(data, &out))
	assert.Equal(t, RoleUser, out.Role)
	require.True(t, out.Content.IsParts())
	assert.True(t, out.Content.HasImage())
}
