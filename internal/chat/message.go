// File: internal/chat/message.go
package chat

import (
	"fmt"

	json "github.com/json-iterator/go"
)

// Role identifies the author of a transcript message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is one entry of the conversation transcript, in the
// chat-completions wire shape. Tool messages carry the correlation id and the
// tool name next to their JSON result payload.
type Message struct {
	Role       Role       `json:"role"`
	Content    Content    `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	Name       string     `json:"name,omitempty"`
}

// ToolCall is a model-issued request to invoke one named tool. Arguments are
// kept raw: the upstream protocol delivers them either as a JSON object or as
// a JSON-encoded string, and the dispatcher owns decoding either form.
type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type,omitempty"`
	Function FunctionCall `json:"function"`
}

// FunctionCall names the tool and carries the raw argument blob.
type FunctionCall struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// Content is the polymorphic message body: plain text, an ordered sequence
// of parts, or absent (a null body on assistant tool-call turns).
type Content struct {
	Text  string
	Parts []Part

	// isText distinguishes an explicit empty string from an absent body so
	// round-tripping a server message preserves what was actually sent.
	isText bool
}

// Part is a single content element of a multi-part user message.
type Part struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ImageURL wraps an inline data URL or remote image reference.
type ImageURL struct {
	URL string `json:"url"`
}

const (
	PartTypeText     = "text"
	PartTypeImageURL = "image_url"
)

// Text builds a plain-text content body.
func Text(s string) Content { return Content{Text: s, isText: true} }

// Parts builds a multi-part content body.
func Parts(parts ...Part) Content { return Content{Parts: parts} }

// IsText reports whether the body is plain text (including the empty string).
func (c Content) IsText() bool { return c.isText }

// IsParts reports whether the body is a sequence of content parts.
func (c Content) IsParts() bool { return c.Parts != nil }

// HasImage reports whether any part is an image attachment.
func (c Content) HasImage() bool {
	for _, p := range c.Parts {
		if p.Type == PartTypeImageURL {
			return true
		}
	}
	return false
}

// MarshalJSON encodes text bodies as a JSON string, part bodies as an array,
// and an absent body as null.
func (c Content) MarshalJSON() ([]byte, error) {
	switch {
	case c.Parts != nil:
		return json.Marshal(c.Parts)
	case c.isText:
		return json.Marshal(c.Text)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts a string, an array of parts, or null.
func (c *Content) UnmarshalJSON(data []byte) error {
	*c = Content{}
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	switch data[0] {
	case '"':
		c.isText = true
		return json.Unmarshal(data, &c.Text)
	case '[':
		return json.Unmarshal(data, &c.Parts)
	default:
		return fmt.Errorf("content must be a string, an array of parts, or null")
	}
}

// Tool describes one callable function in the request tool schema.
type Tool struct {
	Type     string   `json:"type"`
	Function Function `json:"function"`
}

// Function is the JSON-schema description of a tool's parameters.
type Function struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}
