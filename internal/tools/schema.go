// File: internal/tools/schema.go
package tools

import "github.com/perchlabs/deskpilot/internal/chat"

// Name identifies a tool. The set is closed; dispatch is an exhaustive
// switch, so adding or removing a tool is a compile-time-checked change.
type Name string

const (
	ObserveScreen    Name = "observe_screen"
	ClickElement     Name = "click_element"
	TypeText         Name = "type_text"
	PressKey         Name = "press_key"
	ScrollAtPosition Name = "scroll_at_position"
)

// ParseName maps a wire tool name onto the closed set.
func ParseName(s string) (Name, bool) {
	switch Name(s) {
	case ObserveScreen, ClickElement, TypeText, PressKey, ScrollAtPosition:
		return Name(s), true
	default:
		return "", false
	}
}

// boxSchema is the anyOf parameter shape for click/scroll targets: a point,
// a flat bounding box, or the legacy pair-of-pairs form.
func boxSchema(description string) map[string]any {
	numberArray := func(n int) map[string]any {
		return map[string]any{
			"type":     "array",
			"items":    map[string]any{"type": "number"},
			"minItems": n,
			"maxItems": n,
		}
	}
	return map[string]any{
		"description": description,
		"anyOf": []any{
			numberArray(2),
			numberArray(4),
			map[string]any{
				"type":     "array",
				"items":    numberArray(2),
				"minItems": 2,
				"maxItems": 2,
			},
		},
	}
}

// Schema returns the tool definitions advertised to the model on every
// request.
func Schema() []chat.Tool {
	fn := func(name Name, description string, properties map[string]any, required []string) chat.Tool {
		if required == nil {
			required = []string{}
		}
		return chat.Tool{
			Type: "function",
			Function: chat.Function{
				Name:        string(name),
				Description: description,
				Parameters: map[string]any{
					"type":       "object",
					"properties": properties,
					"required":   required,
				},
			},
		}
	}

	return []chat.Tool{
		fn(ObserveScreen,
			"Captures the current screen state and returns it as an image. " +
				"Use this to see applications, windows, UI elements, buttons, icons, and text. " +
				"Call this at the start of each decision cycle and after actions to verify results.",
			map[string]any{}, nil),
		fn(ClickElement,
			"Clicks on a UI element using NORMALIZED coordinates (0-1000). " +
				"Preferred: point click box=[x,y] (best for taskbar icons / small targets). " +
				"Also supported: box=[x1,y1,x2,y2] or legacy box=[[x1,y1],[x2,y2]].",
			map[string]any{
				"label": map[string]any{"type": "string"},
				"box": boxSchema("Click target in normalized 0-1000 coordinates. " +
					"Use [x,y] for a point click (recommended), [x1,y1,x2,y2] for a " +
					"bounding box, or legacy [[x1,y1],[x2,y2]]."),
			},
			[]string{"label", "box"}),
		fn(TypeText,
			"Types text into the currently focused input field. " +
				"PREREQUISITE: Click the input field first to focus it. " +
				"Only ASCII characters supported. Cannot press Enter (use press_key).",
			map[string]any{
				"text": map[string]any{"type": "string"},
			},
			[]string{"text"}),
		fn(PressKey,
			"Presses a keyboard key or combination. Examples: 'enter', 'tab', 'esc', " +
				"'ctrl+l', 'alt+tab', 'alt+f4'.",
			map[string]any{
				"key": map[string]any{"type": "string"},
			},
			[]string{"key"}),
		fn(ScrollAtPosition,
			"Scrolls down at a specific position. " +
				"Optional target can be provided as box=[x,y], box=[x1,y1,x2,y2], or legacy [[x1,y1],[x2,y2]]. " +
				"If no box is provided, scrolls at screen center (500,500).",
			map[string]any{
				"box": boxSchema("Scroll target in normalized 0-1000 coordinates."),
			},
			nil),
	}
}
