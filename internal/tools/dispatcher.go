// File: internal/tools/dispatcher.go
package tools

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/perchlabs/deskpilot/internal/chat"
	"github.com/perchlabs/deskpilot/internal/geometry"
	"github.com/perchlabs/deskpilot/internal/screen"
)

var argJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// Settle delays give the desktop time to react before the next observation.
const (
	moveSettle       = 80 * time.Millisecond
	clickSettle      = 120 * time.Millisecond
	typeSettle       = 80 * time.Millisecond
	keySettle        = 80 * time.Millisecond
	preScrollSettle  = 60 * time.Millisecond
	postScrollSettle = 80 * time.Millisecond
)

// DumpState tracks where observation screenshots land on disk and how they
// are numbered across a run.
type DumpState struct {
	Dir       string
	Prefix    string
	NextIndex int

	// Capture downscales to fit within this box, preserving aspect ratio.
	TargetW int
	TargetH int
}

// Dispatcher executes tool calls against a screen driver and renders the
// results as chat messages. The screen geometry recorded by the most recent
// observation is what click coordinates denormalize against.
type Dispatcher struct {
	driver screen.Driver
	geo    *screen.Geometry
	dump   *DumpState
	logger *zap.Logger
}

func NewDispatcher(driver screen.Driver, geo *screen.Geometry, dump *DumpState, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dump == nil {
		dump = &DumpState{}
	}
	return &Dispatcher{driver: driver, geo: geo, dump: dump, logger: logger}
}

// Execute runs a single tool call. It always returns a tool-role message
// carrying a result envelope; for observe_screen it additionally returns a
// user-role companion message holding the screenshot. Errors inside the tool
// surface through the envelope, never as a Go error.
func (d *Dispatcher) Execute(ctx context.Context, name string, rawArgs []byte, callID string) (chat.Message, *chat.Message) {
	tool, ok := ParseName(name)
	if !ok {
		d.logger.Warn("Model requested unknown tool.", zap.String("tool", name))
		return toolMessage(callID, name, ErrPayload(ErrCodeUnknownTool, fmt.Sprintf("Unknown tool: %s", name))), nil
	}

	d.logger.Debug("Executing tool call.",
		zap.String("tool", name),
		zap.String("call_id", callID))

	// observe_screen takes no parameters, so whatever the model put in the
	// arguments field is ignored rather than validated.
	if tool == ObserveScreen {
		return d.observeScreen(ctx, callID)
	}

	args, errPayload := parseArgs(rawArgs)
	if errPayload != "" {
		return toolMessage(callID, name, errPayload), nil
	}

	switch tool {
	case ClickElement:
		return toolMessage(callID, name, d.clickElement(ctx, args)), nil
	case TypeText:
		return toolMessage(callID, name, d.typeText(ctx, args)), nil
	case PressKey:
		return toolMessage(callID, name, d.pressKey(ctx, args)), nil
	case ScrollAtPosition:
		return toolMessage(callID, name, d.scrollAtPosition(ctx, args)), nil
	}
	// Unreachable: ParseName covers the closed set.
	return toolMessage(callID, name, ErrPayload(ErrCodeUnknownTool, fmt.Sprintf("Unknown tool: %s", name))), nil
}

// parseArgs decodes the model-supplied arguments. Absent or empty arguments
// mean "no arguments"; a JSON string is unwrapped once (some models
// double-encode); anything that is not an object is rejected.
func parseArgs(raw []byte) (map[string]any, string) {
	if len(raw) == 0 {
		return map[string]any{}, ""
	}
	var v any
	if err := argJSON.Unmarshal(raw, &v); err != nil {
		return nil, ErrPayload(ErrCodeInvalidJSON, "tool arguments are not valid JSON")
	}
	if s, ok := v.(string); ok {
		if strings.TrimSpace(s) == "" {
			return map[string]any{}, ""
		}
		if err := argJSON.Unmarshal([]byte(s), &v); err != nil {
			return nil, ErrPayload(ErrCodeInvalidJSON, "tool arguments are not valid JSON")
		}
	}
	if v == nil {
		return map[string]any{}, ""
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, ErrPayload(ErrCodeInvalidArgs, "tool arguments must be a JSON object")
	}
	return obj, ""
}

func toolMessage(callID, name, payload string) chat.Message {
	return chat.Message{
		Role:       chat.RoleTool,
		ToolCallID: callID,
		Name:       name,
		Content:    chat.Text(payload),
	}
}

// observeScreen captures the screen, persists the frame under the dump
// directory, and updates the recorded geometry.
func (d *Dispatcher) observeScreen(ctx context.Context, callID string) (chat.Message, *chat.Message) {
	dump := d.dump
	frame, err := d.driver.Capture(ctx, dump.TargetW, dump.TargetH)
	if err != nil {
		d.logger.Error("Screen capture failed.", zap.Error(err))
		return toolMessage(callID, string(ObserveScreen),
			ErrPayload(ErrCodeCaptureFailed, fmt.Sprintf("screen capture failed: %v", err))), nil
	}

	d.geo.Width = frame.Width
	d.geo.Height = frame.Height

	file := ""
	if dump.Dir != "" {
		if err := os.MkdirAll(dump.Dir, 0o755); err != nil {
			d.logger.Warn("Could not create dump directory.", zap.String("dir", dump.Dir), zap.Error(err))
		} else {
			file = filepath.Join(dump.Dir, fmt.Sprintf("%s%04d.png", dump.Prefix, dump.NextIndex))
			if err := os.WriteFile(file, frame.PNG, 0o644); err != nil {
				d.logger.Warn("Could not write screenshot dump.", zap.String("file", file), zap.Error(err))
				file = ""
			} else {
				dump.NextIndex++
			}
		}
	}

	payload := OKPayload(map[string]any{
		"file":          file,
		"screen_width":  frame.Width,
		"screen_height": frame.Height,
		"message": "Screenshot captured. Use normalized coordinates (0-1000). " +
			"Prefer point clicks: box=[x,y].",
	})

	companion := chat.Message{
		Role: chat.RoleUser,
		Content: chat.Parts(
			chat.Part{Type: chat.PartTypeText, Text: "Current screen state. Identify UI elements " +
				"and provide click targets in normalized 0-1000 coordinates. Prefer point clicks " +
				"box=[x,y] for small targets (taskbar icons)."},
			chat.Part{Type: chat.PartTypeImageURL, ImageURL: &chat.ImageURL{
				URL: "data:image/png;base64," + frame.Base64(),
			}},
		),
	}
	return toolMessage(callID, string(ObserveScreen), payload), &companion
}

func (d *Dispatcher) clickElement(ctx context.Context, args map[string]any) string {
	label, _ := args["label"].(string)
	if strings.TrimSpace(label) == "" {
		return ErrPayload(ErrCodeMissingLabel, "label required")
	}
	box, present := args["box"]
	if !present || box == nil {
		return ErrPayload(ErrCodeMissingBox, "box required")
	}
	region, err := geometry.ParseRegion(box)
	if err != nil {
		return ErrPayload(ErrCodeInvalidBox, err.Error())
	}

	cx, cy := region.Center()
	px, py := geometry.ToPixels(cx, cy, d.geo.Width, d.geo.Height)

	if err := d.driver.MovePointer(ctx, px, py); err != nil {
		return ErrPayload(ErrCodeActionFailed, fmt.Sprintf("pointer move failed: %v", err))
	}
	if err := settle(ctx, moveSettle); err != nil {
		return ErrPayload(ErrCodeActionFailed, err.Error())
	}
	if err := d.driver.Click(ctx); err != nil {
		return ErrPayload(ErrCodeActionFailed, fmt.Sprintf("click failed: %v", err))
	}
	if err := settle(ctx, clickSettle); err != nil {
		return ErrPayload(ErrCodeActionFailed, err.Error())
	}

	return OKPayload(map[string]any{
		"clicked": label,
		"box_normalized": []any{
			[]any{region.X1, region.Y1},
			[]any{region.X2, region.Y2},
		},
		"click_position": []any{cx, cy},
		"message":        fmt.Sprintf("Clicked '%s' at (%.1f,%.1f). Use observe_screen to verify.", label, cx, cy),
	})
}

func (d *Dispatcher) typeText(ctx context.Context, args map[string]any) string {
	raw, _ := args["text"].(string)

	var b strings.Builder
	for _, r := range raw {
		if r < 128 {
			b.WriteRune(r)
		}
	}
	text := b.String()
	if text == "" {
		return ErrPayload(ErrCodeEmptyText, "text empty or no ASCII chars")
	}

	if err := d.driver.TypeText(ctx, text); err != nil {
		return ErrPayload(ErrCodeActionFailed, fmt.Sprintf("typing failed: %v", err))
	}
	if err := settle(ctx, typeSettle); err != nil {
		return ErrPayload(ErrCodeActionFailed, err.Error())
	}

	return OKPayload(map[string]any{
		"typed":   text,
		"chars":   len(text),
		"message": "Typed text. Use observe_screen to verify.",
	})
}

func (d *Dispatcher) pressKey(ctx context.Context, args map[string]any) string {
	raw, _ := args["key"].(string)
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return ErrPayload(ErrCodeMissingKey, "key required")
	}

	if err := d.driver.PressKey(ctx, key); err != nil {
		if errors.Is(err, screen.ErrInvalidKey) {
			return ErrPayload(ErrCodeInvalidKey, err.Error())
		}
		return ErrPayload(ErrCodeActionFailed, fmt.Sprintf("key press failed: %v", err))
	}
	if err := settle(ctx, keySettle); err != nil {
		return ErrPayload(ErrCodeActionFailed, err.Error())
	}

	return OKPayload(map[string]any{
		"key":     key,
		"message": fmt.Sprintf("Pressed '%s'. Use observe_screen to verify.", key),
	})
}

func (d *Dispatcher) scrollAtPosition(ctx context.Context, args map[string]any) string {
	cx, cy := float64(geometry.SpaceMax)/2, float64(geometry.SpaceMax)/2
	if box, present := args["box"]; present && box != nil {
		region, err := geometry.ParseRegion(box)
		if err != nil {
			return ErrPayload(ErrCodeInvalidBox, err.Error())
		}
		cx, cy = region.Center()
	}
	px, py := geometry.ToPixels(cx, cy, d.geo.Width, d.geo.Height)

	if err := d.driver.MovePointer(ctx, px, py); err != nil {
		return ErrPayload(ErrCodeActionFailed, fmt.Sprintf("pointer move failed: %v", err))
	}
	if err := settle(ctx, preScrollSettle); err != nil {
		return ErrPayload(ErrCodeActionFailed, err.Error())
	}
	if err := d.driver.ScrollDown(ctx); err != nil {
		return ErrPayload(ErrCodeActionFailed, fmt.Sprintf("scroll failed: %v", err))
	}
	if err := settle(ctx, postScrollSettle); err != nil {
		return ErrPayload(ErrCodeActionFailed, err.Error())
	}

	return OKPayload(map[string]any{
		"message": fmt.Sprintf("Scrolled down at (%.1f,%.1f). Use observe_screen to verify.", cx, cy),
	})
}

// settle sleeps for d or until the context is cancelled.
func settle(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
