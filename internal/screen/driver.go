// File: internal/screen/driver.go

// Package screen is the capability surface between the control loop and the
// machine being driven: capture a frame, move the pointer, click, send keys,
// scroll. The production implementation drives a Chrome instance over CDP;
// everything above it programs against the Driver interface.
package screen

import (
	"context"
	"encoding/base64"
	"errors"
)

// ErrInvalidKey reports an unsupported key name handed to PressKey. Callers
// match it with errors.Is to distinguish bad input from dispatch failures.
var ErrInvalidKey = errors.New("unsupported key name")

// Frame is one captured screenshot plus the full-screen dimensions it was
// taken from. Width and Height are the device pixels of the screen, not of
// the (possibly downscaled) encoded image.
type Frame struct {
	PNG    []byte
	Width  int
	Height int
}

// Base64 returns the PNG bytes encoded for a data URL.
func (f Frame) Base64() string {
	return base64.StdEncoding.EncodeToString(f.PNG)
}

// Geometry is the most recently observed screen size in device pixels. It is
// owned by the agent loop and updated only by capture results; every
// pixel-space action reads it to resolve normalized coordinates.
type Geometry struct {
	Width  int
	Height int
}

// Driver is the set of primitive interactions the dispatcher needs. Every
// call blocks until the underlying operation completes; implementations are
// not required to be safe for concurrent use, the loop is strictly
// sequential.
type Driver interface {
	// Capture takes a screenshot encoded at most targetW x targetH and
	// reports the true screen dimensions.
	Capture(ctx context.Context, targetW, targetH int) (Frame, error)

	// MovePointer moves the pointer to an absolute pixel position.
	MovePointer(ctx context.Context, x, y float64) error

	// Click presses and releases the primary button at the current pointer
	// position.
	Click(ctx context.Context) error

	// TypeText inserts text into the focused element. Callers guarantee the
	// text is ASCII only.
	TypeText(ctx context.Context, text string) error

	// PressKey presses a named key or modifier combination such as "enter"
	// or "ctrl+l". Unknown names fail with ErrInvalidKey.
	PressKey(ctx context.Context, name string) error

	// ScrollDown performs one downward scroll at the current pointer
	// position.
	ScrollDown(ctx context.Context) error

	// Close releases the underlying resources.
	Close() error
}
