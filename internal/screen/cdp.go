// File: internal/screen/cdp.go
package screen

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// wheelDelta is the per-scroll wheel distance in pixels. One ScrollDown call
// is one wheel "tick" of roughly a third of a screen.
const wheelDelta = 350.0

// Options configures the CDP-backed driver.
type Options struct {
	// Headless starts the browser without a visible window.
	Headless bool
	// StartURL, when set, is navigated to before the first capture.
	StartURL string
	// ExecArgs are extra command-line flags for the browser process.
	ExecArgs []string
}

// CDPDriver drives a Chrome instance through the DevTools protocol. The
// driver keeps the last pointer position so Click and ScrollDown land where
// the pointer was moved.
type CDPDriver struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	logger      *zap.Logger

	mu           sync.Mutex
	lastX, lastY float64
}

var _ Driver = (*CDPDriver)(nil)

// NewCDPDriver launches the browser and attaches a fresh target. The parent
// context bounds the browser's lifetime.
func NewCDPDriver(parent context.Context, opts Options, logger *zap.Logger) (*CDPDriver, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
	)
	for _, arg := range opts.ExecArgs {
		name, value := splitExecArg(arg)
		allocOpts = append(allocOpts, chromedp.Flag(name, value))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(parent, allocOpts...)
	ctx, cancel := chromedp.NewContext(allocCtx)

	d := &CDPDriver{
		ctx:         ctx,
		cancel:      cancel,
		allocCancel: allocCancel,
		logger:      logger.Named("screen"),
	}

	// Run an empty task list to force the browser to start now rather than
	// on the first capture.
	if err := chromedp.Run(ctx); err != nil {
		d.Close()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}
	if opts.StartURL != "" {
		if err := chromedp.Run(ctx, chromedp.Navigate(opts.StartURL)); err != nil {
			d.Close()
			return nil, fmt.Errorf("failed to open start url: %w", err)
		}
	}
	d.logger.Info("Browser ready", zap.Bool("headless", opts.Headless), zap.String("start_url", opts.StartURL))
	return d, nil
}

// Close tears the browser down.
func (d *CDPDriver) Close() error {
	d.cancel()
	d.allocCancel()
	return nil
}

// run executes CDP actions, honoring the caller's context as well as the
// driver's own browser context.
func (d *CDPDriver) run(ctx context.Context, actions ...chromedp.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return chromedp.Run(d.ctx, actions...)
}

// Capture screenshots the current viewport. The image is downscaled so it
// fits within targetW x targetH (aspect preserved); the reported dimensions
// are the true viewport pixels, which all later pointer math is based on.
func (d *CDPDriver) Capture(ctx context.Context, targetW, targetH int) (Frame, error) {
	var frame Frame
	err := d.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		_, _, _, _, viewport, _, err := page.GetLayoutMetrics().Do(ctx)
		if err != nil {
			return fmt.Errorf("failed to read layout metrics: %w", err)
		}
		if viewport == nil || viewport.ClientWidth <= 0 || viewport.ClientHeight <= 0 {
			return fmt.Errorf("layout metrics reported an empty viewport")
		}
		width, height := viewport.ClientWidth, viewport.ClientHeight

		scale := 1.0
		if targetW > 0 && targetH > 0 {
			scale = min(float64(targetW)/width, float64(targetH)/height)
			if scale > 1.0 {
				scale = 1.0
			}
		}

		buf, err := page.CaptureScreenshot().
			WithFormat(page.CaptureScreenshotFormatPng).
			WithClip(&page.Viewport{
				X:      0,
				Y:      0,
				Width:  width,
				Height: height,
				Scale:  scale,
			}).
			Do(ctx)
		if err != nil {
			return fmt.Errorf("failed to capture screenshot: %w", err)
		}

		frame = Frame{PNG: buf, Width: int(width), Height: int(height)}
		return nil
	}))
	return frame, err
}

// MovePointer dispatches a raw pointer move and remembers the position for
// the next click or scroll.
func (d *CDPDriver) MovePointer(ctx context.Context, x, y float64) error {
	if err := d.run(ctx, inputAction(input.DispatchMouseEvent(input.MouseMoved, x, y))); err != nil {
		return err
	}
	d.mu.Lock()
	d.lastX, d.lastY = x, y
	d.mu.Unlock()
	return nil
}

// Click presses and releases the left button at the last pointer position.
func (d *CDPDriver) Click(ctx context.Context) error {
	d.mu.Lock()
	x, y := d.lastX, d.lastY
	d.mu.Unlock()

	return d.run(ctx,
		inputAction(input.DispatchMouseEvent(input.MousePressed, x, y).
			WithButton(input.Left).
			WithButtons(1).
			WithClickCount(1)),
		inputAction(input.DispatchMouseEvent(input.MouseReleased, x, y).
			WithButton(input.Left).
			WithClickCount(1)),
	)
}

// TypeText inserts the text into the focused element in one shot.
func (d *CDPDriver) TypeText(ctx context.Context, text string) error {
	return d.run(ctx, inputAction(input.InsertText(text)))
}

// PressKey dispatches a keyDown/keyUp pair for the named key or combination.
func (d *CDPDriver) PressKey(ctx context.Context, name string) error {
	c, err := parseChord(name)
	if err != nil {
		return err
	}

	downType := input.KeyRawDown
	if c.hasText() {
		downType = input.KeyDown
	}
	down := input.DispatchKeyEvent(downType).
		WithModifiers(c.modifiers).
		WithKey(c.def.key).
		WithCode(c.def.code).
		WithWindowsVirtualKeyCode(c.def.vk).
		WithNativeVirtualKeyCode(c.def.vk)
	if c.hasText() {
		down = down.WithText(c.def.text).WithUnmodifiedText(c.def.text)
	}
	up := input.DispatchKeyEvent(input.KeyUp).
		WithModifiers(c.modifiers).
		WithKey(c.def.key).
		WithCode(c.def.code).
		WithWindowsVirtualKeyCode(c.def.vk).
		WithNativeVirtualKeyCode(c.def.vk)

	return d.run(ctx, inputAction(down), inputAction(up))
}

// ScrollDown dispatches one wheel tick at the last pointer position.
func (d *CDPDriver) ScrollDown(ctx context.Context) error {
	d.mu.Lock()
	x, y := d.lastX, d.lastY
	d.mu.Unlock()

	return d.run(ctx, inputAction(input.DispatchMouseEvent(input.MouseWheel, x, y).
		WithDeltaX(0).
		WithDeltaY(wheelDelta)))
}

// splitExecArg turns a browser flag like "window-size=1280,720" into a
// name/value pair. Bare flags become boolean switches.
func splitExecArg(arg string) (string, any) {
	name := strings.TrimLeft(arg, "-")
	if name, value, ok := strings.Cut(name, "="); ok {
		return name, value
	}
	return name, true
}

// inputAction adapts a cdproto params builder into a chromedp.Action.
func inputAction(p interface {
	Do(ctx context.Context) error
}) chromedp.Action {
	return chromedp.ActionFunc(p.Do)
}
