// Package window provides a small display window wrapper for visually
// inspecting frames as the pipeline produces them.  It is a debugging
// aid, nothing in the core depends on a window being present and headless
// operation works without this package entirely.
package window

import (
	"gocv.io/x/gocv"
)

const (
	// DefaultDelay is the number of milliseconds to wait between frames
	DefaultDelay = 1
	// DefaultStepKey advances to the next frame in step mode, space
	DefaultStepKey = 0x20

	escapeKey = 27
)

// Window displays frames until the user closes it
type Window struct {
	win     *gocv.Window
	delay   int
	step    bool
	stepKey int
}

// Option configures a Window
type Option func(*Window)

// WithDelay sets the per frame display delay in milliseconds
func WithDelay(ms int) Option {
	return func(w *Window) {
		if ms > 0 {
			w.delay = ms
		}
	}
}

// WithStep pauses after every frame until the step key is pressed
func WithStep() Option {
	return func(w *Window) {
		w.step = true
	}
}

// New creates a named display window
func New(title string, opts ...Option) *Window {

	w := &Window{
		win:     gocv.NewWindow(title),
		delay:   DefaultDelay,
		stepKey: DefaultStepKey,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Render displays a frame and reports whether the window should keep
// receiving frames, false once the user dismissed it with escape or
// closed the window
func (w *Window) Render(frame *gocv.Mat) bool {

	w.win.IMShow(*frame)

	for {
		key := w.win.WaitKey(w.delay)

		if key == escapeKey || !w.win.IsOpen() {
			return false
		}

		if !w.step || key == w.stepKey {
			return true
		}
	}
}

// Close destroys the window
func (w *Window) Close() error {
	return w.win.Close()
}
