// Package target defines the two platform contracts the pipeline
// consumes, screen capture and input injection, together with the
// desktop and browser implementations.
package target

import (
	"errors"

	"github.com/v0xg/deskloop/internal/raster"
)

// ErrUnsupported is returned by input methods on platforms without an
// injection backend.
var ErrUnsupported = errors.New("target: input injection not supported on this platform")

// Button is a pointer button.
type Button int

const (
	ButtonLeft Button = iota
	ButtonRight
)

// CaptureSource grabs the current display contents at its native
// resolution. Grab errors are fatal to the request that triggered them.
type CaptureSource interface {
	// Grab returns a fresh raw frame. The caller owns the frame.
	Grab() (raster.Frame, error)
	// NativeSize reports the capture surface's resolution in pixels.
	NativeSize() (width, height int, err error)
}

// Inputter is the platform input-injection contract: primitive pointer
// and key events in native pixel coordinates. Easing, pacing and
// click composition are layered on top by the dispatcher.
//
// Implementations are not safe for concurrent use; callers serialize.
type Inputter interface {
	// CursorPos reports the pointer's current position.
	CursorPos() (x, y int, err error)
	// MoveCursor warps the pointer to the given position.
	MoveCursor(x, y int) error
	// ButtonDown presses and ButtonUp releases a pointer button at the
	// current position.
	ButtonDown(b Button) error
	ButtonUp(b Button) error
	// KeyStroke presses and releases whatever key combination produces
	// r under the active layout, holding shift when required. Runes the
	// layout cannot produce are skipped without error.
	KeyStroke(r rune) error
}
