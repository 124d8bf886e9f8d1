package target

import (
	"fmt"

	"github.com/kbinani/screenshot"

	"github.com/v0xg/deskloop/internal/raster"
)

// Desktop captures the physical display and injects OS-level input.
// Capture works everywhere kbinani/screenshot does; injection is
// currently Windows-only (see desktop_input_windows.go).
type Desktop struct {
	display int
}

// NewDesktop opens the given display index as a capture target.
func NewDesktop(display int) (*Desktop, error) {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return nil, fmt.Errorf("target: no active displays")
	}
	if display < 0 || display >= n {
		return nil, fmt.Errorf("target: display %d out of range (have %d)", display, n)
	}
	initPlatformInput()
	return &Desktop{display: display}, nil
}

// Grab captures the display at native resolution.
func (d *Desktop) Grab() (raster.Frame, error) {
	bounds := screenshot.GetDisplayBounds(d.display)
	img, err := screenshot.CaptureRect(bounds)
	if err != nil {
		return raster.Frame{}, fmt.Errorf("target: capture display %d: %w", d.display, err)
	}
	return raster.Frame{
		Width:  img.Rect.Dx(),
		Height: img.Rect.Dy(),
		Order:  raster.OrderRGBA,
		Pix:    img.Pix,
	}, nil
}

// NativeSize reports the display resolution.
func (d *Desktop) NativeSize() (int, int, error) {
	bounds := screenshot.GetDisplayBounds(d.display)
	return bounds.Dx(), bounds.Dy(), nil
}
