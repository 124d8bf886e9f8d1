package target

import (
	"bytes"
	"fmt"
	"image"
	_ "image/png"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/v0xg/deskloop/internal/raster"
)

// Browser is a headless-browser target: the agent "desktop" is a web
// page, captured and driven through the DevTools protocol. Useful for
// testing the loop without touching the real machine.
type Browser struct {
	browser *rod.Browser
	page    *rod.Page
	width   int
	height  int
	curX    int
	curY    int
}

// NewBrowser launches a headless browser, opens url and sizes the
// viewport to width x height.
func NewBrowser(url string, width, height int) (*Browser, error) {
	path, _ := launcher.LookPath()
	controlURL, err := launcher.New().Bin(path).Headless(true).Launch()
	if err != nil {
		return nil, fmt.Errorf("target: launch browser: %w", err)
	}
	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("target: connect browser: %w", err)
	}
	page, err := browser.Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		browser.Close()
		return nil, fmt.Errorf("target: open page: %w", err)
	}
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             width,
		Height:            height,
		DeviceScaleFactor: 1,
	}); err != nil {
		browser.Close()
		return nil, fmt.Errorf("target: set viewport: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		browser.Close()
		return nil, fmt.Errorf("target: wait for page load: %w", err)
	}
	return &Browser{
		browser: browser,
		page:    page,
		width:   width,
		height:  height,
		curX:    width / 2,
		curY:    height / 2,
	}, nil
}

// Close shuts the page and browser down.
func (b *Browser) Close() {
	if b.page != nil {
		b.page.Close()
	}
	if b.browser != nil {
		b.browser.Close()
	}
}

// Grab screenshots the viewport and decodes it into a raw frame.
func (b *Browser) Grab() (raster.Frame, error) {
	data, err := b.page.Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return raster.Frame{}, fmt.Errorf("target: browser screenshot: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return raster.Frame{}, fmt.Errorf("target: decode screenshot: %w", err)
	}
	buf := raster.FromImage(img)
	return raster.Frame{Width: buf.Width, Height: buf.Height, Order: raster.OrderRGBA, Pix: buf.Pix}, nil
}

// NativeSize reports the viewport size.
func (b *Browser) NativeSize() (int, int, error) {
	return b.width, b.height, nil
}

// CursorPos reports the last position the synthetic pointer was moved
// to. The DevTools protocol has no cursor query, so the position is
// tracked locally.
func (b *Browser) CursorPos() (int, int, error) {
	return b.curX, b.curY, nil
}

// MoveCursor dispatches a pointer move event.
func (b *Browser) MoveCursor(x, y int) error {
	if err := b.page.Mouse.MoveTo(proto.Point{X: float64(x), Y: float64(y)}); err != nil {
		return fmt.Errorf("target: browser move: %w", err)
	}
	b.curX, b.curY = x, y
	return nil
}

// ButtonDown presses a pointer button at the current position.
func (b *Browser) ButtonDown(btn Button) error {
	return b.page.Mouse.Down(protoButton(btn), 1)
}

// ButtonUp releases a pointer button.
func (b *Browser) ButtonUp(btn Button) error {
	return b.page.Mouse.Up(protoButton(btn), 1)
}

// KeyStroke types one rune; the protocol layer supplies the shift
// state for characters that need it.
func (b *Browser) KeyStroke(r rune) error {
	if r == '\n' {
		return b.page.Keyboard.Type(input.Enter)
	}
	return b.page.Keyboard.Type(input.Key(r))
}

func protoButton(b Button) proto.InputMouseButton {
	if b == ButtonRight {
		return proto.InputMouseButtonRight
	}
	return proto.InputMouseButtonLeft
}
