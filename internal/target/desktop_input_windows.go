//go:build windows

package target

import (
	"fmt"
	"sync"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
)

const (
	mouseEventLeftDown  = 0x0002
	mouseEventLeftUp    = 0x0004
	mouseEventRightDown = 0x0008
	mouseEventRightUp   = 0x0010

	keyEventKeyUp = 0x0002

	vkReturn = 0x0D
	vkShift  = 0x10
	vkSpace  = 0x20

	dpiPerMonitorAware = 2
)

var (
	user32            = windows.NewLazySystemDLL("user32.dll")
	shcore            = windows.NewLazySystemDLL("shcore.dll")
	procGetCursorPos  = user32.NewProc("GetCursorPos")
	procSetCursorPos  = user32.NewProc("SetCursorPos")
	procMouseEvent    = user32.NewProc("mouse_event")
	procKeybdEvent    = user32.NewProc("keybd_event")
	procVkKeyScanW    = user32.NewProc("VkKeyScanW")
	procSetDPIAware   = shcore.NewProc("SetProcessDpiAwareness")
	platformInputOnce sync.Once
)

// initPlatformInput opts the process into per-monitor DPI awareness so
// cursor coordinates line up with captured pixels on scaled displays.
func initPlatformInput() {
	platformInputOnce.Do(func() {
		procSetDPIAware.Call(uintptr(dpiPerMonitorAware))
	})
}

type winPoint struct {
	x, y int32
}

// CursorPos reports the pointer position in screen pixels.
func (d *Desktop) CursorPos() (int, int, error) {
	var pt winPoint
	ret, _, err := procGetCursorPos.Call(uintptr(unsafe.Pointer(&pt)))
	if ret == 0 {
		return 0, 0, fmt.Errorf("target: GetCursorPos: %w", err)
	}
	return int(pt.x), int(pt.y), nil
}

// MoveCursor warps the pointer.
func (d *Desktop) MoveCursor(x, y int) error {
	ret, _, err := procSetCursorPos.Call(uintptr(x), uintptr(y))
	if ret == 0 {
		return fmt.Errorf("target: SetCursorPos(%d,%d): %w", x, y, err)
	}
	return nil
}

// ButtonDown presses a pointer button at the current position.
func (d *Desktop) ButtonDown(b Button) error {
	flag := uintptr(mouseEventLeftDown)
	if b == ButtonRight {
		flag = mouseEventRightDown
	}
	procMouseEvent.Call(flag, 0, 0, 0, 0)
	return nil
}

// ButtonUp releases a pointer button.
func (d *Desktop) ButtonUp(b Button) error {
	flag := uintptr(mouseEventLeftUp)
	if b == ButtonRight {
		flag = mouseEventRightUp
	}
	procMouseEvent.Call(flag, 0, 0, 0, 0)
	return nil
}

// KeyStroke taps the key producing r, wrapping it in shift presses
// when the layout demands one. Runes with no key on the active layout
// are skipped.
func (d *Desktop) KeyStroke(r rune) error {
	switch r {
	case ' ':
		tapKey(vkSpace)
		return nil
	case '\n':
		tapKey(vkReturn)
		return nil
	}
	scan, _, _ := procVkKeyScanW.Call(uintptr(r))
	vk := int16(scan)
	if vk == -1 {
		return nil
	}
	needShift := vk>>8&1 != 0
	if needShift {
		procKeybdEvent.Call(vkShift, 0, 0, 0)
		time.Sleep(10 * time.Millisecond)
	}
	tapKey(uintptr(vk & 0xff))
	if needShift {
		procKeybdEvent.Call(vkShift, 0, keyEventKeyUp, 0)
	}
	return nil
}

func tapKey(vk uintptr) {
	procKeybdEvent.Call(vk, 0, 0, 0)
	time.Sleep(20 * time.Millisecond)
	procKeybdEvent.Call(vk, 0, keyEventKeyUp, 0)
}
