//go:build !windows

package target

func initPlatformInput() {}

func (d *Desktop) CursorPos() (int, int, error) { return 0, 0, ErrUnsupported }

func (d *Desktop) MoveCursor(x, y int) error { return ErrUnsupported }

func (d *Desktop) ButtonDown(b Button) error { return ErrUnsupported }

func (d *Desktop) ButtonUp(b Button) error { return ErrUnsupported }

func (d *Desktop) KeyStroke(r rune) error { return ErrUnsupported }
