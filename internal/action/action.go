// Package action turns raw agent response text into typed action
// records. The response format has two labeled sections: NARRATIVE
// (free prose, ignored here) and ACTIONS (one function-style call per
// line). Only a fixed, closed set of calls is recognized.
package action

import "math"

// Kind enumerates every action the agent can issue. The set is closed:
// parsing returns no record at all for anything else.
type Kind int

const (
	LeftClick Kind = iota
	RightClick
	DoubleLeftClick
	Drag
	TypeText
	Screenshot
)

// String returns the wire-format function name for the kind.
func (k Kind) String() string {
	switch k {
	case LeftClick:
		return "left_click"
	case RightClick:
		return "right_click"
	case DoubleLeftClick:
		return "double_left_click"
	case Drag:
		return "drag"
	case TypeText:
		return "type"
	case Screenshot:
		return "screenshot"
	}
	return "unknown"
}

// kindOf maps a leading identifier to its kind. The boolean reports
// whether the identifier is recognized at all.
func kindOf(name string) (Kind, bool) {
	switch name {
	case "left_click":
		return LeftClick, true
	case "right_click":
		return RightClick, true
	case "double_left_click":
		return DoubleLeftClick, true
	case "drag":
		return Drag, true
	case "type":
		return TypeText, true
	case "screenshot":
		return Screenshot, true
	}
	return 0, false
}

// Record is one parsed action line. Coordinates are in the virtual
// [0,1000] square; they are mapped to pixels only at dispatch or draw
// time. Line preserves the source text verbatim for echoing back to
// the agent. Valid is false when the identifier was recognized but the
// argument list did not parse; such records are noted, never executed
// or drawn.
type Record struct {
	Kind  Kind
	X, Y  int    // click position, or drag start
	X2    int    // drag end
	Y2    int
	Text  string // TypeText payload
	Line  string
	Valid bool
}

// Point is a position resolved into the current target resolution.
type Point struct {
	X, Y int
}

// Resolve maps virtual coordinates linearly into a width x height
// pixel space: px = round(v / 1000 * extent).
func Resolve(vx, vy, width, height int) Point {
	return Point{
		X: int(math.Round(float64(vx) / 1000.0 * float64(width))),
		Y: int(math.Round(float64(vy) / 1000.0 * float64(height))),
	}
}
