package overlay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/v0xg/deskloop/internal/action"
	"github.com/v0xg/deskloop/internal/raster"
)

func newCanvas() *raster.Buffer {
	buf := raster.NewBuffer(736, 464)
	for i := 3; i < len(buf.Pix); i += 4 {
		buf.Pix[i] = 255
	}
	return buf
}

func countColor(buf *raster.Buffer, c raster.Color) int {
	n := 0
	for y := 0; y < buf.Height; y++ {
		for x := 0; x < buf.Width; x++ {
			if buf.At(x, y) == c {
				n++
			}
		}
	}
	return n
}

func records(t *testing.T, raw string) []action.Record {
	t.Helper()
	recs := action.Parse("ACTIONS:\n" + raw)
	require.NotEmpty(t, recs)
	return recs
}

func TestAnnotateLeftClickMarks(t *testing.T) {
	buf := newCanvas()
	Annotate(buf, records(t, "left_click(500,500)"))

	// Glyph hotspot sits exactly on the resolved point.
	assert.Equal(t, Primary, buf.At(368, 232))
	// A horizontal burst ray runs from radius 14 to 24.
	assert.Equal(t, Primary, buf.At(368+20, 232))
	// No movement trail on the first spatial action.
	assert.Zero(t, countColor(buf, Secondary))
}

func TestAnnotateRightClickSquare(t *testing.T) {
	buf := newCanvas()
	Annotate(buf, records(t, "right_click(500,500)"))

	// 40x40 outline centered on the point.
	assert.Equal(t, Primary, buf.At(368-20, 232))
	assert.Equal(t, Primary, buf.At(368+20, 232))
	assert.Equal(t, Primary, buf.At(368, 232-20))
	assert.Equal(t, Primary, buf.At(368, 232+20))
}

func TestAnnotateDoubleClickCircles(t *testing.T) {
	buf := newCanvas()
	Annotate(buf, records(t, "double_left_click(500,500)"))

	assert.Equal(t, Primary, buf.At(368+18, 232))
	assert.Equal(t, Primary, buf.At(368+28, 232))
	// Burst rays reach out to radius 38.
	assert.Equal(t, Primary, buf.At(368+35, 232))
}

func TestAnnotateDragMarks(t *testing.T) {
	buf := newCanvas()
	Annotate(buf, records(t, "drag(100,100,500,500)"))

	// Filled disc at the resolved start.
	assert.Equal(t, Primary, buf.At(74, 46))
	assert.Equal(t, Primary, buf.At(74+4, 46))
	// Open circle ring at the resolved end.
	assert.Equal(t, Primary, buf.At(368, 232+10))
	// First spatial action: no approach trail.
	assert.Zero(t, countColor(buf, Secondary))
}

func TestAnnotateMovementTrailBetweenClicks(t *testing.T) {
	buf := newCanvas()
	Annotate(buf, records(t, "left_click(100,100)\nleft_click(900,900)"))
	assert.Positive(t, countColor(buf, Secondary))
}

func TestAnnotateTrailSuppressedForShortHop(t *testing.T) {
	buf := newCanvas()
	// 10 virtual units is ~7px horizontally: inside the threshold.
	Annotate(buf, records(t, "left_click(500,500)\nleft_click(510,500)"))
	assert.Zero(t, countColor(buf, Secondary))
}

func TestAnnotateDragShortHopStillDrawsPath(t *testing.T) {
	buf := newCanvas()
	Annotate(buf, records(t, "left_click(500,500)\ndrag(510,500,900,900)"))

	assert.Zero(t, countColor(buf, Secondary))
	// Drag start disc resolves to (375, 232).
	assert.Equal(t, Primary, buf.At(375, 232))
}

func TestAnnotateTypeWithoutTrailDrawsNothing(t *testing.T) {
	buf := newCanvas()
	before := countColor(buf, Primary)
	Annotate(buf, records(t, "type(\"hello\")"))
	assert.Equal(t, before, countColor(buf, Primary))
}

func TestAnnotateTypeAtTrail(t *testing.T) {
	buf := newCanvas()
	Annotate(buf, records(t, "left_click(500,500)\ntype(\"hi\")"))

	// Underline strip below the I-beam.
	uy := 232 + 14 + 4
	assert.Equal(t, Primary, buf.At(368, uy))
	assert.Equal(t, Primary, buf.At(368-14, uy))
	assert.Equal(t, Primary, buf.At(368+14, uy))
}

func TestAnnotateTypeDoesNotMoveTrail(t *testing.T) {
	one := newCanvas()
	Annotate(one, records(t, "left_click(100,100)\nleft_click(900,900)"))
	two := newCanvas()
	Annotate(two, records(t, "left_click(100,100)\ntype(\"x\")\nleft_click(900,900)"))

	// The second click's trail must start from the click position in
	// both cases; typing in between cannot reroute it.
	assert.Equal(t, countColor(one, Secondary), countColor(two, Secondary))
}

func TestAnnotateInvalidRecordDrawsNothing(t *testing.T) {
	buf := newCanvas()
	Annotate(buf, records(t, "left_click(1+1,2)"))
	assert.Zero(t, countColor(buf, Primary))
}

func TestAnnotateScreenshotDrawsNothing(t *testing.T) {
	buf := newCanvas()
	Annotate(buf, records(t, "screenshot()"))
	assert.Zero(t, countColor(buf, Primary))
}

func TestAnnotateOffscreenCoordinatesAreSafe(t *testing.T) {
	buf := newCanvas()
	// Marks centered at the very corner spill outside; writes must clip.
	Annotate(buf, records(t, "left_click(0,0)\ndrag(990,990,1000,1000)"))
	assert.Positive(t, countColor(buf, Primary))
}
