// Package overlay draws the visual mark for each dispatched action
// onto a captured frame, so the agent can see on its next turn what
// its previous turn did and where.
package overlay

import (
	"math"

	"github.com/v0xg/deskloop/internal/action"
	"github.com/v0xg/deskloop/internal/raster"
)

// Mark colors are part of the agent-facing contract: the system prompt
// describes magenta marks, so these bytes must not drift.
var (
	Primary   = raster.Color{R: 255, G: 50, B: 200, A: 255}
	Secondary = raster.Color{R: 255, G: 180, B: 240, A: 255}
	Outline   = raster.Color{R: 40, G: 0, B: 30, A: 200}
)

// trailThreshold is the minimum pixel distance between consecutive
// spatial actions before a connecting movement arrow is drawn.
const trailThreshold = 20.0

// Annotate draws one mark per valid record, in order, onto buf.
// Coordinates resolve against the buffer's own dimensions. A trail
// cursor follows the spatial actions so consecutive marks get linked
// by dashed movement arrows.
func Annotate(buf *raster.Buffer, records []action.Record) {
	var trail *action.Point
	for _, rec := range records {
		if !rec.Valid {
			continue
		}
		switch rec.Kind {
		case action.LeftClick:
			pt := action.Resolve(rec.X, rec.Y, buf.Width, buf.Height)
			movementTrail(buf, trail, pt)
			drawBurst(buf, pt.X, pt.Y, Primary, 14, 24, 8, 2)
			drawGlyph(buf, pt.X, pt.Y, glyphCursor, Primary, Outline, 1)
			trail = &pt

		case action.RightClick:
			pt := action.Resolve(rec.X, rec.Y, buf.Width, buf.Height)
			movementTrail(buf, trail, pt)
			const p = 20
			drawLine(buf, pt.X-p, pt.Y-p, pt.X+p, pt.Y-p, Primary, 2)
			drawLine(buf, pt.X+p, pt.Y-p, pt.X+p, pt.Y+p, Primary, 2)
			drawLine(buf, pt.X+p, pt.Y+p, pt.X-p, pt.Y+p, Primary, 2)
			drawLine(buf, pt.X-p, pt.Y+p, pt.X-p, pt.Y-p, Primary, 2)
			drawGlyph(buf, pt.X, pt.Y, glyphCursorRight, Primary, Outline, 1)
			trail = &pt

		case action.DoubleLeftClick:
			pt := action.Resolve(rec.X, rec.Y, buf.Width, buf.Height)
			movementTrail(buf, trail, pt)
			drawCircle(buf, pt.X, pt.Y, 18, Primary, false)
			drawCircle(buf, pt.X, pt.Y, 28, Primary, false)
			drawBurst(buf, pt.X, pt.Y, Primary, 30, 38, 8, 2)
			drawGlyph(buf, pt.X, pt.Y, glyphCursor, Primary, Outline, 1)
			trail = &pt

		case action.Drag:
			from := action.Resolve(rec.X, rec.Y, buf.Width, buf.Height)
			to := action.Resolve(rec.X2, rec.Y2, buf.Width, buf.Height)
			// The approach arrow is suppressed for short hops; the drag
			// marks themselves always draw.
			if trail != nil && dist(*trail, from) > trailThreshold {
				drawDashedArrow(buf, trail.X, trail.Y, from.X, from.Y, Secondary, 1, 4, 4, 8, 30)
			}
			drawCircle(buf, from.X, from.Y, 8, Primary, true)
			drawDashedArrow(buf, from.X, from.Y, to.X, to.Y, Primary, 3, 10, 6, 18, 25)
			drawCircle(buf, to.X, to.Y, 10, Primary, false)
			trail = &to

		case action.TypeText:
			// Typing has no position of its own; it marks wherever the
			// pointer last ended up, and leaves the trail untouched.
			if trail != nil {
				drawGlyph(buf,
					trail.X-ibeamWidth*2/2,
					trail.Y-ibeamHeight*2/2,
					glyphIBeam, Primary, Outline, 2)
				uy := trail.Y + ibeamHeight + 4
				drawLine(buf, trail.X-15, uy, trail.X+15, uy, Primary, 2)
			}

		case action.Screenshot:
			// No visual mark.
		}
	}
}

// movementTrail links the previous spatial action to the next one with
// a dashed arrow, skipping hops of 20px or less.
func movementTrail(buf *raster.Buffer, trail *action.Point, to action.Point) {
	if trail == nil || dist(*trail, to) <= trailThreshold {
		return
	}
	drawDashedArrow(buf, trail.X, trail.Y, to.X, to.Y, Secondary, 2, 6, 4, 12, 30)
}

func dist(a, b action.Point) float64 {
	return math.Hypot(float64(a.X-b.X), float64(a.Y-b.Y))
}
