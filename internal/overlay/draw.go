package overlay

import (
	"math"

	"github.com/v0xg/deskloop/internal/raster"
)

// Raster primitives. Every write goes through Buffer.Set, which drops
// out-of-bounds pixels, so nothing here clips explicitly.

// setThick writes a t x t square of pixels centered on (x, y).
func setThick(buf *raster.Buffer, x, y int, c raster.Color, t int) {
	half := t >> 1
	for dy := -half; dy <= half; dy++ {
		for dx := -half; dx <= half; dx++ {
			buf.Set(x+dx, y+dy, c)
		}
	}
}

// drawLine walks Bresenham's algorithm from (x1,y1) to (x2,y2).
func drawLine(buf *raster.Buffer, x1, y1, x2, y2 int, c raster.Color, t int) {
	dx, dy := abs(x2-x1), abs(y2-y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}
	err := dx - dy
	x, y := x1, y1
	for {
		setThick(buf, x, y, c, t)
		if x == x2 && y == y2 {
			return
		}
		e2 := err << 1
		if e2 > -dy {
			err -= dy
			x += sx
		}
		if e2 < dx {
			err += dx
			y += sy
		}
	}
}

// drawDashedLine samples the parametrized segment pixel by pixel,
// drawing for dash steps then skipping for gap steps.
func drawDashedLine(buf *raster.Buffer, x1, y1, x2, y2 int, c raster.Color, t, dash, gap int) {
	dx, dy := x2-x1, y2-y1
	dist := int(math.Hypot(float64(dx), float64(dy)))
	if dist < 1 {
		dist = 1
	}
	cycle := dash + gap
	for i := 0; i <= dist; i++ {
		if i%cycle < dash {
			frac := float64(i) / float64(dist)
			setThick(buf, x1+int(float64(dx)*frac), y1+int(float64(dy)*frac), c, t)
		}
	}
}

// drawCircle rasterizes a circle by squared-distance test: the filled
// form covers the whole disc, the outline only a 2px-wide band.
func drawCircle(buf *raster.Buffer, cx, cy, r int, c raster.Color, filled bool) {
	r2 := r * r
	inner2 := (r - 2) * (r - 2)
	for oy := -r; oy <= r; oy++ {
		for ox := -r; ox <= r; ox++ {
			d2 := ox*ox + oy*oy
			if filled {
				if d2 <= r2 {
					buf.Set(cx+ox, cy+oy, c)
				}
			} else if d2 >= inner2 && d2 <= r2 {
				buf.Set(cx+ox, cy+oy, c)
			}
		}
	}
}

// fillTriangle covers the triangle with a three-edge half-plane test
// over its bounding box.
func fillTriangle(buf *raster.Buffer, x1, y1, x2, y2, x3, y3 int, c raster.Color) {
	loX := min3(x1, x2, x3)
	hiX := max3(x1, x2, x3)
	loY := min3(y1, y2, y3)
	hiY := max3(y1, y2, y3)
	edge := func(px, py, ax, ay, bx, by int) int {
		return (px-bx)*(ay-by) - (ax-bx)*(py-by)
	}
	for py := loY; py <= hiY; py++ {
		for px := loX; px <= hiX; px++ {
			d1 := edge(px, py, x1, y1, x2, y2)
			d2 := edge(px, py, x2, y2, x3, y3)
			d3 := edge(px, py, x3, y3, x1, y1)
			neg := d1 < 0 || d2 < 0 || d3 < 0
			pos := d1 > 0 || d2 > 0 || d3 > 0
			if !(neg && pos) {
				buf.Set(px, py, c)
			}
		}
	}
}

// drawArrowhead puts two angled strokes plus a filled triangle at the
// target end of the segment.
func drawArrowhead(buf *raster.Buffer, x1, y1, x2, y2 int, c raster.Color, t, length int, angleDeg float64) {
	angle := math.Atan2(float64(y2-y1), float64(x2-x1))
	half := angleDeg * math.Pi / 180
	lx := x2 - int(float64(length)*math.Cos(angle-half))
	ly := y2 - int(float64(length)*math.Sin(angle-half))
	rx := x2 - int(float64(length)*math.Cos(angle+half))
	ry := y2 - int(float64(length)*math.Sin(angle+half))
	drawLine(buf, x2, y2, lx, ly, c, t)
	drawLine(buf, x2, y2, rx, ry, c, t)
	fillTriangle(buf, x2, y2, lx, ly, rx, ry, c)
}

// drawDashedArrow combines a dashed shaft with an arrowhead.
func drawDashedArrow(buf *raster.Buffer, x1, y1, x2, y2 int, c raster.Color, t, dash, gap, headLen int, headDeg float64) {
	drawDashedLine(buf, x1, y1, x2, y2, c, t, dash, gap)
	headT := t
	if headT < 3 {
		headT = 3
	}
	drawArrowhead(buf, x1, y1, x2, y2, c, headT, headLen, headDeg)
}

// drawBurst draws rays radiating from (x, y) between an inner and
// outer radius.
func drawBurst(buf *raster.Buffer, x, y int, c raster.Color, rIn, rOut, rays, t int) {
	for i := 0; i < rays; i++ {
		a := 2 * math.Pi * float64(i) / float64(rays)
		cos, sin := math.Cos(a), math.Sin(a)
		drawLine(buf,
			x+int(float64(rIn)*cos), y+int(float64(rIn)*sin),
			x+int(float64(rOut)*cos), y+int(float64(rOut)*sin),
			c, t)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func min3(a, b, c int) int { return min(a, min(b, c)) }

func max3(a, b, c int) int { return max(a, max(b, c)) }
