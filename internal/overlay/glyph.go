package overlay

import "github.com/v0xg/deskloop/internal/raster"

// Glyphs are small fixed bitmaps stamped pixel by pixel: '#' takes the
// fill color, '.' the outline color, space is transparent.

var glyphCursor = []string{
	"#           ",
	"##          ",
	"#.#         ",
	"#..#        ",
	"#...#       ",
	"#....#      ",
	"#.....#     ",
	"#......#    ",
	"#.......#   ",
	"#........#  ",
	"#.....#####",
	"#..#..#     ",
	"#.# #..#    ",
	"##  #..#    ",
	"#    #..#   ",
	"     ###    ",
}

var glyphCursorRight = []string{
	"#           ",
	"##          ",
	"#.#         ",
	"#..#        ",
	"#...#       ",
	"#....#      ",
	"#.....#     ",
	"#......#    ",
	"#.......#   ",
	"#........#  ",
	"#.....#####",
	"#..#..# ##  ",
	"#.# #..##.# ",
	"##  #..### ",
	"#    #..#   ",
	"     ###    ",
}

var glyphIBeam = []string{
	" ### ",
	"  #  ",
	"  #  ",
	"  #  ",
	"  #  ",
	"  #  ",
	"  #  ",
	"  #  ",
	"  #  ",
	"  #  ",
	"  #  ",
	"  #  ",
	"  #  ",
	" ### ",
}

var (
	ibeamWidth  = len(glyphIBeam[0])
	ibeamHeight = len(glyphIBeam)
)

// drawGlyph stamps a bitmap glyph with its top-left corner at (x, y),
// scaled by an integer factor.
func drawGlyph(buf *raster.Buffer, x, y int, glyph []string, fill, outline raster.Color, scale int) {
	for ri, row := range glyph {
		for ci, ch := range row {
			if ch == ' ' {
				continue
			}
			c := fill
			if ch != '#' {
				c = outline
			}
			for sy := 0; sy < scale; sy++ {
				for sx := 0; sx < scale; sx++ {
					buf.Set(x+ci*scale+sx, y+ri*scale+sy, c)
				}
			}
		}
	}
}
