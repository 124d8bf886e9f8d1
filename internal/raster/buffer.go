package raster

import (
	"fmt"
	"image"
)

// ChannelOrder identifies the byte layout a capture surface delivers.
type ChannelOrder int

const (
	// OrderRGBA is the canonical layout used by every pipeline stage.
	OrderRGBA ChannelOrder = iota
	// OrderBGRA is what GDI-style surfaces hand back.
	OrderBGRA
)

// Color is one RGBA pixel value.
type Color struct {
	R, G, B, A uint8
}

// Frame is a raw capture straight off a platform surface, in whatever
// channel order the surface uses. It is consumed by Normalize and must
// not be reused afterwards.
type Frame struct {
	Width  int
	Height int
	Order  ChannelOrder
	Pix    []byte
}

// Buffer is the canonical in-memory raster: RGBA, 4 bytes per pixel,
// row-major, top-to-bottom. Each stage owns the buffer it holds; stages
// hand buffers forward rather than sharing them.
type Buffer struct {
	Width  int
	Height int
	Pix    []byte
}

// NewBuffer allocates a zeroed canonical buffer.
func NewBuffer(width, height int) *Buffer {
	return &Buffer{
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height*4),
	}
}

// Normalize reorders a raw frame into canonical RGBA and forces every
// alpha byte to 255. The frame's pixel storage is taken over; callers
// must not touch it again.
func Normalize(f Frame) (*Buffer, error) {
	want := f.Width * f.Height * 4
	if len(f.Pix) != want {
		return nil, fmt.Errorf("raster: frame is %d bytes, want %d for %dx%d", len(f.Pix), want, f.Width, f.Height)
	}
	pix := f.Pix
	switch f.Order {
	case OrderRGBA:
		for i := 3; i < len(pix); i += 4 {
			pix[i] = 0xff
		}
	case OrderBGRA:
		for i := 0; i < len(pix); i += 4 {
			pix[i], pix[i+2] = pix[i+2], pix[i]
			pix[i+3] = 0xff
		}
	default:
		return nil, fmt.Errorf("raster: unknown channel order %d", f.Order)
	}
	return &Buffer{Width: f.Width, Height: f.Height, Pix: pix}, nil
}

// Set writes one pixel. Writes outside the buffer are silently dropped,
// so drawing code never has to clip.
func (b *Buffer) Set(x, y int, c Color) {
	if x < 0 || x >= b.Width || y < 0 || y >= b.Height {
		return
	}
	i := (y*b.Width + x) * 4
	b.Pix[i] = c.R
	b.Pix[i+1] = c.G
	b.Pix[i+2] = c.B
	b.Pix[i+3] = c.A
}

// At reads one pixel back. Out-of-bounds reads return the zero color.
func (b *Buffer) At(x, y int) Color {
	if x < 0 || x >= b.Width || y < 0 || y >= b.Height {
		return Color{}
	}
	i := (y*b.Width + x) * 4
	return Color{R: b.Pix[i], G: b.Pix[i+1], B: b.Pix[i+2], A: b.Pix[i+3]}
}

// RGBA wraps the buffer's storage as an image.RGBA without copying.
// The returned image aliases the buffer, so the buffer must outlive it.
func (b *Buffer) RGBA() *image.RGBA {
	return &image.RGBA{
		Pix:    b.Pix,
		Stride: b.Width * 4,
		Rect:   image.Rect(0, 0, b.Width, b.Height),
	}
}

// FromImage copies an arbitrary image into a fresh canonical buffer.
func FromImage(img image.Image) *Buffer {
	bounds := img.Bounds()
	out := NewBuffer(bounds.Dx(), bounds.Dy())
	if src, ok := img.(*image.RGBA); ok {
		for y := 0; y < out.Height; y++ {
			row := src.Pix[(bounds.Min.Y+y-src.Rect.Min.Y)*src.Stride+(bounds.Min.X-src.Rect.Min.X)*4:]
			copy(out.Pix[y*out.Width*4:(y+1)*out.Width*4], row[:out.Width*4])
		}
		return out
	}
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, bl, a := img.At(x, y).RGBA()
			out.Pix[i] = uint8(r >> 8)
			out.Pix[i+1] = uint8(g >> 8)
			out.Pix[i+2] = uint8(bl >> 8)
			out.Pix[i+3] = uint8(a >> 8)
			i += 4
		}
	}
	return out
}
