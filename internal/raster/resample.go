package raster

import "github.com/nfnt/resize"

// Resample scales a canonical buffer to the target resolution using
// Lanczos filtering, which averages over source pixels instead of
// point-sampling and so avoids the shimmer nearest-neighbor produces on
// downscaled UI text. Returns the input unchanged when the size already
// matches.
func Resample(b *Buffer, width, height int) *Buffer {
	if b.Width == width && b.Height == height {
		return b
	}
	scaled := resize.Resize(uint(width), uint(height), b.RGBA(), resize.Lanczos3)
	out := FromImage(scaled)
	// Lanczos ringing can nudge alpha off full opacity at hard edges.
	for i := 3; i < len(out.Pix); i += 4 {
		out.Pix[i] = 0xff
	}
	return out
}
