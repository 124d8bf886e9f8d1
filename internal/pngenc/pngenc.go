// Package pngenc serializes a canonical RGBA buffer into a PNG byte
// stream. Only the minimal container is produced: IHDR, a single IDAT
// holding the zlib-compressed scanlines, and IEND. Any standard decoder
// reads the result back losslessly.
package pngenc

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"

	"github.com/klauspost/compress/zlib"

	"github.com/v0xg/deskloop/internal/raster"
)

var signature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

const (
	bitDepth  = 8
	colorRGBA = 6
)

// Encode produces a complete PNG file for the buffer.
func Encode(b *raster.Buffer) ([]byte, error) {
	if b.Width <= 0 || b.Height <= 0 {
		return nil, fmt.Errorf("pngenc: invalid dimensions %dx%d", b.Width, b.Height)
	}
	if want := b.Width * b.Height * 4; len(b.Pix) != want {
		return nil, fmt.Errorf("pngenc: buffer is %d bytes, want %d", len(b.Pix), want)
	}

	idat, err := compressScanlines(b)
	if err != nil {
		return nil, err
	}

	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:], uint32(b.Width))
	binary.BigEndian.PutUint32(ihdr[4:], uint32(b.Height))
	ihdr[8] = bitDepth
	ihdr[9] = colorRGBA
	// compression, filter and interlace stay at their only legal value.

	var out bytes.Buffer
	out.Grow(len(signature) + len(idat) + 64)
	out.Write(signature)
	writeChunk(&out, "IHDR", ihdr)
	writeChunk(&out, "IDAT", idat)
	writeChunk(&out, "IEND", nil)
	return out.Bytes(), nil
}

// compressScanlines deflates the image rows, each prefixed with the
// filter-type byte 0 (no per-row filtering).
func compressScanlines(b *raster.Buffer) ([]byte, error) {
	var compressed bytes.Buffer
	zw, err := zlib.NewWriterLevel(&compressed, zlib.DefaultCompression)
	if err != nil {
		return nil, fmt.Errorf("pngenc: init deflate: %w", err)
	}
	stride := b.Width * 4
	filterByte := []byte{0}
	for y := 0; y < b.Height; y++ {
		if _, err := zw.Write(filterByte); err != nil {
			return nil, fmt.Errorf("pngenc: compress row %d: %w", y, err)
		}
		if _, err := zw.Write(b.Pix[y*stride : (y+1)*stride]); err != nil {
			return nil, fmt.Errorf("pngenc: compress row %d: %w", y, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("pngenc: finish deflate: %w", err)
	}
	return compressed.Bytes(), nil
}

// writeChunk frames one chunk: length, tag, payload, CRC-32 over
// tag+payload.
func writeChunk(out *bytes.Buffer, tag string, payload []byte) {
	var header [8]byte
	binary.BigEndian.PutUint32(header[0:], uint32(len(payload)))
	copy(header[4:], tag)
	out.Write(header[:])
	out.Write(payload)

	crc := crc32.NewIEEE()
	crc.Write(header[4:])
	crc.Write(payload)
	var sum [4]byte
	binary.BigEndian.PutUint32(sum[:], crc.Sum32())
	out.Write(sum[:])
}
