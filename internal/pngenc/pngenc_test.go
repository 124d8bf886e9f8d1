package pngenc

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/v0xg/deskloop/internal/raster"
)

func TestEncodeRoundTrip(t *testing.T) {
	buf := raster.NewBuffer(7, 5)
	for y := 0; y < buf.Height; y++ {
		for x := 0; x < buf.Width; x++ {
			buf.Set(x, y, raster.Color{
				R: uint8(x * 30),
				G: uint8(y * 40),
				B: uint8(x*y + 11),
				A: 255,
			})
		}
	}

	data, err := Encode(buf)
	require.NoError(t, err)

	decoded, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	rgba, ok := decoded.(*image.NRGBA)
	if !ok {
		// Some decoders hand back RGBA for fully opaque images.
		back := raster.FromImage(decoded)
		assert.Equal(t, buf.Pix, back.Pix)
		return
	}
	back := raster.FromImage(rgba)
	assert.Equal(t, buf.Pix, back.Pix)
}

func TestEncodeSolidColorRoundTrip(t *testing.T) {
	buf := raster.NewBuffer(32, 16)
	for i := 0; i < len(buf.Pix); i += 4 {
		buf.Pix[i] = 255
		buf.Pix[i+1] = 50
		buf.Pix[i+2] = 200
		buf.Pix[i+3] = 255
	}

	data, err := Encode(buf)
	require.NoError(t, err)

	decoded, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	back := raster.FromImage(decoded)
	assert.Equal(t, buf.Pix, back.Pix)
}

func TestEncodeSignatureAndLayout(t *testing.T) {
	data, err := Encode(raster.NewBuffer(1, 1))
	require.NoError(t, err)

	require.True(t, bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")))
	assert.Equal(t, []byte("IHDR"), data[12:16])
	assert.Equal(t, []byte("IEND"), data[len(data)-8:len(data)-4])

	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Width)
	assert.Equal(t, 1, cfg.Height)
}

func TestEncodeRejectsBadBuffer(t *testing.T) {
	_, err := Encode(&raster.Buffer{Width: 0, Height: 0})
	require.Error(t, err)

	_, err = Encode(&raster.Buffer{Width: 2, Height: 2, Pix: make([]byte, 3)})
	require.Error(t, err)
}
