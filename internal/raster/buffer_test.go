package raster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeBGRA(t *testing.T) {
	f := Frame{
		Width:  2,
		Height: 1,
		Order:  OrderBGRA,
		Pix: []byte{
			10, 20, 30, 0, // B G R A
			40, 50, 60, 128,
		},
	}
	buf, err := Normalize(f)
	require.NoError(t, err)

	assert.Equal(t, Color{R: 30, G: 20, B: 10, A: 255}, buf.At(0, 0))
	assert.Equal(t, Color{R: 60, G: 50, B: 40, A: 255}, buf.At(1, 0))
}

func TestNormalizeForcesOpacity(t *testing.T) {
	f := Frame{Width: 1, Height: 1, Order: OrderRGBA, Pix: []byte{1, 2, 3, 0}}
	buf, err := Normalize(f)
	require.NoError(t, err)
	assert.Equal(t, Color{R: 1, G: 2, B: 3, A: 255}, buf.At(0, 0))
}

func TestNormalizeRejectsShortFrame(t *testing.T) {
	_, err := Normalize(Frame{Width: 2, Height: 2, Order: OrderRGBA, Pix: make([]byte, 7)})
	require.Error(t, err)
}

func TestSetClampsOutOfBounds(t *testing.T) {
	buf := NewBuffer(4, 4)
	buf.Set(-1, 0, Color{R: 255})
	buf.Set(0, -1, Color{R: 255})
	buf.Set(4, 0, Color{R: 255})
	buf.Set(0, 4, Color{R: 255})
	for _, b := range buf.Pix {
		assert.Zero(t, b)
	}
	buf.Set(3, 3, Color{R: 9, G: 8, B: 7, A: 6})
	assert.Equal(t, Color{R: 9, G: 8, B: 7, A: 6}, buf.At(3, 3))
}

func TestResampleIdentity(t *testing.T) {
	buf := NewBuffer(8, 8)
	assert.Same(t, buf, Resample(buf, 8, 8))
}

func TestResampleSolidColor(t *testing.T) {
	buf := NewBuffer(16, 16)
	for i := 0; i < len(buf.Pix); i += 4 {
		buf.Pix[i] = 200
		buf.Pix[i+1] = 100
		buf.Pix[i+2] = 50
		buf.Pix[i+3] = 255
	}
	out := Resample(buf, 4, 4)
	require.Equal(t, 4, out.Width)
	require.Equal(t, 4, out.Height)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			c := out.At(x, y)
			// A solid field must survive averaging to within rounding.
			assert.InDelta(t, 200, int(c.R), 1, "pixel %d,%d red", x, y)
			assert.InDelta(t, 100, int(c.G), 1, "pixel %d,%d green", x, y)
			assert.InDelta(t, 50, int(c.B), 1, "pixel %d,%d blue", x, y)
			assert.EqualValues(t, 255, c.A, "pixel %d,%d alpha", x, y)
		}
	}
}
