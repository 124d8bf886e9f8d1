package pipeline

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/v0xg/deskloop/internal/executor"
	"github.com/v0xg/deskloop/internal/raster"
	"github.com/v0xg/deskloop/internal/target"
)

// fakeScreen is a solid-gray capture source at a fixed native size.
type fakeScreen struct {
	w, h int
	fail bool
}

func (f *fakeScreen) Grab() (raster.Frame, error) {
	if f.fail {
		return raster.Frame{}, errors.New("display gone")
	}
	pix := make([]byte, f.w*f.h*4)
	for i := 0; i < len(pix); i += 4 {
		pix[i], pix[i+1], pix[i+2] = 120, 120, 120
	}
	return raster.Frame{Width: f.w, Height: f.h, Order: raster.OrderBGRA, Pix: pix}, nil
}

func (f *fakeScreen) NativeSize() (int, int, error) { return f.w, f.h, nil }

// nullInput accepts every injection silently.
type nullInput struct{ x, y int }

func (n *nullInput) CursorPos() (int, int, error)     { return n.x, n.y, nil }
func (n *nullInput) MoveCursor(x, y int) error        { n.x, n.y = x, y; return nil }
func (n *nullInput) ButtonDown(b target.Button) error { return nil }
func (n *nullInput) ButtonUp(b target.Button) error   { return nil }
func (n *nullInput) KeyStroke(r rune) error           { return nil }

func newPipeline(screen *fakeScreen) *Pipeline {
	d := executor.New(&nullInput{}, screen.w, screen.h, executor.Pacing{}, nil)
	return New(screen, d, nil)
}

func allOn() executor.Policy { return executor.Policy{Master: true} }

func TestRunEndToEnd(t *testing.T) {
	p := newPipeline(&fakeScreen{w: 1472, h: 928})

	resp, err := p.Run(context.Background(), Request{
		RawActionText: "ACTIONS:\nleft_click(500,500)\ntype(\"hi\")\nbogus_fn(1)",
		TargetWidth:   736,
		TargetHeight:  464,
		Annotate:      true,
		Policy:        allOn(),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"left_click(500,500)", "type(\"hi\")"}, resp.ExecutedLines)
	assert.Empty(t, resp.NotedLines)
	assert.False(t, resp.WantsRecapture)

	decoded, err := png.Decode(bytes.NewReader(resp.ImageBytes))
	require.NoError(t, err)
	bounds := decoded.Bounds()
	assert.Equal(t, 736, bounds.Dx())
	assert.Equal(t, 464, bounds.Dy())

	// Burst + cursor mark lands on the resolved click point.
	back := raster.FromImage(decoded)
	assert.Equal(t, raster.Color{R: 255, G: 50, B: 200, A: 255}, back.At(368, 232))
}

func TestRunNoActionsSectionYieldsCleanImage(t *testing.T) {
	p := newPipeline(&fakeScreen{w: 64, h: 64})

	resp, err := p.Run(context.Background(), Request{
		RawActionText: "thinking out loud, no sections here",
		TargetWidth:   64,
		TargetHeight:  64,
		Annotate:      true,
		Policy:        allOn(),
	})
	require.NoError(t, err)
	assert.Empty(t, resp.ExecutedLines)
	assert.Empty(t, resp.NotedLines)

	decoded, err := png.Decode(bytes.NewReader(resp.ImageBytes))
	require.NoError(t, err)
	back := raster.FromImage(decoded)
	for i := 0; i < len(back.Pix); i += 4 {
		require.Equal(t, byte(120), back.Pix[i])
		require.Equal(t, byte(255), back.Pix[i+3])
	}
}

func TestRunScreenshotRequest(t *testing.T) {
	p := newPipeline(&fakeScreen{w: 64, h: 64})

	resp, err := p.Run(context.Background(), Request{
		RawActionText: "ACTIONS:\nscreenshot()",
		TargetWidth:   64,
		TargetHeight:  64,
		Annotate:      true,
		Policy:        executor.Policy{Master: false},
	})
	require.NoError(t, err)
	assert.True(t, resp.WantsRecapture)
	assert.Equal(t, []string{"screenshot()"}, resp.NotedLines)
	assert.Empty(t, resp.ExecutedLines)
}

func TestRunAnnotateDisabledLeavesPixelsAlone(t *testing.T) {
	p := newPipeline(&fakeScreen{w: 64, h: 64})

	resp, err := p.Run(context.Background(), Request{
		RawActionText: "ACTIONS:\nleft_click(500,500)",
		TargetWidth:   64,
		TargetHeight:  64,
		Annotate:      false,
		Policy:        allOn(),
	})
	require.NoError(t, err)

	decoded, err := png.Decode(bytes.NewReader(resp.ImageBytes))
	require.NoError(t, err)
	back := raster.FromImage(decoded)
	for i := 0; i < len(back.Pix); i += 4 {
		require.Equal(t, byte(120), back.Pix[i])
	}
}

func TestRunCaptureFailureIsFatal(t *testing.T) {
	p := newPipeline(&fakeScreen{w: 64, h: 64, fail: true})

	resp, err := p.Run(context.Background(), Request{
		RawActionText: "ACTIONS:\nscreenshot()",
		TargetWidth:   64,
		TargetHeight:  64,
		Policy:        allOn(),
	})
	require.Error(t, err)
	assert.Nil(t, resp)
}

func TestRunRejectsBadTargetSize(t *testing.T) {
	p := newPipeline(&fakeScreen{w: 64, h: 64})
	_, err := p.Run(context.Background(), Request{TargetWidth: 0, TargetHeight: 10, Policy: allOn()})
	require.Error(t, err)
}
