// Package pipeline composes one full request: parse the agent's action
// text, dispatch input, capture the screen, and hand back an annotated
// PNG for the next turn.
package pipeline

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/v0xg/deskloop/internal/action"
	"github.com/v0xg/deskloop/internal/executor"
	"github.com/v0xg/deskloop/internal/overlay"
	"github.com/v0xg/deskloop/internal/pngenc"
	"github.com/v0xg/deskloop/internal/raster"
	"github.com/v0xg/deskloop/internal/target"
)

// Request describes one pipeline invocation.
type Request struct {
	RawActionText string
	TargetWidth   int
	TargetHeight  int
	Annotate      bool
	Policy        executor.Policy
}

// Response carries everything the agent sees next turn.
type Response struct {
	ExecutedLines  []string
	NotedLines     []string
	WantsRecapture bool
	ImageBytes     []byte
}

// Pipeline runs parse, dispatch, capture, normalize, resample,
// annotate and encode in strict sequence. The capture and injection
// handles underneath are not safe for concurrent use, so invocations
// are serialized; there is no other state between requests.
type Pipeline struct {
	mu         sync.Mutex
	capture    target.CaptureSource
	dispatcher *executor.Dispatcher
	logger     *zap.Logger
}

// New wires a pipeline over a capture source and a dispatcher that
// injects into the same target.
func New(capture target.CaptureSource, dispatcher *executor.Dispatcher, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{capture: capture, dispatcher: dispatcher, logger: logger}
}

// Run processes one request. Parse- and dispatch-level problems are
// absorbed into the noted list; capture or encoding failures abort the
// request and no image is returned.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Response, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if req.TargetWidth <= 0 || req.TargetHeight <= 0 {
		return nil, fmt.Errorf("pipeline: invalid target size %dx%d", req.TargetWidth, req.TargetHeight)
	}

	records := action.Parse(req.RawActionText)
	outcome := p.dispatcher.Dispatch(ctx, records, req.Policy)
	p.logger.Debug("dispatched actions",
		zap.Int("executed", len(outcome.Executed)),
		zap.Int("noted", len(outcome.Noted)),
		zap.Bool("wants_recapture", outcome.WantsRecapture))

	frame, err := p.capture.Grab()
	if err != nil {
		return nil, fmt.Errorf("pipeline: capture: %w", err)
	}
	buf, err := raster.Normalize(frame)
	if err != nil {
		return nil, fmt.Errorf("pipeline: normalize: %w", err)
	}
	buf = raster.Resample(buf, req.TargetWidth, req.TargetHeight)

	all := outcome.All()
	if req.Annotate && len(all) > 0 {
		overlay.Annotate(buf, all)
	}

	img, err := pngenc.Encode(buf)
	if err != nil {
		return nil, fmt.Errorf("pipeline: encode: %w", err)
	}

	return &Response{
		ExecutedLines:  outcome.ExecutedLines(),
		NotedLines:     outcome.NotedLines(),
		WantsRecapture: outcome.WantsRecapture,
		ImageBytes:     img,
	}, nil
}
