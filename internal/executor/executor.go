// Package executor decides which parsed actions really touch the
// machine and performs the input injection for those that do.
package executor

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/v0xg/deskloop/internal/action"
	"github.com/v0xg/deskloop/internal/target"
)

const moveSteps = 20

// Policy governs executed-vs-noted classification: a master switch and
// a per-kind flag keyed by function name. A kind missing from PerKind
// counts as enabled.
type Policy struct {
	PerKind map[string]bool
	Master  bool
}

// Allows reports whether the policy lets a kind execute.
func (p Policy) Allows(k action.Kind) bool {
	if !p.Master {
		return false
	}
	enabled, ok := p.PerKind[k.String()]
	if !ok {
		return true
	}
	return enabled
}

// Outcome is the result of dispatching one action batch.
type Outcome struct {
	Executed       []action.Record
	Noted          []action.Record
	WantsRecapture bool
}

// All returns executed followed by noted, the order annotation uses.
func (o Outcome) All() []action.Record {
	all := make([]action.Record, 0, len(o.Executed)+len(o.Noted))
	all = append(all, o.Executed...)
	all = append(all, o.Noted...)
	return all
}

// ExecutedLines returns the verbatim source lines of executed actions.
func (o Outcome) ExecutedLines() []string { return lines(o.Executed) }

// NotedLines returns the verbatim source lines of noted actions.
func (o Outcome) NotedLines() []string { return lines(o.Noted) }

func lines(records []action.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Line
	}
	return out
}

// Pacing holds the delays that make injected input look deliberate
// rather than instantaneous. The zero value disables all waiting,
// which is what tests want.
type Pacing struct {
	Step      time.Duration // between eased cursor steps
	Click     time.Duration // settle time before a button press
	Hold      time.Duration // button held down
	DoubleGap time.Duration // between the two clicks of a double click
	DragPause time.Duration // around press/release during a drag
	Char      time.Duration // after an ordinary keystroke
	Word      time.Duration // after space or newline
}

// DefaultPacing mirrors unhurried human input.
var DefaultPacing = Pacing{
	Step:      10 * time.Millisecond,
	Click:     150 * time.Millisecond,
	Hold:      50 * time.Millisecond,
	DoubleGap: 80 * time.Millisecond,
	DragPause: 100 * time.Millisecond,
	Char:      80 * time.Millisecond,
	Word:      150 * time.Millisecond,
}

// Dispatcher routes parsed actions to the input backend according to
// policy. Coordinates arrive in the virtual [0,1000] square and are
// resolved against the native screen size here.
type Dispatcher struct {
	input   target.Inputter
	screenW int
	screenH int
	pacing  Pacing
	logger  *zap.Logger
}

// New builds a dispatcher for a screen of the given native size.
func New(input target.Inputter, screenW, screenH int, pacing Pacing, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{input: input, screenW: screenW, screenH: screenH, pacing: pacing, logger: logger}
}

// Dispatch classifies and executes records in order. Invalid records
// and policy-disabled kinds are noted; screenshot requests are noted
// and flip WantsRecapture; injection failures downgrade the record to
// noted rather than aborting the batch.
func (d *Dispatcher) Dispatch(ctx context.Context, records []action.Record, pol Policy) Outcome {
	var out Outcome
	for _, rec := range records {
		switch {
		case rec.Kind == action.Screenshot:
			// Any recognized screenshot request triggers a recapture,
			// even a malformed one.
			out.WantsRecapture = true
			out.Noted = append(out.Noted, rec)
		case !rec.Valid:
			d.logger.Debug("noting malformed action", zap.String("line", rec.Line))
			out.Noted = append(out.Noted, rec)
		case !pol.Allows(rec.Kind):
			out.Noted = append(out.Noted, rec)
		default:
			if err := d.perform(ctx, rec); err != nil {
				d.logger.Warn("action failed, noting instead",
					zap.String("line", rec.Line), zap.Error(err))
				out.Noted = append(out.Noted, rec)
			} else {
				out.Executed = append(out.Executed, rec)
			}
		}
	}
	return out
}

func (d *Dispatcher) perform(ctx context.Context, rec action.Record) error {
	switch rec.Kind {
	case action.LeftClick:
		return d.click(ctx, rec, target.ButtonLeft, 1)
	case action.RightClick:
		return d.click(ctx, rec, target.ButtonRight, 1)
	case action.DoubleLeftClick:
		return d.click(ctx, rec, target.ButtonLeft, 2)
	case action.Drag:
		return d.drag(ctx, rec)
	case action.TypeText:
		return d.typeText(ctx, rec.Text)
	}
	return fmt.Errorf("executor: kind %s has no side effect", rec.Kind)
}

func (d *Dispatcher) click(ctx context.Context, rec action.Record, btn target.Button, repeats int) error {
	pt := action.Resolve(rec.X, rec.Y, d.screenW, d.screenH)
	if err := d.smoothMove(ctx, pt.X, pt.Y); err != nil {
		return err
	}
	if err := d.pause(ctx, d.pacing.Click); err != nil {
		return err
	}
	for i := 0; i < repeats; i++ {
		if i > 0 {
			if err := d.pause(ctx, d.pacing.DoubleGap); err != nil {
				return err
			}
		}
		if err := d.input.ButtonDown(btn); err != nil {
			return err
		}
		if err := d.pause(ctx, d.pacing.Hold); err != nil {
			return err
		}
		if err := d.input.ButtonUp(btn); err != nil {
			return err
		}
	}
	return nil
}

func (d *Dispatcher) drag(ctx context.Context, rec action.Record) error {
	from := action.Resolve(rec.X, rec.Y, d.screenW, d.screenH)
	to := action.Resolve(rec.X2, rec.Y2, d.screenW, d.screenH)
	if err := d.smoothMove(ctx, from.X, from.Y); err != nil {
		return err
	}
	if err := d.pause(ctx, d.pacing.DragPause); err != nil {
		return err
	}
	if err := d.input.ButtonDown(target.ButtonLeft); err != nil {
		return err
	}
	if err := d.pause(ctx, d.pacing.DragPause); err != nil {
		return err
	}
	if err := d.smoothMove(ctx, to.X, to.Y); err != nil {
		// The button is down; try to release before giving up.
		d.input.ButtonUp(target.ButtonLeft)
		return err
	}
	if err := d.pause(ctx, d.pacing.DragPause); err != nil {
		return err
	}
	return d.input.ButtonUp(target.ButtonLeft)
}

func (d *Dispatcher) typeText(ctx context.Context, text string) error {
	for _, r := range text {
		if err := d.input.KeyStroke(r); err != nil {
			return err
		}
		delay := d.pacing.Char
		if r == ' ' || r == '\n' {
			delay = d.pacing.Word
		}
		if err := d.pause(ctx, delay); err != nil {
			return err
		}
	}
	return nil
}

// smoothMove eases the pointer from its current position to the target
// with a smoothstep curve instead of teleporting it.
func (d *Dispatcher) smoothMove(ctx context.Context, tx, ty int) error {
	sx, sy, err := d.input.CursorPos()
	if err != nil {
		return err
	}
	dx, dy := float64(tx-sx), float64(ty-sy)
	for i := 0; i <= moveSteps; i++ {
		t := float64(i) / moveSteps
		t = t * t * (3.0 - 2.0*t)
		if err := d.input.MoveCursor(sx+int(dx*t), sy+int(dy*t)); err != nil {
			return err
		}
		if err := d.pause(ctx, d.pacing.Step); err != nil {
			return err
		}
	}
	return nil
}

func (d *Dispatcher) pause(ctx context.Context, dur time.Duration) error {
	if dur <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(dur):
		return nil
	}
}
