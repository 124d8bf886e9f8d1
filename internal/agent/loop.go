// Package agent runs the closed loop that drives the model: capture an
// annotated screenshot, send it with the model's own previous narrative,
// execute whatever comes back, repeat. The narrative is the agent's
// only memory between turns.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/v0xg/deskloop/internal/ai"
	"github.com/v0xg/deskloop/internal/config"
	"github.com/v0xg/deskloop/internal/executor"
	"github.com/v0xg/deskloop/internal/pipeline"
)

// Loop owns one agent session.
type Loop struct {
	pipe     *pipeline.Pipeline
	provider ai.Provider
	cfg      config.Config
	logger   *zap.Logger
}

// New builds a loop. provider may be nil when every response will be
// injected (replay mode).
func New(pipe *pipeline.Pipeline, provider ai.Provider, cfg config.Config, logger *zap.Logger) *Loop {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loop{pipe: pipe, provider: provider, cfg: cfg, logger: logger}
}

// turnState is what gets persisted to the run directory after every
// turn, so a session can be inspected or diagnosed afterwards.
type turnState struct {
	Turn           int             `json:"turn"`
	Story          string          `json:"story"`
	ModelRaw       string          `json:"model_raw"`
	Executed       []string        `json:"executed"`
	Noted          []string        `json:"noted"`
	WantsRecapture bool            `json:"wants_recapture"`
	ExecuteActions bool            `json:"execute_actions"`
	Tools          map[string]bool `json:"tools"`
	Timestamp      string          `json:"timestamp"`
	Injected       bool            `json:"injected"`
}

// Run executes turns until the context is cancelled. When injected
// responses are supplied it stops once they run out. Each injected
// string stands in for one model response, in order.
func (l *Loop) Run(ctx context.Context, injected []string) error {
	replay := injected != nil
	if !replay && l.provider == nil {
		return fmt.Errorf("agent: no provider and no injected responses")
	}

	runDir := filepath.Join(l.cfg.DumpDir,
		fmt.Sprintf("run_%s_%s", time.Now().Format("20060102_150405"), uuid.NewString()[:8]))
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return fmt.Errorf("agent: create run dir: %w", err)
	}
	l.logger.Info("session starting",
		zap.String("run_dir", runDir),
		zap.Bool("replay", replay),
		zap.Bool("execute", l.cfg.Execute))

	if err := l.wait(ctx, l.cfg.StartWait); err != nil {
		return err
	}

	policy := executor.Policy{PerKind: l.cfg.Tools, Master: l.cfg.Execute}
	story := ""
	turn := 0

	for {
		turn++
		resp, err := l.pipe.Run(ctx, pipeline.Request{
			RawActionText: story,
			TargetWidth:   l.cfg.Width,
			TargetHeight:  l.cfg.Height,
			Annotate:      l.cfg.Marks,
			Policy:        policy,
		})
		if err != nil {
			return fmt.Errorf("agent: turn %d: %w", turn, err)
		}

		shotPath := filepath.Join(runDir, fmt.Sprintf("turn_%04d.png", turn))
		if err := os.WriteFile(shotPath, resp.ImageBytes, 0o644); err != nil {
			return fmt.Errorf("agent: write screenshot: %w", err)
		}

		var raw string
		if replay {
			if turn > len(injected) {
				l.logger.Info("replay exhausted", zap.Int("turns", turn-1))
				return nil
			}
			raw = injected[turn-1]
		} else {
			raw, err = l.provider.Infer(ctx, resp.ImageBytes, story)
			if err != nil {
				return fmt.Errorf("agent: turn %d inference: %w", turn, err)
			}
		}
		l.logger.Info("model responded",
			zap.Int("turn", turn),
			zap.Int("executed", len(resp.ExecutedLines)),
			zap.Int("noted", len(resp.NotedLines)),
			zap.Bool("wants_recapture", resp.WantsRecapture))
		fmt.Println(raw)

		story = raw
		if err := l.saveState(runDir, turnState{
			Turn:           turn,
			Story:          story,
			ModelRaw:       raw,
			Executed:       resp.ExecutedLines,
			Noted:          resp.NotedLines,
			WantsRecapture: resp.WantsRecapture,
			ExecuteActions: l.cfg.Execute,
			Tools:          l.cfg.Tools,
			Timestamp:      time.Now().Format(time.RFC3339),
			Injected:       replay,
		}); err != nil {
			return err
		}

		if err := l.wait(ctx, l.cfg.LoopDelay); err != nil {
			return err
		}
	}
}

func (l *Loop) saveState(runDir string, st turnState) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("agent: marshal state: %w", err)
	}
	if err := os.WriteFile(filepath.Join(runDir, "state.json"), data, 0o644); err != nil {
		return fmt.Errorf("agent: write state: %w", err)
	}
	if err := os.WriteFile(filepath.Join(runDir, "story.txt"), []byte(st.Story), 0o644); err != nil {
		return fmt.Errorf("agent: write story: %w", err)
	}
	return nil
}

func (l *Loop) wait(ctx context.Context, seconds float64) error {
	if seconds <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(time.Duration(seconds * float64(time.Second))):
		return nil
	}
}

// LoadInjectedResponse reads a saved chat-completion JSON file and
// extracts the assistant text, for deterministic replay runs.
func LoadInjectedResponse(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("agent: read injected response: %w", err)
	}
	var payload struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return "", fmt.Errorf("agent: parse %s: %w", path, err)
	}
	if len(payload.Choices) == 0 {
		return "", fmt.Errorf("agent: %s has no choices", path)
	}
	return payload.Choices[0].Message.Content, nil
}
