// Package ai talks to the vision-language model that drives the loop:
// it sends the current screenshot plus the agent's own previous
// narrative and returns the raw response text.
package ai

import (
	"context"
	"fmt"

	"github.com/v0xg/deskloop/internal/config"
)

// Provider is a vision-model backend.
type Provider interface {
	// Infer sends the PNG screenshot and the narrative carried over
	// from the previous turn, returning the model's raw response.
	Infer(ctx context.Context, imagePNG []byte, story string) (string, error)
}

// NewProvider creates a provider from configuration. An explicit
// BaseURL points the openai provider at any OpenAI-compatible server,
// including one running locally.
func NewProvider(cfg config.Config) (Provider, error) {
	switch cfg.Provider {
	case "claude", "anthropic":
		return NewClaudeProvider(cfg.Model, cfg.Sampling)
	case "openai", "gpt", "local":
		return NewOpenAIProvider(cfg.Model, cfg.BaseURL, cfg.Sampling)
	default:
		return nil, fmt.Errorf("unknown provider: %s (supported: claude, openai, local)", cfg.Provider)
	}
}
