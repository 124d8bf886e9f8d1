package ai

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/v0xg/deskloop/internal/config"
)

// ClaudeProvider implements Provider using Anthropic's Claude.
type ClaudeProvider struct {
	client   *anthropic.Client
	model    string
	sampling config.Sampling
}

// NewClaudeProvider creates a new Claude provider.
func NewClaudeProvider(model string, sampling config.Sampling) (*ClaudeProvider, error) {
	apiKey := os.Getenv("DESKLOOP_ANTHROPIC_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("DESKLOOP_ANTHROPIC_KEY or ANTHROPIC_API_KEY environment variable required")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	if model == "" {
		model = string(anthropic.ModelClaudeSonnet4_20250514)
	}

	return &ClaudeProvider{
		client:   &client,
		model:    model,
		sampling: sampling,
	}, nil
}

// Infer sends the screenshot and prior narrative to Claude.
func (p *ClaudeProvider) Infer(ctx context.Context, imagePNG []byte, story string) (string, error) {
	if story == "" {
		story = firstTurnStory
	}
	b64 := base64.StdEncoding.EncodeToString(imagePNG)

	resp, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(p.model),
		MaxTokens:   int64(p.sampling.MaxTokens),
		Temperature: anthropic.Float(p.sampling.Temperature),
		TopP:        anthropic.Float(p.sampling.TopP),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewTextBlock(story),
				anthropic.NewImageBlockBase64("image/png", b64),
			),
		},
	})
	if err != nil {
		return "", fmt.Errorf("Claude API error: %w", err)
	}

	for _, block := range resp.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("empty response from Claude")
}
