package ai

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	openai "github.com/sashabaranov/go-openai"

	"github.com/v0xg/deskloop/internal/config"
)

// OpenAIProvider implements Provider against the OpenAI chat API or
// any server speaking the same protocol.
type OpenAIProvider struct {
	client   *openai.Client
	model    string
	sampling config.Sampling
}

// NewOpenAIProvider creates an OpenAI-compatible provider. When
// baseURL is set the API key becomes optional, since local inference
// servers ignore it.
func NewOpenAIProvider(model, baseURL string, sampling config.Sampling) (*OpenAIProvider, error) {
	apiKey := os.Getenv("DESKLOOP_OPENAI_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		if baseURL == "" {
			return nil, fmt.Errorf("DESKLOOP_OPENAI_KEY or OPENAI_API_KEY environment variable required")
		}
		apiKey = "local"
	}

	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}
	client := openai.NewClientWithConfig(clientConfig)

	if model == "" {
		model = "gpt-4o"
	}

	return &OpenAIProvider{
		client:   client,
		model:    model,
		sampling: sampling,
	}, nil
}

// Infer sends the screenshot and prior narrative as one user message.
func (p *OpenAIProvider) Infer(ctx context.Context, imagePNG []byte, story string) (string, error) {
	if story == "" {
		story = firstTurnStory
	}
	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(imagePNG)

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		MaxTokens:   p.sampling.MaxTokens,
		Temperature: float32(p.sampling.Temperature),
		TopP:        float32(p.sampling.TopP),
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: story,
					},
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: dataURL},
					},
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from OpenAI")
	}
	return resp.Choices[0].Message.Content, nil
}
