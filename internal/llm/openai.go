package llm

import (
	"context"

	openai "github.com/sashabaranov/go-openai"
)

type openAIBackend struct {
	client *openai.Client
	model  string
}

func newOpenAIBackend(apiKey, baseURL, model string) *openAIBackend {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &openAIBackend{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (b *openAIBackend) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := b.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: b.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
		},
	)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

func (b *openAIBackend) close() error { return nil }
