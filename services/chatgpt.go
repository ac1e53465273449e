package services

import (
	"context"
	"errors"
	"fmt"

	"kbassistant/models"

	"github.com/sashabaranov/go-openai"
)

// ChatGPTProvider handles communication with OpenAI's chat completions API
type ChatGPTProvider struct {
	client *openai.Client
}

// NewChatGPTProvider creates a provider for one API key.
// An empty baseURL keeps the library default.
func NewChatGPTProvider(apiKey, baseURL string) *ChatGPTProvider {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}

	return &ChatGPTProvider{
		client: openai.NewClientWithConfig(config),
	}
}

// Complete sends the system prompt and question as two messages and returns the first choice
func (c *ChatGPTProvider) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     req.Model,
		MaxTokens: req.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.Question},
		},
	})
	if err != nil {
		return "", &ProviderError{
			Provider: models.ProviderChatGPT,
			Message:  openAIErrorMessage(err),
			Err:      fmt.Errorf("chat completion failed: %w", err),
		}
	}

	if len(resp.Choices) == 0 {
		return "", nil
	}

	return resp.Choices[0].Message.Content, nil
}

// openAIErrorMessage extracts the message the API returned, if any
func openAIErrorMessage(err error) string {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.Err != nil {
		return reqErr.Err.Error()
	}

	return ""
}

// MaskAPIKey returns a key safe to show in status output
func MaskAPIKey(apiKey string) string {
	switch {
	case apiKey == "":
		return ""
	case len(apiKey) > 8:
		return apiKey[:4] + "..." + apiKey[len(apiKey)-4:]
	default:
		return "***"
	}
}
