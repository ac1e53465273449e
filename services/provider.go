package services

import (
	"context"
	"fmt"
	"strings"

	"kbassistant/models"
)

// CompletionRequest is a single system + user exchange sent to a provider
type CompletionRequest struct {
	Model     string
	MaxTokens int
	System    string
	Question  string
}

// CompletionProvider returns the text of one completion.
// An empty string with a nil error means the provider answered with no text.
type CompletionProvider interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// ProviderFactory builds a provider for one request from a credential
type ProviderFactory func(ctx context.Context, apiKey string) (CompletionProvider, error)

// ParseProvider validates a provider name from configuration
func ParseProvider(name string) (models.LLMProvider, error) {
	switch p := models.LLMProvider(strings.ToLower(strings.TrimSpace(name))); p {
	case models.ProviderChatGPT, models.ProviderGemini:
		return p, nil
	case "":
		return models.ProviderChatGPT, nil
	default:
		return "", fmt.Errorf("unknown provider %q (expected %q or %q)", name, models.ProviderChatGPT, models.ProviderGemini)
	}
}

// DefaultModel returns the model used when none is configured
func DefaultModel(provider models.LLMProvider) string {
	switch provider {
	case models.ProviderGemini:
		return "gemini-1.5-flash"
	default:
		return "gpt-4o-mini"
	}
}

// DialProvider returns the factory for a configured provider
func DialProvider(provider models.LLMProvider, openAIBaseURL string) ProviderFactory {
	switch provider {
	case models.ProviderGemini:
		return func(ctx context.Context, apiKey string) (CompletionProvider, error) {
			return NewGeminiProvider(ctx, apiKey)
		}
	default:
		return func(_ context.Context, apiKey string) (CompletionProvider, error) {
			return NewChatGPTProvider(apiKey, openAIBaseURL), nil
		}
	}
}
