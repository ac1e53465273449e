package services

import (
	"context"
	"fmt"
	"strings"

	"kbassistant/models"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiProvider answers questions through the Gemini API
type GeminiProvider struct {
	client *genai.Client
}

// NewGeminiProvider creates a client for one API key. Callers must Close it.
func NewGeminiProvider(ctx context.Context, apiKey string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiProvider{client: client}, nil
}

// Close releases the underlying client
func (g *GeminiProvider) Close() error {
	return g.client.Close()
}

// Complete sends the question with the system prompt as system instruction
func (g *GeminiProvider) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	model := g.client.GenerativeModel(req.Model)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(req.System)},
	}
	model.SetMaxOutputTokens(int32(req.MaxTokens))

	resp, err := model.GenerateContent(ctx, genai.Text(req.Question))
	if err != nil {
		return "", &ProviderError{
			Provider: models.ProviderGemini,
			Err:      fmt.Errorf("gemini generation failed: %w", err),
		}
	}

	return extractText(resp), nil
}

// extractText returns the text parts of the first candidate
func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}

	cand := resp.Candidates[0]
	if cand.Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range cand.Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	return sb.String()
}
