package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"kbassistant/models"
)

// HTTPAsker posts questions to a running server's chat endpoint
type HTTPAsker struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewHTTPAsker creates an asker for the server at baseURL
func NewHTTPAsker(baseURL string) *HTTPAsker {
	return &HTTPAsker{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: http.DefaultClient,
	}
}

// Ask posts {question} to /api/chat. The body is decoded whatever the status code.
func (h *HTTPAsker) Ask(ctx context.Context, question string) (models.ChatResponse, error) {
	var out models.ChatResponse

	body, err := json.Marshal(models.ChatRequest{Question: &question})
	if err != nil {
		return out, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.BaseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return out, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.HTTPClient.Do(req)
	if err != nil {
		return out, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, fmt.Errorf("failed to decode response (status %d): %w", resp.StatusCode, err)
	}

	return out, nil
}
