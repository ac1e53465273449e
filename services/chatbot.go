package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"kbassistant/models"
	"kbassistant/utils"
)

// ChatbotConfig holds what the chatbot needs besides the knowledge base
type ChatbotConfig struct {
	Provider  models.LLMProvider
	Model     string
	MaxTokens int
	// Role completes "You are ..." in the system prompt
	Role string
	// CredentialSetting names the setting checked by Credential, for error messages
	CredentialSetting string
	// Credential is called on every question so a key set after startup is picked up
	Credential func() string
	Dial       ProviderFactory
}

// Chatbot answers questions from the knowledge base
type Chatbot struct {
	kb           *KnowledgeBase
	provider     models.LLMProvider
	model        string
	maxTokens    int
	systemPrompt string
	setting      string
	credential   func() string
	dial         ProviderFactory
	startTime    time.Time
}

// NewChatbot creates a chatbot. The system prompt is built once from kb.
func NewChatbot(kb *KnowledgeBase, cfg ChatbotConfig) *Chatbot {
	if cfg.Model == "" {
		cfg.Model = DefaultModel(cfg.Provider)
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1024
	}
	if cfg.Credential == nil {
		cfg.Credential = func() string { return "" }
	}
	if cfg.Dial == nil {
		cfg.Dial = DialProvider(cfg.Provider, "")
	}

	utils.Logger().Info("chatbot initialized",
		"provider", cfg.Provider,
		"model", cfg.Model,
		"max_tokens", cfg.MaxTokens,
		"documents", len(kb.documents),
	)

	return &Chatbot{
		kb:           kb,
		provider:     cfg.Provider,
		model:        cfg.Model,
		maxTokens:    cfg.MaxTokens,
		systemPrompt: BuildSystemPrompt(cfg.Role, kb.Text()),
		setting:      cfg.CredentialSetting,
		credential:   cfg.Credential,
		dial:         cfg.Dial,
		startTime:    time.Now(),
	}
}

// Ask validates the question, calls the provider once and returns its answer unmodified
func (c *Chatbot) Ask(ctx context.Context, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", &InvalidRequestError{Message: MsgQuestionRequired}
	}

	apiKey := c.credential()
	if apiKey == "" {
		return "", &MisconfiguredError{Provider: c.provider, Setting: c.setting}
	}

	log := utils.LoggerFromContext(ctx)

	provider, err := c.dial(ctx, apiKey)
	if err != nil {
		log.Error("failed to create provider", "provider", c.provider, "error", err)
		return "", &ProviderError{Provider: c.provider, Err: err}
	}
	if closer, ok := provider.(io.Closer); ok {
		defer closer.Close()
	}

	answer, err := provider.Complete(ctx, CompletionRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		System:    c.systemPrompt,
		Question:  question,
	})
	if err != nil {
		log.Error("API error", "provider", c.provider, "model", c.model, "error", err)

		var perr *ProviderError
		if errors.As(err, &perr) {
			return "", perr
		}
		return "", &ProviderError{Provider: c.provider, Err: err}
	}

	if answer == "" {
		return EmptyCompletionAnswer, nil
	}

	return answer, nil
}

// SystemPrompt returns the prompt sent with every question
func (c *Chatbot) SystemPrompt() string {
	return c.systemPrompt
}

// Provider returns the configured provider
func (c *Chatbot) Provider() models.LLMProvider {
	return c.provider
}

// Model returns the configured model id
func (c *Chatbot) Model() string {
	return c.model
}

// IsConfigured reports whether the provider credential is currently set
func (c *Chatbot) IsConfigured() bool {
	return c.credential() != ""
}

// GetStatus returns the current status of the chatbot
func (c *Chatbot) GetStatus() models.Metadata {
	status := models.Metadata{
		"provider":   string(c.provider),
		"model":      c.model,
		"max_tokens": c.maxTokens,
		"uptime":     time.Since(c.startTime).String(),
		"knowledge":  c.kb.GetStatus(),
	}

	if apiKey := c.credential(); apiKey != "" {
		status["status"] = "available"
		status["api_key"] = MaskAPIKey(apiKey)
	} else {
		status["status"] = "unavailable"
		status["error"] = c.setting + " not set"
	}

	return status
}
