package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"kbassistant/models"
)

// spyProvider records every completion request and returns a canned reply
type spyProvider struct {
	mu     sync.Mutex
	calls  []CompletionRequest
	reply  func(req CompletionRequest) (string, error)
	closed int
}

func (s *spyProvider) Complete(_ context.Context, req CompletionRequest) (string, error) {
	s.mu.Lock()
	s.calls = append(s.calls, req)
	s.mu.Unlock()

	if s.reply == nil {
		return "", nil
	}
	return s.reply(req)
}

func (s *spyProvider) Close() error {
	s.mu.Lock()
	s.closed++
	s.mu.Unlock()
	return nil
}

func (s *spyProvider) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func newTestKnowledgeBase(t *testing.T, contents ...string) *KnowledgeBase {
	t.Helper()

	var docs []models.KnowledgeDocument
	for i, c := range contents {
		docs = append(docs, models.KnowledgeDocument{Name: string(rune('a'+i)) + ".md", Content: c})
	}
	kb, err := NewKnowledgeBase(docs)
	if err != nil {
		t.Fatalf("NewKnowledgeBase: %v", err)
	}
	return kb
}

func newTestChatbot(t *testing.T, apiKey string, spy *spyProvider) *Chatbot {
	t.Helper()

	return NewChatbot(newTestKnowledgeBase(t, "Discounts above 3% need Director approval."), ChatbotConfig{
		Provider:          models.ProviderChatGPT,
		CredentialSetting: "OPENAI_API_KEY",
		Credential:        func() string { return apiKey },
		Dial: func(context.Context, string) (CompletionProvider, error) {
			return spy, nil
		},
	})
}

func TestAskRejectsBlankQuestionWithoutCallingProvider(t *testing.T) {
	for _, q := range []string{"", "   ", "\n\t"} {
		spy := &spyProvider{}
		bot := newTestChatbot(t, "sk-test", spy)

		_, err := bot.Ask(context.Background(), q)

		var invalid *InvalidRequestError
		if !errors.As(err, &invalid) {
			t.Fatalf("Ask(%q): expected InvalidRequestError, got %v", q, err)
		}
		if invalid.Message != MsgQuestionRequired {
			t.Errorf("expected message %q, got %q", MsgQuestionRequired, invalid.Message)
		}
		if spy.callCount() != 0 {
			t.Errorf("expected no provider calls, got %d", spy.callCount())
		}
	}
}

func TestAskWithoutCredentialIsMisconfigured(t *testing.T) {
	spy := &spyProvider{}
	bot := newTestChatbot(t, "", spy)

	for _, q := range []string{"Who signs agreements?", "anything"} {
		_, err := bot.Ask(context.Background(), q)

		var misconfigured *MisconfiguredError
		if !errors.As(err, &misconfigured) {
			t.Fatalf("expected MisconfiguredError, got %v", err)
		}
		if got := PublicMessage(err); got != MsgAPIKeyNotConfigured {
			t.Errorf("expected public message %q, got %q", MsgAPIKeyNotConfigured, got)
		}
	}
	if spy.callCount() != 0 {
		t.Errorf("expected no provider calls, got %d", spy.callCount())
	}
}

func TestAskReadsCredentialOnEveryRequest(t *testing.T) {
	var apiKey string
	spy := &spyProvider{reply: func(CompletionRequest) (string, error) { return "ok", nil }}
	bot := NewChatbot(newTestKnowledgeBase(t, "kb"), ChatbotConfig{
		Provider:   models.ProviderChatGPT,
		Credential: func() string { return apiKey },
		Dial: func(context.Context, string) (CompletionProvider, error) {
			return spy, nil
		},
	})

	if _, err := bot.Ask(context.Background(), "q"); err == nil {
		t.Fatal("expected error before key is set")
	}

	apiKey = "sk-later"
	answer, err := bot.Ask(context.Background(), "q")
	if err != nil {
		t.Fatalf("expected success after key is set, got %v", err)
	}
	if answer != "ok" {
		t.Errorf("expected %q, got %q", "ok", answer)
	}
}

func TestAskSendsSystemPromptAndQuestion(t *testing.T) {
	spy := &spyProvider{reply: func(CompletionRequest) (string, error) { return "Director", nil }}
	bot := newTestChatbot(t, "sk-test", spy)

	if _, err := bot.Ask(context.Background(), "Who approves 5%?"); err != nil {
		t.Fatalf("Ask: %v", err)
	}

	if spy.callCount() != 1 {
		t.Fatalf("expected exactly one provider call, got %d", spy.callCount())
	}
	req := spy.calls[0]
	if req.Question != "Who approves 5%?" {
		t.Errorf("question not forwarded verbatim: %q", req.Question)
	}
	if req.Model != "gpt-4o-mini" {
		t.Errorf("expected default model gpt-4o-mini, got %q", req.Model)
	}
	if req.MaxTokens != 1024 {
		t.Errorf("expected max tokens 1024, got %d", req.MaxTokens)
	}
	if !strings.HasSuffix(req.System, "KNOWLEDGE BASE:\nDiscounts above 3% need Director approval.") {
		t.Errorf("system prompt does not end with the knowledge base: %q", req.System)
	}
	if spy.closed != 1 {
		t.Errorf("expected provider to be closed once, got %d", spy.closed)
	}
}

func TestAskReturnsAnswerUnmodified(t *testing.T) {
	tests := []struct {
		name     string
		reply    string
		expected string
	}{
		{"echoes fact", "Up to 3%: Sales Manager approval", "Up to 3%: Sales Manager approval"},
		{"keeps fallback sentence", FallbackAnswer, FallbackAnswer},
		{"keeps surrounding whitespace", "  padded answer\n", "  padded answer\n"},
		{"empty completion", "", EmptyCompletionAnswer},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			spy := &spyProvider{reply: func(CompletionRequest) (string, error) { return tc.reply, nil }}
			bot := newTestChatbot(t, "sk-test", spy)

			answer, err := bot.Ask(context.Background(), "question")
			if err != nil {
				t.Fatalf("Ask: %v", err)
			}
			if answer != tc.expected {
				t.Errorf("expected %q, got %q", tc.expected, answer)
			}
		})
	}
}

func TestAskProviderFailure(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "provider message surfaced",
			err:      &ProviderError{Provider: models.ProviderChatGPT, Message: "Incorrect API key provided", Err: errors.New("401")},
			expected: "Incorrect API key provided",
		},
		{
			name:     "generic message without provider detail",
			err:      errors.New("connection reset"),
			expected: MsgFailedToGetResponse,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			spy := &spyProvider{reply: func(CompletionRequest) (string, error) { return "", tc.err }}
			bot := newTestChatbot(t, "sk-test", spy)

			_, err := bot.Ask(context.Background(), "question")

			var perr *ProviderError
			if !errors.As(err, &perr) {
				t.Fatalf("expected ProviderError, got %v", err)
			}
			if got := PublicMessage(err); got != tc.expected {
				t.Errorf("expected %q, got %q", tc.expected, got)
			}
			if spy.callCount() != 1 {
				t.Errorf("expected one call and no retries, got %d", spy.callCount())
			}
		})
	}
}

func TestAskDialFailure(t *testing.T) {
	bot := NewChatbot(newTestKnowledgeBase(t, "kb"), ChatbotConfig{
		Provider:   models.ProviderGemini,
		Credential: func() string { return "key" },
		Dial: func(context.Context, string) (CompletionProvider, error) {
			return nil, errors.New("dial failed")
		},
	})

	_, err := bot.Ask(context.Background(), "question")
	if got := PublicMessage(err); got != MsgFailedToGetResponse {
		t.Errorf("expected %q, got %q", MsgFailedToGetResponse, got)
	}
}

func TestGetStatusMasksKey(t *testing.T) {
	bot := newTestChatbot(t, "sk-abcdefghijkl", &spyProvider{})

	status := bot.GetStatus()
	if status["api_key"] != "sk-a...ijkl" {
		t.Errorf("expected masked key, got %v", status["api_key"])
	}
	if status["status"] != "available" {
		t.Errorf("expected available, got %v", status["status"])
	}
}
