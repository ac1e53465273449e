package client

import (
	"context"
	"strings"
	"sync"

	"kbassistant/models"
)

// NoResponseMessage is shown when the server answered with neither an answer nor an error
const NoResponseMessage = "No response received."

// QuickQuestions are pre-filled questions offered by the chat front ends
var QuickQuestions = []string{
	"Discount approval process?",
	"Our markets?",
	"Property listing rules?",
	"Response time?",
	"Who signs agreements?",
}

// Asker sends one question and returns the decoded response body.
// A non-nil error means the request could not complete.
type Asker interface {
	Ask(ctx context.Context, question string) (models.ChatResponse, error)
}

// Session is a single chat conversation with at most one question in flight
type Session struct {
	asker Asker

	mu       sync.Mutex
	messages []models.ChatMessage
	busy     bool
}

// NewSession creates an idle session with no messages
func NewSession(asker Asker) *Session {
	return &Session{asker: asker}
}

// Submit sends question and appends exactly one assistant reply.
// It returns false without doing anything when question is blank or the session is busy.
func (s *Session) Submit(ctx context.Context, question string) (models.ChatMessage, bool) {
	if strings.TrimSpace(question) == "" {
		return models.ChatMessage{}, false
	}

	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return models.ChatMessage{}, false
	}
	s.busy = true
	s.messages = append(s.messages, models.ChatMessage{Role: models.RoleUser, Content: question})
	s.mu.Unlock()

	reply := models.ChatMessage{Role: models.RoleAssistant, Content: s.ask(ctx, question)}

	s.mu.Lock()
	s.messages = append(s.messages, reply)
	s.busy = false
	s.mu.Unlock()

	return reply, true
}

func (s *Session) ask(ctx context.Context, question string) string {
	resp, err := s.asker.Ask(ctx, question)
	switch {
	case err != nil:
		return "Error: " + err.Error()
	case resp.Answer != "":
		return resp.Answer
	case resp.Error != "":
		return resp.Error
	default:
		return NoResponseMessage
	}
}

// Messages returns a copy of the conversation so far
func (s *Session) Messages() []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]models.ChatMessage(nil), s.messages...)
}

// Busy reports whether a question is in flight
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.busy
}
