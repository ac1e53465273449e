package models

// Message roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatRequest represents an incoming question for the answer endpoint.
// Question is a pointer so a missing field can be told apart from an empty one.
type ChatRequest struct {
	Question *string `json:"question"`
}

// ChatResponse carries either an answer or an error, never both
type ChatResponse struct {
	Answer string `json:"answer,omitempty"`
	Error  string `json:"error,omitempty"`
}

// ChatMessage represents a single message in a client's conversation
type ChatMessage struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// LLMProvider represents the type of LLM provider
type LLMProvider string

const (
	ProviderChatGPT LLMProvider = "chatgpt"
	ProviderGemini  LLMProvider = "gemini"
)
