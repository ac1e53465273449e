package services

import "strings"

const (
	// FallbackAnswer is the exact sentence the model must use when the knowledge base has no answer
	FallbackAnswer = "This information is not available in the knowledge base."

	// EmptyCompletionAnswer is returned when the provider produced no text
	EmptyCompletionAnswer = "Unable to generate response."

	// DefaultAssistantRole describes the assistant for the built-in company documents
	DefaultAssistantRole = "an internal knowledge assistant for a real estate company"
)

// BuildSystemPrompt returns the system instruction followed by the full knowledge base text.
// An empty role falls back to DefaultAssistantRole.
func BuildSystemPrompt(role, knowledge string) string {
	role = strings.TrimSpace(role)
	if role == "" {
		role = DefaultAssistantRole
	}

	var b strings.Builder

	b.WriteString("You are " + role + ".\n\n")
	b.WriteString("Your ONLY source of information is the knowledge base provided below. You must:\n")
	b.WriteString("- Answer questions using ONLY the information in the knowledge base\n")
	b.WriteString("- If the answer is not in the knowledge base, respond exactly with: \"" + FallbackAnswer + "\"\n")
	b.WriteString("- Never infer, guess, or add information beyond what is explicitly stated\n")
	b.WriteString("- Be concise and direct\n")
	b.WriteString("- Do not mention the knowledge base in your responses - just answer naturally\n\n")
	b.WriteString("KNOWLEDGE BASE:\n")
	b.WriteString(knowledge)

	return b.String()
}
