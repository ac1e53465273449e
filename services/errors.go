package services

import (
	"errors"
	"fmt"

	"kbassistant/models"
)

// Messages returned to callers when no more specific text is available
const (
	MsgQuestionRequired    = "Question is required"
	MsgAPIKeyNotConfigured = "API key not configured"
	MsgFailedToGetResponse = "Failed to get AI response"
	MsgInvalidJSON         = "Invalid JSON format"
	MsgRequestTooLarge     = "Request body too large"
	MsgInternalServerError = "Internal server error"
)

// InvalidRequestError is returned when a question fails validation.
// The message is safe to show to the caller.
type InvalidRequestError struct {
	Message string
}

func (e *InvalidRequestError) Error() string {
	return e.Message
}

// MisconfiguredError is returned when the active provider has no credential
type MisconfiguredError struct {
	Provider models.LLMProvider
	Setting  string
}

func (e *MisconfiguredError) Error() string {
	return fmt.Sprintf("%s provider not configured: %s is empty", e.Provider, e.Setting)
}

// ProviderError wraps a failed completion call
type ProviderError struct {
	Provider models.LLMProvider
	// Message is the provider-supplied description, if any
	Message string
	Err     error
}

func (e *ProviderError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Provider, e.Message)
	}
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// PublicMessage returns the text a caller may see for err
func PublicMessage(err error) string {
	var invalid *InvalidRequestError
	var misconfigured *MisconfiguredError
	var provider *ProviderError

	switch {
	case errors.As(err, &invalid):
		return invalid.Message
	case errors.As(err, &misconfigured):
		return MsgAPIKeyNotConfigured
	case errors.As(err, &provider):
		if provider.Message != "" {
			return provider.Message
		}
		return MsgFailedToGetResponse
	default:
		return MsgInternalServerError
	}
}
