package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"kbassistant/models"
	"kbassistant/services"
)

// MaxChatRequestBytes caps the size of a /api/chat body
const MaxChatRequestBytes = 64 << 10

// ChatHandler answers one question from the knowledge base
func (c *Controller) ChatHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxChatRequestBytes)

	// keys are matched exactly, unlike struct decoding
	var fields map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusBadRequest, services.MsgRequestTooLarge)
			return
		}
		writeError(w, http.StatusBadRequest, services.MsgInvalidJSON)
		return
	}

	var req models.ChatRequest
	if raw, ok := fields["question"]; ok {
		if err := json.Unmarshal(raw, &req.Question); err != nil {
			writeError(w, http.StatusBadRequest, services.MsgQuestionRequired)
			return
		}
	}

	if req.Question == nil {
		writeError(w, http.StatusBadRequest, services.MsgQuestionRequired)
		return
	}

	answer, err := c.chatbot.Ask(r.Context(), *req.Question)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, models.ChatResponse{Answer: answer})
}
