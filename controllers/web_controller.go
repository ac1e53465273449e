package controllers

import (
	"net/http"

	"kbassistant/client"
	"kbassistant/models"
	"kbassistant/views"
)

// IndexHandler serves the chat page
func (c *Controller) IndexHandler(w http.ResponseWriter, r *http.Request) {
	c.renderTemplate(w, c.index, views.IndexPage{
		Title:          "Internal Knowledge Assistant",
		Provider:       string(c.chatbot.Provider()),
		Model:          c.chatbot.Model(),
		QuickQuestions: client.QuickQuestions,
	})
}

// HealthHandler provides a health check endpoint
func (c *Controller) HealthHandler(w http.ResponseWriter, r *http.Request) {
	status := models.StatusHealthy
	if !c.chatbot.IsConfigured() {
		status = models.StatusDegraded
	}

	health := models.Metadata{
		"status":    status,
		"endpoints": []string{"/", "/api/chat", "/health"},
		"chatbot":   c.chatbot.GetStatus(),
	}
	if c.discordService != nil {
		health["discord"] = c.discordService.GetStatus()
	}

	writeJSON(w, http.StatusOK, health)
}
