package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"kbassistant/models"
	"kbassistant/services"
	"kbassistant/utils"
	"kbassistant/views"
)

// Controller holds the services the HTTP handlers call into
type Controller struct {
	chatbot        *services.Chatbot
	discordService *services.DiscordService
	index          *template.Template
}

// NewController creates a new controller instance.
// discordService may be nil when the bot is not configured.
func NewController(chatbot *services.Chatbot, discordService *services.DiscordService) (*Controller, error) {
	index, err := views.ParseIndex()
	if err != nil {
		return nil, fmt.Errorf("failed to parse index template: %w", err)
	}

	return &Controller{
		chatbot:        chatbot,
		discordService: discordService,
		index:          index,
	}, nil
}

// StartServices starts background services (the Discord bot)
func (c *Controller) StartServices(enableDiscord bool) error {
	log := utils.Logger()

	switch {
	case !enableDiscord:
		log.Info("Discord service disabled via command line flag")
	case c.discordService == nil || !c.discordService.IsEnabled():
		log.Warn("Discord service requested but not properly configured (missing bot token)")
	default:
		if err := c.discordService.Start(); err != nil {
			return fmt.Errorf("failed to start Discord service: %w", err)
		}
	}

	return nil
}

// StopServices stops background services
func (c *Controller) StopServices() error {
	if c.discordService != nil {
		return c.discordService.Stop()
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		utils.Logger().Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, models.ChatResponse{Error: message})
}

// handleServiceError maps chatbot errors to HTTP responses
func handleServiceError(w http.ResponseWriter, err error) {
	var invalid *services.InvalidRequestError
	if errors.As(err, &invalid) {
		writeError(w, http.StatusBadRequest, invalid.Message)
		return
	}

	writeError(w, http.StatusInternalServerError, services.PublicMessage(err))
}

// renderTemplate renders an HTML template with data
func (c *Controller) renderTemplate(w http.ResponseWriter, tmpl *template.Template, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	if err := tmpl.Execute(w, data); err != nil {
		utils.Logger().Error("error executing template", "template", tmpl.Name(), "error", err)
	}
}
