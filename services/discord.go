package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"kbassistant/client"
	"kbassistant/models"
	"kbassistant/utils"

	"github.com/bwmarrin/discordgo"
)

const (
	// DefaultCommandPrefix triggers the bot in a channel
	DefaultCommandPrefix = "!ask "

	// Discord limits are in characters, not bytes
	discordMessageLimit = 2000
	discordChunkSize    = 1900

	busyChannelMessage = "Still answering the previous question in this channel, please wait."
)

// ChatbotAsker adapts a Chatbot to client.Asker so in-process front ends share the session logic
type ChatbotAsker struct {
	Chatbot *Chatbot
}

// Ask maps the chatbot result to the same body the HTTP endpoint returns
func (a ChatbotAsker) Ask(ctx context.Context, question string) (models.ChatResponse, error) {
	answer, err := a.Chatbot.Ask(ctx, question)
	if err != nil {
		return models.ChatResponse{Error: PublicMessage(err)}, nil
	}
	return models.ChatResponse{Answer: answer}, nil
}

// DiscordService handles Discord bot interactions
type DiscordService struct {
	session       *discordgo.Session
	asker         client.Asker
	commandPrefix string
	enabled       bool
	startTime     time.Time

	mu       sync.Mutex
	channels map[string]*client.Session
}

// NewDiscordService creates a Discord service. It stays disabled without a token.
func NewDiscordService(asker client.Asker, cfg models.DiscordConfig) *DiscordService {
	if cfg.CommandPrefix == "" {
		cfg.CommandPrefix = DefaultCommandPrefix
	}

	service := &DiscordService{
		asker:         asker,
		commandPrefix: cfg.CommandPrefix,
		startTime:     time.Now(),
		channels:      make(map[string]*client.Session),
	}

	log := utils.Logger()

	if cfg.Token == "" {
		log.Info("Discord bot disabled: no bot token configured (set DISCORD_BOT_TOKEN or KBA_DISCORD_TOKEN)")
		return service
	}

	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		log.Error("error creating Discord session", "error", err)
		return service
	}

	service.session = session

	session.AddHandler(func(s *discordgo.Session, event *discordgo.Ready) {
		log.Info("Discord bot is online", "username", event.User.Username, "guilds", len(event.Guilds))
	})
	session.AddHandler(service.messageCreate)
	session.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsMessageContent

	service.enabled = true
	log.Info("Discord service initialized", "prefix", cfg.CommandPrefix)

	return service
}

// Start opens the gateway connection
func (d *DiscordService) Start() error {
	if !d.enabled {
		return errors.New("discord service not enabled (missing bot token)")
	}

	if err := d.session.Open(); err != nil {
		return fmt.Errorf("error opening Discord connection: %w", err)
	}

	utils.Logger().Info("Discord bot started", "usage", d.commandPrefix+"<question>")
	return nil
}

// Stop closes the Discord bot connection
func (d *DiscordService) Stop() error {
	if d.session != nil {
		return d.session.Close()
	}
	return nil
}

func (d *DiscordService) messageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	if !strings.HasPrefix(m.Content, d.commandPrefix) {
		return
	}

	if err := s.ChannelTyping(m.ChannelID); err != nil {
		utils.Logger().Warn("failed to send typing indicator", "channel", m.ChannelID, "error", err)
	}

	reply, ok := d.answerCommand(context.Background(), m.ChannelID, m.Content)
	if !ok {
		return
	}

	d.sendMessage(s, m.ChannelID, reply)

	utils.Logger().Info("Discord question answered",
		"user", m.Author.Username,
		"user_id", m.Author.ID,
		"channel", m.ChannelID,
	)
}

// answerCommand returns the reply for a channel message and whether one should be sent
func (d *DiscordService) answerCommand(ctx context.Context, channelID, content string) (string, bool) {
	if !strings.HasPrefix(content, d.commandPrefix) {
		return "", false
	}

	question := strings.TrimSpace(content[len(d.commandPrefix):])
	if question == "" {
		return fmt.Sprintf("Please provide a question after `%s`", strings.TrimSpace(d.commandPrefix)), true
	}

	reply, accepted := d.channelSession(channelID).Submit(ctx, question)
	if !accepted {
		return busyChannelMessage, true
	}

	return reply.Content, true
}

func (d *DiscordService) channelSession(channelID string) *client.Session {
	d.mu.Lock()
	defer d.mu.Unlock()

	session, ok := d.channels[channelID]
	if !ok {
		session = client.NewSession(d.asker)
		d.channels[channelID] = session
	}
	return session
}

// sendMessage sends a message to Discord, handling length limits
func (d *DiscordService) sendMessage(s *discordgo.Session, channelID, message string) {
	if utf8.RuneCountInString(message) <= discordMessageLimit {
		if _, err := s.ChannelMessageSend(channelID, message); err != nil {
			utils.Logger().Error("error sending Discord message", "channel", channelID, "error", err)
		}
		return
	}

	chunks := splitMessage(message, discordChunkSize)
	for i, chunk := range chunks {
		if i > 0 {
			chunk = "...continued:\n" + chunk
		}
		if i < len(chunks)-1 {
			chunk = chunk + "\n..."
		}

		if _, err := s.ChannelMessageSend(channelID, chunk); err != nil {
			utils.Logger().Error("error sending Discord message chunk", "channel", channelID, "chunk", i, "error", err)
		}

		// avoid the per-channel rate limit
		time.Sleep(200 * time.Millisecond)
	}
}

// splitMessage splits a message into chunks of at most maxRunes characters, preferring word boundaries.
// Cuts always fall on a character boundary.
func splitMessage(message string, maxRunes int) []string {
	if utf8.RuneCountInString(message) <= maxRunes {
		return []string{message}
	}

	var chunks []string
	for utf8.RuneCountInString(message) > maxRunes {
		limit := runeOffset(message, maxRunes)

		splitIndex := limit
		if spaceIndex := strings.LastIndex(message[:limit], " "); spaceIndex > limit/2 {
			splitIndex = spaceIndex
		}

		chunks = append(chunks, message[:splitIndex])
		message = strings.TrimPrefix(message[splitIndex:], " ")
	}

	if len(message) > 0 {
		chunks = append(chunks, message)
	}

	return chunks
}

// runeOffset returns the byte offset of the n-th character of s
func runeOffset(s string, n int) int {
	count := 0
	for i := range s {
		if count == n {
			return i
		}
		count++
	}
	return len(s)
}

// IsEnabled returns whether the Discord service is enabled
func (d *DiscordService) IsEnabled() bool {
	return d.enabled
}

// GetStatus returns the current status of the Discord service
func (d *DiscordService) GetStatus() models.DiscordStatus {
	d.mu.Lock()
	active := len(d.channels)
	d.mu.Unlock()

	status := models.DiscordStatus{
		Enabled:        d.enabled,
		CommandPrefix:  d.commandPrefix,
		Uptime:         time.Since(d.startTime).String(),
		ActiveChannels: active,
	}

	switch {
	case d.enabled && d.session != nil && d.session.State != nil && d.session.State.User != nil:
		status.Status = "connected"
		status.Username = d.session.State.User.Username
		status.Guilds = len(d.session.State.Guilds)
	case d.enabled:
		status.Status = "initialized_not_started"
	default:
		status.Status = "disabled"
	}

	return status
}
