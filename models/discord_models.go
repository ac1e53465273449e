package models

// DiscordConfig represents Discord service configuration
type DiscordConfig struct {
	Token         string `json:"-"`
	CommandPrefix string `json:"command_prefix"`
}

// DiscordStatus represents Discord service status
type DiscordStatus struct {
	Enabled        bool   `json:"enabled"`
	Status         string `json:"status"`
	CommandPrefix  string `json:"command_prefix"`
	Uptime         string `json:"uptime"`
	Username       string `json:"username,omitempty"`
	Guilds         int    `json:"guilds,omitempty"`
	ActiveChannels int    `json:"active_channels"`
}
