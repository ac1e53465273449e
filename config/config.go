package config

import (
	"fmt"
	"strings"

	"kbassistant/models"
	"kbassistant/services"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every setting read from the environment
const EnvPrefix = "KBA"

// Config holds the non-secret settings. API keys are looked up per request, see Credential.
type Config struct {
	Port           string   `mapstructure:"port"`
	Provider       string   `mapstructure:"provider"`
	Model          string   `mapstructure:"model"`
	MaxTokens      int      `mapstructure:"max_tokens"`
	AssistantRole  string   `mapstructure:"assistant_role"`
	KnowledgeDir   string   `mapstructure:"knowledge_dir"`
	OpenAIBaseURL  string   `mapstructure:"openai_base_url"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	DiscordToken   string   `mapstructure:"discord_token"`
	DiscordPrefix  string   `mapstructure:"discord_prefix"`
	ServerURL      string   `mapstructure:"server_url"`

	provider models.LLMProvider
}

// NewDefaultConfig returns a new Config with default values
func NewDefaultConfig() *Config {
	return &Config{
		Port:           "8080",
		Provider:       string(models.ProviderChatGPT),
		MaxTokens:      1024,
		AssistantRole:  services.DefaultAssistantRole,
		AllowedOrigins: []string{"*"},
		DiscordPrefix:  services.DefaultCommandPrefix,
		ServerURL:      "http://localhost:8080",
	}
}

// SetDefaults registers every key with its default so env overrides are seen by Unmarshal
func SetDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("port", d.Port)
	v.SetDefault("provider", d.Provider)
	v.SetDefault("model", d.Model)
	v.SetDefault("max_tokens", d.MaxTokens)
	v.SetDefault("assistant_role", d.AssistantRole)
	v.SetDefault("knowledge_dir", d.KnowledgeDir)
	v.SetDefault("openai_base_url", d.OpenAIBaseURL)
	v.SetDefault("allowed_origins", d.AllowedOrigins)
	v.SetDefault("discord_token", d.DiscordToken)
	v.SetDefault("discord_prefix", d.DiscordPrefix)
	v.SetDefault("server_url", d.ServerURL)
	v.SetDefault("openai_api_key", "")
	v.SetDefault("gemini_api_key", "")
}

// BindEnv binds prefixed variables plus the conventional unprefixed names
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	v.BindEnv("port", "KBA_PORT", "PORT")
	v.BindEnv("openai_api_key", "KBA_OPENAI_API_KEY", "OPENAI_API_KEY")
	v.BindEnv("openai_base_url", "KBA_OPENAI_BASE_URL", "OPENAI_BASE_URL")
	v.BindEnv("gemini_api_key", "KBA_GEMINI_API_KEY", "GEMINI_API_KEY")
	v.BindEnv("discord_token", "KBA_DISCORD_TOKEN", "DISCORD_BOT_TOKEN")
	v.BindEnv("discord_prefix", "KBA_DISCORD_PREFIX", "DISCORD_COMMAND_PREFIX")
}

// LoadFrom unmarshals and validates the configuration held by v
func LoadFrom(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	provider, err := services.ParseProvider(cfg.Provider)
	if err != nil {
		return nil, err
	}
	cfg.provider = provider

	if cfg.MaxTokens <= 0 {
		return nil, fmt.Errorf("max_tokens must be positive, got %d", cfg.MaxTokens)
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return nil, fmt.Errorf("port must not be empty")
	}

	return cfg, nil
}

// Load loads configuration from the global viper instance
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LLMProvider returns the validated provider
func (c *Config) LLMProvider() models.LLMProvider {
	return c.provider
}

// ModelName returns the configured model or the provider default
func (c *Config) ModelName() string {
	if c.Model != "" {
		return c.Model
	}
	return services.DefaultModel(c.provider)
}

// ListenAddr returns the port in host:port form
func (c *Config) ListenAddr() string {
	if strings.Contains(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

// CredentialKey returns the viper key holding the API key for provider
func CredentialKey(provider models.LLMProvider) string {
	switch provider {
	case models.ProviderGemini:
		return "gemini_api_key"
	default:
		return "openai_api_key"
	}
}

// CredentialEnv returns the conventional environment variable for provider's API key
func CredentialEnv(provider models.LLMProvider) string {
	switch provider {
	case models.ProviderGemini:
		return "GEMINI_API_KEY"
	default:
		return "OPENAI_API_KEY"
	}
}

// Credential returns a lookup that reads the provider's API key from v on every call
func Credential(v *viper.Viper, provider models.LLMProvider) func() string {
	key := CredentialKey(provider)
	return func() string {
		return strings.TrimSpace(v.GetString(key))
	}
}
