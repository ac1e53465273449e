package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"kbassistant/models"

	"github.com/spf13/viper"
)

func newTestViper(t *testing.T) *viper.Viper {
	t.Helper()

	for _, key := range []string{
		"KBA_PORT", "PORT", "KBA_PROVIDER", "KBA_MODEL", "KBA_MAX_TOKENS", "KBA_ASSISTANT_ROLE", "KBA_KNOWLEDGE_DIR",
		"KBA_OPENAI_API_KEY", "OPENAI_API_KEY", "KBA_GEMINI_API_KEY", "GEMINI_API_KEY",
		"KBA_ALLOWED_ORIGINS", "KBA_DISCORD_TOKEN", "DISCORD_BOT_TOKEN",
	} {
		t.Setenv(key, "")
	}

	v := viper.New()
	SetDefaults(v)
	BindEnv(v)
	return v
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadFrom(newTestViper(t))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	if cfg.LLMProvider() != models.ProviderChatGPT {
		t.Errorf("expected chatgpt, got %q", cfg.LLMProvider())
	}
	if cfg.ModelName() != "gpt-4o-mini" {
		t.Errorf("expected gpt-4o-mini, got %q", cfg.ModelName())
	}
	if cfg.MaxTokens != 1024 {
		t.Errorf("expected 1024, got %d", cfg.MaxTokens)
	}
	if cfg.AssistantRole != "an internal knowledge assistant for a real estate company" {
		t.Errorf("unexpected default role %q", cfg.AssistantRole)
	}
	if cfg.ListenAddr() != ":8080" {
		t.Errorf("expected :8080, got %q", cfg.ListenAddr())
	}
	if cfg.DiscordPrefix != "!ask " {
		t.Errorf("expected %q, got %q", "!ask ", cfg.DiscordPrefix)
	}
	if !reflect.DeepEqual(cfg.AllowedOrigins, []string{"*"}) {
		t.Errorf("unexpected origins %v", cfg.AllowedOrigins)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	v := newTestViper(t)
	t.Setenv("KBA_PROVIDER", "Gemini")
	t.Setenv("KBA_MAX_TOKENS", "512")
	t.Setenv("KBA_ASSISTANT_ROLE", "the HR assistant")
	t.Setenv("PORT", "9090")
	t.Setenv("KBA_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("DISCORD_BOT_TOKEN", "discord-token")

	cfg, err := LoadFrom(v)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	if cfg.LLMProvider() != models.ProviderGemini {
		t.Errorf("expected gemini, got %q", cfg.LLMProvider())
	}
	if cfg.ModelName() != "gemini-1.5-flash" {
		t.Errorf("expected gemini default model, got %q", cfg.ModelName())
	}
	if cfg.MaxTokens != 512 {
		t.Errorf("expected 512, got %d", cfg.MaxTokens)
	}
	if cfg.AssistantRole != "the HR assistant" {
		t.Errorf("expected role from KBA_ASSISTANT_ROLE, got %q", cfg.AssistantRole)
	}
	if cfg.ListenAddr() != ":9090" {
		t.Errorf("expected :9090, got %q", cfg.ListenAddr())
	}
	if !reflect.DeepEqual(cfg.AllowedOrigins, []string{"https://a.example", "https://b.example"}) {
		t.Errorf("unexpected origins %v", cfg.AllowedOrigins)
	}
	if cfg.DiscordToken != "discord-token" {
		t.Errorf("expected discord token from DISCORD_BOT_TOKEN, got %q", cfg.DiscordToken)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown provider", "KBA_PROVIDER", "ollama"},
		{"zero max tokens", "KBA_MAX_TOKENS", "0"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := newTestViper(t)
			t.Setenv(tc.key, tc.value)

			if _, err := LoadFrom(v); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestCredentialIsReadOnEveryCall(t *testing.T) {
	v := newTestViper(t)
	credential := Credential(v, models.ProviderChatGPT)

	if got := credential(); got != "" {
		t.Fatalf("expected no key, got %q", got)
	}

	t.Setenv("OPENAI_API_KEY", "sk-from-env")
	if got := credential(); got != "sk-from-env" {
		t.Errorf("expected key from OPENAI_API_KEY, got %q", got)
	}

	t.Setenv("KBA_OPENAI_API_KEY", "sk-prefixed")
	if got := credential(); got != "sk-prefixed" {
		t.Errorf("expected prefixed key to win, got %q", got)
	}

	if got := Credential(v, models.ProviderGemini)(); got != "" {
		t.Errorf("gemini must not read the OpenAI key, got %q", got)
	}
}

func TestLoadFromConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := "provider = \"gemini\"\nmodel = \"gemini-2.0-flash\"\nknowledge_dir = \"/srv/kb\"\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	v := newTestViper(t)
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		t.Fatalf("ReadInConfig: %v", err)
	}

	cfg, err := LoadFrom(v)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.ModelName() != "gemini-2.0-flash" || cfg.KnowledgeDir != "/srv/kb" {
		t.Errorf("unexpected config %+v", cfg)
	}
	if CredentialKey(cfg.LLMProvider()) != "gemini_api_key" || CredentialEnv(cfg.LLMProvider()) != "GEMINI_API_KEY" {
		t.Error("unexpected credential names for gemini")
	}
}
