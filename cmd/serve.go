package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kbassistant/config"
	"kbassistant/controllers"
	"kbassistant/knowledge"
	"kbassistant/models"
	"kbassistant/services"
	"kbassistant/utils"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var enableDiscord bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web chat and the /api/chat endpoint",
	Long: `Start the HTTP server. The knowledge base is read once at startup from
knowledge_dir, or from the built-in company documents when it is empty.

The API key is checked on every request, so the server starts without one
and answers "API key not configured" until it is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		return serve(cmd.Context(), cfg)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&enableDiscord, "discord", false, "also start the Discord bot (needs DISCORD_BOT_TOKEN)")
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context, cfg *config.Config) error {
	log := utils.Logger()

	kb, err := loadKnowledgeBase(cfg.KnowledgeDir)
	if err != nil {
		return err
	}

	chatbot := services.NewChatbot(kb, services.ChatbotConfig{
		Provider:          cfg.LLMProvider(),
		Model:             cfg.ModelName(),
		MaxTokens:         cfg.MaxTokens,
		Role:              cfg.AssistantRole,
		CredentialSetting: config.CredentialEnv(cfg.LLMProvider()),
		Credential:        config.Credential(viper.GetViper(), cfg.LLMProvider()),
		Dial:              services.DialProvider(cfg.LLMProvider(), cfg.OpenAIBaseURL),
	})
	if !chatbot.IsConfigured() {
		log.Warn("API key not configured, /api/chat will return errors until it is set",
			"setting", config.CredentialEnv(cfg.LLMProvider()))
	}

	discord := services.NewDiscordService(services.ChatbotAsker{Chatbot: chatbot}, models.DiscordConfig{
		Token:         cfg.DiscordToken,
		CommandPrefix: cfg.DiscordPrefix,
	})

	controller, err := controllers.NewController(chatbot, discord)
	if err != nil {
		return err
	}

	if err := controller.StartServices(enableDiscord); err != nil {
		log.Error("failed to start background services", "error", err)
	}
	defer func() {
		if err := controller.StopServices(); err != nil {
			log.Error("failed to stop background services", "error", err)
		}
	}()

	srv := &http.Server{
		Addr:        cfg.ListenAddr(),
		Handler:     controllers.NewRouter(controller, cfg.AllowedOrigins),
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", "addr", srv.Addr, "provider", chatbot.Provider(), "model", chatbot.Model())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("server exited")
	return nil
}

// loadKnowledgeBase reads dir, or the built-in documents when dir is empty
func loadKnowledgeBase(dir string) (*services.KnowledgeBase, error) {
	var (
		fsys   fs.FS = knowledge.Default
		source       = "embedded"
	)
	if dir != "" {
		fsys, source = os.DirFS(dir), dir
	}

	kb, err := services.LoadKnowledgeBase(fsys, source)
	if err != nil {
		return nil, err
	}

	utils.Logger().Info("knowledge base loaded",
		"source", source,
		"documents", len(kb.Documents()),
		"bytes", len(kb.Text()),
	)
	return kb, nil
}
