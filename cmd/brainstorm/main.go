package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/brainstorm/internal/config"
	"github.com/gosuda/brainstorm/internal/events"
	"github.com/gosuda/brainstorm/internal/notify"
	"github.com/gosuda/brainstorm/internal/provider"
	"github.com/gosuda/brainstorm/internal/provider/services"
	"github.com/gosuda/brainstorm/internal/server"
	"github.com/gosuda/brainstorm/internal/session"
	markdownstore "github.com/gosuda/brainstorm/internal/store/markdown"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}
}

func run() error {
	// Load .env before reading any configuration; a missing file is fine.
	_ = godotenv.Load()

	// Initialize structured logging from environment.
	level, parseErr := zerolog.ParseLevel(os.Getenv("STORM_LOG_LEVEL"))
	if parseErr != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if os.Getenv("STORM_LOG_FORMAT") == "text" {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Open markdown storage.
	store, err := markdownstore.New(cfg.Storage.BasePath)
	if err != nil {
		return err
	}

	// Register providers; one without credentials is simply unavailable.
	registry := provider.NewRegistry()
	if cfg.Providers.OpenAIKey != "" {
		registry.Register("openai", services.NewOpenAI(services.OpenAIConfig{
			APIKey:  cfg.Providers.OpenAIKey,
			Timeout: cfg.Providers.ClientTimeout,
		}))
	}
	if cfg.Providers.AnthropicKey != "" {
		registry.Register("anthropic", services.NewAnthropic(services.AnthropicConfig{
			APIKey:  cfg.Providers.AnthropicKey,
			Timeout: cfg.Providers.ClientTimeout,
		}))
	}
	if cfg.Providers.GeminiKey != "" {
		gemini, geminiErr := services.NewGemini(ctx, cfg.Providers.GeminiKey)
		if geminiErr != nil {
			return geminiErr
		}
		registry.Register("gemini", gemini)
	}
	if cfg.Providers.EnableMock {
		registry.Register("mock", services.NewMock())
	}
	log.Info().Strs("providers", registry.Available()).Msg("providers registered")

	// Event fan-out: Redis when configured, process memory otherwise.
	var bus events.Bus
	if cfg.Redis.Addr != "" {
		redisBus, redisErr := events.NewRedisBus(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if redisErr != nil {
			return redisErr
		}
		defer redisBus.Close()
		bus = redisBus
	} else {
		bus = events.NewMemoryBus()
	}

	// Failure alerts to Slack when a webhook is configured.
	var notifier session.Notifier
	if cfg.Slack.WebhookURL != "" {
		notifier = notify.NewSlack(cfg.Slack.WebhookURL)
		log.Info().Msg("slack failure alerts enabled")
	}

	manager := session.NewManager(store, registry, bus, notifier)

	// Graceful shutdown on SIGINT / SIGTERM.
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	srv := server.New(ctx, cfg, manager, store, registry, bus)

	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("starting server")
		if startErr := srv.Start(ctx); startErr != nil {
			log.Error().Err(startErr).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		return shutdownErr
	}

	log.Info().Msg("stopped")
	return nil
}
