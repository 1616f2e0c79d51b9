package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/dvloznov/gastobot/internal/ai"
	"github.com/dvloznov/gastobot/internal/bot"
	"github.com/dvloznov/gastobot/internal/bot/telegram"
	"github.com/dvloznov/gastobot/internal/config"
	"github.com/dvloznov/gastobot/internal/extract"
	"github.com/dvloznov/gastobot/internal/ledger/inmemory"
	"github.com/dvloznov/gastobot/internal/logger"
	"github.com/dvloznov/gastobot/internal/report"
	"github.com/dvloznov/gastobot/internal/schedule"
)

func main() {
	// Load .env for local development, ignore its absence elsewhere
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.NewWithLevel(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Configuration validation failed")
	}

	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	completer, err := ai.NewGeminiCompleter(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize Gemini client")
	}

	// Entries live in memory for the lifetime of the process.
	store := inmemory.NewStore()
	reporter := report.NewReporter(store, completer)

	transport, err := telegram.New(cfg.BotToken, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Telegram")
	}

	controller := bot.NewController(
		transport,
		extract.NewNumericExtractor(),
		extract.NewSemanticExtractor(completer),
		completer,
		store,
		reporter,
		log,
	)
	controller.Register()

	broadcaster := bot.NewBroadcaster(transport, reporter, cfg.ActiveChats, log)

	scheduler := schedule.New(log)
	if err := scheduler.Every(cfg.DailySummaryCron, "daily-summary", func() { broadcaster.Daily(ctx) }); err != nil {
		log.Fatal().Err(err).Msg("Failed to schedule daily summary")
	}
	if err := scheduler.Every(cfg.WeeklySummaryCron, "weekly-summary", func() { broadcaster.Weekly(ctx) }); err != nil {
		log.Fatal().Err(err).Msg("Failed to schedule weekly summary")
	}
	scheduler.Start()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		log.Info().Msg("Shutting down...")
		cancel()
	}()

	log.Info().
		Int("active_chats", len(cfg.ActiveChats)).
		Str("model", cfg.GeminiModel).
		Msg("Starting expense bot")

	if err := transport.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("Transport stopped unexpectedly")
	}

	scheduler.Stop()
	log.Info().Msg("Shutdown complete")
}
