package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-telegram/bot"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"CareerBot/config"
	"CareerBot/handler"
	"CareerBot/repo"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading configuration")
	}
	setupLogger(cfg)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	firebaseConnector, err := InitializeFirebase(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing Firebase")
	}

	sessions := handler.NewSessions(cfg.RateLimitPerSecond, cfg.RateLimitBurst)
	cleanupDone := sessions.StartCleanup(ctx, time.Minute, cfg.SessionIdleTimeout, cfg.WizardAbandonTimeout)

	careerBot := handler.NewCareerBotHandler(
		firebaseConnector,
		repo.NewFileService(cfg.BotToken),
		sessions,
	)

	opts := []bot.Option{
		bot.WithDefaultHandler(careerBot.Handler),
	}

	b, err := bot.New(cfg.BotToken, opts...)
	if err != nil {
		log.Fatal().Err(err).Msg("Error creating bot")
	}
	b.RegisterHandler(bot.HandlerTypeCallbackQueryData, "jump:", bot.MatchTypePrefix, careerBot.CallbackHandler)

	log.Info().Msg("Bot started")
	b.Start(ctx)
	<-cleanupDone
	log.Info().Msg("Bot stopped")
}

func setupLogger(cfg config.Config) {
	lvl, _ := cfg.Level()
	zerolog.SetGlobalLevel(lvl)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

// InitializeFirebase initializes the Firebase connector and returns it
func InitializeFirebase(ctx context.Context, cfg config.Config) (*repo.FirebaseConnector, error) {
	firebaseConnector, err := repo.NewFirebaseConnector(ctx, cfg.FirebaseServiceAccountKeyPath, cfg.FirebaseDatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("error creating Firebase connector: %w", err)
	}
	return firebaseConnector, nil
}
