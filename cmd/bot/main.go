// Package main is the entry point for the group points bot.
package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"group-points-bot/internal/bot"
	"group-points-bot/internal/config"
	"group-points-bot/internal/game/robbery"
	"group-points-bot/internal/handler"
	"group-points-bot/internal/imageapi"
	"group-points-bot/internal/pkg/jsonstore"
	"group-points-bot/internal/pkg/lock"
	"group-points-bot/internal/service"
	"group-points-bot/internal/store"
)

func main() {
	// Configure zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Load configuration
	cfg, err := config.Load("config")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log.Info().Msg("Configuration loaded successfully")

	// Open the data directory and load the persisted documents
	js, err := jsonstore.New(cfg.Data.Dir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open data directory")
	}

	ledger := store.NewLedgerStore(js)
	profiles := store.NewProfileStore(js)
	settings := store.NewSettingsStore(js)

	// Initialize user lock
	userLock := lock.NewUserLock()

	// Initialize services and the robbery engine
	policy := service.DefaultRewardPolicy(cfg.Checkin.MinPoints, cfg.Checkin.MaxPoints)
	checkinService := service.NewCheckinService(ledger, userLock, policy, nil)
	accountService := service.NewAccountService(ledger, userLock)

	robberyEngine := robbery.New(robbery.Config{
		MinBalance:    cfg.Robbery.MinBalance,
		MaxRobAmount:  cfg.Robbery.MaxRobAmount,
		MaxLoseAmount: cfg.Robbery.MaxLoseAmount,
		Cooldown:      cfg.Robbery.Cooldown(),
	}, ledger, profiles, userLock, nil)

	imageClient := imageapi.NewClient(cfg.Image.APIBaseURL, cfg.Image.Timeout(), cfg.Image.ExcludeAI)
	imageService := service.NewImageService(ledger, userLock, imageClient,
		cfg.Image.NormalCost, cfg.Image.R18Cost, cfg.Image.Cooldown(), cfg.Image.MaxConcurrent)

	// Initialize bot
	pointsBot, err := bot.New(&bot.Dependencies{
		Config:   cfg,
		Settings: settings,
		Economy:  handler.NewEconomyHandler(checkinService, accountService),
		Robbery:  handler.NewRobberyHandler(robberyEngine, accountService, cfg),
		Image:    handler.NewImageHandler(imageService, settings, cfg),
		Admin:    handler.NewAdminHandler(settings, cfg),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create bot")
	}

	if len(cfg.Admin.IDs) == 0 {
		log.Warn().Msg("No admin IDs configured; reward and switch commands are unusable")
	}

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start bot in a goroutine
	go func() {
		log.Info().Msg("Bot is starting...")
		pointsBot.Start()
	}()

	// Wait for shutdown signal
	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

	// Graceful shutdown: stop polling, then flush every document
	pointsBot.Stop()
	ledger.Save()
	profiles.Save()
	settings.Save()
	log.Info().Msg("Bot stopped gracefully")
}
