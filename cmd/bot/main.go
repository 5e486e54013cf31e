package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Freeeeeet/timetable_builder/internal/app"
	"github.com/Freeeeeet/timetable_builder/internal/config"
	"github.com/Freeeeeet/timetable_builder/internal/controller"
	"github.com/Freeeeeet/timetable_builder/internal/controller/handlers"
	"github.com/Freeeeeet/timetable_builder/internal/controller/state"
	"github.com/Freeeeeet/timetable_builder/internal/gateway"
	"github.com/Freeeeeet/timetable_builder/internal/layout"
	"github.com/Freeeeeet/timetable_builder/internal/store"
	"github.com/go-telegram/bot"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.RequireBot(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger, err := app.NewLogger(cfg.Environment, "timetable_bot")
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := gateway.NewClient(cfg.APIBaseURL, gateway.DefaultHTTPClient(cfg.HTTPTimeout), nil, logger.Named("gateway"))
	storeLogger := logger.Named("store")
	sessions := state.NewManager(func(credentials gateway.CredentialProvider) *store.Store {
		return store.New(client.WithCredentials(credentials), storeLogger, store.WithFetchTimeout(cfg.HTTPTimeout))
	}, cfg.AccessToken)

	b, err := bot.New(cfg.TelegramToken)
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	cmdHandlers := handlers.NewHandlers(sessions, client, layout.DefaultWindow, cfg.TimetableID, logger.Named("handlers"))
	botController := controller.NewBotController(b, cmdHandlers, logger)
	if err := botController.RegisterHandlers(ctx); err != nil {
		logger.Warn("Bot commands menu not set", zap.Error(err))
	}

	scheduler := app.NewScheduler(sessions, cfg.SyncInterval, logger.Named("sync"))
	scheduler.Start(ctx)
	defer scheduler.Stop()

	logger.Info("Starting timetable bot",
		zap.String("environment", cfg.Environment),
		zap.String("api_base_url", cfg.APIBaseURL),
		zap.Bool("default_timetable", cfg.TimetableID != ""))

	botController.Start(ctx)
	logger.Info("Bot stopped")
}
