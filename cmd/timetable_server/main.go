package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Freeeeeet/timetable_builder/internal/app"
	"github.com/Freeeeeet/timetable_builder/internal/config"
	"github.com/Freeeeeet/timetable_builder/internal/repository"
	"github.com/Freeeeeet/timetable_builder/internal/server"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const migrationsPath = "migrations"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.RequireServer(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger, err := app.NewLogger(cfg.Environment, "timetable_server")
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.GetDBDSN())
	if err != nil {
		logger.Fatal("Failed to create database pool", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	migrator, err := app.NewMigrator(pool, migrationsPath, logger.Named("migrator"))
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Up(ctx); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	if err := migrator.Close(); err != nil {
		logger.Warn("Failed to close migrator", zap.Error(err))
	}

	srv := server.New(
		repository.NewUserRepository(pool),
		repository.NewTimetableRepository(pool),
		server.NewTokens(cfg.AuthSecret, cfg.TokenTTL),
		logger.Named("http"),
	)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Failed to shut down server", zap.Error(err))
		}
	}()

	if err := srv.Start(cfg.ServerAddr); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
	logger.Info("Server stopped")
}
