package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/terra-clan/challenge-hub/internal/ai"
	"github.com/terra-clan/challenge-hub/internal/api"
	"github.com/terra-clan/challenge-hub/internal/auth"
	"github.com/terra-clan/challenge-hub/internal/blueprints"
	"github.com/terra-clan/challenge-hub/internal/challenge"
	"github.com/terra-clan/challenge-hub/internal/config"
	"github.com/terra-clan/challenge-hub/internal/storage"
	"github.com/terra-clan/challenge-hub/internal/users"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.Info("starting challenge-hub",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
	)

	// Create context for initialization
	initCtx, initCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer initCancel()

	// Run database migrations
	slog.Info("running database migrations", "dir", cfg.Database.MigrationsDir)
	if err := storage.MigrateFromDSN(initCtx, cfg.Database.DSN, cfg.Database.MigrationsDir); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Initialize database repository
	repo, err := storage.NewPostgresRepository(initCtx, storage.PostgresConfig{
		DSN:          cfg.Database.DSN,
		MaxOpenConns: int32(cfg.Database.MaxOpenConns),
		MaxIdleConns: int32(cfg.Database.MaxIdleConns),
	})
	if err != nil {
		slog.Error("failed to create database repository", "error", err)
		os.Exit(1)
	}
	slog.Info("database connected successfully")

	// Initialize token store
	tokens, err := auth.NewRedisTokenStore(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB, cfg.Auth.TokenTTL)
	if err != nil {
		slog.Error("failed to create token store", "error", err)
		os.Exit(1)
	}
	slog.Info("token store connected successfully")

	// Initialize suggestion gateway; the service runs without it when no
	// API key is configured
	var gateway *ai.Gateway
	generator, err := ai.NewGeminiGenerator(initCtx, cfg.AI.APIKey, cfg.AI.Model)
	switch {
	case err == nil:
		gateway = ai.NewGateway(generator)
		slog.Info("suggestion gateway enabled", "model", cfg.AI.Model)
	case errors.Is(err, ai.ErrNotConfigured):
		slog.Warn("suggestion gateway disabled: no API key configured")
	default:
		slog.Error("failed to create suggestion gateway", "error", err)
		os.Exit(1)
	}

	// Load blueprints
	blueprintLoader := blueprints.NewLoader()
	if err := blueprintLoader.LoadFromDir(cfg.Blueprints.Dir); err != nil {
		slog.Warn("failed to load blueprints from dir", "dir", cfg.Blueprints.Dir, "error", err)
	}

	// Initialize domain services
	engine := challenge.NewEngine(repo)
	userService := users.NewService(repo)

	// Setup HTTP server
	server := api.NewServer(cfg.Server, userService, engine, tokens, gateway, blueprintLoader, repo)
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      server.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("HTTP server starting", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down gracefully...")

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	if err := tokens.Close(); err != nil {
		slog.Error("token store close error", "error", err)
	}
	if err := repo.Close(); err != nil {
		slog.Error("repository close error", "error", err)
	}

	slog.Info("challenge-hub stopped")
}
