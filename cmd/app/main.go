package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dashboard.app/internal/app"
	"dashboard.app/internal/config"
	"dashboard.app/pkg/logger"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file if present
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found or error loading it")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger.NewWithOptions(os.Stdout, cfg.Log.Format, logger.ParseLevel(cfg.Log.Level)).
		WithField("service", "market-dashboard").
		SetDefault()
	slog.Info("Configuration loaded successfully",
		"port", cfg.Server.Port,
		"cache_type", cfg.Cache.Type.String(),
		"cache_enabled", cfg.Cache.Enabled)

	// Create application with dependency injection
	deps, err := app.NewDependencyContainer(cfg, app.DependencyOptions{})
	if err != nil {
		slog.Error("Failed to initialize dependencies", "error", err)
		os.Exit(1)
	}

	application, err := app.NewApplicationWithDependencies(cfg, deps)
	if err != nil {
		_ = deps.Cleanup()
		slog.Error("Failed to initialize application", "error", err)
		os.Exit(1)
	}

	// Set up graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	setupGracefulShutdown(cancel, application)

	// Start the application
	slog.Info("Starting Market Dashboard API...")
	if err := application.Start(ctx); err != nil {
		slog.Error("Failed to start application", "error", err)
		os.Exit(1)
	}
}

func setupGracefulShutdown(cancel context.CancelFunc, app *app.Application) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		slog.Info("Received shutdown signal...")

		// Cancel the context to stop the application
		cancel()

		// Give the application time to shut down gracefully
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := app.Shutdown(shutdownCtx); err != nil {
			slog.Error("Error during graceful shutdown", "error", err)
		}

		os.Exit(0)
	}()
}
