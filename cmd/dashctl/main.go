// Package main is the entry point for dashctl, the response cache operator tool.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"dashboard.app/cmd/dashctl/commands"
	"dashboard.app/internal/adapters/external"
	"dashboard.app/internal/config"
	"dashboard.app/pkg/logger"
	"github.com/joho/godotenv"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// A missing .env is fine, the environment may already be set
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		_, _ = fmt.Fprintln(stderr, "Error: "+err.Error())
		return 1
	}

	// Store clients log through slog; keep that off stdout
	logger.NewWithOptions(stderr, cfg.Log.Format, logger.ParseLevel(cfg.Log.Level)).
		WithField("component", "dashctl").
		SetDefault()

	cli := commands.New(cfg, external.NewCacheStoreFactory().CreateCacheStore)
	cli.SetArgs(args)
	cli.SetOutput(stdout, stderr)

	if err := cli.Execute(ctx); err != nil {
		_, _ = fmt.Fprintln(stderr, "Error: "+err.Error())
		return 1
	}
	return 0
}
