package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/smefin/finhealth/internal/cli"
	"github.com/smefin/finhealth/internal/config"
	"github.com/smefin/finhealth/internal/gateway"
	"github.com/smefin/finhealth/internal/history"
	"github.com/smefin/finhealth/internal/results"
)

func main() {
	// ── Logger ────────────────────────────────────────────────────────────────
	// JSON in production, pretty text otherwise. Logs go to stderr so command
	// output on stdout stays pipeable.
	var logger *slog.Logger
	if os.Getenv("ENV") == "production" {
		logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	} else {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelWarn,
		}))
	}
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		fmt.Fprintln(os.Stderr, "finhealth:", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	// ── Config ────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	// ── Dependencies ──────────────────────────────────────────────────────────
	client := gateway.New(cfg.APIBaseURL, cfg.HTTPTimeout, logger)
	store := history.NewFileStore(cfg.HistoryFile, logger)
	loader := results.NewLoader(client, store, logger)

	app := &cli.App{
		Cfg:    cfg,
		Client: client,
		Store:  store,
		Loader: loader,
		Logger: logger,
	}

	// ── Commands ──────────────────────────────────────────────────────────────
	// Root context cancelled by OS signal; long-running commands (web) and
	// in-flight requests both respect it.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}
