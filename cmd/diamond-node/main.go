package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/diamonddb/diamond-node/pkg/cli/cmd"
	"github.com/diamonddb/diamond-node/pkg/config"
	"github.com/joho/godotenv"
)

func main() {
	// A missing .env file is fine, the environment may already be set.
	_ = godotenv.Load(".env")

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: config.NewConfig().LogLevel(),
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Execute(ctx); err != nil {
		slog.Error("Command failed", "error", err)
		stop()
		os.Exit(1)
	}
}
