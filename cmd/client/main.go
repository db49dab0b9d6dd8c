package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/andy6609/linechat/internal/client"
	"github.com/andy6609/linechat/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	addr := flag.String("addr", cfg.ChatAddr, "chat server address")
	name := flag.String("name", os.Getenv("CHAT_NAME"), "display name")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	if *name == "" {
		logger.Error("a display name is required (-name or CHAT_NAME)")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := client.Dial(ctx, *addr, *name, logger)
	if err != nil {
		logger.Error("connect failed", "error", err)
		os.Exit(1)
	}

	if err := c.Run(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("session ended", "error", err)
		stop()
		os.Exit(1)
	}
}
