package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andy6609/linechat/internal/admin"
	"github.com/andy6609/linechat/internal/chat"
	"github.com/andy6609/linechat/internal/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	addr := flag.String("addr", cfg.ChatAddr, "chat listen address")
	metricsAddr := flag.String("metrics-addr", cfg.MetricsAddr, "metrics listen address, empty to disable")
	flag.Parse()

	level, _ := cfg.Level()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))

	srv := chat.NewServer(*addr, logger, cfg.ServerOptions())
	if err := srv.Start(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	defer srv.Stop()

	if *metricsAddr != "" {
		adminSrv := &http.Server{
			Addr:              *metricsAddr,
			Handler:           admin.NewHandler(srv, logger),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("admin server starting", "addr", *metricsAddr)
			if err := adminSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("admin server error", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := adminSrv.Shutdown(shutdownCtx); err != nil {
				logger.Error("admin shutdown error", "error", err)
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case <-ctx.Done():
		return nil
	case err := <-srv.Done():
		// The accept loop is never restarted.
		return fmt.Errorf("listener failed: %w", err)
	}
}
