// Package config loads the relay's runtime settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"

	"github.com/andy6609/linechat/internal/chat"
)

type Config struct {
	ChatAddr      string        `env:"CHAT_ADDR,default=:5000"`
	MetricsAddr   string        `env:"METRICS_ADDR,default=:9090"`
	LogLevel      string        `env:"LOG_LEVEL,default=info"`
	HistorySize   int           `env:"HISTORY_SIZE,default=100"`
	OutboundQueue int           `env:"OUTBOUND_QUEUE,default=256"`
	Backpressure  string        `env:"BACKPRESSURE,default=drop"`
	WriteTimeout  time.Duration `env:"WRITE_TIMEOUT,default=0s"`
	RateLimit     float64       `env:"RATE_LIMIT,default=0"`
	RateBurst     int           `env:"RATE_BURST,default=5"`
}

// Load reads an optional .env file, then the process environment.
// Variables already set in the environment win over the file.
func Load(files ...string) (Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load(files...)

	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.ChatAddr == "" {
		return fmt.Errorf("CHAT_ADDR must not be empty")
	}
	if c.HistorySize <= 0 {
		return fmt.Errorf("HISTORY_SIZE must be positive, got %d", c.HistorySize)
	}
	if c.OutboundQueue <= 0 {
		return fmt.Errorf("OUTBOUND_QUEUE must be positive, got %d", c.OutboundQueue)
	}
	if _, err := c.Policy(); err != nil {
		return err
	}
	if c.WriteTimeout < 0 {
		return fmt.Errorf("WRITE_TIMEOUT must not be negative, got %s", c.WriteTimeout)
	}
	if c.RateLimit < 0 || c.RateBurst < 0 {
		return fmt.Errorf("RATE_LIMIT and RATE_BURST must not be negative")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

func (c Config) Policy() (chat.BackpressurePolicy, error) {
	switch p := chat.BackpressurePolicy(strings.ToLower(c.Backpressure)); p {
	case chat.BackpressureDrop, chat.BackpressureDisconnect:
		return p, nil
	default:
		return "", fmt.Errorf("BACKPRESSURE must be %q or %q, got %q",
			chat.BackpressureDrop, chat.BackpressureDisconnect, c.Backpressure)
	}
}

func (c Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return lvl, nil
}

// ServerOptions maps the settings onto chat.Options.
func (c Config) ServerOptions() chat.Options {
	policy, _ := c.Policy()
	return chat.Options{
		HistorySize: c.HistorySize,
		Session: chat.SessionOptions{
			QueueSize:    c.OutboundQueue,
			Backpressure: policy,
			WriteTimeout: c.WriteTimeout,
		},
		RateLimit: c.RateLimit,
		RateBurst: c.RateBurst,
	}
}
