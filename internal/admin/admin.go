// Package admin serves the relay's operational HTTP endpoints.
package admin

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Roster is the view of the chat server the health endpoint reports on.
type Roster interface {
	Sessions() int
	Users() []string
}

type health struct {
	Status     string   `json:"status"`
	Sessions   int      `json:"sessions"`
	Users      []string `json:"users"`
	Goroutines int      `json:"goroutines"`
}

// NewHandler exposes GET /metrics and GET /healthz.
func NewHandler(roster Roster, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	r := chi.NewRouter()
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	r.Get("/healthz", healthHandler(roster, logger))
	return r
}

func healthHandler(roster Roster, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users := roster.Users()
		if users == nil {
			users = []string{}
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(health{
			Status:     "ok",
			Sessions:   roster.Sessions(),
			Users:      users,
			Goroutines: runtime.NumGoroutine(),
		}); err != nil {
			logger.Debug("health encode failed", "error", err)
		}
	}
}
