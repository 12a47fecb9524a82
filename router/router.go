// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/jonboulle/clockwork"
	"github.com/rs/cors"

	"github.com/danielhkuo/votewatch/auth"
	"github.com/danielhkuo/votewatch/cliparse"
	"github.com/danielhkuo/votewatch/db"
	"github.com/danielhkuo/votewatch/handlers"
	"github.com/danielhkuo/votewatch/middleware"
)

// NewRouter registers every route and wraps the mux with CORS
func NewRouter(store *db.Store, refresher handlers.Refresher, cfg cliparse.Config, clock clockwork.Clock) http.Handler {
	mux := http.NewServeMux()

	// Initialize handlers
	positionHandler := handlers.NewPositionHandler(store, cfg, clock)
	countdownHandler := handlers.NewCountdownHandler(store, cfg, clock)
	refreshHandler := handlers.NewRefreshHandler(refresher)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Dashboards (public)
	mux.HandleFunc("GET /positions", middleware.WithLogging(positionHandler.List))
	mux.HandleFunc("GET /positions/summary", middleware.WithLogging(positionHandler.Summary))
	mux.HandleFunc("GET /positions/{id}", middleware.WithLogging(positionHandler.Get))
	mux.HandleFunc("GET /positions/{id}/voting-allowed", middleware.WithLogging(positionHandler.VotingAllowed))
	mux.HandleFunc("GET /positions/{id}/leader", middleware.WithLogging(positionHandler.Leader))
	mux.HandleFunc("GET /positions/{id}/events", middleware.WithLogging(positionHandler.Events))

	// Live countdown (websocket)
	mux.HandleFunc("GET /positions/{id}/countdown", middleware.WithLogging(countdownHandler.Stream))

	// Admin
	mux.HandleFunc("POST /refresh", middleware.WithLogging(
		auth.RequireAdmin(cfg.AdminKey, handlers.AdminError, refreshHandler.Refresh)))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("votewatch API v1"))
	})

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
		},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-Admin-Key"},
	})

	return c.Handler(mux)
}
