// Copyright (c) 2025 Darren Spencer.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/darrenspencer/pollstream/cliparse"
	"github.com/darrenspencer/pollstream/handlers"
	"github.com/darrenspencer/pollstream/middleware"
	"github.com/darrenspencer/pollstream/realtime"
)

func NewRouter(db *sql.DB, cfg cliparse.Config, hub *realtime.Hub) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	accountHandler := handlers.NewAccountHandler(db, cfg)
	pollHandler := handlers.NewPollHandler(db, cfg)
	votingHandler := handlers.NewVotingHandler(db, cfg, hub)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Account operations
	mux.HandleFunc("POST /auth/register", middleware.WithLogging(accountHandler.Register))
	mux.HandleFunc("POST /auth/login", middleware.WithLogging(accountHandler.Login))
	mux.HandleFunc("POST /auth/update-profile",
		middleware.WithLogging(middleware.RequireAuth(cfg.TokenSecret, accountHandler.UpdateProfile)))

	// Poll operations (public)
	mux.HandleFunc("GET /polls", middleware.WithLogging(pollHandler.ListPolls))
	mux.HandleFunc("POST /polls", middleware.WithLogging(pollHandler.CreatePoll))
	mux.HandleFunc("PATCH /polls/{id}/vote", middleware.WithLogging(votingHandler.Vote))

	// Realtime viewers
	mux.HandleFunc("GET /ws", hub.ServeWS)

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("pollstream API v1"))
	})

	return mux
}
