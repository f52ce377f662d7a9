// Copyright (c) 2025 Darren Spencer.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/darrenspencer/pollstream/cliparse"
	"github.com/darrenspencer/pollstream/middleware"
	"github.com/darrenspencer/pollstream/models"
	"github.com/darrenspencer/pollstream/realtime"
)

type VotingHandler struct {
	db  *sql.DB
	cfg cliparse.Config
	hub *realtime.Hub
}

func NewVotingHandler(db *sql.DB, cfg cliparse.Config, hub *realtime.Hub) *VotingHandler {
	return &VotingHandler{db: db, cfg: cfg, hub: hub}
}

// Vote handles PATCH /polls/:id/vote
// Increments the matching option's counter by exactly 1, broadcasts the
// updated poll to all connected viewers, and returns it.
func (h *VotingHandler) Vote(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll_id is required")
		return
	}

	var req models.VoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Check poll exists first so an unknown poll and an unknown option
	// produce distinct messages
	var exists string
	err := h.db.QueryRow("SELECT id FROM poll WHERE id = $1", pollID).Scan(&exists)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	}
	if err != nil {
		slog.Error("failed to query poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	// Single-statement increment: concurrent votes on the same option
	// serialize at the store, so no count is ever lost
	result, err := h.db.Exec(`
		UPDATE poll_option
		SET votes = votes + 1
		WHERE poll_id = $1 AND text = $2
	`, pollID, req.Option)
	if err != nil {
		slog.Error("failed to increment vote", "error", err, "poll_id", pollID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record vote")
		return
	}

	affected, err := result.RowsAffected()
	if err != nil {
		slog.Error("failed to read rows affected", "error", err, "poll_id", pollID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record vote")
		return
	}
	if affected == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Option not found")
		return
	}

	poll, err := getPollByID(h.db, pollID)
	if err != nil {
		slog.Error("failed to reload poll", "error", err, "poll_id", pollID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record vote")
		return
	}

	slog.Info("vote recorded", "poll_id", pollID, "option", req.Option)

	// Fire-and-forget: a failed delivery to any viewer never fails the vote
	h.hub.BroadcastPollUpdated(poll)

	middleware.JSONResponse(w, http.StatusOK, poll)
}
