// Copyright (c) 2025 Darren Spencer.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/darrenspencer/pollstream/auth"
	"github.com/darrenspencer/pollstream/cliparse"
	"github.com/darrenspencer/pollstream/middleware"
	"github.com/darrenspencer/pollstream/models"
)

var errPollNotFound = errors.New("poll not found")

type PollHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewPollHandler(db *sql.DB, cfg cliparse.Config) *PollHandler {
	return &PollHandler{db: db, cfg: cfg}
}

// ListPolls handles GET /polls
// Returns every poll with its options; no filtering or pagination.
func (h *PollHandler) ListPolls(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.Query(`
		SELECT id, question, created
		FROM poll
		ORDER BY created, id
	`)
	if err != nil {
		slog.Error("failed to query polls", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	polls := []models.Poll{}
	for rows.Next() {
		var poll models.Poll
		if err := rows.Scan(&poll.ID, &poll.Question, &poll.Created); err != nil {
			slog.Error("failed to scan poll", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		polls = append(polls, poll)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to iterate polls", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	for i := range polls {
		options, err := loadOptions(h.db, polls[i].ID)
		if err != nil {
			slog.Error("failed to load options", "error", err, "poll_id", polls[i].ID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		polls[i].Options = options
	}

	middleware.JSONResponse(w, http.StatusOK, polls)
}

// CreatePoll handles POST /polls
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Validate input
	if req.Question == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "question is required")
		return
	}
	if len(req.Options) == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "at least one option is required")
		return
	}
	for _, label := range req.Options {
		if label == "" {
			middleware.ErrorResponse(w, http.StatusBadRequest, "option labels must not be empty")
			return
		}
	}

	pollID, err := auth.GenerateID(16)
	if err != nil {
		slog.Error("failed to generate poll ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create poll")
		return
	}

	created := time.Now()

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO poll (id, question, created)
		VALUES ($1, $2, $3)
	`, pollID, req.Question, created)
	if err != nil {
		slog.Error("failed to insert poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create poll")
		return
	}

	for position, label := range req.Options {
		_, err = tx.Exec(`
			INSERT INTO poll_option (poll_id, position, text, votes)
			VALUES ($1, $2, $3, 0)
		`, pollID, position, label)
		if err != nil {
			slog.Error("failed to insert option", "error", err, "poll_id", pollID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create poll")
			return
		}
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create poll")
		return
	}

	slog.Info("poll created", "poll_id", pollID, "options", len(req.Options))

	options := make([]models.Option, len(req.Options))
	for i, label := range req.Options {
		options[i] = models.Option{Text: label, Votes: 0}
	}

	middleware.JSONResponse(w, http.StatusCreated, models.Poll{
		ID:       pollID,
		Question: req.Question,
		Options:  options,
		Created:  created,
	})
}

// getPollByID loads a poll with its options.
// Returns errPollNotFound when the ID does not resolve.
func getPollByID(db *sql.DB, pollID string) (models.Poll, error) {
	var poll models.Poll
	err := db.QueryRow(`
		SELECT id, question, created FROM poll WHERE id = $1
	`, pollID).Scan(&poll.ID, &poll.Question, &poll.Created)

	if err == sql.ErrNoRows {
		return models.Poll{}, errPollNotFound
	}
	if err != nil {
		return models.Poll{}, err
	}

	poll.Options, err = loadOptions(db, pollID)
	if err != nil {
		return models.Poll{}, err
	}

	return poll, nil
}

// loadOptions returns a poll's options in creation order
func loadOptions(db *sql.DB, pollID string) ([]models.Option, error) {
	rows, err := db.Query(`
		SELECT text, votes
		FROM poll_option
		WHERE poll_id = $1
		ORDER BY position
	`, pollID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	options := []models.Option{}
	for rows.Next() {
		var opt models.Option
		if err := rows.Scan(&opt.Text, &opt.Votes); err != nil {
			return nil, err
		}
		options = append(options, opt)
	}
	return options, rows.Err()
}
