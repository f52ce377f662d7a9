// Copyright (c) 2025 Darren Spencer.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/darrenspencer/pollstream/auth"
	"github.com/darrenspencer/pollstream/cliparse"
	"github.com/darrenspencer/pollstream/middleware"
	"github.com/darrenspencer/pollstream/models"
)

type AccountHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewAccountHandler(db *sql.DB, cfg cliparse.Config) *AccountHandler {
	return &AccountHandler{db: db, cfg: cfg}
}

// Register handles POST /auth/register
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Validate input
	if req.Username == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "username is required")
		return
	}
	if req.Email == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "email is required")
		return
	}
	if req.Password == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "password is required")
		return
	}

	// Email must be unused; the UNIQUE constraint backstops the race window
	var existingID string
	err := h.db.QueryRow("SELECT id FROM users WHERE email = $1", req.Email).Scan(&existingID)
	if err == nil {
		middleware.ErrorResponse(w, http.StatusConflict, "Email already in use")
		return
	}
	if err != sql.ErrNoRows {
		slog.Error("failed to query user by email", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register")
		return
	}

	userID, err := auth.GenerateID(16)
	if err != nil {
		slog.Error("failed to generate user ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register")
		return
	}

	_, err = h.db.Exec(`
		INSERT INTO users (id, username, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, userID, req.Username, req.Email, passwordHash, time.Now())

	if err != nil {
		slog.Error("failed to insert user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register")
		return
	}

	token, err := auth.IssueToken(userID, h.cfg.TokenSecret)
	if err != nil {
		slog.Error("failed to issue token", "error", err, "user_id", userID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register")
		return
	}

	slog.Info("user registered", "user_id", userID, "email", req.Email)

	middleware.JSONResponse(w, http.StatusCreated, models.TokenResponse{Token: token})
}

// Login handles POST /auth/login
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	var userID, passwordHash string
	err := h.db.QueryRow(`
		SELECT id, password_hash FROM users WHERE email = $1
	`, req.Email).Scan(&userID, &passwordHash)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		slog.Error("failed to query user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if err := auth.VerifyPassword(req.Password, passwordHash); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := auth.IssueToken(userID, h.cfg.TokenSecret)
	if err != nil {
		slog.Error("failed to issue token", "error", err, "user_id", userID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to log in")
		return
	}

	slog.Info("user logged in", "user_id", userID)

	middleware.JSONResponse(w, http.StatusOK, models.TokenResponse{Token: token})
}

// UpdateProfile handles POST /auth/update-profile (bearer token required).
// Only the supplied fields change; empty fields keep their stored values.
func (h *AccountHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Missing bearer token")
		return
	}

	var req models.UpdateProfileRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	var username, email, passwordHash string
	var team sql.NullString
	err := h.db.QueryRow(`
		SELECT username, email, password_hash, team FROM users WHERE id = $1
	`, userID).Scan(&username, &email, &passwordHash, &team)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		slog.Error("failed to query user", "error", err, "user_id", userID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	if req.Username != "" {
		username = req.Username
	}
	if req.Email != "" {
		email = req.Email
	}
	if req.Team != "" {
		team = sql.NullString{String: req.Team, Valid: true}
	}
	if req.Password != "" {
		passwordHash, err = auth.HashPassword(req.Password)
		if err != nil {
			slog.Error("failed to hash password", "error", err, "user_id", userID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update profile")
			return
		}
	}

	_, err = h.db.Exec(`
		UPDATE users
		SET username = $1, email = $2, password_hash = $3, team = $4
		WHERE id = $5
	`, username, email, passwordHash, team, userID)

	if err != nil {
		slog.Error("failed to update user", "error", err, "user_id", userID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	slog.Info("profile updated", "user_id", userID)

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{
		Message: "Profile updated successfully",
	})
}
