// Copyright (c) 2025 Darren Spencer.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Realtime event names
const (
	EventPollUpdated = "pollUpdated"
)

// Request types

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest carries partial updates; empty fields keep their
// stored values.
type UpdateProfileRequest struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
	Team     string `json:"team,omitempty"`
}

type CreatePollRequest struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

type VoteRequest struct {
	Option string `json:"option"`
}

// Response types

type TokenResponse struct {
	Token string `json:"token"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// Domain types

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	Team         string    `json:"team,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type Poll struct {
	ID       string    `json:"id"`
	Question string    `json:"question"`
	Options  []Option  `json:"options"`
	Created  time.Time `json:"created"`
}

type Option struct {
	Text  string `json:"text"`
	Votes int    `json:"votes"`
}

// PollEvent is the envelope pushed to realtime viewers.
type PollEvent struct {
	Event string `json:"event"`
	Poll  Poll   `json:"data"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
