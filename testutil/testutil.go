// Copyright (c) 2025 Darren Spencer.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/darrenspencer/pollstream/auth"
	"github.com/darrenspencer/pollstream/cliparse"
	dbschema "github.com/darrenspencer/pollstream/db"
)

var dbCounter atomic.Int64

// SetupTestDB creates a fresh in-memory database with the full schema.
// Each call gets its own shared-cache database so tests stay isolated.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:pollstream_test_%d?mode=memory&cache=shared", dbCounter.Add(1))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// One connection keeps the in-memory database alive and serializes access
	db.SetMaxOpenConns(1)

	if err := dbschema.CreateSchema(db); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return db
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         5000,
		DatabaseURL:  "file::memory:",
		DatabaseType: "sqlite",
		TokenSecret:  "test-token-secret",
	}
}

// CreateTestUser inserts a user and returns its ID
func CreateTestUser(t *testing.T, db *sql.DB, username, email, password string) string {
	t.Helper()

	userID, _ := auth.GenerateID(16)
	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("Failed to hash test password: %v", err)
	}

	_, err = db.Exec(`
		INSERT INTO users (id, username, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, userID, username, email, passwordHash, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return userID
}

// CreateTestPoll inserts a poll with zero-vote options and returns its ID
func CreateTestPoll(t *testing.T, db *sql.DB, question string, options []string) string {
	t.Helper()

	pollID, _ := auth.GenerateID(16)
	_, err := db.Exec(`
		INSERT INTO poll (id, question, created)
		VALUES ($1, $2, $3)
	`, pollID, question, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}

	for position, label := range options {
		_, err := db.Exec(`
			INSERT INTO poll_option (poll_id, position, text, votes)
			VALUES ($1, $2, $3, 0)
		`, pollID, position, label)
		if err != nil {
			t.Fatalf("Failed to create test option: %v", err)
		}
	}

	return pollID
}

// OptionVotes reads the current counter for one option
func OptionVotes(t *testing.T, db *sql.DB, pollID, text string) int {
	t.Helper()

	var votes int
	err := db.QueryRow(`
		SELECT votes FROM poll_option WHERE poll_id = $1 AND text = $2
	`, pollID, text).Scan(&votes)
	if err != nil {
		t.Fatalf("Failed to read votes for option %q: %v", text, err)
	}
	return votes
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
