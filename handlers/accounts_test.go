// Copyright (c) 2025 Darren Spencer.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/darrenspencer/pollstream/auth"
	"github.com/darrenspencer/pollstream/middleware"
	"github.com/darrenspencer/pollstream/models"
	"github.com/darrenspencer/pollstream/testutil"
)

func TestRegister(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewAccountHandler(db, cfg)

	tests := []struct {
		name           string
		requestBody    interface{}
		expectedStatus int
		checkResponse  func(t *testing.T, resp *models.TokenResponse)
	}{
		{
			name: "valid registration",
			requestBody: models.RegisterRequest{
				Username: "alice",
				Email:    "alice@example.com",
				Password: "hunter2",
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, resp *models.TokenResponse) {
				if resp.Token == "" {
					t.Fatal("Expected non-empty token")
				}

				// Token must verify against the configured secret and
				// resolve to the stored user
				userID, err := auth.VerifyToken(resp.Token, cfg.TokenSecret)
				if err != nil {
					t.Fatalf("Token did not verify: %v", err)
				}

				var storedID, storedHash string
				err = db.QueryRow("SELECT id, password_hash FROM users WHERE email = $1",
					"alice@example.com").Scan(&storedID, &storedHash)
				if err != nil {
					t.Fatalf("User not found in database: %v", err)
				}
				if storedID != userID {
					t.Errorf("Token user ID %q does not match stored ID %q", userID, storedID)
				}
				if storedHash == "hunter2" {
					t.Error("Password stored in plaintext")
				}
			},
		},
		{
			name: "missing username",
			requestBody: models.RegisterRequest{
				Email:    "bob@example.com",
				Password: "hunter2",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "missing email",
			requestBody: models.RegisterRequest{
				Username: "bob",
				Password: "hunter2",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "missing password",
			requestBody: models.RegisterRequest{
				Username: "bob",
				Email:    "bob@example.com",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid JSON",
			requestBody:    "not json",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/auth/register", tt.requestBody, nil)
			w := httptest.NewRecorder()

			handler.Register(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.checkResponse != nil {
				var resp models.TokenResponse
				testutil.AssertJSON(t, w, &resp)
				tt.checkResponse(t, &resp)
			}
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewAccountHandler(db, cfg)

	testutil.CreateTestUser(t, db, "alice", "alice@example.com", "hunter2")

	req := testutil.MakeRequest("POST", "/auth/register", models.RegisterRequest{
		Username: "alice2",
		Email:    "alice@example.com",
		Password: "other-password",
	}, nil)
	w := httptest.NewRecorder()

	handler.Register(w, req)

	testutil.AssertStatus(t, w, http.StatusConflict)

	// No second record may exist
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users WHERE email = $1",
		"alice@example.com").Scan(&count); err != nil {
		t.Fatalf("Failed to count users: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 user with that email, got %d", count)
	}
}

func TestLogin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewAccountHandler(db, cfg)

	userID := testutil.CreateTestUser(t, db, "alice", "alice@example.com", "hunter2")

	tests := []struct {
		name           string
		requestBody    models.LoginRequest
		expectedStatus int
	}{
		{
			name:           "valid credentials",
			requestBody:    models.LoginRequest{Email: "alice@example.com", Password: "hunter2"},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unknown email",
			requestBody:    models.LoginRequest{Email: "nobody@example.com", Password: "hunter2"},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "wrong password",
			requestBody:    models.LoginRequest{Email: "alice@example.com", Password: "wrong"},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/auth/login", tt.requestBody, nil)
			w := httptest.NewRecorder()

			handler.Login(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus == http.StatusOK {
				var resp models.TokenResponse
				testutil.AssertJSON(t, w, &resp)
				gotID, err := auth.VerifyToken(resp.Token, cfg.TokenSecret)
				if err != nil {
					t.Fatalf("Login token did not verify: %v", err)
				}
				if gotID != userID {
					t.Errorf("Token user ID %q does not match %q", gotID, userID)
				}
			}
		})
	}
}

func TestRegisterThenLogin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewAccountHandler(db, cfg)

	// Register
	req := testutil.MakeRequest("POST", "/auth/register", models.RegisterRequest{
		Username: "carol",
		Email:    "carol@example.com",
		Password: "correct horse battery staple",
	}, nil)
	w := httptest.NewRecorder()
	handler.Register(w, req)
	testutil.AssertStatus(t, w, http.StatusCreated)

	// Login with the same credentials
	req = testutil.MakeRequest("POST", "/auth/login", models.LoginRequest{
		Email:    "carol@example.com",
		Password: "correct horse battery staple",
	}, nil)
	w = httptest.NewRecorder()
	handler.Login(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)
}

func TestUpdateProfile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewAccountHandler(db, cfg)

	userID := testutil.CreateTestUser(t, db, "alice", "alice@example.com", "hunter2")
	token, err := auth.IssueToken(userID, cfg.TokenSecret)
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}

	var originalHash string
	if err := db.QueryRow("SELECT password_hash FROM users WHERE id = $1", userID).
		Scan(&originalHash); err != nil {
		t.Fatalf("Failed to read stored hash: %v", err)
	}

	gated := middleware.RequireAuth(cfg.TokenSecret, handler.UpdateProfile)

	// Only team supplied: everything else keeps its value
	req := testutil.MakeRequest("POST", "/auth/update-profile",
		models.UpdateProfileRequest{Team: "red"},
		map[string]string{"Authorization": "Bearer " + token})
	w := httptest.NewRecorder()

	gated(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var username, email, passwordHash string
	var team sql.NullString
	err = db.QueryRow(`
		SELECT username, email, password_hash, team FROM users WHERE id = $1
	`, userID).Scan(&username, &email, &passwordHash, &team)
	if err != nil {
		t.Fatalf("Failed to reload user: %v", err)
	}

	if username != "alice" {
		t.Errorf("Username changed: got %q", username)
	}
	if email != "alice@example.com" {
		t.Errorf("Email changed: got %q", email)
	}
	if passwordHash != originalHash {
		t.Error("Password hash changed without a new password")
	}
	if !team.Valid || team.String != "red" {
		t.Errorf("Expected team 'red', got %v", team)
	}
}

func TestUpdateProfile_NewPasswordRehashed(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewAccountHandler(db, cfg)

	userID := testutil.CreateTestUser(t, db, "alice", "alice@example.com", "hunter2")
	token, _ := auth.IssueToken(userID, cfg.TokenSecret)

	gated := middleware.RequireAuth(cfg.TokenSecret, handler.UpdateProfile)

	req := testutil.MakeRequest("POST", "/auth/update-profile",
		models.UpdateProfileRequest{Password: "new-password"},
		map[string]string{"Authorization": "Bearer " + token})
	w := httptest.NewRecorder()

	gated(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var storedHash string
	if err := db.QueryRow("SELECT password_hash FROM users WHERE id = $1", userID).
		Scan(&storedHash); err != nil {
		t.Fatalf("Failed to read stored hash: %v", err)
	}
	if storedHash == "new-password" {
		t.Error("Password stored in plaintext")
	}
	if err := auth.VerifyPassword("new-password", storedHash); err != nil {
		t.Errorf("New password does not verify: %v", err)
	}
	if err := auth.VerifyPassword("hunter2", storedHash); err == nil {
		t.Error("Old password still verifies after change")
	}
}

func TestUpdateProfile_UnknownUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewAccountHandler(db, cfg)

	// Valid token for an ID with no user record
	token, _ := auth.IssueToken("no-such-user", cfg.TokenSecret)

	gated := middleware.RequireAuth(cfg.TokenSecret, handler.UpdateProfile)

	req := testutil.MakeRequest("POST", "/auth/update-profile",
		models.UpdateProfileRequest{Team: "blue"},
		map[string]string{"Authorization": "Bearer " + token})
	w := httptest.NewRecorder()

	gated(w, req)

	testutil.AssertStatus(t, w, http.StatusNotFound)
}
