// Copyright (c) 2025 Darren Spencer.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides password hashing and bearer token utilities.

# Password Hashing

Passwords are hashed with bcrypt before storage:

	hash, err := auth.HashPassword(password)
	err = auth.VerifyPassword(password, hash)

VerifyPassword returns ErrPasswordMismatch on failure; the stored hash is
never exposed to callers of the HTTP API.

# Bearer Tokens

Tokens are HS256-signed JWTs carrying the user ID:

	token, err := auth.IssueToken(userID, secret)
	userID, err := auth.VerifyToken(token, secret)

Claims: user_id, iat, exp = iat + 24h (TokenTTL). VerifyToken rejects
tampered signatures, expired tokens, and any non-HMAC signing method with
ErrInvalidToken. The signing secret comes from configuration (TOKEN_SECRET)
and is never defaulted.

# ID Generation

Random hex IDs for database records:

	id, err := auth.GenerateID(16)  // 32 hex characters
*/
package auth
