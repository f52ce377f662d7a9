// Copyright (c) 2025 Darren Spencer.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Pollstream API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg, hub)

# Endpoints

Health:

	GET /health

Accounts:

	POST /auth/register       - Create account, returns bearer token
	POST /auth/login          - Authenticate, returns bearer token
	POST /auth/update-profile - Partial profile update (bearer token)

Polls (public):

	GET   /polls           - List all polls with vote counts
	POST  /polls           - Create a poll
	PATCH /polls/{id}/vote - Cast a vote for an option

Realtime:

	GET /ws - WebSocket upgrade; server pushes pollUpdated events

All handlers except the WebSocket endpoint are wrapped with request
logging. The update-profile route is additionally gated by the bearer
token middleware.
*/
package router
