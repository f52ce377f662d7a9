// Copyright (c) 2025 Darren Spencer.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Pollstream API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - AccountHandler: Registration, login, profile updates
  - PollHandler: Poll creation and listing
  - VotingHandler: Vote recording and realtime broadcast

Handlers are created via constructor functions:

	accounts := handlers.NewAccountHandler(db, cfg)
	polls := handlers.NewPollHandler(db, cfg)
	voting := handlers.NewVotingHandler(db, cfg, hub)

# Account Flow

	POST /auth/register       → Register (201, returns bearer token)
	POST /auth/login          → Login (200, returns bearer token)
	POST /auth/update-profile → UpdateProfile (bearer token required)

Registration fails with 409 when the email is already in use. Profile
updates apply only the supplied fields; a new password is re-hashed.

# Poll Flow

	GET  /polls               → ListPolls (full scan, options ordered)
	POST /polls               → CreatePoll (201 with zeroed counters)
	PATCH /polls/{id}/vote    → Vote (200 with the updated poll)

Polls are anonymous: no voter identity is recorded and votes require no
authentication.

# Vote Path

Vote resolves the poll (404 if unknown), then increments the matching
option's counter with a single UPDATE so concurrent votes serialize at
the store. An option label with no exact match is 404. On success the
full updated poll is broadcast to every connected realtime viewer and
returned to the voter.

# Error Translation

Handlers are the only layer that maps failures onto HTTP status codes:
400 malformed input, 401 missing credentials, 403 invalid token, 404
missing user/poll/option, 409 duplicate email, 500 store failures.
*/
package handlers
