// Copyright (c) 2025 Darren Spencer.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - RegisterRequest: username, email, password
  - LoginRequest: email, password
  - UpdateProfileRequest: username?, email?, password?, team? (partial update)
  - CreatePollRequest: question, options ([]string)
  - VoteRequest: option (label text)

# Response Types

Types for JSON responses:

  - TokenResponse: token
  - MessageResponse: message
  - ErrorResponse: error, message

# Domain Types

Internal data structures:

  - User: account record (password hash never serialized)
  - Poll: question with ordered, vote-counted options
  - Option: label text and vote counter
  - PollEvent: realtime envelope {event, data}

# Events

Realtime event names:

	EventPollUpdated = "pollUpdated"

Emitted to every connected viewer after each successful vote, carrying
the full updated poll.
*/
package models
