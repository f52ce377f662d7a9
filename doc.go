// Copyright (c) 2025 Darren Spencer.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Pollstream API server.

Pollstream is a real-time polling service: users register and log in,
anyone creates polls and casts votes, and every connected viewer sees
vote counts update live over a WebSocket.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=postgres://... TOKEN_SECRET=... go run main.go

Or with flags:

	go run main.go -p 5000 -d "postgres://..." -t postgres

A .env file in the working directory is loaded automatically.

# Configuration

Required settings:

  - DATABASE_URL (-d): Database connection string
  - TOKEN_SECRET (--token-secret): Bearer token signing secret

Optional settings:

  - PORT (-p): Server port (default: 5000)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (accounts, polls, voting)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, bearer auth, JSON helpers
  - models: Request/response types
  - auth: Password hashing and token issue/verify
  - realtime: WebSocket hub broadcasting poll updates
  - db: Schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
