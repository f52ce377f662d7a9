// Copyright (c) 2025 Darren Spencer.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles configuration from CLI flags and environment.

# Configuration Sources

Flags take precedence over environment variables:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Settings

Required:

  - DATABASE_URL (-d): Database connection string
  - TOKEN_SECRET (--token-secret): Bearer token signing secret

Optional:

  - PORT (-p): Server port (default: 5000)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)

# Secrets

The token signing secret must be externally supplied; ParseFlags fails
without it. Prefer the environment over the CLI flag so the secret does
not show up in process listings.
*/
package cliparse
