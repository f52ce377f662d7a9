// Copyright (c) 2025 Darren Spencer.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

The schema includes:

  - users: Account records with unique emails
  - poll: Poll question and creation timestamp
  - poll_option: Labeled options with vote counters, ordered by position

# Relationships

	poll 1──* poll_option

Users and polls never reference each other: polls are anonymous and no
voter identity is recorded.

Foreign keys use ON DELETE CASCADE.

# Indexes

Performance indexes on:

  - users.email (unique)
  - poll.created
  - poll_option.poll_id

# Timestamps

All timestamps are written by the application (time.Now at insert) rather
than database defaults, so the schema works unchanged on both supported
database types (sqlite and postgres).
*/
package db
