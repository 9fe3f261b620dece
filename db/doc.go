// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and creates the schema.

# Connecting

Open accepts "postgres" (lib/pq) or "sqlite" (modernc.org/sqlite) and
returns an *sqlx.DB whose bind type matches the driver:

	conn, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)

SQLite connections are limited to one open connection, and foreign keys
are enforced: Open appends _pragma=foreign_keys(1) unless the URL already
sets foreign_keys.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn.DB); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - profile: user identity and the advisory total_weekly_votes counter
  - song: competition entries, one active per owner
  - vote: the vote ledger
  - comment: song comments
  - song_change: one change per user per calendar date

# Relationships

	profile 1──* song
	profile 1──* vote (as voter)
	song    1──* vote
	song    1──* comment
	profile 1──* song_change

# Constraints

Uniqueness lives in the database so concurrent requests cannot race past it:

  - vote (song_id, voter_id, week_year) unique
  - song (user_id) unique WHERE is_active = TRUE
  - song_change (user_id, change_date) unique
*/
package db
