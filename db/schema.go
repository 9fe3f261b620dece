// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
// The DDL is valid on both PostgreSQL and SQLite.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Profiles
CREATE TABLE IF NOT EXISTS profile (
    id TEXT PRIMARY KEY,
    username TEXT NOT NULL CHECK (length(username) > 0),
    avatar_url TEXT,
    total_weekly_votes INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Songs
CREATE TABLE IF NOT EXISTS song (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES profile(id) ON DELETE CASCADE,
    video_id TEXT NOT NULL,
    title TEXT NOT NULL,
    thumbnail TEXT NOT NULL,
    channel_name TEXT,
    category TEXT NOT NULL,
    start_time INTEGER NOT NULL DEFAULT 0 CHECK (start_time >= 0),
    is_active BOOLEAN NOT NULL DEFAULT FALSE,
    week_year TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_song_user_id ON song(user_id);
CREATE INDEX IF NOT EXISTS idx_song_week_active ON song(week_year, is_active);
-- At most one active song per owner
CREATE UNIQUE INDEX IF NOT EXISTS idx_song_one_active ON song(user_id) WHERE is_active = TRUE;

-- Votes
CREATE TABLE IF NOT EXISTS vote (
    id TEXT PRIMARY KEY,
    song_id TEXT NOT NULL REFERENCES song(id) ON DELETE CASCADE,
    voter_id TEXT NOT NULL REFERENCES profile(id) ON DELETE CASCADE,
    week_year TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (song_id, voter_id, week_year)
);

CREATE INDEX IF NOT EXISTS idx_vote_week_song ON vote(week_year, song_id);
CREATE INDEX IF NOT EXISTS idx_vote_voter ON vote(voter_id, week_year);

-- Comments
CREATE TABLE IF NOT EXISTS comment (
    id TEXT PRIMARY KEY,
    song_id TEXT NOT NULL REFERENCES song(id) ON DELETE CASCADE,
    user_id TEXT NOT NULL REFERENCES profile(id) ON DELETE CASCADE,
    content TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_comment_song_id ON comment(song_id);

-- Song changes (one per user per calendar date)
CREATE TABLE IF NOT EXISTS song_change (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES profile(id) ON DELETE CASCADE,
    old_song_id TEXT,
    new_song_id TEXT,
    change_date TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (user_id, change_date)
);
`
