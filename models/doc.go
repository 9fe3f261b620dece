// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - UpdateProfileRequest: username, avatar_url (both optional)
  - SubmitSongRequest: video_id, title, thumbnail, channel_name, category, start_time
  - AddCommentRequest: content

# Response Types

  - SubmitSongResponse: song, change
  - VoteResponse: song_id, week_year, voted, vote_count
  - ChangeStatusResponse: can_change_today, change_date
  - WeekResponse: week_year, starts_at, ends_at
  - LeaderboardResponse: week_year, computed_at, entries
  - ProfilePageResponse: profile, current_songs, past_songs, week_votes
  - ErrorResponse: error, message

# Domain Types

  - Profile: user identity; total_weekly_votes is an advisory cache
  - Song: competition entry with is_active and a fixed week_year
  - Vote: one (song, voter, week) endorsement
  - Comment: free-text feedback on a song
  - SongChange: one row per user per calendar date
  - LeaderboardEntry: derived ranking row, never persisted

# Errors

errors.go holds the sentinel conditions returned by the store and the
leaderboard:

	ErrDuplicateVote      → 409
	ErrDailyLimitExceeded → 429
	ErrNotFound           → 404
	ErrDataUnavailable    → 503

# Categories

Songs must use one of Categories ("Hip Hop", "Rock", ... "Other").
*/
package models
