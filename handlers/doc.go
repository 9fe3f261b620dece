// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the AudSmash API.

# Handler Types

Each handler is a struct built on the store:

  - WeekHandler: the current competition week
  - ProfileHandler: own profile and public profile pages
  - SongHandler: song listings, submission and the daily change status
  - VoteHandler: cast, remove and toggle votes
  - CommentHandler: song comments
  - LeaderboardHandler: weekly rankings, plain and live

Handlers that mutate the ledger also take an events.Publisher:

	voteHandler := handlers.NewVoteHandler(st, bus)

# Authentication

Handlers read the caller from the request context, which
middleware.Authenticator fills in. Routes without it answer 401.

# Errors

Store errors map to statuses in one place:

	ErrDuplicateVote      → 409
	ErrSongNotEligible    → 409
	ErrDailyLimitExceeded → 429
	ErrNotFound           → 404
	ErrDataUnavailable    → 503
	validation errors     → 400

# Live Leaderboard

GET /leaderboard/live upgrades to a websocket, pushes the leaderboard once,
then again after every event for that week that can change it. The server
pings every PingPeriod and drops clients silent for PongWait.
*/
package handlers
