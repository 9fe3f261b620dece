// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the AudSmash API server.

AudSmash is a weekly music competition: each user keeps one active song,
anyone signed in can vote once per song per week, and the leaderboard ranks
song owners by the votes their active songs collected that week.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=audsmash.db JWT_SECRET=... go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." -jwt-secret ...

A .env file in the working directory is read first (see -env-file).

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite path or PostgreSQL connection string
  - JWT_SECRET (-jwt-secret): HS256 secret shared with the identity provider

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - COMPETITION_TZ (-tz): IANA zone weeks and days are counted in (default: UTC)
  - REDIS_URL (-redis): fan change events out across instances
  - TOTALS_SCHEDULE (-totals-schedule): cron spec for the weekly totals refresh
  - RATE_LIMIT, RATE_BURST (-rate-limit, -rate-burst): per-client limit on mutations

# Architecture

  - weekkey: ISO week keys in the competition time zone
  - store: vote ledger, song activation, profiles, comments
  - leaderboard: weekly ranking of song owners
  - events: change notifications (in-process hub, Redis relay)
  - jobs: scheduled refresh of cached weekly totals
  - handlers, router, middleware: HTTP API
  - models: domain, request and response types
  - auth: bearer token verification
  - db: connections and schema
  - cliparse: configuration parsing

See package documentation for each component.
*/
package main
