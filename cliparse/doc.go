// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: PostgreSQL connection string or SQLite file (required)
  - DatabaseType: sqlite (default) or postgres
  - JWTSecret: HS256 secret shared with the identity provider (required)
  - RedisURL: enables cross-instance change events (optional)
  - CompetitionTZ: IANA zone for week keys and the daily change limit (default UTC)
  - TotalsSchedule: cron schedule for refreshing weekly totals (default every 5 minutes)
  - RateLimit, RateBurst: per-client limit on mutating routes (default 5/s, burst 10)
  - TrustProxy: key the limit on X-Forwarded-For instead of the peer address

# CLI Flags

	-p                Server port
	-d                Database URL
	-t                Database type
	--jwt-secret      JWT secret
	--redis           Redis URL
	--tz              Competition time zone
	--totals-schedule Cron schedule
	--rate-limit      Requests per second (0 disables)
	--rate-burst      Burst size
	--trust-proxy     Honour forwarded client addresses
	--env-file        Dotenv file (default .env)

# Environment Variables

Flags fall back to environment variables:

	PORT            → -p
	DATABASE_URL    → -d
	DATABASE_TYPE   → -t
	JWT_SECRET      → --jwt-secret
	REDIS_URL       → --redis
	COMPETITION_TZ  → --tz
	TOTALS_SCHEDULE → --totals-schedule
	RATE_LIMIT      → --rate-limit
	RATE_BURST      → --rate-burst
	TRUST_PROXY     → --trust-proxy

CLI flags take precedence over environment variables, and environment
variables take precedence over the dotenv file.

# Validation

ParseFlags returns an error if DATABASE_URL or JWT_SECRET is missing, or if
the time zone, cron schedule or numeric settings do not parse.
*/
package cliparse
