// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package jobs schedules background maintenance. Today that is the refresh
// of each profile's cached total_weekly_votes, run on TOTALS_SCHEDULE and at
// every week rollover in the competition time zone.
package jobs
