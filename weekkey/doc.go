// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package weekkey partitions time into competition weeks.

Every song, vote and leaderboard is labelled with a week key of the form
YYYY-Wnn:

	key := weekkey.Key(time.Now()) // "2026-W42"

# Week Rule

Keys follow the ISO 8601 week date: weeks start on Monday and week 1 is the
week containing the year's first Thursday. The year part is the ISO
week-year, so the last days of December can belong to week 1 of the next
year and the first days of January to week 52 or 53 of the previous one:

	2024-12-30 → 2025-W01
	2027-01-01 → 2026-W53

# Calendars

A Calendar evaluates keys and calendar dates in a fixed time zone. The
package-level Key uses UTC.

	cal, _ := weekkey.NewCalendar("America/New_York")
	cal.Key(t)    // week key
	cal.Date(t)   // "2026-10-17", used for the one-change-per-day limit
	cal.Bounds(k) // [Monday 00:00, next Monday 00:00)
*/
package weekkey
