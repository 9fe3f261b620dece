// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package weekkey

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

var ErrInvalidKey = errors.New("invalid week key")

// DateLayout is the calendar date format used for daily limits
const DateLayout = "2006-01-02"

// Calendar computes week keys and calendar dates in a fixed location.
// The zero value uses UTC.
type Calendar struct {
	Location *time.Location
}

// UTC is the default competition calendar
var UTC = Calendar{Location: time.UTC}

// NewCalendar loads a calendar for an IANA zone name ("" means UTC)
func NewCalendar(zone string) (Calendar, error) {
	if zone == "" || zone == "UTC" {
		return UTC, nil
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return Calendar{}, fmt.Errorf("failed to load time zone %q: %w", zone, err)
	}
	return Calendar{Location: loc}, nil
}

func (c Calendar) loc() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}

// Key returns the ISO 8601 week key (YYYY-Wnn) containing t.
// The year is the ISO week-year, which differs from the calendar year
// for a few days around New Year.
func (c Calendar) Key(t time.Time) string {
	year, week := t.In(c.loc()).ISOWeek()
	return format(year, week)
}

// Date returns the calendar date (YYYY-MM-DD) containing t
func (c Calendar) Date(t time.Time) string {
	return t.In(c.loc()).Format(DateLayout)
}

// StartOfDay returns midnight of the calendar day containing t
func (c Calendar) StartOfDay(t time.Time) time.Time {
	local := t.In(c.loc())
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, c.loc())
}

// Bounds returns the half-open interval [start, end) covered by key.
// start is Monday 00:00 in the calendar's location.
func (c Calendar) Bounds(key string) (start, end time.Time, err error) {
	year, week, err := Parse(key)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start = mondayOfWeek1(year, c.loc()).AddDate(0, 0, (week-1)*7)
	return start, start.AddDate(0, 0, 7), nil
}

// Key returns the UTC week key for t
func Key(t time.Time) string {
	return UTC.Key(t)
}

// Parse validates key and returns its ISO week-year and week number
func Parse(key string) (year, week int, err error) {
	if len(key) != 8 || key[4] != '-' || key[5] != 'W' || !digits(key[:4]) || !digits(key[6:]) {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	year, _ = strconv.Atoi(key[:4])
	week, _ = strconv.Atoi(key[6:])
	if year < 1 || week < 1 || week > weeksInYear(year) {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return year, week, nil
}

func digits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func format(year, week int) string {
	return fmt.Sprintf("%04d-W%02d", year, week)
}

// mondayOfWeek1 finds the Monday of ISO week 1, which always contains January 4th
func mondayOfWeek1(year int, loc *time.Location) time.Time {
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, loc)
	offset := (int(jan4.Weekday()) + 6) % 7 // days since Monday
	return jan4.AddDate(0, 0, -offset)
}

// weeksInYear is 53 when December 28th falls in week 53
func weeksInYear(year int) int {
	_, week := time.Date(year, time.December, 28, 0, 0, 0, 0, time.UTC).ISOWeek()
	return week
}
