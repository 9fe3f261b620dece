// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/danielhkuo/audsmash/models"
	"github.com/danielhkuo/audsmash/weekkey"
)

// Store is the persistent store for profiles, songs, votes, comments and
// song changes. All uniqueness rules are enforced by the schema; Store only
// translates constraint violations into model errors.
type Store struct {
	db  *sqlx.DB
	cal weekkey.Calendar
	now func() time.Time
}

type Option func(*Store)

// WithCalendar sets the calendar used for week keys and change dates
func WithCalendar(cal weekkey.Calendar) Option {
	return func(s *Store) { s.cal = cal }
}

// WithClock overrides time.Now (tests)
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func New(db *sqlx.DB, opts ...Option) *Store {
	s := &Store{db: db, cal: weekkey.UTC, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DB exposes the underlying handle for health checks
func (s *Store) DB() *sqlx.DB { return s.db }

// Calendar returns the competition calendar
func (s *Store) Calendar() weekkey.Calendar { return s.cal }

// Now returns the store clock, truncated to the precision PostgreSQL keeps
func (s *Store) Now() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// CurrentWeek returns the week key for the store clock
func (s *Store) CurrentWeek() string {
	return s.cal.Key(s.Now())
}

// withTx runs fn in a transaction, rolling back on any error
func (s *Store) withTx(ctx context.Context, op string, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return unavailable(op+": begin transaction", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return unavailable(op+": commit", err)
	}
	return nil
}

// unavailable wraps a store failure so callers can match ErrDataUnavailable
// and still see the driver error
func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, models.ErrDataUnavailable, err)
}

// isUniqueViolation recognises unique index violations from both drivers
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		}
	}

	// Drivers without extended result codes only report the message
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// zeroCounts seeds a count map so every requested id is present
func zeroCounts(ids []string) map[string]int {
	counts := make(map[string]int, len(ids))
	for _, id := range ids {
		counts[id] = 0
	}
	return counts
}
