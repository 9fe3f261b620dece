// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/jmoiron/sqlx"

	"github.com/danielhkuo/audsmash/models"
)

const profileColumns = `id, username, avatar_url, total_weekly_votes, created_at, updated_at`

// DefaultAvatarURL returns the generated avatar used until a user uploads one
func DefaultAvatarURL(username string) string {
	return "https://api.dicebear.com/7.x/avataaars/svg?seed=" + url.QueryEscape(username)
}

// NormalizeUsername trims and validates a username
func NormalizeUsername(username string) (string, error) {
	username = strings.TrimSpace(username)
	n := utf8.RuneCountInString(username)
	if n == 0 || n > models.MaxUsernameLength {
		return "", models.ErrInvalidUsername
	}
	return username, nil
}

// EnsureProfile creates the profile for an authenticated identity on first
// sight and returns the stored row. Existing profiles are left untouched.
func (s *Store) EnsureProfile(ctx context.Context, id, username string, avatarURL *string) (*models.Profile, error) {
	name, err := NormalizeUsername(username)
	if err != nil {
		// Fall back to a stable handle derived from the id
		name = "user-" + id
		if len(id) > 8 {
			name = "user-" + id[:8]
		}
	}
	if avatarURL == nil || *avatarURL == "" {
		def := DefaultAvatarURL(name)
		avatarURL = &def
	}

	now := s.Now()
	_, err = s.db.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO profile (id, username, avatar_url, total_weekly_votes, created_at, updated_at)
		VALUES (?, ?, ?, 0, ?, ?)
		ON CONFLICT (id) DO NOTHING
	`), id, name, avatarURL, now, now)
	if err != nil {
		return nil, unavailable("ensure profile", err)
	}

	return s.GetProfile(ctx, id)
}

// GetProfile loads one profile by id
func (s *Store) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	var p models.Profile
	err := s.db.GetContext(ctx, &p, s.db.Rebind(`SELECT `+profileColumns+` FROM profile WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("profile %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, unavailable("get profile", err)
	}
	return &p, nil
}

// ProfilesByIDs loads profiles keyed by id; missing ids are absent from the map
func (s *Store) ProfilesByIDs(ctx context.Context, ids []string) (map[string]models.Profile, error) {
	out := make(map[string]models.Profile, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	query, args, err := sqlx.In(`SELECT `+profileColumns+` FROM profile WHERE id IN (?)`, ids)
	if err != nil {
		return nil, fmt.Errorf("profiles by ids: %w", err)
	}

	var profiles []models.Profile
	if err := s.db.SelectContext(ctx, &profiles, s.db.Rebind(query), args...); err != nil {
		return nil, unavailable("profiles by ids", err)
	}
	for _, p := range profiles {
		out[p.ID] = p
	}
	return out, nil
}

// UpdateUsername renames a profile
func (s *Store) UpdateUsername(ctx context.Context, id, username string) (*models.Profile, error) {
	name, err := NormalizeUsername(username)
	if err != nil {
		return nil, err
	}
	if err := s.updateProfile(ctx, "update username", `username = ?`, id, name); err != nil {
		return nil, err
	}
	return s.GetProfile(ctx, id)
}

// UpdateAvatar sets or clears the avatar URL
func (s *Store) UpdateAvatar(ctx context.Context, id string, avatarURL *string) (*models.Profile, error) {
	if avatarURL != nil && strings.TrimSpace(*avatarURL) == "" {
		avatarURL = nil
	}
	if err := s.updateProfile(ctx, "update avatar", `avatar_url = ?`, id, avatarURL); err != nil {
		return nil, err
	}
	return s.GetProfile(ctx, id)
}

func (s *Store) updateProfile(ctx context.Context, op, set, id string, value any) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`
		UPDATE profile SET `+set+`, updated_at = ? WHERE id = ?
	`), value, s.Now(), id)
	if err != nil {
		return unavailable(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return unavailable(op, err)
	}
	if n == 0 {
		return fmt.Errorf("profile %s: %w", id, models.ErrNotFound)
	}
	return nil
}

// RefreshWeeklyTotals rewrites every profile's total_weekly_votes cache from
// the ledger for weekKey. The cache is advisory; rankings never read it.
func (s *Store) RefreshWeeklyTotals(ctx context.Context, weekKey string) (int64, error) {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`
		UPDATE profile SET total_weekly_votes = (
			SELECT COUNT(*)
			FROM vote v
			JOIN song s ON s.id = v.song_id
			WHERE s.user_id = profile.id
			  AND s.is_active = TRUE
			  AND s.week_year = ?
			  AND v.week_year = ?
		)
	`), weekKey, weekKey)
	if err != nil {
		return 0, unavailable("refresh weekly totals", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, unavailable("refresh weekly totals", err)
	}
	return n, nil
}
