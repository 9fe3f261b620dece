// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/danielhkuo/audsmash/models"
)

const songColumns = `id, user_id, video_id, title, thumbnail, channel_name, category,
	start_time, is_active, week_year, created_at, updated_at`

// ValidateSong normalises and checks a submission before activation
func ValidateSong(req *models.SubmitSongRequest) error {
	req.VideoID = strings.TrimSpace(req.VideoID)
	req.Title = strings.TrimSpace(req.Title)
	req.Thumbnail = strings.TrimSpace(req.Thumbnail)

	if req.VideoID == "" || req.Title == "" || req.Thumbnail == "" {
		return fmt.Errorf("%w: video_id, title and thumbnail are required", models.ErrInvalidSong)
	}
	if utf8.RuneCountInString(req.Title) > models.MaxTitleLength {
		return fmt.Errorf("%w: title exceeds %d characters", models.ErrInvalidSong, models.MaxTitleLength)
	}
	if req.StartTime < 0 {
		return fmt.Errorf("%w: start_time must not be negative", models.ErrInvalidSong)
	}
	if !models.IsValidCategory(req.Category) {
		return fmt.Errorf("%w: %q", models.ErrInvalidCategory, req.Category)
	}
	return nil
}

// ActivateSong makes req the actor's active song for the current week.
//
// In one transaction it claims the actor's change slot for today, deactivates
// the actor's previously active song and inserts the new one. The slot is
// claimed first, so of two concurrent activations on the same day exactly one
// succeeds and the other returns ErrDailyLimitExceeded with no effect.
func (s *Store) ActivateSong(ctx context.Context, actorID string, req models.SubmitSongRequest) (*models.Song, *models.SongChange, error) {
	if err := ValidateSong(&req); err != nil {
		return nil, nil, err
	}

	now := s.Now()
	song := models.Song{
		ID:          uuid.NewString(),
		UserID:      actorID,
		VideoID:     req.VideoID,
		Title:       req.Title,
		Thumbnail:   req.Thumbnail,
		ChannelName: req.ChannelName,
		Category:    req.Category,
		StartTime:   req.StartTime,
		IsActive:    true,
		WeekYear:    s.cal.Key(now),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	change := models.SongChange{
		ID:         uuid.NewString(),
		UserID:     actorID,
		NewSongID:  &song.ID,
		ChangeDate: s.cal.Date(now),
		CreatedAt:  now,
	}

	err := s.withTx(ctx, "activate song", func(tx *sqlx.Tx) error {
		var previous []string
		if err := tx.SelectContext(ctx, &previous, tx.Rebind(`
			SELECT id FROM song WHERE user_id = ? AND is_active = TRUE ORDER BY created_at DESC
		`), actorID); err != nil {
			return unavailable("activate song", err)
		}
		if len(previous) > 0 {
			change.OldSongID = &previous[0]
		}

		if _, err := tx.NamedExecContext(ctx, `
			INSERT INTO song_change (id, user_id, old_song_id, new_song_id, change_date, created_at)
			VALUES (:id, :user_id, :old_song_id, :new_song_id, :change_date, :created_at)
		`, change); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("activate song: %w", models.ErrDailyLimitExceeded)
			}
			return unavailable("activate song", err)
		}

		if _, err := tx.ExecContext(ctx, tx.Rebind(`
			UPDATE song SET is_active = FALSE, updated_at = ? WHERE user_id = ? AND is_active = TRUE
		`), now, actorID); err != nil {
			return unavailable("activate song", err)
		}

		if _, err := tx.NamedExecContext(ctx, `
			INSERT INTO song (`+songColumns+`)
			VALUES (:id, :user_id, :video_id, :title, :thumbnail, :channel_name, :category,
				:start_time, :is_active, :week_year, :created_at, :updated_at)
		`, song); err != nil {
			return unavailable("activate song", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return &song, &change, nil
}

// CanChangeToday reports whether userID still has today's change available
func (s *Store) CanChangeToday(ctx context.Context, userID string) (bool, string, error) {
	date := s.cal.Date(s.Now())

	var count int
	err := s.db.GetContext(ctx, &count, s.db.Rebind(`
		SELECT COUNT(*) FROM song_change WHERE user_id = ? AND change_date = ?
	`), userID, date)
	if err != nil {
		return false, date, unavailable("change status", err)
	}
	return count == 0, date, nil
}

// GetSong loads one song by id
func (s *Store) GetSong(ctx context.Context, id string) (*models.Song, error) {
	var song models.Song
	err := s.db.GetContext(ctx, &song, s.db.Rebind(`SELECT `+songColumns+` FROM song WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("song %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, unavailable("get song", err)
	}
	return &song, nil
}

// ActiveSongsForWeek returns every active song entered in weekKey, newest
// first. An empty category matches all categories.
func (s *Store) ActiveSongsForWeek(ctx context.Context, weekKey, category string) ([]models.Song, error) {
	query := `SELECT ` + songColumns + ` FROM song WHERE is_active = TRUE AND week_year = ?`
	args := []any{weekKey}
	if category != "" {
		query += ` AND category = ?`
		args = append(args, category)
	}
	query += ` ORDER BY created_at DESC, id`

	songs := []models.Song{}
	if err := s.db.SelectContext(ctx, &songs, s.db.Rebind(query), args...); err != nil {
		return nil, unavailable("active songs", err)
	}
	return songs, nil
}

// SongsByIDs loads songs keyed by id; missing ids are absent from the map
func (s *Store) SongsByIDs(ctx context.Context, ids []string) (map[string]models.Song, error) {
	out := make(map[string]models.Song, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	query, args, err := sqlx.In(`SELECT `+songColumns+` FROM song WHERE id IN (?)`, ids)
	if err != nil {
		return nil, fmt.Errorf("songs by ids: %w", err)
	}

	var songs []models.Song
	if err := s.db.SelectContext(ctx, &songs, s.db.Rebind(query), args...); err != nil {
		return nil, unavailable("songs by ids", err)
	}
	for _, song := range songs {
		out[song.ID] = song
	}
	return out, nil
}

// SongsByUser returns every song userID has entered, newest first
func (s *Store) SongsByUser(ctx context.Context, userID string) ([]models.Song, error) {
	songs := []models.Song{}
	err := s.db.SelectContext(ctx, &songs, s.db.Rebind(`
		SELECT `+songColumns+` FROM song WHERE user_id = ? ORDER BY created_at DESC, id
	`), userID)
	if err != nil {
		return nil, unavailable("songs by user", err)
	}
	return songs, nil
}
