// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/danielhkuo/audsmash/models"
)

// AddComment stores a comment on songID. The song must exist.
func (s *Store) AddComment(ctx context.Context, songID, userID, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	n := utf8.RuneCountInString(content)
	if n == 0 || n > models.MaxCommentLength {
		return nil, models.ErrInvalidComment
	}

	if _, err := s.GetSong(ctx, songID); err != nil {
		return nil, err
	}

	now := s.Now()
	c := models.Comment{
		ID:        uuid.NewString(),
		SongID:    songID,
		UserID:    userID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := s.db.NamedExecContext(ctx, `
		INSERT INTO comment (id, song_id, user_id, content, created_at, updated_at)
		VALUES (:id, :song_id, :user_id, :content, :created_at, :updated_at)
	`, c); err != nil {
		return nil, unavailable("add comment", err)
	}
	return &c, nil
}

// CommentsForSong lists a song's comments, newest first
func (s *Store) CommentsForSong(ctx context.Context, songID string) ([]models.Comment, error) {
	comments := []models.Comment{}
	err := s.db.SelectContext(ctx, &comments, s.db.Rebind(`
		SELECT id, song_id, user_id, content, created_at, updated_at
		FROM comment
		WHERE song_id = ?
		ORDER BY created_at DESC, id
	`), songID)
	if err != nil {
		return nil, unavailable("list comments", err)
	}
	return comments, nil
}
