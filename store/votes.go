// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/danielhkuo/audsmash/models"
)

const insertVote = `
	INSERT INTO vote (id, song_id, voter_id, week_year, created_at)
	VALUES (:id, :song_id, :voter_id, :week_year, :created_at)
`

// CastVote records one vote for (songID, voterID, weekKey).
// A second cast of the same triple, including a concurrent one, returns
// ErrDuplicateVote and leaves exactly one row.
func (s *Store) CastVote(ctx context.Context, songID, voterID, weekKey string) (*models.Vote, error) {
	vote := models.Vote{
		ID:        uuid.NewString(),
		SongID:    songID,
		VoterID:   voterID,
		WeekYear:  weekKey,
		CreatedAt: s.Now(),
	}

	if _, err := s.db.NamedExecContext(ctx, insertVote, vote); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("cast vote: %w", models.ErrDuplicateVote)
		}
		return nil, unavailable("cast vote", err)
	}

	return &vote, nil
}

// RemoveVote deletes the matching vote. Removing a vote that does not exist
// is a no-op; removed reports whether a row was deleted.
func (s *Store) RemoveVote(ctx context.Context, songID, voterID, weekKey string) (removed bool, err error) {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`
		DELETE FROM vote WHERE song_id = ? AND voter_id = ? AND week_year = ?
	`), songID, voterID, weekKey)
	if err != nil {
		return false, unavailable("remove vote", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, unavailable("remove vote", err)
	}
	return n > 0, nil
}

// ToggleVote removes the vote if present, otherwise casts it.
// voted reports the state after the call.
func (s *Store) ToggleVote(ctx context.Context, songID, voterID, weekKey string) (voted bool, err error) {
	err = s.withTx(ctx, "toggle vote", func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, tx.Rebind(`
			DELETE FROM vote WHERE song_id = ? AND voter_id = ? AND week_year = ?
		`), songID, voterID, weekKey)
		if err != nil {
			return unavailable("toggle vote", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return unavailable("toggle vote", err)
		}
		if n > 0 {
			voted = false
			return nil
		}

		vote := models.Vote{
			ID:        uuid.NewString(),
			SongID:    songID,
			VoterID:   voterID,
			WeekYear:  weekKey,
			CreatedAt: s.Now(),
		}
		if _, err := tx.NamedExecContext(ctx, insertVote, vote); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("toggle vote: %w", models.ErrDuplicateVote)
			}
			return unavailable("toggle vote", err)
		}
		voted = true
		return nil
	})
	return voted, err
}

// CountVotes returns the number of votes songID received in weekKey
func (s *Store) CountVotes(ctx context.Context, songID, weekKey string) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, s.db.Rebind(`
		SELECT COUNT(*) FROM vote WHERE song_id = ? AND week_year = ?
	`), songID, weekKey)
	if err != nil {
		return 0, unavailable("count votes", err)
	}
	return count, nil
}

// CountVotesForSongs tallies votes for many songs in one query.
// Every requested id is present in the result, zero when it has no votes.
func (s *Store) CountVotesForSongs(ctx context.Context, songIDs []string, weekKey string) (map[string]int, error) {
	counts := zeroCounts(songIDs)
	if len(songIDs) == 0 {
		return counts, nil
	}

	query, args, err := sqlx.In(`
		SELECT song_id, COUNT(*) AS vote_count
		FROM vote
		WHERE week_year = ? AND song_id IN (?)
		GROUP BY song_id
	`, weekKey, songIDs)
	if err != nil {
		return nil, fmt.Errorf("count votes for songs: %w", err)
	}

	var rows []models.SongVoteCount
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, unavailable("count votes for songs", err)
	}

	for _, row := range rows {
		counts[row.SongID] = row.VoteCount
	}
	return counts, nil
}

// CountAllVotesForSongs tallies votes across every week, used for profile history
func (s *Store) CountAllVotesForSongs(ctx context.Context, songIDs []string) (map[string]int, error) {
	counts := zeroCounts(songIDs)
	if len(songIDs) == 0 {
		return counts, nil
	}

	query, args, err := sqlx.In(`
		SELECT song_id, COUNT(*) AS vote_count
		FROM vote
		WHERE song_id IN (?)
		GROUP BY song_id
	`, songIDs)
	if err != nil {
		return nil, fmt.Errorf("count all votes for songs: %w", err)
	}

	var rows []models.SongVoteCount
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, unavailable("count all votes for songs", err)
	}

	for _, row := range rows {
		counts[row.SongID] = row.VoteCount
	}
	return counts, nil
}

// VotedSongs reports which of songIDs voterID has voted for in weekKey
func (s *Store) VotedSongs(ctx context.Context, voterID, weekKey string, songIDs []string) (map[string]bool, error) {
	voted := make(map[string]bool, len(songIDs))
	if len(songIDs) == 0 || voterID == "" {
		return voted, nil
	}

	query, args, err := sqlx.In(`
		SELECT song_id FROM vote
		WHERE voter_id = ? AND week_year = ? AND song_id IN (?)
	`, voterID, weekKey, songIDs)
	if err != nil {
		return nil, fmt.Errorf("voted songs: %w", err)
	}

	var ids []string
	if err := s.db.SelectContext(ctx, &ids, s.db.Rebind(query), args...); err != nil {
		return nil, unavailable("voted songs", err)
	}

	for _, id := range ids {
		voted[id] = true
	}
	return voted, nil
}

// TopSongsSince ranks songs by votes cast in weekKey at or after since
func (s *Store) TopSongsSince(ctx context.Context, weekKey string, since time.Time, limit int) ([]models.SongVoteCount, error) {
	var rows []models.SongVoteCount
	err := s.db.SelectContext(ctx, &rows, s.db.Rebind(`
		SELECT song_id, COUNT(*) AS vote_count
		FROM vote
		WHERE week_year = ? AND created_at >= ?
		GROUP BY song_id
		ORDER BY vote_count DESC, song_id
		LIMIT ?
	`), weekKey, since.UTC(), limit)
	if err != nil {
		return nil, unavailable("top songs", err)
	}
	return rows, nil
}
