// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/audsmash/models"
)

// SongSource lists the active songs entered in a week
type SongSource interface {
	ActiveSongsForWeek(ctx context.Context, weekKey, category string) ([]models.Song, error)
}

// VoteCounter tallies a week's votes for many songs at once
type VoteCounter interface {
	CountVotesForSongs(ctx context.Context, songIDs []string, weekKey string) (map[string]int, error)
}

// ProfileSource loads profiles in bulk
type ProfileSource interface {
	ProfilesByIDs(ctx context.Context, ids []string) (map[string]models.Profile, error)
}

// Aggregator ranks song owners by the votes their active songs received in a
// week. It keeps no state between calls; every Compute reads the ledger.
type Aggregator struct {
	songs    SongSource
	votes    VoteCounter
	profiles ProfileSource
}

func NewAggregator(songs SongSource, votes VoteCounter, profiles ProfileSource) *Aggregator {
	return &Aggregator{songs: songs, votes: votes, profiles: profiles}
}

// ownerTally accumulates one owner's week
type ownerTally struct {
	ownerID string
	total   int
	current models.Song
}

// Compute returns the ranked leaderboard for weekKey.
//
// Owners with zero votes are omitted. Entries are ordered by total votes
// descending; ties go to the owner whose current song was entered first, then
// to the lower profile id. Any read failure aborts the whole computation.
func (a *Aggregator) Compute(ctx context.Context, weekKey string) ([]models.LeaderboardEntry, error) {
	songs, err := a.songs.ActiveSongsForWeek(ctx, weekKey, "")
	if err != nil {
		return nil, unavailable("fetch active songs", err)
	}
	if len(songs) == 0 {
		return []models.LeaderboardEntry{}, nil
	}

	songIDs := make([]string, len(songs))
	for i, s := range songs {
		songIDs[i] = s.ID
	}

	counts, err := a.votes.CountVotesForSongs(ctx, songIDs, weekKey)
	if err != nil {
		return nil, unavailable("count votes", err)
	}

	// Group by owner; an owner with several active songs gets their sum
	tallies := make(map[string]*ownerTally)
	for _, s := range songs {
		t, ok := tallies[s.UserID]
		if !ok {
			t = &ownerTally{ownerID: s.UserID, current: s}
			tallies[s.UserID] = t
		} else if newer(s, t.current) {
			t.current = s
		}
		t.total += counts[s.ID]
	}

	var ranked []*ownerTally
	var ownerIDs []string
	for _, t := range tallies {
		if t.total > 0 {
			ranked = append(ranked, t)
			ownerIDs = append(ownerIDs, t.ownerID)
		}
	}
	if len(ranked) == 0 {
		return []models.LeaderboardEntry{}, nil
	}

	profiles, err := a.profiles.ProfilesByIDs(ctx, ownerIDs)
	if err != nil {
		return nil, unavailable("fetch profiles", err)
	}

	sort.Slice(ranked, func(i, j int) bool {
		x, y := ranked[i], ranked[j]

		// 1. More votes wins
		if x.total != y.total {
			return x.total > y.total
		}

		// 2. Earlier entry wins
		if !x.current.CreatedAt.Equal(y.current.CreatedAt) {
			return x.current.CreatedAt.Before(y.current.CreatedAt)
		}

		// 3. Stable tie-breaking by profile ID (ascending)
		return x.ownerID < y.ownerID
	})

	entries := make([]models.LeaderboardEntry, len(ranked))
	for i, t := range ranked {
		profile, ok := profiles[t.ownerID]
		if !ok {
			return nil, fmt.Errorf("leaderboard: profile %s: %w", t.ownerID, models.ErrNotFound)
		}
		song := t.current
		entries[i] = models.LeaderboardEntry{
			Rank:        i + 1, // 1-indexed ranking
			RankLabel:   humanize.Ordinal(i + 1),
			Profile:     profile,
			TotalVotes:  t.total,
			CurrentSong: &song,
		}
	}

	return entries, nil
}

// newer reports whether a was entered after b
func newer(a, b models.Song) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

func unavailable(op string, err error) error {
	if errors.Is(err, models.ErrDataUnavailable) {
		return fmt.Errorf("leaderboard: %s: %w", op, err)
	}
	return fmt.Errorf("leaderboard: %s: %w: %w", op, models.ErrDataUnavailable, err)
}
