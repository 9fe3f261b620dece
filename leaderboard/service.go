// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package leaderboard

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/danielhkuo/audsmash/models"
)

// Service serves leaderboards, merging concurrent requests for the same week
// into one computation. Results are never cached past that computation.
type Service struct {
	agg   *Aggregator
	group singleflight.Group
	now   func() time.Time
}

func NewService(agg *Aggregator) *Service {
	return &Service{agg: agg, now: time.Now}
}

// Leaderboard computes the leaderboard for weekKey
func (s *Service) Leaderboard(ctx context.Context, weekKey string) (*models.LeaderboardResponse, error) {
	v, err, _ := s.group.Do(weekKey, func() (interface{}, error) {
		// Shared by every waiting caller, so one caller leaving must not
		// cancel the others
		entries, err := s.agg.Compute(context.WithoutCancel(ctx), weekKey)
		if err != nil {
			return nil, err
		}
		return &models.LeaderboardResponse{
			WeekYear:   weekKey,
			ComputedAt: s.now().UTC(),
			Entries:    entries,
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.LeaderboardResponse), nil
}
