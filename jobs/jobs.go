// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/danielhkuo/audsmash/weekkey"
)

// WeekRollover fires when a new competition week starts (Monday 00:00)
const WeekRollover = "0 0 * * 1"

// refreshTimeout bounds a single refresh run
const refreshTimeout = 2 * time.Minute

// TotalsRefresher rewrites the cached weekly vote totals
type TotalsRefresher interface {
	RefreshWeeklyTotals(ctx context.Context, weekKey string) (int64, error)
}

// Scheduler runs the periodic totals refresh in the competition time zone
type Scheduler struct {
	cron     *cron.Cron
	totals   TotalsRefresher
	cal      weekkey.Calendar
	schedule string
	now      func() time.Time
}

func NewScheduler(totals TotalsRefresher, cal weekkey.Calendar, schedule string) *Scheduler {
	loc := cal.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		totals:   totals,
		cal:      cal,
		schedule: schedule,
		now:      time.Now,
	}
}

// Start registers the refresh on its schedule and at every week rollover
func (s *Scheduler) Start() error {
	for _, spec := range []string{s.schedule, WeekRollover} {
		if _, err := s.cron.AddFunc(spec, s.runScheduled); err != nil {
			return fmt.Errorf("invalid schedule %q: %w", spec, err)
		}
	}

	s.cron.Start()
	slog.Info("scheduler started", "totals_schedule", s.schedule, "rollover", WeekRollover)
	return nil
}

// Stop halts the scheduler and waits for a running job to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	slog.Info("scheduler stopped")
}

// RunNow refreshes the current week's totals immediately
func (s *Scheduler) RunNow(ctx context.Context) error {
	week := s.cal.Key(s.now())
	start := time.Now()

	n, err := s.totals.RefreshWeeklyTotals(ctx, week)
	if err != nil {
		return fmt.Errorf("refresh totals for %s: %w", week, err)
	}

	slog.Info("weekly totals refreshed",
		"week_year", week,
		"profiles", n,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

func (s *Scheduler) runScheduled() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	if err := s.RunNow(ctx); err != nil {
		slog.Error("scheduled totals refresh failed", "error", err)
	}
}
