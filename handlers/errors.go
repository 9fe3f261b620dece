// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/audsmash/events"
	"github.com/danielhkuo/audsmash/middleware"
	"github.com/danielhkuo/audsmash/models"
	"github.com/danielhkuo/audsmash/weekkey"
)

// storeError maps a store or aggregator error to a response
func storeError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, models.ErrDuplicateVote):
		middleware.ErrorResponse(w, http.StatusConflict, "Already voted for this song this week")
	case errors.Is(err, models.ErrSongNotEligible):
		middleware.ErrorResponse(w, http.StatusConflict, "Song is not open for votes this week")
	case errors.Is(err, models.ErrDailyLimitExceeded):
		middleware.ErrorResponse(w, http.StatusTooManyRequests, "You can only change your song once per day")
	case errors.Is(err, models.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Not found")
	case errors.Is(err, models.ErrInvalidUsername),
		errors.Is(err, models.ErrInvalidCategory),
		errors.Is(err, models.ErrInvalidComment),
		errors.Is(err, models.ErrInvalidSong),
		errors.Is(err, weekkey.ErrInvalidKey):
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrDataUnavailable):
		slog.Error(op+" failed", "error", err)
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "Data temporarily unavailable")
	default:
		slog.Error(op+" failed", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Internal error")
	}
}

// weekParam returns the ?week= key, or current when it is absent
func weekParam(r *http.Request, current string) (string, error) {
	key := r.URL.Query().Get("week")
	if key == "" {
		return current, nil
	}
	if _, _, err := weekkey.Parse(key); err != nil {
		return "", err
	}
	return key, nil
}

// caller returns the authenticated profile. Routes behind Require always
// have one; a missing profile is answered with 401.
func caller(w http.ResponseWriter, r *http.Request) (*models.Profile, bool) {
	p, ok := middleware.ProfileFromContext(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Valid bearer token required")
	}
	return p, ok
}

// notify publishes e after a committed mutation. Delivery failures are
// logged; the mutation itself already succeeded.
func notify(ctx context.Context, pub events.Publisher, e events.Event) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, e); err != nil {
		slog.Warn("failed to publish event", "type", e.Type, "week", e.WeekKey, "error", err)
	}
}
