// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"

	"github.com/danielhkuo/audsmash/events"
	"github.com/danielhkuo/audsmash/leaderboard"
	"github.com/danielhkuo/audsmash/middleware"
	"github.com/danielhkuo/audsmash/store"
)

type LeaderboardHandler struct {
	base    context.Context
	store   *store.Store
	service *leaderboard.Service
	hub     *events.Hub
}

// NewLeaderboardHandler serves rankings from service. hub feeds the live
// endpoint and may be nil when live updates are disabled. Live connections
// are closed with CloseGoingAway once base is done.
func NewLeaderboardHandler(base context.Context, st *store.Store, service *leaderboard.Service, hub *events.Hub) *LeaderboardHandler {
	return &LeaderboardHandler{base: base, store: st, service: service, hub: hub}
}

// GetLeaderboard handles GET /leaderboard?week=
func (h *LeaderboardHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	week, err := weekParam(r, h.store.CurrentWeek())
	if err != nil {
		storeError(w, err, "leaderboard")
		return
	}

	resp, err := h.service.Leaderboard(r.Context(), week)
	if err != nil {
		storeError(w, err, "leaderboard")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}
