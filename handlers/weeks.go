// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/audsmash/middleware"
	"github.com/danielhkuo/audsmash/models"
	"github.com/danielhkuo/audsmash/store"
)

type WeekHandler struct {
	store *store.Store
}

func NewWeekHandler(st *store.Store) *WeekHandler {
	return &WeekHandler{store: st}
}

// Current handles GET /weeks/current
func (h *WeekHandler) Current(w http.ResponseWriter, r *http.Request) {
	key := h.store.CurrentWeek()
	start, end, err := h.store.Calendar().Bounds(key)
	if err != nil {
		slog.Error("failed to compute week bounds", "week", key, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to compute week")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.WeekResponse{
		WeekYear: key,
		StartsAt: start,
		EndsAt:   end,
	})
}
