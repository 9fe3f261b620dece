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

type ProfileHandler struct {
	store *store.Store
}

func NewProfileHandler(st *store.Store) *ProfileHandler {
	return &ProfileHandler{store: st}
}

// GetMe handles GET /profiles/me
func (h *ProfileHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	p, ok := caller(w, r)
	if !ok {
		return
	}
	middleware.JSONResponse(w, http.StatusOK, p)
}

// UpdateMe handles PATCH /profiles/me
func (h *ProfileHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	p, ok := caller(w, r)
	if !ok {
		return
	}

	var req models.UpdateProfileRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Username == nil && req.AvatarURL == nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "username or avatar_url is required")
		return
	}

	// Validate before writing anything so a bad username leaves the avatar alone
	if req.Username != nil {
		if _, err := store.NormalizeUsername(*req.Username); err != nil {
			storeError(w, err, "update profile")
			return
		}
	}

	updated := p
	var err error
	if req.Username != nil {
		if updated, err = h.store.UpdateUsername(r.Context(), p.ID, *req.Username); err != nil {
			storeError(w, err, "update profile")
			return
		}
	}
	if req.AvatarURL != nil {
		if updated, err = h.store.UpdateAvatar(r.Context(), p.ID, req.AvatarURL); err != nil {
			storeError(w, err, "update profile")
			return
		}
	}

	slog.Info("profile updated", "profile_id", p.ID)

	middleware.JSONResponse(w, http.StatusOK, updated)
}

// GetProfile handles GET /profiles/{id}
// Current songs carry this week's votes, past songs their all-time votes.
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	ctx := r.Context()
	profile, err := h.store.GetProfile(ctx, id)
	if err != nil {
		storeError(w, err, "get profile")
		return
	}

	songs, err := h.store.SongsByUser(ctx, id)
	if err != nil {
		storeError(w, err, "get profile")
		return
	}

	week := h.store.CurrentWeek()
	var currentIDs, pastIDs []string
	for _, s := range songs {
		if s.IsActive && s.WeekYear == week {
			currentIDs = append(currentIDs, s.ID)
		} else {
			pastIDs = append(pastIDs, s.ID)
		}
	}

	weekCounts, err := h.store.CountVotesForSongs(ctx, currentIDs, week)
	if err != nil {
		storeError(w, err, "get profile")
		return
	}
	allCounts, err := h.store.CountAllVotesForSongs(ctx, pastIDs)
	if err != nil {
		storeError(w, err, "get profile")
		return
	}

	resp := models.ProfilePageResponse{
		Profile:      *profile,
		CurrentSongs: []models.SongWithVotes{},
		PastSongs:    []models.SongWithVotes{},
	}
	for _, s := range songs {
		if n, ok := weekCounts[s.ID]; ok {
			resp.CurrentSongs = append(resp.CurrentSongs, models.SongWithVotes{Song: s, VoteCount: n})
			resp.WeekVotes += n
			continue
		}
		resp.PastSongs = append(resp.PastSongs, models.SongWithVotes{Song: s, VoteCount: allCounts[s.ID]})
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}
