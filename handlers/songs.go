// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/audsmash/events"
	"github.com/danielhkuo/audsmash/middleware"
	"github.com/danielhkuo/audsmash/models"
	"github.com/danielhkuo/audsmash/store"
)

// TopTodayLimit is how many songs GET /songs/top-today returns
const TopTodayLimit = 3

type SongHandler struct {
	store *store.Store
	pub   events.Publisher
}

func NewSongHandler(st *store.Store, pub events.Publisher) *SongHandler {
	return &SongHandler{store: st, pub: pub}
}

// ListSongs handles GET /songs?week=&category=
func (h *SongHandler) ListSongs(w http.ResponseWriter, r *http.Request) {
	week, err := weekParam(r, h.store.CurrentWeek())
	if err != nil {
		storeError(w, err, "list songs")
		return
	}
	category := r.URL.Query().Get("category")
	if category != "" && !models.IsValidCategory(category) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Unknown category")
		return
	}

	ctx := r.Context()
	songs, err := h.store.ActiveSongsForWeek(ctx, week, category)
	if err != nil {
		storeError(w, err, "list songs")
		return
	}

	ids := make([]string, len(songs))
	for i, s := range songs {
		ids[i] = s.ID
	}
	counts, err := h.store.CountVotesForSongs(ctx, ids, week)
	if err != nil {
		storeError(w, err, "list songs")
		return
	}

	voted := map[string]bool{}
	if p, ok := middleware.ProfileFromContext(ctx); ok {
		if voted, err = h.store.VotedSongs(ctx, p.ID, week, ids); err != nil {
			storeError(w, err, "list songs")
			return
		}
	}

	out, err := h.withOwners(ctx, songs)
	if err != nil {
		storeError(w, err, "list songs")
		return
	}
	for i := range out {
		out[i].VoteCount = counts[out[i].ID]
		out[i].UserVoted = voted[out[i].ID]
	}

	middleware.JSONResponse(w, http.StatusOK, out)
}

// TopToday handles GET /songs/top-today
// Counts only votes cast since the start of today in the competition zone.
func (h *SongHandler) TopToday(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	week := h.store.CurrentWeek()
	since := h.store.Calendar().StartOfDay(h.store.Now())

	top, err := h.store.TopSongsSince(ctx, week, since, TopTodayLimit)
	if err != nil {
		storeError(w, err, "top today")
		return
	}

	ids := make([]string, len(top))
	for i, t := range top {
		ids[i] = t.SongID
	}
	byID, err := h.store.SongsByIDs(ctx, ids)
	if err != nil {
		storeError(w, err, "top today")
		return
	}

	songs := make([]models.Song, 0, len(top))
	for _, t := range top {
		if s, ok := byID[t.SongID]; ok {
			songs = append(songs, s)
		}
	}
	out, err := h.withOwners(ctx, songs)
	if err != nil {
		storeError(w, err, "top today")
		return
	}

	today := make(map[string]int, len(top))
	for _, t := range top {
		today[t.SongID] = t.VoteCount
	}
	for i := range out {
		out[i].VoteCount = today[out[i].ID]
	}

	middleware.JSONResponse(w, http.StatusOK, out)
}

// SubmitSong handles POST /songs
func (h *SongHandler) SubmitSong(w http.ResponseWriter, r *http.Request) {
	p, ok := caller(w, r)
	if !ok {
		return
	}

	var req models.SubmitSongRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	song, change, err := h.store.ActivateSong(r.Context(), p.ID, req)
	if err != nil {
		storeError(w, err, "submit song")
		return
	}

	slog.Info("song activated", "profile_id", p.ID, "song_id", song.ID, "week", song.WeekYear)
	notify(r.Context(), h.pub, events.Event{
		Type:    events.SongActivated,
		WeekKey: song.WeekYear,
		SongID:  song.ID,
		ActorID: p.ID,
		At:      song.CreatedAt,
	})

	middleware.JSONResponse(w, http.StatusCreated, models.SubmitSongResponse{
		Song:   *song,
		Change: *change,
	})
}

// ChangeStatus handles GET /songs/change-status
func (h *SongHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	p, ok := caller(w, r)
	if !ok {
		return
	}

	can, date, err := h.store.CanChangeToday(r.Context(), p.ID)
	if err != nil {
		storeError(w, err, "change status")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ChangeStatusResponse{
		CanChangeToday: can,
		ChangeDate:     date,
	})
}

// withOwners wraps songs, keeping their order, and attaches owner profiles
func (h *SongHandler) withOwners(ctx context.Context, songs []models.Song) ([]models.SongWithVotes, error) {
	owners := make([]string, 0, len(songs))
	for _, s := range songs {
		owners = append(owners, s.UserID)
	}
	profiles, err := h.store.ProfilesByIDs(ctx, owners)
	if err != nil {
		return nil, err
	}

	out := make([]models.SongWithVotes, len(songs))
	for i, s := range songs {
		out[i] = models.SongWithVotes{Song: s}
		if p, ok := profiles[s.UserID]; ok {
			out[i].Profile = &p
		}
	}
	return out, nil
}
