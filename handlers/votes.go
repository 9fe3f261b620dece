// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"

	"github.com/danielhkuo/audsmash/events"
	"github.com/danielhkuo/audsmash/middleware"
	"github.com/danielhkuo/audsmash/models"
	"github.com/danielhkuo/audsmash/store"
)

// VoteHandler records votes in the current week only
type VoteHandler struct {
	store *store.Store
	pub   events.Publisher
}

func NewVoteHandler(st *store.Store, pub events.Publisher) *VoteHandler {
	return &VoteHandler{store: st, pub: pub}
}

// CastVote handles POST /songs/{id}/votes
func (h *VoteHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	p, ok := caller(w, r)
	if !ok {
		return
	}
	songID := r.PathValue("id")

	ctx := r.Context()
	week := h.store.CurrentWeek()
	if err := h.eligible(ctx, songID, week); err != nil {
		storeError(w, err, "cast vote")
		return
	}

	vote, err := h.store.CastVote(ctx, songID, p.ID, week)
	if err != nil {
		storeError(w, err, "cast vote")
		return
	}
	notify(ctx, h.pub, events.Event{Type: events.VoteCast, WeekKey: week, SongID: songID, ActorID: p.ID, At: vote.CreatedAt})

	h.respond(w, r, http.StatusCreated, songID, week, true)
}

// RemoveVote handles DELETE /songs/{id}/votes
// Removing a vote that was never cast still answers 204.
func (h *VoteHandler) RemoveVote(w http.ResponseWriter, r *http.Request) {
	p, ok := caller(w, r)
	if !ok {
		return
	}
	songID := r.PathValue("id")

	week := h.store.CurrentWeek()
	removed, err := h.store.RemoveVote(r.Context(), songID, p.ID, week)
	if err != nil {
		storeError(w, err, "remove vote")
		return
	}
	if removed {
		notify(r.Context(), h.pub, events.Event{Type: events.VoteRemoved, WeekKey: week, SongID: songID, ActorID: p.ID, At: h.store.Now()})
	}

	w.WriteHeader(http.StatusNoContent)
}

// ToggleVote handles POST /songs/{id}/votes/toggle
func (h *VoteHandler) ToggleVote(w http.ResponseWriter, r *http.Request) {
	p, ok := caller(w, r)
	if !ok {
		return
	}
	songID := r.PathValue("id")

	ctx := r.Context()
	week := h.store.CurrentWeek()
	if err := h.eligible(ctx, songID, week); err != nil {
		storeError(w, err, "toggle vote")
		return
	}

	voted, err := h.store.ToggleVote(ctx, songID, p.ID, week)
	if err != nil {
		storeError(w, err, "toggle vote")
		return
	}

	typ := events.VoteRemoved
	if voted {
		typ = events.VoteCast
	}
	notify(ctx, h.pub, events.Event{Type: typ, WeekKey: week, SongID: songID, ActorID: p.ID, At: h.store.Now()})

	h.respond(w, r, http.StatusOK, songID, week, voted)
}

// eligible reports whether songID is the owner's active song for week.
// Only those songs are ever scored.
func (h *VoteHandler) eligible(ctx context.Context, songID, week string) error {
	song, err := h.store.GetSong(ctx, songID)
	if err != nil {
		return err
	}
	if !song.IsActive || song.WeekYear != week {
		return models.ErrSongNotEligible
	}
	return nil
}

func (h *VoteHandler) respond(w http.ResponseWriter, r *http.Request, status int, songID, week string, voted bool) {
	count, err := h.store.CountVotes(r.Context(), songID, week)
	if err != nil {
		storeError(w, err, "count votes")
		return
	}

	middleware.JSONResponse(w, status, models.VoteResponse{
		SongID:    songID,
		WeekYear:  week,
		Voted:     voted,
		VoteCount: count,
	})
}
