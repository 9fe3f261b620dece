// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/audsmash/events"
	"github.com/danielhkuo/audsmash/middleware"
	"github.com/danielhkuo/audsmash/models"
	"github.com/danielhkuo/audsmash/store"
)

type CommentHandler struct {
	store *store.Store
	pub   events.Publisher
}

func NewCommentHandler(st *store.Store, pub events.Publisher) *CommentHandler {
	return &CommentHandler{store: st, pub: pub}
}

// ListComments handles GET /songs/{id}/comments
func (h *CommentHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	songID := r.PathValue("id")

	ctx := r.Context()
	if _, err := h.store.GetSong(ctx, songID); err != nil {
		storeError(w, err, "list comments")
		return
	}

	comments, err := h.store.CommentsForSong(ctx, songID)
	if err != nil {
		storeError(w, err, "list comments")
		return
	}

	authors := make([]string, len(comments))
	for i, c := range comments {
		authors[i] = c.UserID
	}
	profiles, err := h.store.ProfilesByIDs(ctx, authors)
	if err != nil {
		storeError(w, err, "list comments")
		return
	}

	out := make([]models.CommentWithAuthor, len(comments))
	for i, c := range comments {
		out[i] = models.CommentWithAuthor{Comment: c}
		if p, ok := profiles[c.UserID]; ok {
			out[i].Profile = &p
		}
	}

	middleware.JSONResponse(w, http.StatusOK, out)
}

// AddComment handles POST /songs/{id}/comments
func (h *CommentHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	p, ok := caller(w, r)
	if !ok {
		return
	}

	var req models.AddCommentRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	comment, err := h.store.AddComment(r.Context(), r.PathValue("id"), p.ID, req.Content)
	if err != nil {
		storeError(w, err, "add comment")
		return
	}
	notify(r.Context(), h.pub, events.Event{
		Type:    events.CommentAdded,
		WeekKey: h.store.CurrentWeek(),
		SongID:  comment.SongID,
		ActorID: p.ID,
		At:      comment.CreatedAt,
	})

	middleware.JSONResponse(w, http.StatusCreated, models.CommentWithAuthor{Comment: *comment, Profile: p})
}
