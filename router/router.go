// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"context"
	"net/http"

	"github.com/danielhkuo/audsmash/auth"
	"github.com/danielhkuo/audsmash/cliparse"
	"github.com/danielhkuo/audsmash/events"
	"github.com/danielhkuo/audsmash/handlers"
	"github.com/danielhkuo/audsmash/leaderboard"
	"github.com/danielhkuo/audsmash/middleware"
	"github.com/danielhkuo/audsmash/store"
)

// NewRouter wires every endpoint. Mutations publish through pub; hub feeds
// live leaderboards. A nil pub publishes straight to hub. Live connections
// are closed when ctx is done.
func NewRouter(ctx context.Context, st *store.Store, cfg cliparse.Config, hub *events.Hub, pub events.Publisher) *http.ServeMux {
	if pub == nil && hub != nil {
		pub = hub
	}

	mux := http.NewServeMux()

	authn := middleware.NewAuthenticator(auth.NewVerifier(cfg.JWTSecret), st)
	limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateBurst, cfg.JWTSecret, cfg.TrustProxy)

	// Initialize handlers
	weekHandler := handlers.NewWeekHandler(st)
	profileHandler := handlers.NewProfileHandler(st)
	songHandler := handlers.NewSongHandler(st, pub)
	voteHandler := handlers.NewVoteHandler(st, pub)
	commentHandler := handlers.NewCommentHandler(st, pub)
	leaderboardHandler := handlers.NewLeaderboardHandler(ctx, st,
		leaderboard.NewService(leaderboard.NewAggregator(st, st, st)), hub)

	// mutate guards routes that change the ledger
	mutate := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(limiter.Limit(authn.Require(h)))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Competition calendar
	mux.HandleFunc("GET /weeks/current", middleware.WithLogging(weekHandler.Current))

	// Profiles
	mux.HandleFunc("GET /profiles/me", middleware.WithLogging(authn.Require(profileHandler.GetMe)))
	mux.HandleFunc("PATCH /profiles/me", mutate(profileHandler.UpdateMe))
	mux.HandleFunc("GET /profiles/{id}", middleware.WithLogging(profileHandler.GetProfile))

	// Songs
	mux.HandleFunc("GET /songs", middleware.WithLogging(authn.Optional(songHandler.ListSongs)))
	mux.HandleFunc("GET /songs/top-today", middleware.WithLogging(songHandler.TopToday))
	mux.HandleFunc("GET /songs/change-status", middleware.WithLogging(authn.Require(songHandler.ChangeStatus)))
	mux.HandleFunc("POST /songs", mutate(songHandler.SubmitSong))

	// Votes (current week only)
	mux.HandleFunc("POST /songs/{id}/votes", mutate(voteHandler.CastVote))
	mux.HandleFunc("DELETE /songs/{id}/votes", mutate(voteHandler.RemoveVote))
	mux.HandleFunc("POST /songs/{id}/votes/toggle", mutate(voteHandler.ToggleVote))

	// Comments
	mux.HandleFunc("GET /songs/{id}/comments", middleware.WithLogging(commentHandler.ListComments))
	mux.HandleFunc("POST /songs/{id}/comments", mutate(commentHandler.AddComment))

	// Leaderboard
	mux.HandleFunc("GET /leaderboard", middleware.WithLogging(leaderboardHandler.GetLeaderboard))
	mux.HandleFunc("GET /leaderboard/live", middleware.WithLogging(leaderboardHandler.Live))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("audsmash API v1"))
	})

	return mux
}
