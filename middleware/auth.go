// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/audsmash/auth"
	"github.com/danielhkuo/audsmash/models"
)

type contextKey int

const profileKey contextKey = iota

// ProfileEnsurer creates the caller's profile on first sight
type ProfileEnsurer interface {
	EnsureProfile(ctx context.Context, id, username string, avatarURL *string) (*models.Profile, error)
}

// Authenticator resolves the bearer token of a request to a profile
type Authenticator struct {
	verifier *auth.Verifier
	profiles ProfileEnsurer
}

func NewAuthenticator(verifier *auth.Verifier, profiles ProfileEnsurer) *Authenticator {
	return &Authenticator{verifier: verifier, profiles: profiles}
}

// Require rejects requests without a valid token with 401
func (a *Authenticator) Require(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := a.verifier.VerifyRequest(r)
		if err != nil {
			ErrorResponse(w, http.StatusUnauthorized, "Valid bearer token required")
			return
		}
		a.serveAs(w, r, id, next)
	}
}

// Optional attaches the caller's profile when a token is sent.
// A token that is sent but invalid is still rejected.
func (a *Authenticator) Optional(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := a.verifier.VerifyRequest(r)
		if errors.Is(err, auth.ErrMissingToken) {
			next(w, r)
			return
		}
		if err != nil {
			ErrorResponse(w, http.StatusUnauthorized, "Invalid bearer token")
			return
		}
		a.serveAs(w, r, id, next)
	}
}

func (a *Authenticator) serveAs(w http.ResponseWriter, r *http.Request, id *auth.Identity, next http.HandlerFunc) {
	profile, err := a.profiles.EnsureProfile(r.Context(), id.ID, id.Username, id.AvatarURL)
	if err != nil {
		slog.Error("failed to ensure profile", "profile_id", id.ID, "error", err)
		ErrorResponse(w, http.StatusServiceUnavailable, "Profile store unavailable")
		return
	}
	next(w, r.WithContext(WithProfile(r.Context(), profile)))
}

// WithProfile returns ctx carrying the authenticated profile
func WithProfile(ctx context.Context, p *models.Profile) context.Context {
	return context.WithValue(ctx, profileKey, p)
}

// ProfileFromContext returns the authenticated profile, if any
func ProfileFromContext(ctx context.Context) (*models.Profile, bool) {
	p, ok := ctx.Value(profileKey).(*models.Profile)
	return p, ok && p != nil
}
