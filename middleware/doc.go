// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (status, duration_ms).

# Authentication

Authenticator verifies the bearer token and ensures the caller's profile:

	authn := middleware.NewAuthenticator(auth.NewVerifier(secret), store)
	mux.HandleFunc("POST /songs", middleware.WithLogging(authn.Require(h.SubmitSong)))
	mux.HandleFunc("GET /songs", middleware.WithLogging(authn.Optional(h.ListSongs)))

Handlers read the caller with ProfileFromContext.

# Rate Limiting

RateLimiter keeps a token bucket per client IP and answers 429 with
Retry-After when it is empty:

	limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateBurst, cfg.JWTSecret, cfg.TrustProxy)
	mux.HandleFunc("POST /songs/{id}/votes", limiter.Limit(handler))

Clients are keyed by peer address. Forwarded headers are used only when
trustProxy is set, i.e. the server sits behind a proxy that overwrites them.
A zero rate disables it. Rejected clients are logged by hashed IP.

# CORS Middleware

Enable cross-origin requests for frontend access:

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

Allows methods GET, POST, PATCH, DELETE, OPTIONS with headers
Content-Type, Authorization.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

Parse JSON request bodies (capped at MaxBodyBytes):

	var req models.SubmitSongRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)
*/
package middleware
