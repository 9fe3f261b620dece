// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the AudSmash API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(liveCtx, st, cfg, hub, bus)

Websocket connections are hijacked, so http.Server.Shutdown does not wait
for them. Cancel the context passed to NewRouter from RegisterOnShutdown to
close them with CloseGoingAway.

# Endpoints

Health:

	GET /health

Calendar:

	GET /weeks/current - Current week key and its bounds

Profiles:

	GET   /profiles/me   - Own profile (auth)
	PATCH /profiles/me   - Update username or avatar (auth)
	GET   /profiles/{id} - Profile with current and past songs

Songs:

	GET  /songs?week=&category= - Active songs with vote counts (auth optional)
	GET  /songs/top-today       - Most voted songs today
	GET  /songs/change-status   - Whether today's change is still available (auth)
	POST /songs                 - Submit and activate a song (auth)

Votes (auth, current week):

	POST   /songs/{id}/votes        - Cast
	DELETE /songs/{id}/votes        - Remove
	POST   /songs/{id}/votes/toggle - Toggle

Comments:

	GET  /songs/{id}/comments
	POST /songs/{id}/comments (auth)

Leaderboard:

	GET /leaderboard?week=      - Ranked owners
	GET /leaderboard/live?week= - Websocket pushes on every change

# Middleware

Every route is logged. Mutating routes are rate limited per client
before the bearer token is checked.
*/
package router
