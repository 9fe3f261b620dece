// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth verifies the identity tokens presented by clients.

Sign-in happens at an external identity provider. The server only checks the
HS256 signature against the shared JWT secret and reads the caller from the
claims:

	verifier := auth.NewVerifier(cfg.JWTSecret)
	id, err := verifier.VerifyRequest(r) // Authorization: Bearer <jwt>

The subject claim is the profile id. The optional user_metadata claim carries
the username and avatar URL used when the profile is created on first sight.

Every failure wraps ErrInvalidToken, or is ErrMissingToken when no header was
sent, so handlers can answer 401 with errors.Is.

# Development tokens

	token, err := auth.IssueToken(secret, profileID, "alice", time.Hour)

# IP Hashing

	hash := auth.HashIP(ipAddress, salt)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256. Used to log rate-limited
clients without storing addresses.
*/
package auth
