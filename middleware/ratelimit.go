// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/danielhkuo/audsmash/auth"
)

// maxTrackedClients bounds the limiter map between cleanups
const maxTrackedClients = 10000

// RateLimiter applies a token bucket per client IP
type RateLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
	limit    rate.Limit
	burst    int
	salt     string
	// trustProxy keys buckets on forwarded headers instead of the peer address
	trustProxy bool

	cleanupInterval time.Duration
	lastCleanup     time.Time
	cleanupMu       sync.Mutex
}

// NewRateLimiter allows perSecond requests per client with the given burst.
// salt keys the hashed client address written to logs. Clients are told apart
// by peer address; X-Forwarded-For and X-Real-IP are only honoured when
// trustProxy is set.
func NewRateLimiter(perSecond float64, burst int, salt string, trustProxy bool) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		limiters:        make(map[string]*rate.Limiter),
		limit:           rate.Limit(perSecond),
		burst:           burst,
		salt:            salt,
		trustProxy:      trustProxy,
		cleanupInterval: 10 * time.Minute,
		lastCleanup:     time.Now(),
	}
}

func (rl *RateLimiter) limiter(client string) *rate.Limiter {
	rl.mu.RLock()
	l, ok := rl.limiters[client]
	rl.mu.RUnlock()
	if ok {
		return l
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()
	// Double-check after taking the write lock
	if l, ok = rl.limiters[client]; !ok {
		l = rate.NewLimiter(rl.limit, rl.burst)
		rl.limiters[client] = l
	}
	return l
}

// cleanup forgets every client once the map grows past maxTrackedClients
func (rl *RateLimiter) cleanup() {
	rl.cleanupMu.Lock()
	defer rl.cleanupMu.Unlock()

	now := time.Now()
	if now.Sub(rl.lastCleanup) < rl.cleanupInterval {
		return
	}

	rl.mu.Lock()
	if len(rl.limiters) > maxTrackedClients {
		rl.limiters = make(map[string]*rate.Limiter)
	}
	rl.mu.Unlock()

	rl.lastCleanup = now
}

// Allow reports whether client may make another request now
func (rl *RateLimiter) Allow(client string) bool {
	rl.cleanup()
	return rl.limiter(client).Allow()
}

// Limit rejects requests over the client's rate with 429.
// A nil RateLimiter or a zero rate disables limiting.
func (rl *RateLimiter) Limit(next http.HandlerFunc) http.HandlerFunc {
	if rl == nil || rl.limit <= 0 {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		ip := RemoteIP(r)
		if rl.trustProxy {
			ip = GetClientIP(r)
		}
		if !rl.Allow(ip) {
			slog.Warn("rate limit exceeded",
				"client", auth.HashIP(ip, rl.salt),
				"method", r.Method,
				"path", r.URL.Path,
			)
			w.Header().Set("Retry-After", "1")
			ErrorResponse(w, http.StatusTooManyRequests, "Rate limit exceeded")
			return
		}
		next(w, r)
	}
}
