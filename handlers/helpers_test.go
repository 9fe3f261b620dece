// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/danielhkuo/audsmash/auth"
	"github.com/danielhkuo/audsmash/events"
	"github.com/danielhkuo/audsmash/leaderboard"
	"github.com/danielhkuo/audsmash/middleware"
	"github.com/danielhkuo/audsmash/store"
	"github.com/danielhkuo/audsmash/testutil"
)

// testNow is a Tuesday inside testWeek
var testNow = time.Date(2026, 10, 13, 12, 0, 0, 0, time.UTC)

const testWeek = "2026-W42"

type testEnv struct {
	db    *sqlx.DB
	store *store.Store
	hub   *events.Hub
	authn *middleware.Authenticator
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	conn := testutil.SetupTestDB(t)
	st := store.New(conn, store.WithClock(testutil.FixedClock(testNow)))
	return &testEnv{
		db:    conn,
		store: st,
		hub:   events.NewHub(),
		authn: middleware.NewAuthenticator(auth.NewVerifier(testutil.TestJWTSecret), st),
	}
}

func (e *testEnv) leaderboardHandler() *LeaderboardHandler {
	agg := leaderboard.NewAggregator(e.store, e.store, e.store)
	return NewLeaderboardHandler(context.Background(), e.store, leaderboard.NewService(agg), e.hub)
}

// serve runs handler behind the required authenticator
func (e *testEnv) serve(handler http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.authn.Require(handler)(w, req)
	return w
}

// user creates a profile and returns its id with matching auth headers
func (e *testEnv) user(t *testing.T, username string) (string, map[string]string) {
	t.Helper()
	id := testutil.CreateTestProfile(t, e.db, username)
	return id, testutil.AuthHeader(t, id, username)
}

// withPath sets a path value the way the router would
func withPath(req *http.Request, key, value string) *http.Request {
	req.SetPathValue(key, value)
	return req
}

// nextEvent waits briefly for an event on ch
func nextEvent(t *testing.T, ch <-chan events.Event) events.Event {
	t.Helper()
	select {
	case e := <-ch:
		return e
	case <-time.After(time.Second):
		t.Fatal("Expected an event to be published")
		return events.Event{}
	}
}
