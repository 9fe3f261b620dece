// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/audsmash/cliparse"
	"github.com/danielhkuo/audsmash/events"
	"github.com/danielhkuo/audsmash/models"
	"github.com/danielhkuo/audsmash/store"
	"github.com/danielhkuo/audsmash/testutil"
)

var testNow = time.Date(2026, 10, 13, 12, 0, 0, 0, time.UTC)

func newTestRouter(t *testing.T, cfg cliparse.Config) (*http.ServeMux, *store.Store) {
	t.Helper()
	conn := testutil.SetupTestDB(t)
	st := store.New(conn, store.WithClock(testutil.FixedClock(testNow)))
	return NewRouter(context.Background(), st, cfg, events.NewHub(), nil), st
}

func TestHealthEndpoint(t *testing.T) {
	mux, _ := newTestRouter(t, testutil.GetTestConfig())

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	if w.Body.String() != "OK" {
		t.Errorf("Expected body 'OK', got '%s'", w.Body.String())
	}
}

func TestRootEndpoint(t *testing.T) {
	mux, _ := newTestRouter(t, testutil.GetTestConfig())

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	expected := "audsmash API v1"
	if w.Body.String() != expected {
		t.Errorf("Expected body '%s', got '%s'", expected, w.Body.String())
	}
}

func TestRouteExistence(t *testing.T) {
	mux, _ := newTestRouter(t, testutil.GetTestConfig())

	// 400, 401, 404 are all valid responses depending on handler logic
	testCases := []struct {
		method string
		path   string
	}{
		{"GET", "/health"},
		{"GET", "/"},
		{"GET", "/weeks/current"},

		{"GET", "/profiles/me"},
		{"PATCH", "/profiles/me"},
		{"GET", "/profiles/test-id"},

		{"GET", "/songs"},
		{"GET", "/songs/top-today"},
		{"GET", "/songs/change-status"},
		{"POST", "/songs"},

		{"POST", "/songs/test-id/votes"},
		{"DELETE", "/songs/test-id/votes"},
		{"POST", "/songs/test-id/votes/toggle"},

		{"GET", "/songs/test-id/comments"},
		{"POST", "/songs/test-id/comments"},

		{"GET", "/leaderboard"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code == http.StatusMethodNotAllowed {
				t.Errorf("Route %s %s returned 405, expected route handler to exist", tc.method, tc.path)
			}
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	mux, _ := newTestRouter(t, testutil.GetTestConfig())

	testCases := []struct {
		method string
		path   string
	}{
		{"POST", "/health"},
		{"PUT", "/songs/test-id/votes"},
		{"DELETE", "/leaderboard"},
		{"PATCH", "/songs/test-id/comments"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code != http.StatusMethodNotAllowed {
				t.Errorf("Expected 405 for %s %s, got %d", tc.method, tc.path, w.Code)
			}
		})
	}
}

func TestAuthRequired(t *testing.T) {
	mux, _ := newTestRouter(t, testutil.GetTestConfig())

	testCases := []struct {
		method string
		path   string
	}{
		{"GET", "/profiles/me"},
		{"POST", "/songs"},
		{"GET", "/songs/change-status"},
		{"POST", "/songs/test-id/votes"},
		{"DELETE", "/songs/test-id/votes"},
		{"POST", "/songs/test-id/comments"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))

			if w.Code != http.StatusUnauthorized {
				t.Errorf("Expected 401 for %s %s, got %d", tc.method, tc.path, w.Code)
			}
		})
	}
}

func TestVotingWorkflow(t *testing.T) {
	mux, st := newTestRouter(t, testutil.GetTestConfig())
	conn := st.DB()

	owner := testutil.CreateTestProfile(t, conn, "owner")
	ownerHeaders := testutil.AuthHeader(t, owner, "owner")
	voter := testutil.CreateTestProfile(t, conn, "voter")
	voterHeaders := testutil.AuthHeader(t, voter, "voter")

	// Owner enters a song
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("POST", "/songs", models.SubmitSongRequest{
		VideoID:   "abc123",
		Title:     "Opening Track",
		Thumbnail: "https://img.example.com/abc123.jpg",
		Category:  models.CategoryRock,
	}, ownerHeaders))
	testutil.AssertStatus(t, w, http.StatusCreated)

	var submitted models.SubmitSongResponse
	testutil.AssertJSON(t, w, &submitted)
	songID := submitted.Song.ID

	// Voter votes once; a second vote conflicts
	for _, want := range []int{http.StatusCreated, http.StatusConflict} {
		w = httptest.NewRecorder()
		mux.ServeHTTP(w, testutil.MakeRequest("POST", "/songs/"+songID+"/votes", nil, voterHeaders))
		testutil.AssertStatus(t, w, want)
	}

	// Leaderboard reflects the vote
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/leaderboard", nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var board models.LeaderboardResponse
	testutil.AssertJSON(t, w, &board)
	if len(board.Entries) != 1 || board.Entries[0].Profile.ID != owner || board.Entries[0].TotalVotes != 1 {
		t.Errorf("Unexpected leaderboard: %+v", board.Entries)
	}

	// Removing the vote empties it again
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("DELETE", "/songs/"+songID+"/votes", nil, voterHeaders))
	testutil.AssertStatus(t, w, http.StatusNoContent)

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/leaderboard", nil))
	board = models.LeaderboardResponse{}
	testutil.AssertJSON(t, w, &board)
	if len(board.Entries) != 0 {
		t.Errorf("Expected empty leaderboard after removal, got %+v", board.Entries)
	}
}

func TestMutationsAreRateLimited(t *testing.T) {
	cfg := testutil.GetTestConfig()
	cfg.RateLimit = 0.001
	cfg.RateBurst = 2
	mux, _ := newTestRouter(t, cfg)

	var last int
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/songs", nil)
		req.RemoteAddr = "198.51.100.7:4000"
		mux.ServeHTTP(w, req)
		last = w.Code
	}
	if last != http.StatusTooManyRequests {
		t.Errorf("Expected third request to be limited, got %d", last)
	}

	// Reads are not limited
	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/weeks/current", nil)
		req.RemoteAddr = "198.51.100.7:4000"
		mux.ServeHTTP(w, req)
		testutil.AssertStatus(t, w, http.StatusOK)
	}
}
