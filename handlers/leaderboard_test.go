// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/audsmash/models"
	"github.com/danielhkuo/audsmash/testutil"
)

func TestGetLeaderboard(t *testing.T) {
	env := newTestEnv(t)
	handler := env.leaderboardHandler()

	a := testutil.CreateTestProfile(t, env.db, "A")
	b := testutil.CreateTestProfile(t, env.db, "B")
	c := testutil.CreateTestProfile(t, env.db, "C")
	voters := testutil.CreateTestVoters(t, env.db, 5)

	x := testutil.CreateTestSong(t, env.db, a, testWeek, true, testNow)
	testutil.CreateTestSong(t, env.db, b, testWeek, true, testNow)
	z := testutil.CreateTestSong(t, env.db, c, testWeek, true, testNow)
	testutil.CastTestVotes(t, env.db, x, testWeek, voters[:3]...)
	testutil.CastTestVotes(t, env.db, z, testWeek, voters...)

	get := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		handler.GetLeaderboard(w, httptest.NewRequest("GET", path, nil))
		return w
	}

	tests := []struct {
		name           string
		path           string
		expectedStatus int
		checkResponse  func(t *testing.T, resp *models.LeaderboardResponse)
	}{
		{
			name:           "current week",
			path:           "/leaderboard",
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, resp *models.LeaderboardResponse) {
				if resp.WeekYear != testWeek {
					t.Errorf("Expected week %s, got %s", testWeek, resp.WeekYear)
				}
				if len(resp.Entries) != 2 {
					t.Fatalf("Expected 2 entries, got %d", len(resp.Entries))
				}
				first, second := resp.Entries[0], resp.Entries[1]
				if first.Profile.ID != c || first.TotalVotes != 5 || first.Rank != 1 || first.RankLabel != "1st" {
					t.Errorf("Unexpected first entry: %+v", first)
				}
				if second.Profile.ID != a || second.TotalVotes != 3 || second.Rank != 2 {
					t.Errorf("Unexpected second entry: %+v", second)
				}
				if first.CurrentSong == nil || first.CurrentSong.ID != z {
					t.Errorf("Expected current song %s, got %+v", z, first.CurrentSong)
				}
			},
		},
		{
			name:           "explicit empty week",
			path:           "/leaderboard?week=2026-W40",
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, resp *models.LeaderboardResponse) {
				if resp.Entries == nil || len(resp.Entries) != 0 {
					t.Errorf("Expected empty entries, got %v", resp.Entries)
				}
			},
		},
		{
			name:           "malformed week",
			path:           "/leaderboard?week=2026-W99",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(tt.path)
			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.checkResponse != nil {
				var resp models.LeaderboardResponse
				testutil.AssertJSON(t, w, &resp)
				tt.checkResponse(t, &resp)
			}
		})
	}

	t.Run("store unavailable", func(t *testing.T) {
		env.db.Close()
		testutil.AssertStatus(t, get("/leaderboard"), http.StatusServiceUnavailable)
	})
}
