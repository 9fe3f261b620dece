// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/audsmash/models"
	"github.com/danielhkuo/audsmash/testutil"
)

func TestGetMe(t *testing.T) {
	env := newTestEnv(t)
	handler := NewProfileHandler(env.store)

	t.Run("first request creates the profile", func(t *testing.T) {
		headers := testutil.AuthHeader(t, "3f6c1c1e-0000-4000-8000-000000000001", "newcomer")
		w := env.serve(handler.GetMe, testutil.MakeRequest("GET", "/profiles/me", nil, headers))
		testutil.AssertStatus(t, w, http.StatusOK)

		var p models.Profile
		testutil.AssertJSON(t, w, &p)
		if p.Username != "newcomer" {
			t.Errorf("Expected username newcomer, got %s", p.Username)
		}
		if p.AvatarURL == nil || !strings.Contains(*p.AvatarURL, "seed=newcomer") {
			t.Errorf("Expected default avatar, got %v", p.AvatarURL)
		}
	})

	t.Run("missing token", func(t *testing.T) {
		w := env.serve(handler.GetMe, testutil.MakeRequest("GET", "/profiles/me", nil, nil))
		testutil.AssertStatus(t, w, http.StatusUnauthorized)
	})
}

func TestUpdateMe(t *testing.T) {
	env := newTestEnv(t)
	handler := NewProfileHandler(env.store)
	_, headers := env.user(t, "alice")

	name := func(s string) *string { return &s }

	tests := []struct {
		name           string
		body           interface{}
		expectedStatus int
		checkResponse  func(t *testing.T, p *models.Profile)
	}{
		{
			name:           "rename",
			body:           models.UpdateProfileRequest{Username: name("  alicia ")},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, p *models.Profile) {
				if p.Username != "alicia" {
					t.Errorf("Expected trimmed username alicia, got %q", p.Username)
				}
			},
		},
		{
			name:           "set avatar",
			body:           models.UpdateProfileRequest{AvatarURL: name("https://example.com/a.png")},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, p *models.Profile) {
				if p.AvatarURL == nil || *p.AvatarURL != "https://example.com/a.png" {
					t.Errorf("Unexpected avatar %v", p.AvatarURL)
				}
				if p.Username != "alicia" {
					t.Errorf("Expected username to be kept, got %q", p.Username)
				}
			},
		},
		{
			name:           "empty username",
			body:           models.UpdateProfileRequest{Username: name("   "), AvatarURL: name("https://example.com/b.png")},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "username too long",
			body:           models.UpdateProfileRequest{Username: name(strings.Repeat("x", 51))},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "nothing to update",
			body:           map[string]string{},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.serve(handler.UpdateMe, testutil.MakeRequest("PATCH", "/profiles/me", tt.body, headers))
			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.checkResponse != nil && w.Code == tt.expectedStatus {
				var p models.Profile
				testutil.AssertJSON(t, w, &p)
				tt.checkResponse(t, &p)
			}
		})
	}

	// The rejected request must not have changed the avatar
	w := env.serve(handler.GetMe, testutil.MakeRequest("GET", "/profiles/me", nil, headers))
	var p models.Profile
	testutil.AssertJSON(t, w, &p)
	if p.AvatarURL == nil || *p.AvatarURL != "https://example.com/a.png" {
		t.Errorf("Expected avatar to be unchanged, got %v", p.AvatarURL)
	}
}

func TestGetProfile(t *testing.T) {
	env := newTestEnv(t)
	handler := NewProfileHandler(env.store)

	owner := testutil.CreateTestProfile(t, env.db, "owner")
	voters := testutil.CreateTestVoters(t, env.db, 3)

	current := testutil.CreateTestSong(t, env.db, owner, testWeek, true, testNow)
	past := testutil.CreateTestSong(t, env.db, owner, "2026-W41", false, testNow.AddDate(0, 0, -7))

	testutil.CastTestVotes(t, env.db, current, testWeek, voters[:2]...)
	testutil.CastTestVotes(t, env.db, past, "2026-W41", voters...)
	// A late vote for last week's song in this week still counts all-time
	testutil.CastTestVotes(t, env.db, past, testWeek, voters[0])

	get := func(id string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		handler.GetProfile(w, withPath(httptest.NewRequest("GET", "/profiles/"+id, nil), "id", id))
		return w
	}

	w := get(owner)
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.ProfilePageResponse
	testutil.AssertJSON(t, w, &resp)

	if resp.Profile.ID != owner {
		t.Errorf("Expected profile %s, got %s", owner, resp.Profile.ID)
	}
	if len(resp.CurrentSongs) != 1 || resp.CurrentSongs[0].ID != current || resp.CurrentSongs[0].VoteCount != 2 {
		t.Errorf("Unexpected current songs: %+v", resp.CurrentSongs)
	}
	if len(resp.PastSongs) != 1 || resp.PastSongs[0].ID != past || resp.PastSongs[0].VoteCount != 4 {
		t.Errorf("Unexpected past songs: %+v", resp.PastSongs)
	}
	if resp.WeekVotes != 2 {
		t.Errorf("Expected week_votes 2, got %d", resp.WeekVotes)
	}

	testutil.AssertStatus(t, get("missing"), http.StatusNotFound)
}
