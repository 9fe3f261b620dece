// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/audsmash/models"
	"github.com/danielhkuo/audsmash/testutil"
)

func TestEnsureProfile(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	p, err := s.EnsureProfile(ctx, "user-1", "  alice ", nil)
	require.NoError(t, err)
	assert.Equal(t, "alice", p.Username)
	require.NotNil(t, p.AvatarURL)
	assert.Equal(t, DefaultAvatarURL("alice"), *p.AvatarURL)
	assert.Equal(t, 0, p.TotalWeeklyVotes)

	// A second call keeps the stored row
	again, err := s.EnsureProfile(ctx, "user-1", "someone-else", nil)
	require.NoError(t, err)
	assert.Equal(t, "alice", again.Username)
}

func TestEnsureProfile_FallbackUsername(t *testing.T) {
	s, _, _ := newTestStore(t)

	avatar := "https://example.com/me.png"
	p, err := s.EnsureProfile(context.Background(), "0123456789abcdef", "", &avatar)
	require.NoError(t, err)
	assert.Equal(t, "user-01234567", p.Username)
	assert.Equal(t, avatar, *p.AvatarURL)
}

func TestUpdateUsername(t *testing.T) {
	s, conn, _ := newTestStore(t)
	ctx := context.Background()
	id := testutil.CreateTestProfile(t, conn, "before")

	tests := []struct {
		name     string
		username string
		wantErr  error
		want     string
	}{
		{"valid", "after", nil, "after"},
		{"trimmed", "  spaced  ", nil, "spaced"},
		{"empty", "   ", models.ErrInvalidUsername, ""},
		{"too long", strings.Repeat("x", models.MaxUsernameLength+1), models.ErrInvalidUsername, ""},
		{"max length", strings.Repeat("é", models.MaxUsernameLength), nil, strings.Repeat("é", models.MaxUsernameLength)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := s.UpdateUsername(ctx, id, tt.username)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Username)
		})
	}

	_, err := s.UpdateUsername(ctx, "missing", "name")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestUpdateAvatar(t *testing.T) {
	s, conn, _ := newTestStore(t)
	ctx := context.Background()
	id := testutil.CreateTestProfile(t, conn, "someone")

	url := "https://example.com/new.png"
	p, err := s.UpdateAvatar(ctx, id, &url)
	require.NoError(t, err)
	require.NotNil(t, p.AvatarURL)
	assert.Equal(t, url, *p.AvatarURL)

	blank := ""
	p, err = s.UpdateAvatar(ctx, id, &blank)
	require.NoError(t, err)
	assert.Nil(t, p.AvatarURL)
}

func TestProfilesByIDs(t *testing.T) {
	s, conn, _ := newTestStore(t)
	a := testutil.CreateTestProfile(t, conn, "a")
	b := testutil.CreateTestProfile(t, conn, "b")

	profiles, err := s.ProfilesByIDs(context.Background(), []string{a, b, "missing"})
	require.NoError(t, err)
	assert.Len(t, profiles, 2)
	assert.Equal(t, "a", profiles[a].Username)
	assert.Equal(t, "b", profiles[b].Username)
}

func TestRefreshWeeklyTotals(t *testing.T) {
	s, conn, _ := newTestStore(t)
	ctx := context.Background()

	owner := testutil.CreateTestProfile(t, conn, "owner")
	idle := testutil.CreateTestProfile(t, conn, "idle")
	voters := testutil.CreateTestVoters(t, conn, 3)

	active := testutil.CreateTestSong(t, conn, owner, week42, true, tuesday)
	retired := testutil.CreateTestSong(t, conn, owner, "2026-W41", false, tuesday.AddDate(0, 0, -7))
	testutil.CastTestVotes(t, conn, active, week42, voters...)
	testutil.CastTestVotes(t, conn, retired, "2026-W41", voters[0])

	_, err := s.RefreshWeeklyTotals(ctx, week42)
	require.NoError(t, err)

	p, err := s.GetProfile(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 3, p.TotalWeeklyVotes)

	q, err := s.GetProfile(ctx, idle)
	require.NoError(t, err)
	assert.Equal(t, 0, q.TotalWeeklyVotes)
}
