// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/audsmash/models"
	"github.com/danielhkuo/audsmash/testutil"
)

func TestAddComment(t *testing.T) {
	s, conn, clock := newTestStore(t)
	ctx := context.Background()

	owner := testutil.CreateTestProfile(t, conn, "owner")
	fan := testutil.CreateTestProfile(t, conn, "fan")
	song := testutil.CreateTestSong(t, conn, owner, week42, true, tuesday)

	first, err := s.AddComment(ctx, song, fan, "  great track  ")
	require.NoError(t, err)
	assert.Equal(t, "great track", first.Content)

	clock.Set(tuesday.Add(time.Minute))
	second, err := s.AddComment(ctx, song, owner, "thanks!")
	require.NoError(t, err)

	comments, err := s.CommentsForSong(ctx, song)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, second.ID, comments[0].ID, "newest first")
	assert.Equal(t, first.ID, comments[1].ID)
}

func TestAddComment_Errors(t *testing.T) {
	s, conn, _ := newTestStore(t)
	ctx := context.Background()

	owner := testutil.CreateTestProfile(t, conn, "owner")
	song := testutil.CreateTestSong(t, conn, owner, week42, true, tuesday)

	_, err := s.AddComment(ctx, song, owner, "   ")
	assert.ErrorIs(t, err, models.ErrInvalidComment)

	_, err = s.AddComment(ctx, song, owner, strings.Repeat("a", models.MaxCommentLength+1))
	assert.ErrorIs(t, err, models.ErrInvalidComment)

	_, err = s.AddComment(ctx, "missing-song", owner, "hello")
	assert.ErrorIs(t, err, models.ErrNotFound)

	comments, err := s.CommentsForSong(ctx, song)
	require.NoError(t, err)
	assert.Empty(t, comments)
}
