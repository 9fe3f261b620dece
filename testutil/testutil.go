// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/danielhkuo/audsmash/auth"
	"github.com/danielhkuo/audsmash/cliparse"
	"github.com/danielhkuo/audsmash/db"
)

// TestJWTSecret signs tokens minted by AuthHeader
const TestJWTSecret = "test-jwt-secret"

// SetupTestDB creates a fresh SQLite database with the full schema.
// Each test gets its own file, removed with the test's temp dir.
func SetupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "audsmash_test.db")
	conn, err := db.Open(context.Background(), db.TypeSQLite, "file:"+path+"?_time_format=sqlite")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn.DB); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:           3318,
		DatabaseURL:    ":memory:",
		DatabaseType:   db.TypeSQLite,
		JWTSecret:      TestJWTSecret,
		TotalsSchedule: cliparse.DefaultTotalsSchedule,
		RateLimit:      0,
		RateBurst:      cliparse.DefaultRateBurst,
	}
}

// FixedClock returns a clock that always reports t
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// CreateTestProfile inserts a profile and returns its ID
func CreateTestProfile(t *testing.T, conn *sqlx.DB, username string) string {
	t.Helper()

	id := uuid.NewString()
	now := time.Now().UTC()
	_, err := conn.Exec(conn.Rebind(`
		INSERT INTO profile (id, username, total_weekly_votes, created_at, updated_at)
		VALUES (?, ?, 0, ?, ?)
	`), id, username, now, now)
	if err != nil {
		t.Fatalf("Failed to create test profile: %v", err)
	}

	return id
}

// CreateTestSong inserts a song entered in weekKey and returns its ID
func CreateTestSong(t *testing.T, conn *sqlx.DB, userID, weekKey string, active bool, createdAt time.Time) string {
	t.Helper()

	id := uuid.NewString()
	_, err := conn.Exec(conn.Rebind(`
		INSERT INTO song (id, user_id, video_id, title, thumbnail, category, start_time,
			is_active, week_year, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, 'Rock', 0, ?, ?, ?, ?)
	`), id, userID, "vid-"+id[:8], "Song "+id[:8], "https://img.example.com/"+id[:8]+".jpg",
		active, weekKey, createdAt.UTC(), createdAt.UTC())
	if err != nil {
		t.Fatalf("Failed to create test song: %v", err)
	}

	return id
}

// CastTestVotes records one vote per voter for songID in weekKey
func CastTestVotes(t *testing.T, conn *sqlx.DB, songID, weekKey string, voterIDs ...string) {
	t.Helper()

	for _, voterID := range voterIDs {
		_, err := conn.Exec(conn.Rebind(`
			INSERT INTO vote (id, song_id, voter_id, week_year, created_at)
			VALUES (?, ?, ?, ?, ?)
		`), uuid.NewString(), songID, voterID, weekKey, time.Now().UTC())
		if err != nil {
			t.Fatalf("Failed to create test vote: %v", err)
		}
	}
}

// CreateTestVoters inserts n profiles and returns their IDs
func CreateTestVoters(t *testing.T, conn *sqlx.DB, n int) []string {
	t.Helper()

	ids := make([]string, n)
	for i := range ids {
		ids[i] = CreateTestProfile(t, conn, "voter-"+uuid.NewString()[:8])
	}
	return ids
}

// AuthHeader returns an Authorization header for profileID signed with TestJWTSecret
func AuthHeader(t *testing.T, profileID, username string) map[string]string {
	t.Helper()

	token, err := auth.IssueToken(TestJWTSecret, profileID, username, time.Hour)
	if err != nil {
		t.Fatalf("Failed to issue test token: %v", err)
	}
	return map[string]string{"Authorization": "Bearer " + token}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
