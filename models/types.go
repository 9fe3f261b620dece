package models

import "time"

// Song categories
const (
	CategoryHipHop     = "Hip Hop"
	CategoryRock       = "Rock"
	CategoryPop        = "Pop"
	CategoryElectronic = "Electronic"
	CategoryRnB        = "R&B"
	CategoryCountry    = "Country"
	CategoryJazz       = "Jazz"
	CategoryClassical  = "Classical"
	CategoryReggae     = "Reggae"
	CategoryMetal      = "Metal"
	CategoryOther      = "Other"
)

var Categories = []string{
	CategoryHipHop, CategoryRock, CategoryPop, CategoryElectronic, CategoryRnB,
	CategoryCountry, CategoryJazz, CategoryClassical, CategoryReggae, CategoryMetal,
	CategoryOther,
}

// IsValidCategory reports whether c is one of Categories
func IsValidCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Field limits
const (
	MaxUsernameLength = 50
	MaxCommentLength  = 500
	MaxTitleLength    = 300
)

// Request types

type UpdateProfileRequest struct {
	Username  *string `json:"username,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// SubmitSongRequest carries a candidate picked from the search provider
type SubmitSongRequest struct {
	VideoID     string  `json:"video_id"`
	Title       string  `json:"title"`
	Thumbnail   string  `json:"thumbnail"`
	ChannelName *string `json:"channel_name,omitempty"`
	Category    string  `json:"category"`
	StartTime   int     `json:"start_time"`
}

type AddCommentRequest struct {
	Content string `json:"content"`
}

// Response types

type SubmitSongResponse struct {
	Song   Song       `json:"song"`
	Change SongChange `json:"change"`
}

type VoteResponse struct {
	SongID    string `json:"song_id"`
	WeekYear  string `json:"week_year"`
	Voted     bool   `json:"voted"`
	VoteCount int    `json:"vote_count"`
}

type ChangeStatusResponse struct {
	CanChangeToday bool   `json:"can_change_today"`
	ChangeDate     string `json:"change_date"`
}

type WeekResponse struct {
	WeekYear string    `json:"week_year"`
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
}

type LeaderboardResponse struct {
	WeekYear   string             `json:"week_year"`
	ComputedAt time.Time          `json:"computed_at"`
	Entries    []LeaderboardEntry `json:"entries"`
}

type ProfilePageResponse struct {
	Profile      Profile         `json:"profile"`
	CurrentSongs []SongWithVotes `json:"current_songs"`
	PastSongs    []SongWithVotes `json:"past_songs"`
	WeekVotes    int             `json:"week_votes"`
}

// Domain types

type Profile struct {
	ID               string    `json:"id" db:"id"`
	Username         string    `json:"username" db:"username"`
	AvatarURL        *string   `json:"avatar_url" db:"avatar_url"`
	TotalWeeklyVotes int       `json:"total_weekly_votes" db:"total_weekly_votes"` // advisory cache, see RefreshWeeklyTotals
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

type Song struct {
	ID          string    `json:"id" db:"id"`
	UserID      string    `json:"user_id" db:"user_id"`
	VideoID     string    `json:"video_id" db:"video_id"`
	Title       string    `json:"title" db:"title"`
	Thumbnail   string    `json:"thumbnail" db:"thumbnail"`
	ChannelName *string   `json:"channel_name" db:"channel_name"`
	Category    string    `json:"category" db:"category"`
	StartTime   int       `json:"start_time" db:"start_time"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	WeekYear    string    `json:"week_year" db:"week_year"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// SongWithVotes decorates a song for listing pages
type SongWithVotes struct {
	Song
	Profile   *Profile `json:"profile,omitempty"`
	VoteCount int      `json:"vote_count"`
	UserVoted bool     `json:"user_voted"`
}

type Vote struct {
	ID        string    `json:"id" db:"id"`
	SongID    string    `json:"song_id" db:"song_id"`
	VoterID   string    `json:"voter_id" db:"voter_id"`
	WeekYear  string    `json:"week_year" db:"week_year"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type Comment struct {
	ID        string    `json:"id" db:"id"`
	SongID    string    `json:"song_id" db:"song_id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type CommentWithAuthor struct {
	Comment
	Profile *Profile `json:"profile,omitempty"`
}

// SongChange is the rate-limit ledger: one row per user per calendar date
type SongChange struct {
	ID         string    `json:"id" db:"id"`
	UserID     string    `json:"user_id" db:"user_id"`
	OldSongID  *string   `json:"old_song_id" db:"old_song_id"`
	NewSongID  *string   `json:"new_song_id" db:"new_song_id"`
	ChangeDate string    `json:"change_date" db:"change_date"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// LeaderboardEntry is derived on every request and never stored
type LeaderboardEntry struct {
	Rank        int     `json:"rank"` // 1-indexed position in the sorted result
	RankLabel   string  `json:"rank_label"`
	Profile     Profile `json:"profile"`
	TotalVotes  int     `json:"total_votes"`
	CurrentSong *Song   `json:"current_song,omitempty"`
}

// SongVoteCount pairs a song with a tally, used for "top today"
type SongVoteCount struct {
	SongID    string `db:"song_id"`
	VoteCount int    `db:"vote_count"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
