package models

import "errors"

// Conditions surfaced by the scoring core. Stores wrap the underlying cause,
// so callers match with errors.Is.
var (
	ErrDuplicateVote      = errors.New("vote already cast for this song this week")
	ErrDailyLimitExceeded = errors.New("song already changed today")
	ErrDataUnavailable    = errors.New("data unavailable")
	ErrNotFound           = errors.New("not found")
	ErrSongNotEligible    = errors.New("song is not active in the current week")
)

// Validation errors
var (
	ErrInvalidUsername = errors.New("username must be 1-50 characters")
	ErrInvalidCategory = errors.New("unknown category")
	ErrInvalidComment  = errors.New("comment must be 1-500 characters")
	ErrInvalidSong     = errors.New("invalid song")
)
