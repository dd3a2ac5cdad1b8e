package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Review log validation errors
var (
	// ErrLogCardIDEmpty is returned when a log entry's card ID is empty or nil.
	ErrLogCardIDEmpty = errors.New("review log card ID cannot be empty")

	// ErrLogInvalidQuality is returned when a log entry's quality is not a defined grade.
	ErrLogInvalidQuality = errors.New("review log quality is not valid")

	// ErrLogNegativeTime is returned when a log entry's time taken is negative.
	ErrLogNegativeTime = errors.New("review log time taken cannot be negative")
)

// ReviewLog is the append-only audit record written for every answered card.
// Entries are never mutated after the fact; interval and ease are captured
// both before and after the scheduler ran.
type ReviewLog struct {
	ID           uuid.UUID `json:"id"`
	CardID       uuid.UUID `json:"card_id"`
	DeckID       uuid.UUID `json:"deck_id"`
	Quality      Answer    `json:"quality"`
	TimeTakenMs  int64     `json:"time_taken_ms"`
	PrevInterval int       `json:"prev_interval"`
	NewInterval  int       `json:"new_interval"`
	PrevEase     int       `json:"prev_ease"`
	NewEase      int       `json:"new_ease"`
	PrevState    State     `json:"prev_state"`
	NewState     State     `json:"new_state"`
	ReviewedAt   time.Time `json:"reviewed_at"`
}

// Validate checks if the ReviewLog has valid data.
// Returns an error if any field fails validation.
func (l *ReviewLog) Validate() error {
	if l.CardID == uuid.Nil {
		return ErrLogCardIDEmpty
	}

	if !l.Quality.Valid() {
		return ErrLogInvalidQuality
	}

	if l.TimeTakenMs < 0 {
		return ErrLogNegativeTime
	}

	return nil
}
