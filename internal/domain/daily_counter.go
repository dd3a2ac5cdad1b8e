package domain

import (
	"time"

	"github.com/google/uuid"
)

// DailyCounter tracks how many new cards and reviews a deck has consumed on a
// given calendar day. Date rollover resets limits naturally because each day
// keys its own row.
type DailyCounter struct {
	DeckID      uuid.UUID `json:"deck_id"`
	Date        string    `json:"date"`
	NewCount    int       `json:"new_count"`
	ReviewCount int       `json:"review_count"`
}

// CounterDate formats a point in time as the UTC calendar-day key used by
// daily counters.
func CounterDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
