package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/vie2206/solo-legalight-sub007/internal/domain"
)

// DailyCounterStore defines the interface for per-deck, per-day study counters.
type DailyCounterStore interface {
	// Get returns the counter for the deck and date. A missing row is not an
	// error: it returns a zero-valued counter, since absence simply means
	// nothing has been studied yet that day.
	Get(ctx context.Context, deckID uuid.UUID, date string) (*domain.DailyCounter, error)

	// IncrementNew atomically adds one to the deck-day's new-card count,
	// creating the row if needed. Safe under concurrent study sessions.
	IncrementNew(ctx context.Context, deckID uuid.UUID, date string) error

	// IncrementReview atomically adds one to the deck-day's review count,
	// creating the row if needed. Safe under concurrent study sessions.
	IncrementReview(ctx context.Context, deckID uuid.UUID, date string) error

	// WithTx returns a new DailyCounterStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) DailyCounterStore
}
