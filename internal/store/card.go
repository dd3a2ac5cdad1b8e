package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/vie2206/solo-legalight-sub007/internal/domain"
)

// CardStore defines the interface for card data persistence.
type CardStore interface {
	// Create saves a new card to the store.
	// Returns validation errors if the card data is invalid.
	Create(ctx context.Context, card *domain.Card) error

	// GetByID retrieves a card by its unique ID.
	// Returns ErrCardNotFound if the card does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error)

	// Update persists a card's scheduling state unconditionally and bumps its
	// version. Returns ErrCardNotFound if the card does not exist.
	// Used by reset and suspend, which are idempotent last-writer-wins
	// operations.
	Update(ctx context.Context, card *domain.Card) error

	// UpdateIfVersion persists a card's scheduling state only if the stored
	// row still carries expectedVersion, bumping the version on success.
	// Returns ErrConflict when the row has moved on (a concurrent answer won
	// the race) and ErrCardNotFound when the card does not exist. The review
	// recorder relies on this for its read-compute-write atomicity.
	UpdateIfVersion(ctx context.Context, card *domain.Card, expectedVersion int) error

	// DueLearning returns the deck's learning and relearning cards whose due
	// timestamp is at or before now, ordered by due ascending.
	// Suspended cards are never included.
	DueLearning(ctx context.Context, deckID uuid.UUID, now time.Time) ([]*domain.Card, error)

	// DueReview returns the deck's review cards whose due day is at or before
	// today, ordered by due day ascending. Tie-breaking and daily-limit
	// truncation are the queue builder's job, so no limit is applied here.
	DueReview(ctx context.Context, deckID uuid.UUID, today int64) ([]*domain.Card, error)

	// NewCards returns the deck's new cards in creation order. The queue
	// builder applies the deck's configured ordering and daily allowance.
	NewCards(ctx context.Context, deckID uuid.UUID) ([]*domain.Card, error)

	// WithTx returns a new CardStore instance that uses the provided transaction.
	// This allows for multiple operations to be executed within a single transaction.
	// The transaction should be created and managed by the caller (typically a service).
	WithTx(tx *sql.Tx) CardStore
}
