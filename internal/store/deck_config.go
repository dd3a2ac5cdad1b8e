package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/vie2206/solo-legalight-sub007/internal/domain"
)

// DeckConfigStore defines the interface for deck configuration persistence.
type DeckConfigStore interface {
	// Get retrieves the scheduling configuration for a deck.
	// Returns ErrDeckConfigNotFound if no configuration has been saved.
	Get(ctx context.Context, deckID uuid.UUID) (*domain.DeckConfig, error)

	// Save upserts a deck's configuration. It handles domain validation
	// internally and returns validation errors if the config is invalid.
	Save(ctx context.Context, cfg *domain.DeckConfig) error

	// WithTx returns a new DeckConfigStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) DeckConfigStore
}
