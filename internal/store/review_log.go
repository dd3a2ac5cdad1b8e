package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/vie2206/solo-legalight-sub007/internal/domain"
)

// ReviewLogStore defines the interface for the append-only review audit log.
type ReviewLogStore interface {
	// Append writes one review log entry. Entries are immutable; there is no
	// update or delete.
	Append(ctx context.Context, entry *domain.ReviewLog) error

	// ListByCard returns a card's most recent log entries, newest first,
	// capped at limit.
	ListByCard(ctx context.Context, cardID uuid.UUID, limit int) ([]*domain.ReviewLog, error)

	// WithTx returns a new ReviewLogStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ReviewLogStore
}
