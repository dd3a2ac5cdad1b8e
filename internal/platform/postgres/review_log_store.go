package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/vie2206/solo-legalight-sub007/internal/domain"
	"github.com/vie2206/solo-legalight-sub007/internal/platform/logger"
	"github.com/vie2206/solo-legalight-sub007/internal/store"
)

// PostgresReviewLogStore implements the store.ReviewLogStore interface
// using a PostgreSQL database as the storage backend.
type PostgresReviewLogStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresReviewLogStore creates a new PostgreSQL implementation of the ReviewLogStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresReviewLogStore(db store.DBTX, logger *slog.Logger) *PostgresReviewLogStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresReviewLogStore{
		db:     db,
		logger: logger.With(slog.String("component", "review_log_store")),
	}
}

// Ensure PostgresReviewLogStore implements store.ReviewLogStore interface
var _ store.ReviewLogStore = (*PostgresReviewLogStore)(nil)

// WithTx returns a new ReviewLogStore bound to the provided transaction.
func (s *PostgresReviewLogStore) WithTx(tx *sql.Tx) store.ReviewLogStore {
	return &PostgresReviewLogStore{
		db:     tx,
		logger: s.logger,
	}
}

// Append implements store.ReviewLogStore.Append
func (s *PostgresReviewLogStore) Append(ctx context.Context, entry *domain.ReviewLog) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := entry.Validate(); err != nil {
		log.Warn("review log validation failed during append",
			slog.String("error", err.Error()),
			slog.String("card_id", entry.CardID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO review_logs (id, card_id, deck_id, quality, time_taken_ms,
			prev_interval, new_interval, prev_ease, new_ease, prev_state,
			new_state, reviewed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		entry.ID,
		entry.CardID,
		entry.DeckID,
		int(entry.Quality),
		entry.TimeTakenMs,
		entry.PrevInterval,
		entry.NewInterval,
		entry.PrevEase,
		entry.NewEase,
		entry.PrevState,
		entry.NewState,
		entry.ReviewedAt,
	)
	if err != nil {
		log.Error("failed to append review log",
			slog.String("error", err.Error()),
			slog.String("card_id", entry.CardID.String()))
		return MapError(err)
	}

	return nil
}

// ListByCard implements store.ReviewLogStore.ListByCard
func (s *PostgresReviewLogStore) ListByCard(ctx context.Context, cardID uuid.UUID, limit int) ([]*domain.ReviewLog, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, card_id, deck_id, quality, time_taken_ms, prev_interval,
			new_interval, prev_ease, new_ease, prev_state, new_state, reviewed_at
		FROM review_logs
		WHERE card_id = $1
		ORDER BY reviewed_at DESC
		LIMIT $2
	`

	rows, err := s.db.QueryContext(ctx, query, cardID, limit)
	if err != nil {
		log.Error("review log query failed",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	var entries []*domain.ReviewLog
	for rows.Next() {
		var entry domain.ReviewLog
		var quality int

		err := rows.Scan(
			&entry.ID,
			&entry.CardID,
			&entry.DeckID,
			&quality,
			&entry.TimeTakenMs,
			&entry.PrevInterval,
			&entry.NewInterval,
			&entry.PrevEase,
			&entry.NewEase,
			&entry.PrevState,
			&entry.NewState,
			&entry.ReviewedAt,
		)
		if err != nil {
			return nil, MapError(err)
		}

		entry.Quality = domain.Answer(quality)
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return entries, nil
}
