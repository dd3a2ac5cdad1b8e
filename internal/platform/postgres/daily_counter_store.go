package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/vie2206/solo-legalight-sub007/internal/domain"
	"github.com/vie2206/solo-legalight-sub007/internal/platform/logger"
	"github.com/vie2206/solo-legalight-sub007/internal/store"
)

// PostgresDailyCounterStore implements the store.DailyCounterStore interface
// using a PostgreSQL database as the storage backend. Increments are single
// upsert statements, so concurrent sessions can never lose a count.
type PostgresDailyCounterStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresDailyCounterStore creates a new PostgreSQL implementation of the DailyCounterStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresDailyCounterStore(db store.DBTX, logger *slog.Logger) *PostgresDailyCounterStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresDailyCounterStore{
		db:     db,
		logger: logger.With(slog.String("component", "daily_counter_store")),
	}
}

// Ensure PostgresDailyCounterStore implements store.DailyCounterStore interface
var _ store.DailyCounterStore = (*PostgresDailyCounterStore)(nil)

// WithTx returns a new DailyCounterStore bound to the provided transaction.
func (s *PostgresDailyCounterStore) WithTx(tx *sql.Tx) store.DailyCounterStore {
	return &PostgresDailyCounterStore{
		db:     tx,
		logger: s.logger,
	}
}

// Get implements store.DailyCounterStore.Get
// A missing row yields a zero-valued counter, not an error.
func (s *PostgresDailyCounterStore) Get(ctx context.Context, deckID uuid.UUID, date string) (*domain.DailyCounter, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT deck_id, date, new_count, review_count
		FROM daily_counters
		WHERE deck_id = $1 AND date = $2
	`

	var counter domain.DailyCounter
	err := s.db.QueryRowContext(ctx, query, deckID, date).Scan(
		&counter.DeckID,
		&counter.Date,
		&counter.NewCount,
		&counter.ReviewCount,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &domain.DailyCounter{DeckID: deckID, Date: date}, nil
		}
		log.Error("failed to get daily counter",
			slog.String("error", err.Error()),
			slog.String("deck_id", deckID.String()),
			slog.String("date", date))
		return nil, MapError(err)
	}

	return &counter, nil
}

// IncrementNew implements store.DailyCounterStore.IncrementNew
func (s *PostgresDailyCounterStore) IncrementNew(ctx context.Context, deckID uuid.UUID, date string) error {
	query := `
		INSERT INTO daily_counters (deck_id, date, new_count, review_count)
		VALUES ($1, $2, 1, 0)
		ON CONFLICT (deck_id, date)
		DO UPDATE SET new_count = daily_counters.new_count + 1
	`
	return s.increment(ctx, query, deckID, date)
}

// IncrementReview implements store.DailyCounterStore.IncrementReview
func (s *PostgresDailyCounterStore) IncrementReview(ctx context.Context, deckID uuid.UUID, date string) error {
	query := `
		INSERT INTO daily_counters (deck_id, date, new_count, review_count)
		VALUES ($1, $2, 0, 1)
		ON CONFLICT (deck_id, date)
		DO UPDATE SET review_count = daily_counters.review_count + 1
	`
	return s.increment(ctx, query, deckID, date)
}

func (s *PostgresDailyCounterStore) increment(ctx context.Context, query string, deckID uuid.UUID, date string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.db.ExecContext(ctx, query, deckID, date); err != nil {
		log.Error("failed to increment daily counter",
			slog.String("error", err.Error()),
			slog.String("deck_id", deckID.String()),
			slog.String("date", date))
		return MapError(err)
	}

	return nil
}
