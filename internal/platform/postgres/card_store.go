package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/vie2206/solo-legalight-sub007/internal/domain"
	"github.com/vie2206/solo-legalight-sub007/internal/platform/logger"
	"github.com/vie2206/solo-legalight-sub007/internal/store"
)

// cardColumns is the scan-order column list shared by every card query.
// interval_days avoids clashing with the INTERVAL type keyword.
const cardColumns = `id, note_id, deck_id, template_index, state, prior_state,
		due, interval_days, ease_factor, reps, lapses, learning_step, version,
		created_at, updated_at`

// PostgresCardStore implements the store.CardStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCardStore creates a new PostgreSQL implementation of the CardStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresCardStore(db store.DBTX, logger *slog.Logger) *PostgresCardStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCardStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_store")),
	}
}

// Ensure PostgresCardStore implements store.CardStore interface
var _ store.CardStore = (*PostgresCardStore)(nil)

// WithTx returns a new CardStore bound to the provided transaction.
func (s *PostgresCardStore) WithTx(tx *sql.Tx) store.CardStore {
	return &PostgresCardStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.CardStore.Create
func (s *PostgresCardStore) Create(ctx context.Context, card *domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("card validation failed during create",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO cards (id, note_id, deck_id, template_index, state, prior_state,
			due, interval_days, ease_factor, reps, lapses, learning_step, version,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		card.ID,
		card.NoteID,
		card.DeckID,
		card.TemplateIndex,
		card.State,
		string(card.PriorState),
		card.Due,
		card.Interval,
		card.EaseFactor,
		card.Reps,
		card.Lapses,
		card.LearningStep,
		card.Version,
		card.CreatedAt,
		card.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create card",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return MapError(err)
	}

	log.Debug("card created",
		slog.String("card_id", card.ID.String()),
		slog.String("deck_id", card.DeckID.String()))
	return nil
}

// GetByID implements store.CardStore.GetByID
// Returns store.ErrCardNotFound if the card does not exist.
func (s *PostgresCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + cardColumns + ` FROM cards WHERE id = $1`

	card, err := scanCard(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("card not found", slog.String("card_id", id.String()))
			return nil, store.ErrCardNotFound
		}
		log.Error("failed to get card",
			slog.String("error", err.Error()),
			slog.String("card_id", id.String()))
		return nil, MapError(err)
	}

	return card, nil
}

// Update implements store.CardStore.Update
func (s *PostgresCardStore) Update(ctx context.Context, card *domain.Card) error {
	return s.update(ctx, card, nil)
}

// UpdateIfVersion implements store.CardStore.UpdateIfVersion
// Returns store.ErrConflict when the stored row no longer carries expectedVersion.
func (s *PostgresCardStore) UpdateIfVersion(ctx context.Context, card *domain.Card, expectedVersion int) error {
	return s.update(ctx, card, &expectedVersion)
}

// update writes the card's mutable scheduling fields. With a non-nil
// expectedVersion the write is guarded: zero affected rows then means either
// a missing card or a lost version race, disambiguated by a follow-up read.
func (s *PostgresCardStore) update(ctx context.Context, card *domain.Card, expectedVersion *int) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("card validation failed during update",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE cards
		SET state = $2, prior_state = $3, due = $4, interval_days = $5,
			ease_factor = $6, reps = $7, lapses = $8, learning_step = $9,
			version = version + 1, updated_at = $10
		WHERE id = $1
	`
	args := []any{
		card.ID,
		card.State,
		string(card.PriorState),
		card.Due,
		card.Interval,
		card.EaseFactor,
		card.Reps,
		card.Lapses,
		card.LearningStep,
		card.UpdatedAt,
	}
	if expectedVersion != nil {
		query += ` AND version = $11`
		args = append(args, *expectedVersion)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to update card",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return MapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows > 0 {
		return nil
	}

	if expectedVersion == nil {
		return store.ErrCardNotFound
	}

	// Zero rows under a version guard: find out whether the card vanished or
	// a concurrent writer bumped the version.
	var exists bool
	err = s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM cards WHERE id = $1)`, card.ID).
		Scan(&exists)
	if err != nil {
		return MapError(err)
	}
	if !exists {
		return store.ErrCardNotFound
	}

	log.Debug("card update lost version race",
		slog.String("card_id", card.ID.String()),
		slog.Int("expected_version", *expectedVersion))
	return store.ErrConflict
}

// DueLearning implements store.CardStore.DueLearning
func (s *PostgresCardStore) DueLearning(ctx context.Context, deckID uuid.UUID, now time.Time) ([]*domain.Card, error) {
	query := `SELECT ` + cardColumns + `
		FROM cards
		WHERE deck_id = $1 AND state IN ($2, $3) AND due <= $4
		ORDER BY due ASC`

	return s.queryCards(ctx, query, deckID, domain.StateLearning, domain.StateRelearning, now.UTC().Unix())
}

// DueReview implements store.CardStore.DueReview
func (s *PostgresCardStore) DueReview(ctx context.Context, deckID uuid.UUID, today int64) ([]*domain.Card, error) {
	query := `SELECT ` + cardColumns + `
		FROM cards
		WHERE deck_id = $1 AND state = $2 AND due <= $3
		ORDER BY due ASC`

	return s.queryCards(ctx, query, deckID, domain.StateReview, today)
}

// NewCards implements store.CardStore.NewCards
func (s *PostgresCardStore) NewCards(ctx context.Context, deckID uuid.UUID) ([]*domain.Card, error) {
	query := `SELECT ` + cardColumns + `
		FROM cards
		WHERE deck_id = $1 AND state = $2
		ORDER BY created_at ASC, id ASC`

	return s.queryCards(ctx, query, deckID, domain.StateNew)
}

// queryCards runs a multi-row card query and scans the result set.
func (s *PostgresCardStore) queryCards(ctx context.Context, query string, args ...any) ([]*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("card query failed", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	var cards []*domain.Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, MapError(err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return cards, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanCard reads one card row in cardColumns order.
func scanCard(row rowScanner) (*domain.Card, error) {
	var card domain.Card
	var priorState string

	err := row.Scan(
		&card.ID,
		&card.NoteID,
		&card.DeckID,
		&card.TemplateIndex,
		&card.State,
		&priorState,
		&card.Due,
		&card.Interval,
		&card.EaseFactor,
		&card.Reps,
		&card.Lapses,
		&card.LearningStep,
		&card.Version,
		&card.CreatedAt,
		&card.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	card.PriorState = domain.State(priorState)
	return &card, nil
}
