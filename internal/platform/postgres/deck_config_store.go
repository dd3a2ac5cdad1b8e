package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/vie2206/solo-legalight-sub007/internal/domain"
	"github.com/vie2206/solo-legalight-sub007/internal/platform/logger"
	"github.com/vie2206/solo-legalight-sub007/internal/store"
)

// PostgresDeckConfigStore implements the store.DeckConfigStore interface
// using a PostgreSQL database as the storage backend.
type PostgresDeckConfigStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresDeckConfigStore creates a new PostgreSQL implementation of the DeckConfigStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresDeckConfigStore(db store.DBTX, logger *slog.Logger) *PostgresDeckConfigStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresDeckConfigStore{
		db:     db,
		logger: logger.With(slog.String("component", "deck_config_store")),
	}
}

// Ensure PostgresDeckConfigStore implements store.DeckConfigStore interface
var _ store.DeckConfigStore = (*PostgresDeckConfigStore)(nil)

// WithTx returns a new DeckConfigStore bound to the provided transaction.
func (s *PostgresDeckConfigStore) WithTx(tx *sql.Tx) store.DeckConfigStore {
	return &PostgresDeckConfigStore{
		db:     tx,
		logger: s.logger,
	}
}

// Get implements store.DeckConfigStore.Get
// Returns store.ErrDeckConfigNotFound if no configuration exists for the deck.
func (s *PostgresDeckConfigStore) Get(ctx context.Context, deckID uuid.UUID) (*domain.DeckConfig, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT deck_id, new_cards_per_day, max_reviews_per_day, learning_steps,
			graduating_interval, easy_interval, starting_ease, easy_bonus,
			interval_modifier, maximum_interval, min_ease, max_ease,
			lapse_multiplier, new_card_order, created_at, updated_at
		FROM deck_configs
		WHERE deck_id = $1
	`

	var cfg domain.DeckConfig
	var steps []byte

	err := s.db.QueryRowContext(ctx, query, deckID).Scan(
		&cfg.DeckID,
		&cfg.NewCardsPerDay,
		&cfg.MaxReviewsPerDay,
		&steps,
		&cfg.GraduatingInterval,
		&cfg.EasyInterval,
		&cfg.StartingEase,
		&cfg.EasyBonus,
		&cfg.IntervalModifier,
		&cfg.MaximumInterval,
		&cfg.MinEase,
		&cfg.MaxEase,
		&cfg.LapseMultiplier,
		&cfg.NewCardOrder,
		&cfg.CreatedAt,
		&cfg.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("deck config not found", slog.String("deck_id", deckID.String()))
			return nil, store.ErrDeckConfigNotFound
		}
		log.Error("failed to get deck config",
			slog.String("error", err.Error()),
			slog.String("deck_id", deckID.String()))
		return nil, MapError(err)
	}

	if err := json.Unmarshal(steps, &cfg.LearningSteps); err != nil {
		return nil, fmt.Errorf("failed to decode learning steps: %w", err)
	}

	return &cfg, nil
}

// Save implements store.DeckConfigStore.Save
// It upserts the deck configuration after domain validation.
func (s *PostgresDeckConfigStore) Save(ctx context.Context, cfg *domain.DeckConfig) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := cfg.Validate(); err != nil {
		log.Warn("deck config validation failed during save",
			slog.String("error", err.Error()),
			slog.String("deck_id", cfg.DeckID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	steps, err := json.Marshal(cfg.LearningSteps)
	if err != nil {
		return fmt.Errorf("failed to encode learning steps: %w", err)
	}

	query := `
		INSERT INTO deck_configs (deck_id, new_cards_per_day, max_reviews_per_day,
			learning_steps, graduating_interval, easy_interval, starting_ease,
			easy_bonus, interval_modifier, maximum_interval, min_ease, max_ease,
			lapse_multiplier, new_card_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (deck_id) DO UPDATE SET
			new_cards_per_day = EXCLUDED.new_cards_per_day,
			max_reviews_per_day = EXCLUDED.max_reviews_per_day,
			learning_steps = EXCLUDED.learning_steps,
			graduating_interval = EXCLUDED.graduating_interval,
			easy_interval = EXCLUDED.easy_interval,
			starting_ease = EXCLUDED.starting_ease,
			easy_bonus = EXCLUDED.easy_bonus,
			interval_modifier = EXCLUDED.interval_modifier,
			maximum_interval = EXCLUDED.maximum_interval,
			min_ease = EXCLUDED.min_ease,
			max_ease = EXCLUDED.max_ease,
			lapse_multiplier = EXCLUDED.lapse_multiplier,
			new_card_order = EXCLUDED.new_card_order,
			updated_at = EXCLUDED.updated_at
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		cfg.DeckID,
		cfg.NewCardsPerDay,
		cfg.MaxReviewsPerDay,
		steps,
		cfg.GraduatingInterval,
		cfg.EasyInterval,
		cfg.StartingEase,
		cfg.EasyBonus,
		cfg.IntervalModifier,
		cfg.MaximumInterval,
		cfg.MinEase,
		cfg.MaxEase,
		cfg.LapseMultiplier,
		cfg.NewCardOrder,
		cfg.CreatedAt,
		cfg.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to save deck config",
			slog.String("error", err.Error()),
			slog.String("deck_id", cfg.DeckID.String()))
		return MapError(err)
	}

	log.Debug("deck config saved", slog.String("deck_id", cfg.DeckID.String()))
	return nil
}
