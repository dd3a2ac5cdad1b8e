package study

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/vie2206/solo-legalight-sub007/internal/domain"
	"github.com/vie2206/solo-legalight-sub007/internal/platform/logger"
	"github.com/vie2206/solo-legalight-sub007/internal/store"
)

// ResetCard reverts a card to its creation state: new, zero interval, zero
// counters and the deck's starting ease. Review log entries are kept; only
// the card's scheduling state is wiped. The operation is idempotent.
func (s *Service) ResetCard(ctx context.Context, cardID uuid.UUID) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.clock.Now()

	var reset *domain.Card
	err := s.tx.RunInTx(ctx, func(ctx context.Context, st Stores) error {
		card, err := st.Cards.GetByID(ctx, cardID)
		if err != nil {
			return err
		}

		cfg, err := st.Configs.Get(ctx, card.DeckID)
		if err != nil {
			return fmt.Errorf("failed to load deck config: %w", err)
		}

		card.State = domain.StateNew
		card.PriorState = ""
		card.Due = domain.DayNumber(now)
		card.Interval = 0
		card.EaseFactor = cfg.StartingEase
		card.Reps = 0
		card.Lapses = 0
		card.LearningStep = 0
		card.UpdatedAt = now

		if err := st.Cards.Update(ctx, card); err != nil {
			return err
		}
		card.Version++

		reset = card
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("card reset", slog.String("card_id", cardID.String()))
	return reset, nil
}

// SuspendCard toggles a card's suspension. Suspending remembers the prior
// state; unsuspending restores it. Both directions are idempotent: suspending
// a suspended card or unsuspending an active one changes nothing.
func (s *Service) SuspendCard(ctx context.Context, cardID uuid.UUID, suspended bool) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.clock.Now()

	var updated *domain.Card
	err := s.tx.RunInTx(ctx, func(ctx context.Context, st Stores) error {
		card, err := st.Cards.GetByID(ctx, cardID)
		if err != nil {
			return err
		}

		switch {
		case suspended && card.State != domain.StateSuspended:
			card.PriorState = card.State
			card.State = domain.StateSuspended
		case !suspended && card.State == domain.StateSuspended:
			prior := card.PriorState
			if !prior.Valid() || prior == domain.StateSuspended {
				prior = domain.StateNew
			}
			card.State = prior
			card.PriorState = ""
		default:
			// Already in the requested state.
			updated = card
			return nil
		}

		card.UpdatedAt = now
		if err := st.Cards.Update(ctx, card); err != nil {
			return err
		}
		card.Version++

		updated = card
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("card suspension toggled",
		slog.String("card_id", cardID.String()),
		slog.Bool("suspended", suspended))
	return updated, nil
}

// DeckConfigPatch carries a partial deck-settings update. Nil fields leave
// the current value untouched.
type DeckConfigPatch struct {
	NewCardsPerDay     *int                 `json:"new_cards_per_day,omitempty"`
	MaxReviewsPerDay   *int                 `json:"max_reviews_per_day,omitempty"`
	LearningSteps      []int                `json:"learning_steps,omitempty"`
	GraduatingInterval *int                 `json:"graduating_interval,omitempty"`
	EasyInterval       *int                 `json:"easy_interval,omitempty"`
	StartingEase       *int                 `json:"starting_ease,omitempty"`
	EasyBonus          *int                 `json:"easy_bonus,omitempty"`
	IntervalModifier   *int                 `json:"interval_modifier,omitempty"`
	MaximumInterval    *int                 `json:"maximum_interval,omitempty"`
	MinEase            *int                 `json:"min_ease,omitempty"`
	MaxEase            *int                 `json:"max_ease,omitempty"`
	LapseMultiplier    *int                 `json:"lapse_multiplier,omitempty"`
	NewCardOrder       *domain.NewCardOrder `json:"new_card_order,omitempty"`
}

// UpdateDeckSettings applies a partial configuration update to a deck,
// validates the merged result and persists it. A deck with no stored
// configuration starts from the defaults. The validated configuration is
// returned; an invalid merge persists nothing.
func (s *Service) UpdateDeckSettings(
	ctx context.Context,
	deckID uuid.UUID,
	patch DeckConfigPatch,
) (*domain.DeckConfig, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.clock.Now()

	var saved *domain.DeckConfig
	err := s.tx.RunInTx(ctx, func(ctx context.Context, st Stores) error {
		cfg, err := st.Configs.Get(ctx, deckID)
		if err != nil {
			if !store.IsNotFoundError(err) {
				return err
			}
			cfg = domain.DefaultDeckConfig(deckID, now)
		}

		applyPatch(cfg, patch)
		cfg.UpdatedAt = now

		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
		}

		if err := st.Configs.Save(ctx, cfg); err != nil {
			return err
		}

		saved = cfg
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("deck settings updated", slog.String("deck_id", deckID.String()))
	return saved, nil
}

func applyPatch(cfg *domain.DeckConfig, patch DeckConfigPatch) {
	if patch.NewCardsPerDay != nil {
		cfg.NewCardsPerDay = *patch.NewCardsPerDay
	}
	if patch.MaxReviewsPerDay != nil {
		cfg.MaxReviewsPerDay = *patch.MaxReviewsPerDay
	}
	if patch.LearningSteps != nil {
		cfg.LearningSteps = append([]int(nil), patch.LearningSteps...)
	}
	if patch.GraduatingInterval != nil {
		cfg.GraduatingInterval = *patch.GraduatingInterval
	}
	if patch.EasyInterval != nil {
		cfg.EasyInterval = *patch.EasyInterval
	}
	if patch.StartingEase != nil {
		cfg.StartingEase = *patch.StartingEase
	}
	if patch.EasyBonus != nil {
		cfg.EasyBonus = *patch.EasyBonus
	}
	if patch.IntervalModifier != nil {
		cfg.IntervalModifier = *patch.IntervalModifier
	}
	if patch.MaximumInterval != nil {
		cfg.MaximumInterval = *patch.MaximumInterval
	}
	if patch.MinEase != nil {
		cfg.MinEase = *patch.MinEase
	}
	if patch.MaxEase != nil {
		cfg.MaxEase = *patch.MaxEase
	}
	if patch.LapseMultiplier != nil {
		cfg.LapseMultiplier = *patch.LapseMultiplier
	}
	if patch.NewCardOrder != nil {
		cfg.NewCardOrder = *patch.NewCardOrder
	}
}
