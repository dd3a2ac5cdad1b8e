package study

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/vie2206/solo-legalight-sub007/internal/domain"
	"github.com/vie2206/solo-legalight-sub007/internal/domain/srs"
	"github.com/vie2206/solo-legalight-sub007/internal/platform/logger"
	"github.com/vie2206/solo-legalight-sub007/internal/store"
)

// conflictRetries bounds how many fresh attempts a version conflict gets
// before it is surfaced to the caller as retryable.
const conflictRetries = 3

// ReviewResult is the outcome of recording one answer.
type ReviewResult struct {
	// Card is the card's persisted post-answer state.
	Card *domain.Card
	// PrevState is the state the card was answered from. Session statistics
	// bucket answers by it.
	PrevState domain.State
	// Log is the audit entry that was appended.
	Log *domain.ReviewLog
}

// AnswerCard records a single answer: it runs the scheduler against the
// card's current state and, in one transaction, persists the new card state,
// appends the review log entry and bumps the deck's daily counter. Either all
// three commit or none do.
//
// A concurrent answer for the same card (e.g. a second device) surfaces as a
// version conflict; the whole read-compute-write sequence is retried against
// a fresh read up to conflictRetries times before store.ErrConflict is
// returned to the caller.
func (s *Service) AnswerCard(
	ctx context.Context,
	cardID uuid.UUID,
	quality domain.Answer,
	timeTaken time.Duration,
) (*ReviewResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !quality.Valid() {
		log.Warn("rejected answer with invalid quality",
			slog.String("card_id", cardID.String()),
			slog.Int("quality", int(quality)))
		return nil, ErrInvalidQuality
	}

	var result *ReviewResult
	var err error
	for attempt := 0; ; attempt++ {
		result, err = s.answerOnce(ctx, cardID, quality, timeTaken)
		if !errors.Is(err, store.ErrConflict) || attempt >= conflictRetries {
			break
		}
		log.Debug("retrying answer after version conflict",
			slog.String("card_id", cardID.String()),
			slog.Int("attempt", attempt+1))
	}
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, &ServiceError{
				Operation: "answer_card",
				Message:   "conflict retries exhausted",
				Err:       err,
			}
		}
		return nil, err
	}

	log.Debug("answer recorded",
		slog.String("card_id", cardID.String()),
		slog.Int("quality", int(quality)),
		slog.String("prev_state", string(result.PrevState)),
		slog.String("new_state", string(result.Card.State)),
		slog.Int("interval", result.Card.Interval),
		slog.Int("ease_factor", result.Card.EaseFactor))

	return result, nil
}

// answerOnce performs one transactional read-compute-write attempt.
func (s *Service) answerOnce(
	ctx context.Context,
	cardID uuid.UUID,
	quality domain.Answer,
	timeTaken time.Duration,
) (*ReviewResult, error) {
	now := s.clock.Now()

	var result *ReviewResult
	err := s.tx.RunInTx(ctx, func(ctx context.Context, st Stores) error {
		card, err := st.Cards.GetByID(ctx, cardID)
		if err != nil {
			return err
		}

		if card.State == domain.StateSuspended {
			return fmt.Errorf("%w: card %s", ErrCardSuspended, cardID)
		}

		cfg, err := st.Configs.Get(ctx, card.DeckID)
		if err != nil {
			return fmt.Errorf("failed to load deck config: %w", err)
		}

		next, entry, err := srs.Schedule(*card, *cfg, quality, now)
		if err != nil {
			return fmt.Errorf("failed to schedule card: %w", err)
		}

		entry.ID = uuid.New()
		entry.TimeTakenMs = timeTaken.Milliseconds()

		if err := st.Cards.UpdateIfVersion(ctx, &next, card.Version); err != nil {
			return err
		}
		next.Version = card.Version + 1

		if err := st.Logs.Append(ctx, &entry); err != nil {
			return err
		}

		date := domain.CounterDate(now)
		switch card.State {
		case domain.StateNew:
			if err := st.Counters.IncrementNew(ctx, card.DeckID, date); err != nil {
				return err
			}
		case domain.StateReview:
			if err := st.Counters.IncrementReview(ctx, card.DeckID, date); err != nil {
				return err
			}
		}

		result = &ReviewResult{
			Card:      &next,
			PrevState: card.State,
			Log:       &entry,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
