package srs

import (
	"errors"
	"time"

	"github.com/vie2206/solo-legalight-sub007/internal/domain"
)

// Scheduler errors
var (
	// ErrInvalidQuality is returned when the answer grade is outside {1,2,3,4}.
	ErrInvalidQuality = errors.New("invalid answer quality")

	// ErrCardSuspended is returned when a suspended card is scheduled.
	ErrCardSuspended = errors.New("card is suspended")
)

// Per-outcome ease adjustments, on the ×1000 fixed-point scale.
const (
	againEasePenalty = 200
	hardEasePenalty  = 150
	easyEaseBonus    = 150
)

// hardIntervalFactor is the fixed 1.2 multiplier applied to review intervals
// answered Hard, on the ×1000 scale.
const hardIntervalFactor = 1200

// Schedule computes a card's next scheduling state for a single answer.
//
// It is pure: no I/O, no clock reads, no randomness. The same card, config,
// quality and now always produce the same output, and the input card is never
// modified. The returned log entry has a nil ID; the recorder assigns one when
// it persists the entry.
func Schedule(
	card domain.Card,
	cfg domain.DeckConfig,
	quality domain.Answer,
	now time.Time,
) (domain.Card, domain.ReviewLog, error) {
	if !quality.Valid() {
		return domain.Card{}, domain.ReviewLog{}, ErrInvalidQuality
	}
	if card.State == domain.StateSuspended {
		return domain.Card{}, domain.ReviewLog{}, ErrCardSuspended
	}

	now = now.UTC()
	next := card
	next.Reps++

	switch card.State {
	case domain.StateNew:
		scheduleNew(&next, &cfg, quality, now)
	case domain.StateLearning, domain.StateRelearning:
		scheduleLearning(&next, &cfg, quality, now)
	case domain.StateReview:
		scheduleReview(&next, &cfg, quality, now)
	default:
		return domain.Card{}, domain.ReviewLog{}, domain.ErrCardInvalidState
	}

	next.UpdatedAt = now

	entry := domain.ReviewLog{
		CardID:       card.ID,
		DeckID:       card.DeckID,
		Quality:      quality,
		PrevInterval: card.Interval,
		NewInterval:  next.Interval,
		PrevEase:     card.EaseFactor,
		NewEase:      next.EaseFactor,
		PrevState:    card.State,
		NewState:     next.State,
		ReviewedAt:   now,
	}

	return next, entry, nil
}

// scheduleNew moves a card out of the new state. Easy graduates immediately;
// Good counts the first presentation as the first learning step and lands on
// the next one; Again and Hard enter learning at step zero.
func scheduleNew(next *domain.Card, cfg *domain.DeckConfig, quality domain.Answer, now time.Time) {
	switch quality {
	case domain.AnswerEasy:
		graduate(next, cfg, cfg.EasyInterval, now)
	case domain.AnswerGood:
		if len(cfg.LearningSteps) > 1 {
			enterStep(next, cfg, 1, now)
		} else {
			graduate(next, cfg, cfg.GraduatingInterval, now)
		}
	default:
		enterStep(next, cfg, 0, now)
	}
}

// scheduleLearning advances a card through the deck's learning steps. The
// same transitions apply to relearning; the only difference is the interval a
// relearning card graduates with, which was already lapse-penalized when it
// left review.
func scheduleLearning(next *domain.Card, cfg *domain.DeckConfig, quality domain.Answer, now time.Time) {
	switch quality {
	case domain.AnswerAgain:
		enterStep(next, cfg, 0, now)
	case domain.AnswerHard:
		step := next.LearningStep
		if step >= len(cfg.LearningSteps) {
			step = len(cfg.LearningSteps) - 1
		}
		enterStep(next, cfg, step, now)
	case domain.AnswerGood:
		step := next.LearningStep + 1
		if step >= len(cfg.LearningSteps) {
			if next.State == domain.StateRelearning {
				interval := next.Interval
				if interval < 1 {
					interval = 1
				}
				graduate(next, cfg, interval, now)
			} else {
				graduate(next, cfg, cfg.GraduatingInterval, now)
			}
			return
		}
		enterStep(next, cfg, step, now)
	case domain.AnswerEasy:
		graduate(next, cfg, cfg.EasyInterval, now)
	}
}

// scheduleReview applies the review-state grade formulas. Good and Easy always
// grow the interval by at least one day; Again lapses the card back into
// relearning with a penalized interval.
func scheduleReview(next *domain.Card, cfg *domain.DeckConfig, quality domain.Answer, now time.Time) {
	switch quality {
	case domain.AnswerAgain:
		next.Lapses++
		next.EaseFactor = clampEase(next.EaseFactor-againEasePenalty, cfg)
		next.Interval = fixedRound(int64(next.Interval)*int64(cfg.LapseMultiplier), 1_000)
		if next.Interval < 1 {
			next.Interval = 1
		}
		next.State = domain.StateRelearning
		enterStep(next, cfg, 0, now)
	case domain.AnswerHard:
		interval := fixedRound(
			int64(next.Interval)*hardIntervalFactor*int64(cfg.IntervalModifier),
			1_000_000,
		)
		if interval < next.Interval+1 {
			interval = next.Interval + 1
		}
		next.EaseFactor = clampEase(next.EaseFactor-hardEasePenalty, cfg)
		setReviewInterval(next, cfg, interval, now)
	case domain.AnswerGood:
		interval := fixedRound(
			int64(next.Interval)*int64(next.EaseFactor)*int64(cfg.IntervalModifier),
			1_000_000,
		)
		if interval < next.Interval+1 {
			interval = next.Interval + 1
		}
		setReviewInterval(next, cfg, interval, now)
	case domain.AnswerEasy:
		interval := fixedRound(
			int64(next.Interval)*int64(next.EaseFactor)*int64(cfg.EasyBonus)*int64(cfg.IntervalModifier),
			1_000_000_000,
		)
		if interval < next.Interval+1 {
			interval = next.Interval + 1
		}
		next.EaseFactor = clampEase(next.EaseFactor+easyEaseBonus, cfg)
		setReviewInterval(next, cfg, interval, now)
	}
}

// enterStep places the card on the given learning step, due after that step's
// minute delay. A card entering step zero from review keeps its relearning
// state; a new card entering a step becomes learning.
func enterStep(next *domain.Card, cfg *domain.DeckConfig, step int, now time.Time) {
	if next.State != domain.StateRelearning {
		next.State = domain.StateLearning
	}
	next.LearningStep = step
	next.Due = now.Add(time.Duration(cfg.LearningSteps[step]) * time.Minute).Unix()
}

// graduate promotes the card into review with the given interval.
func graduate(next *domain.Card, cfg *domain.DeckConfig, interval int, now time.Time) {
	next.State = domain.StateReview
	next.LearningStep = 0
	setReviewInterval(next, cfg, interval, now)
}

// setReviewInterval clamps the interval to [1, MaximumInterval] and places the
// card's due day accordingly.
func setReviewInterval(next *domain.Card, cfg *domain.DeckConfig, interval int, now time.Time) {
	if interval < 1 {
		interval = 1
	}
	if interval > cfg.MaximumInterval {
		interval = cfg.MaximumInterval
	}
	next.Interval = interval
	next.Due = domain.DayNumber(now) + int64(interval)
}

// clampEase keeps the ease factor inside the deck's configured floor and
// ceiling.
func clampEase(ease int, cfg *domain.DeckConfig) int {
	if ease < cfg.MinEase {
		return cfg.MinEase
	}
	if ease > cfg.MaxEase {
		return cfg.MaxEase
	}
	return ease
}

// fixedRound divides a fixed-point product by its scale, rounding half up.
// Integer arithmetic keeps the result exact across any review count.
func fixedRound(n, scale int64) int {
	return int((n + scale/2) / scale)
}
