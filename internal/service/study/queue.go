package study

import (
	"context"
	"fmt"
	"hash/fnv"
	"log/slog"
	"math/rand"
	"sort"

	"github.com/google/uuid"
	"github.com/vie2206/solo-legalight-sub007/internal/domain"
	"github.com/vie2206/solo-legalight-sub007/internal/platform/logger"
)

// GetStudyQueue produces the ordered study queue for a deck at the current
// time: due learning/relearning cards first (never capped), then due review
// cards up to the day's remaining review allowance, then new cards up to the
// day's remaining new-card allowance.
//
// The result is a snapshot. Cards becoming due while the queue is read may or
// may not appear; callers must not assume consistency beyond the moment the
// queue was built.
func (s *Service) GetStudyQueue(ctx context.Context, deckID uuid.UUID) ([]uuid.UUID, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	now := s.clock.Now()
	today := domain.DayNumber(now)

	cfg, err := s.stores.Configs.Get(ctx, deckID)
	if err != nil {
		return nil, fmt.Errorf("failed to load deck config: %w", err)
	}

	counter, err := s.stores.Counters.Get(ctx, deckID, domain.CounterDate(now))
	if err != nil {
		return nil, fmt.Errorf("failed to load daily counter: %w", err)
	}

	learning, err := s.stores.Cards.DueLearning(ctx, deckID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to load learning cards: %w", err)
	}

	review, err := s.stores.Cards.DueReview(ctx, deckID, today)
	if err != nil {
		return nil, fmt.Errorf("failed to load review cards: %w", err)
	}

	// Oldest due first; same-day ties broken by a deterministic per-day draw
	// so the order is stable within a session but reshuffles across days.
	sort.SliceStable(review, func(i, j int) bool {
		if review[i].Due != review[j].Due {
			return review[i].Due < review[j].Due
		}
		return drawKey(review[i].ID, today) < drawKey(review[j].ID, today)
	})

	review = capCards(review, cfg.MaxReviewsPerDay-counter.ReviewCount)

	newCards, err := s.stores.Cards.NewCards(ctx, deckID)
	if err != nil {
		return nil, fmt.Errorf("failed to load new cards: %w", err)
	}

	if cfg.NewCardOrder == domain.NewCardOrderRandom {
		shuffleCards(newCards, deckID, today)
	}
	newCards = capCards(newCards, cfg.NewCardsPerDay-counter.NewCount)

	queue := make([]uuid.UUID, 0, len(learning)+len(review)+len(newCards))
	for _, segment := range [][]*domain.Card{learning, review, newCards} {
		for _, card := range segment {
			queue = append(queue, card.ID)
		}
	}

	log.Debug("study queue built",
		slog.String("deck_id", deckID.String()),
		slog.Int("learning", len(learning)),
		slog.Int("review", len(review)),
		slog.Int("new", len(newCards)))

	return queue, nil
}

// capCards truncates cards to the remaining daily allowance, treating a
// negative allowance as zero.
func capCards(cards []*domain.Card, allowance int) []*domain.Card {
	if allowance < 0 {
		allowance = 0
	}
	if len(cards) > allowance {
		cards = cards[:allowance]
	}
	return cards
}

// drawKey hashes a card ID with the day number, giving each card a stable
// position in the day's tie-break order.
func drawKey(id uuid.UUID, day int64) uint64 {
	h := fnv.New64a()
	h.Write(id[:])
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(day >> (8 * i))
	}
	h.Write(buf[:])
	return h.Sum64()
}

// shuffleCards randomizes new-card order with a (deck, day) seed, so repeated
// queue builds within one day agree on the order.
func shuffleCards(cards []*domain.Card, deckID uuid.UUID, day int64) {
	h := fnv.New64a()
	h.Write(deckID[:])
	seed := int64(h.Sum64()) ^ day

	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
}
