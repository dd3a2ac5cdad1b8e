package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// NewCardOrder controls how new cards are drawn into the study queue.
type NewCardOrder string

// Possible new-card orderings.
const (
	// NewCardOrderCreation serves new cards oldest-created first.
	NewCardOrderCreation NewCardOrder = "creation"
	// NewCardOrderRandom serves new cards in a randomized but day-stable order.
	NewCardOrderRandom NewCardOrder = "random"
)

// Deck configuration validation errors
var (
	// ErrConfigDeckIDEmpty is returned when a config's deck ID is empty or nil.
	ErrConfigDeckIDEmpty = errors.New("deck config deck ID cannot be empty")

	// ErrConfigNegativeLimit is returned when a daily limit is negative.
	ErrConfigNegativeLimit = errors.New("deck config daily limits cannot be negative")

	// ErrConfigNoLearningSteps is returned when the learning step list is empty.
	ErrConfigNoLearningSteps = errors.New("deck config must have at least one learning step")

	// ErrConfigInvalidStep is returned when a learning step is not a positive minute delay.
	ErrConfigInvalidStep = errors.New("deck config learning steps must be positive minute delays")

	// ErrConfigInvalidInterval is returned when a configured interval is out of range.
	ErrConfigInvalidInterval = errors.New("deck config intervals must be at least one day")

	// ErrConfigInvalidEase is returned when an ease setting is outside sane bounds.
	ErrConfigInvalidEase = errors.New("deck config ease settings out of bounds")

	// ErrConfigInvalidMultiplier is returned when a fixed-point multiplier is out of range.
	ErrConfigInvalidMultiplier = errors.New("deck config multiplier out of bounds")

	// ErrConfigInvalidOrder is returned when the new-card order is not a defined value.
	ErrConfigInvalidOrder = errors.New("deck config new card order is not valid")
)

// Sane bounds for ease settings. The floor may never sit below 100% (intervals
// would shrink forever) and the ceiling is capped so a runaway card cannot
// inflate its interval growth without bound.
const (
	easeLowerBound = 1000
	easeUpperBound = 9000
)

// DeckConfig holds the per-deck scheduling tunables. All percentage-like
// fields (StartingEase, EasyBonus, IntervalModifier, MinEase, MaxEase,
// LapseMultiplier) use the same ×1000 fixed-point scale as Card.EaseFactor.
type DeckConfig struct {
	DeckID           uuid.UUID `json:"deck_id"`
	NewCardsPerDay   int       `json:"new_cards_per_day"`
	MaxReviewsPerDay int       `json:"max_reviews_per_day"`
	// LearningSteps is the ordered list of minute delays a card walks through
	// before graduating. Never empty.
	LearningSteps      []int `json:"learning_steps"`
	GraduatingInterval int   `json:"graduating_interval"`
	EasyInterval       int   `json:"easy_interval"`
	StartingEase       int   `json:"starting_ease"`
	EasyBonus          int   `json:"easy_bonus"`
	IntervalModifier   int   `json:"interval_modifier"`
	MaximumInterval    int   `json:"maximum_interval"`
	MinEase            int   `json:"min_ease"`
	MaxEase            int   `json:"max_ease"`
	// LapseMultiplier scales a review card's interval when it lapses.
	// Zero collapses the interval entirely; the scheduler keeps a one day floor.
	LapseMultiplier int          `json:"lapse_multiplier"`
	NewCardOrder    NewCardOrder `json:"new_card_order"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// DefaultDeckConfig returns the stock configuration for a deck.
func DefaultDeckConfig(deckID uuid.UUID, now time.Time) *DeckConfig {
	now = now.UTC()
	return &DeckConfig{
		DeckID:             deckID,
		NewCardsPerDay:     20,
		MaxReviewsPerDay:   200,
		LearningSteps:      []int{1, 10},
		GraduatingInterval: 1,
		EasyInterval:       4,
		StartingEase:       2500,
		EasyBonus:          1300,
		IntervalModifier:   1000,
		MaximumInterval:    36500,
		MinEase:            1300,
		MaxEase:            5000,
		LapseMultiplier:    0,
		NewCardOrder:       NewCardOrderCreation,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// Validate checks if the DeckConfig has valid data.
// Returns an error if any field fails validation.
func (c *DeckConfig) Validate() error {
	if c.DeckID == uuid.Nil {
		return ErrConfigDeckIDEmpty
	}

	if c.NewCardsPerDay < 0 || c.MaxReviewsPerDay < 0 {
		return ErrConfigNegativeLimit
	}

	if len(c.LearningSteps) == 0 {
		return ErrConfigNoLearningSteps
	}

	for _, step := range c.LearningSteps {
		if step <= 0 {
			return ErrConfigInvalidStep
		}
	}

	if c.GraduatingInterval < 1 || c.EasyInterval < 1 || c.MaximumInterval < 1 {
		return ErrConfigInvalidInterval
	}

	if c.MinEase < easeLowerBound || c.MaxEase > easeUpperBound || c.MinEase > c.MaxEase {
		return ErrConfigInvalidEase
	}

	if c.StartingEase < c.MinEase || c.StartingEase > c.MaxEase {
		return ErrConfigInvalidEase
	}

	if c.EasyBonus < 1000 || c.IntervalModifier <= 0 || c.LapseMultiplier < 0 || c.LapseMultiplier > 1000 {
		return ErrConfigInvalidMultiplier
	}

	switch c.NewCardOrder {
	case NewCardOrderCreation, NewCardOrderRandom:
	default:
		return ErrConfigInvalidOrder
	}

	return nil
}
