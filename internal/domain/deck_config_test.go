package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultDeckConfig(t *testing.T) {
	t.Parallel()
	deckID := uuid.New()
	now := time.Now().UTC()

	cfg := DefaultDeckConfig(deckID, now)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, deckID, cfg.DeckID)
	assert.Equal(t, 20, cfg.NewCardsPerDay)
	assert.Equal(t, 200, cfg.MaxReviewsPerDay)
	assert.Equal(t, []int{1, 10}, cfg.LearningSteps)
	assert.Equal(t, 1, cfg.GraduatingInterval)
	assert.Equal(t, 4, cfg.EasyInterval)
	assert.Equal(t, 2500, cfg.StartingEase)
	assert.Equal(t, 1300, cfg.EasyBonus)
	assert.Equal(t, 1000, cfg.IntervalModifier)
	assert.Equal(t, 36500, cfg.MaximumInterval)
	assert.Equal(t, NewCardOrderCreation, cfg.NewCardOrder)
}

func TestDeckConfigValidate(t *testing.T) {
	t.Parallel()
	now := time.Now().UTC()

	testCases := []struct {
		name    string
		mutate  func(c *DeckConfig)
		wantErr error
	}{
		{
			name:    "nil deck ID",
			mutate:  func(c *DeckConfig) { c.DeckID = uuid.Nil },
			wantErr: ErrConfigDeckIDEmpty,
		},
		{
			name:    "negative new card limit",
			mutate:  func(c *DeckConfig) { c.NewCardsPerDay = -1 },
			wantErr: ErrConfigNegativeLimit,
		},
		{
			name:    "zero daily limits are allowed",
			mutate:  func(c *DeckConfig) { c.NewCardsPerDay = 0; c.MaxReviewsPerDay = 0 },
			wantErr: nil,
		},
		{
			name:    "empty learning steps",
			mutate:  func(c *DeckConfig) { c.LearningSteps = nil },
			wantErr: ErrConfigNoLearningSteps,
		},
		{
			name:    "non-positive learning step",
			mutate:  func(c *DeckConfig) { c.LearningSteps = []int{1, 0} },
			wantErr: ErrConfigInvalidStep,
		},
		{
			name:    "graduating interval below one day",
			mutate:  func(c *DeckConfig) { c.GraduatingInterval = 0 },
			wantErr: ErrConfigInvalidInterval,
		},
		{
			name:    "ease floor above ceiling",
			mutate:  func(c *DeckConfig) { c.MinEase = 3000; c.MaxEase = 2000 },
			wantErr: ErrConfigInvalidEase,
		},
		{
			name:    "starting ease outside the bounds",
			mutate:  func(c *DeckConfig) { c.StartingEase = 1000 },
			wantErr: ErrConfigInvalidEase,
		},
		{
			name:    "easy bonus below 100 percent",
			mutate:  func(c *DeckConfig) { c.EasyBonus = 900 },
			wantErr: ErrConfigInvalidMultiplier,
		},
		{
			name:    "lapse multiplier above 100 percent",
			mutate:  func(c *DeckConfig) { c.LapseMultiplier = 1100 },
			wantErr: ErrConfigInvalidMultiplier,
		},
		{
			name:    "unknown new card order",
			mutate:  func(c *DeckConfig) { c.NewCardOrder = "shuffled" },
			wantErr: ErrConfigInvalidOrder,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultDeckConfig(uuid.New(), now)
			tc.mutate(cfg)

			err := cfg.Validate()
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}
