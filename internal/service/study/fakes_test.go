package study

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vie2206/solo-legalight-sub007/internal/domain"
	"github.com/vie2206/solo-legalight-sub007/internal/store"
)

// fakeClock returns a fixed time, advanced explicitly by tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now.UTC()}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// fakeCardStore is an in-memory store.CardStore with the same version
// semantics as the Postgres implementation.
type fakeCardStore struct {
	mu    sync.Mutex
	cards map[uuid.UUID]domain.Card

	// conflictsLeft forces that many UpdateIfVersion calls to fail with
	// ErrConflict before behaving normally again.
	conflictsLeft int
}

func newFakeCardStore() *fakeCardStore {
	return &fakeCardStore{cards: make(map[uuid.UUID]domain.Card)}
}

func (f *fakeCardStore) put(card *domain.Card) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cards[card.ID] = *card
}

func (f *fakeCardStore) get(id uuid.UUID) domain.Card {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cards[id]
}

func (f *fakeCardStore) Create(ctx context.Context, card *domain.Card) error {
	if err := card.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.cards[card.ID]; ok {
		return store.ErrDuplicate
	}
	f.cards[card.ID] = *card
	return nil
}

func (f *fakeCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	card, ok := f.cards[id]
	if !ok {
		return nil, store.ErrCardNotFound
	}
	return &card, nil
}

func (f *fakeCardStore) Update(ctx context.Context, card *domain.Card) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.cards[card.ID]
	if !ok {
		return store.ErrCardNotFound
	}
	updated := *card
	updated.Version = stored.Version + 1
	f.cards[card.ID] = updated
	return nil
}

func (f *fakeCardStore) UpdateIfVersion(ctx context.Context, card *domain.Card, expectedVersion int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.conflictsLeft > 0 {
		f.conflictsLeft--
		return store.ErrConflict
	}
	stored, ok := f.cards[card.ID]
	if !ok {
		return store.ErrCardNotFound
	}
	if stored.Version != expectedVersion {
		return store.ErrConflict
	}
	updated := *card
	updated.Version = expectedVersion + 1
	f.cards[card.ID] = updated
	return nil
}

func (f *fakeCardStore) DueLearning(ctx context.Context, deckID uuid.UUID, now time.Time) ([]*domain.Card, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var due []*domain.Card
	for _, card := range f.cards {
		if card.DeckID == deckID && card.State.Learning() && card.Due <= now.UTC().Unix() {
			c := card
			due = append(due, &c)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].Due != due[j].Due {
			return due[i].Due < due[j].Due
		}
		return due[i].ID.String() < due[j].ID.String()
	})
	return due, nil
}

func (f *fakeCardStore) DueReview(ctx context.Context, deckID uuid.UUID, today int64) ([]*domain.Card, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var due []*domain.Card
	for _, card := range f.cards {
		if card.DeckID == deckID && card.State == domain.StateReview && card.Due <= today {
			c := card
			due = append(due, &c)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].Due != due[j].Due {
			return due[i].Due < due[j].Due
		}
		return due[i].ID.String() < due[j].ID.String()
	})
	return due, nil
}

func (f *fakeCardStore) NewCards(ctx context.Context, deckID uuid.UUID) ([]*domain.Card, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var cards []*domain.Card
	for _, card := range f.cards {
		if card.DeckID == deckID && card.State == domain.StateNew {
			c := card
			cards = append(cards, &c)
		}
	}
	sort.Slice(cards, func(i, j int) bool {
		if !cards[i].CreatedAt.Equal(cards[j].CreatedAt) {
			return cards[i].CreatedAt.Before(cards[j].CreatedAt)
		}
		return cards[i].ID.String() < cards[j].ID.String()
	})
	return cards, nil
}

func (f *fakeCardStore) WithTx(tx *sql.Tx) store.CardStore { return f }

func (f *fakeCardStore) snapshot() map[uuid.UUID]domain.Card {
	f.mu.Lock()
	defer f.mu.Unlock()
	snap := make(map[uuid.UUID]domain.Card, len(f.cards))
	for id, card := range f.cards {
		snap[id] = card
	}
	return snap
}

func (f *fakeCardStore) restore(snap map[uuid.UUID]domain.Card) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cards = snap
}

// fakeConfigStore is an in-memory store.DeckConfigStore.
type fakeConfigStore struct {
	mu      sync.Mutex
	configs map[uuid.UUID]domain.DeckConfig
}

func newFakeConfigStore() *fakeConfigStore {
	return &fakeConfigStore{configs: make(map[uuid.UUID]domain.DeckConfig)}
}

func (f *fakeConfigStore) Get(ctx context.Context, deckID uuid.UUID) (*domain.DeckConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cfg, ok := f.configs[deckID]
	if !ok {
		return nil, store.ErrDeckConfigNotFound
	}
	return &cfg, nil
}

func (f *fakeConfigStore) Save(ctx context.Context, cfg *domain.DeckConfig) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.configs[cfg.DeckID] = *cfg
	return nil
}

func (f *fakeConfigStore) WithTx(tx *sql.Tx) store.DeckConfigStore { return f }

func (f *fakeConfigStore) snapshot() map[uuid.UUID]domain.DeckConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	snap := make(map[uuid.UUID]domain.DeckConfig, len(f.configs))
	for id, cfg := range f.configs {
		snap[id] = cfg
	}
	return snap
}

func (f *fakeConfigStore) restore(snap map[uuid.UUID]domain.DeckConfig) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.configs = snap
}

// fakeLogStore is an in-memory store.ReviewLogStore.
type fakeLogStore struct {
	mu      sync.Mutex
	entries []domain.ReviewLog

	// failNext makes the next Append return this error once.
	failNext error
}

func newFakeLogStore() *fakeLogStore {
	return &fakeLogStore{}
}

func (f *fakeLogStore) Append(ctx context.Context, entry *domain.ReviewLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNext != nil {
		err := f.failNext
		f.failNext = nil
		return err
	}
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeLogStore) ListByCard(ctx context.Context, cardID uuid.UUID, limit int) ([]*domain.ReviewLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var logs []*domain.ReviewLog
	for i := len(f.entries) - 1; i >= 0 && len(logs) < limit; i-- {
		if f.entries[i].CardID == cardID {
			entry := f.entries[i]
			logs = append(logs, &entry)
		}
	}
	return logs, nil
}

func (f *fakeLogStore) WithTx(tx *sql.Tx) store.ReviewLogStore { return f }

func (f *fakeLogStore) snapshot() []domain.ReviewLog {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.ReviewLog(nil), f.entries...)
}

func (f *fakeLogStore) restore(snap []domain.ReviewLog) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = snap
}

func (f *fakeLogStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries)
}

// fakeCounterStore is an in-memory store.DailyCounterStore.
type fakeCounterStore struct {
	mu       sync.Mutex
	counters map[string]domain.DailyCounter
}

func newFakeCounterStore() *fakeCounterStore {
	return &fakeCounterStore{counters: make(map[string]domain.DailyCounter)}
}

func counterKey(deckID uuid.UUID, date string) string {
	return deckID.String() + "/" + date
}

func (f *fakeCounterStore) Get(ctx context.Context, deckID uuid.UUID, date string) (*domain.DailyCounter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counter, ok := f.counters[counterKey(deckID, date)]
	if !ok {
		return &domain.DailyCounter{DeckID: deckID, Date: date}, nil
	}
	return &counter, nil
}

func (f *fakeCounterStore) IncrementNew(ctx context.Context, deckID uuid.UUID, date string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := counterKey(deckID, date)
	counter := f.counters[key]
	counter.DeckID = deckID
	counter.Date = date
	counter.NewCount++
	f.counters[key] = counter
	return nil
}

func (f *fakeCounterStore) IncrementReview(ctx context.Context, deckID uuid.UUID, date string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := counterKey(deckID, date)
	counter := f.counters[key]
	counter.DeckID = deckID
	counter.Date = date
	counter.ReviewCount++
	f.counters[key] = counter
	return nil
}

func (f *fakeCounterStore) WithTx(tx *sql.Tx) store.DailyCounterStore { return f }

func (f *fakeCounterStore) snapshot() map[string]domain.DailyCounter {
	f.mu.Lock()
	defer f.mu.Unlock()
	snap := make(map[string]domain.DailyCounter, len(f.counters))
	for key, counter := range f.counters {
		snap[key] = counter
	}
	return snap
}

func (f *fakeCounterStore) restore(snap map[string]domain.DailyCounter) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counters = snap
}

// fakeTxRunner snapshots all fake stores before each transaction function and
// restores them when it fails, mirroring the rollback semantics of the SQL
// runner.
type fakeTxRunner struct {
	cards    *fakeCardStore
	configs  *fakeConfigStore
	logs     *fakeLogStore
	counters *fakeCounterStore

	mu  sync.Mutex
	txs int
}

func (r *fakeTxRunner) RunInTx(ctx context.Context, fn func(ctx context.Context, st Stores) error) error {
	r.mu.Lock()
	r.txs++
	r.mu.Unlock()

	cardSnap := r.cards.snapshot()
	cfgSnap := r.configs.snapshot()
	logSnap := r.logs.snapshot()
	counterSnap := r.counters.snapshot()

	err := fn(ctx, Stores{
		Cards:    r.cards,
		Configs:  r.configs,
		Logs:     r.logs,
		Counters: r.counters,
	})
	if err != nil {
		r.cards.restore(cardSnap)
		r.configs.restore(cfgSnap)
		r.logs.restore(logSnap)
		r.counters.restore(counterSnap)
	}
	return err
}

// testEnv bundles a fully wired service with its fakes.
type testEnv struct {
	svc      *Service
	clock    *fakeClock
	cards    *fakeCardStore
	configs  *fakeConfigStore
	logs     *fakeLogStore
	counters *fakeCounterStore
	tx       *fakeTxRunner
	deckID   uuid.UUID
}

var testEnvNow = time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)

func newTestEnv() *testEnv {
	cards := newFakeCardStore()
	configs := newFakeConfigStore()
	logs := newFakeLogStore()
	counters := newFakeCounterStore()
	clock := newFakeClock(testEnvNow)
	tx := &fakeTxRunner{cards: cards, configs: configs, logs: logs, counters: counters}

	stores := Stores{Cards: cards, Configs: configs, Logs: logs, Counters: counters}
	svc := NewService(stores, tx, clock, nil)

	deckID := uuid.New()
	cfg := domain.DefaultDeckConfig(deckID, clock.Now())
	if err := configs.Save(context.Background(), cfg); err != nil {
		panic(err)
	}

	return &testEnv{
		svc:      svc,
		clock:    clock,
		cards:    cards,
		configs:  configs,
		logs:     logs,
		counters: counters,
		tx:       tx,
		deckID:   deckID,
	}
}

func (e *testEnv) config() *domain.DeckConfig {
	cfg, err := e.configs.Get(context.Background(), e.deckID)
	if err != nil {
		panic(err)
	}
	return cfg
}

func (e *testEnv) saveConfig(cfg *domain.DeckConfig) {
	if err := e.configs.Save(context.Background(), cfg); err != nil {
		panic(err)
	}
}

// addNewCard creates a new card in the deck, created at the given offset from
// the environment's start time so creation order is controllable.
func (e *testEnv) addNewCard(createdOffset time.Duration) *domain.Card {
	card, err := domain.NewCard(uuid.New(), e.deckID, 0, e.config().StartingEase, testEnvNow.Add(createdOffset))
	if err != nil {
		panic(err)
	}
	e.cards.put(card)
	return card
}

// addReviewCard creates a review card due the given number of days ago.
func (e *testEnv) addReviewCard(dueDaysAgo int64, interval int) *domain.Card {
	card, err := domain.NewCard(uuid.New(), e.deckID, 0, e.config().StartingEase, testEnvNow)
	if err != nil {
		panic(err)
	}
	card.State = domain.StateReview
	card.Interval = interval
	card.Due = domain.DayNumber(testEnvNow) - dueDaysAgo
	card.Reps = 2
	e.cards.put(card)
	return card
}

// addLearningCard creates a learning card due the given duration from the
// environment's start time.
func (e *testEnv) addLearningCard(dueIn time.Duration) *domain.Card {
	card, err := domain.NewCard(uuid.New(), e.deckID, 0, e.config().StartingEase, testEnvNow)
	if err != nil {
		panic(err)
	}
	card.State = domain.StateLearning
	card.LearningStep = 0
	card.Due = testEnvNow.Add(dueIn).Unix()
	card.Reps = 1
	e.cards.put(card)
	return card
}
