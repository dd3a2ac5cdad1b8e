package study

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/vie2206/solo-legalight-sub007/internal/store"
)

// Stores bundles the persistence interfaces the study engine consumes.
type Stores struct {
	Cards    store.CardStore
	Configs  store.DeckConfigStore
	Logs     store.ReviewLogStore
	Counters store.DailyCounterStore
}

// TxRunner executes a function against a transactional copy of the stores.
// If the function returns an error nothing is persisted; otherwise everything
// commits as one unit. The review recorder depends on this for its
// all-or-nothing guarantee.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, st Stores) error) error
}

// sqlTxRunner is the production TxRunner: it opens a database transaction and
// hands the callback WithTx-bound store copies.
type sqlTxRunner struct {
	db   *sql.DB
	base Stores
}

// NewSQLTxRunner creates a TxRunner backed by the given database connection.
func NewSQLTxRunner(db *sql.DB, base Stores) TxRunner {
	if db == nil {
		panic("db cannot be nil")
	}
	return &sqlTxRunner{db: db, base: base}
}

func (r *sqlTxRunner) RunInTx(ctx context.Context, fn func(ctx context.Context, st Stores) error) error {
	return store.RunInTransaction(ctx, r.db, func(ctx context.Context, tx *sql.Tx) error {
		return fn(ctx, Stores{
			Cards:    r.base.Cards.WithTx(tx),
			Configs:  r.base.Configs.WithTx(tx),
			Logs:     r.base.Logs.WithTx(tx),
			Counters: r.base.Counters.WithTx(tx),
		})
	})
}

// Service implements the study engine's operation set: building queues,
// recording answers, resetting and suspending cards, and updating deck
// settings. All durable writes for a single answer happen inside one
// transaction provided by the TxRunner.
type Service struct {
	stores Stores
	tx     TxRunner
	clock  Clock
	logger *slog.Logger
}

// NewService creates a study Service.
// A nil clock defaults to the system clock; a nil logger to slog.Default().
func NewService(stores Stores, tx TxRunner, clock Clock, logger *slog.Logger) *Service {
	if stores.Cards == nil || stores.Configs == nil || stores.Logs == nil || stores.Counters == nil {
		panic("all stores must be provided")
	}
	if tx == nil {
		panic("tx runner cannot be nil")
	}

	if clock == nil {
		clock = SystemClock()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		stores: stores,
		tx:     tx,
		clock:  clock,
		logger: logger.With(slog.String("component", "study_service")),
	}
}
