package main

import (
	"database/sql"
	"log/slog"

	"github.com/vie2206/solo-legalight-sub007/internal/config"
	"github.com/vie2206/solo-legalight-sub007/internal/platform/postgres"
	"github.com/vie2206/solo-legalight-sub007/internal/service/study"
)

// application bundles the server's long-lived dependencies: configuration,
// the database handle and the wired service layer.
type application struct {
	config       *config.Config
	logger       *slog.Logger
	db           *sql.DB
	studyService *study.Service
	sessions     *study.SessionManager
}

// newApplication wires the store and service layers on top of the database
// connection.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) *application {
	stores := study.Stores{
		Cards:    postgres.NewPostgresCardStore(db, logger),
		Configs:  postgres.NewPostgresDeckConfigStore(db, logger),
		Logs:     postgres.NewPostgresReviewLogStore(db, logger),
		Counters: postgres.NewPostgresDailyCounterStore(db, logger),
	}

	svc := study.NewService(stores, study.NewSQLTxRunner(db, stores), nil, logger)

	return &application{
		config:       cfg,
		logger:       logger,
		db:           db,
		studyService: svc,
		sessions:     study.NewSessionManager(svc),
	}
}
