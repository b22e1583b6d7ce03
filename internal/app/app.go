// Package app wires the database, repositories, services and background
// workers shared by every entry point.
package app

import (
	"context"
	"time"

	"github.com/vytor/klar/internal/config"
	"github.com/vytor/klar/internal/db"
	"github.com/vytor/klar/internal/flashcard"
	"github.com/vytor/klar/internal/jobs"
	"github.com/vytor/klar/internal/logger"
	"github.com/vytor/klar/internal/repository/sqlite"
	"github.com/vytor/klar/internal/services"
	"github.com/vytor/klar/internal/worker"
)

type App struct {
	Config config.Config
	DB     *db.DB

	StudySets services.StudySetService
	Cards     services.CardService
	Practice  services.PracticeService
	Reports   services.ReportService
	Snapshots services.SnapshotService

	Pool  *worker.Pool
	Queue jobs.JobQueue

	log *logger.Logger
}

// Open opens the configured database and builds an App on top of it.
func Open(cfg config.Config, opts ...services.Option) (*App, error) {
	if err := cfg.EnsureDBDir(); err != nil {
		return nil, err
	}
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	return New(cfg, database, opts...), nil
}

// New builds an App on an already opened database.
func New(cfg config.Config, database *db.DB, opts ...services.Option) *App {
	log := logger.Default().WithPrefix("app")

	seed := cfg.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	log.Debug("random seed=%d", seed)

	setRepo := sqlite.NewStudySetRepository(database.DB)
	cardRepo := sqlite.NewCardRepository(database.DB)
	attemptRepo := sqlite.NewAttemptRepository(database.DB)
	sessionRepo := sqlite.NewSessionRepository(database.DB)
	snapshotRepo := sqlite.NewSnapshotRepository(database.DB)
	practiceRepo := sqlite.NewPracticeRepository(database.DB)

	selector := flashcard.NewSelector(flashcard.NewLockedSource(seed))
	snapshots := services.NewSnapshotService(setRepo, cardRepo, snapshotRepo, opts...)
	pool := worker.NewPool(cfg.WorkerCount, cfg.QueueSize)

	return &App{
		Config:    cfg,
		DB:        database,
		StudySets: services.NewStudySetService(setRepo),
		Cards:     services.NewCardService(setRepo, cardRepo),
		Practice:  services.NewPracticeService(setRepo, cardRepo, sessionRepo, practiceRepo, selector, opts...),
		Reports:   services.NewReportService(setRepo, cardRepo, attemptRepo, sessionRepo, opts...),
		Snapshots: snapshots,
		Pool:      pool,
		Queue:     jobs.NewWorkerQueue(pool, snapshots),
		log:       log,
	}
}

// Start runs the worker pool until ctx is cancelled or Close is called.
func (a *App) Start(ctx context.Context) {
	a.Pool.Start(ctx)
}

// Close stops the workers and closes the database.
func (a *App) Close() error {
	a.log.Debug("stopping worker pool")
	a.Pool.Stop()
	a.log.Debug("closing database connection")
	return a.DB.Close()
}
