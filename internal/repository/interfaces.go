package repository

import (
	"context"
	"errors"
	"time"

	"github.com/vytor/klar/internal/models"
)

var (
	// ErrNotFound is returned by writes that matched no row.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a write breaks a uniqueness constraint.
	ErrConflict = errors.New("record already exists")
	// ErrSessionFinished is returned when an answer targets a closed session.
	ErrSessionFinished = errors.New("session already finished")
)

// Get methods return nil, nil when the row does not exist.

// StudySetRepository handles study set data access
type StudySetRepository interface {
	Get(ctx context.Context, id int64) (*models.StudySet, error)
	GetByName(ctx context.Context, name string) (*models.StudySet, error)
	List(ctx context.Context) ([]models.StudySet, error)
	Insert(ctx context.Context, name string) (*models.StudySet, error)
	Rename(ctx context.Context, id int64, name string) error
	Delete(ctx context.Context, id int64) error
}

// CardRepository handles card data access
type CardRepository interface {
	Get(ctx context.Context, id int64) (*models.Card, error)
	List(ctx context.Context, filter models.CardFilter) ([]models.Card, error)
	Count(ctx context.Context, filter models.CardFilter) (int, error)
	Insert(ctx context.Context, card models.Card) (*models.Card, error)
	InsertBatch(ctx context.Context, cards []models.Card) ([]int64, error)
	UpdateContent(ctx context.Context, card models.Card) error
	Delete(ctx context.Context, id int64) error
}

// AttemptRepository handles practice attempt data access
type AttemptRepository interface {
	List(ctx context.Context, filter models.AttemptFilter) ([]models.PracticeAttempt, error)
}

// SessionRepository handles practice session data access
type SessionRepository interface {
	Get(ctx context.Context, id int64) (*models.Session, error)
	List(ctx context.Context, studySetID int64, limit int) ([]models.Session, error)
	Insert(ctx context.Context, studySetID int64, startedAt time.Time) (*models.Session, error)
	Finish(ctx context.Context, id int64, endedAt time.Time) error
}

// SnapshotRepository handles statistics snapshot data access
type SnapshotRepository interface {
	Insert(ctx context.Context, snapshot models.StatsSnapshot) (int64, error)
	List(ctx context.Context, studySetID int64, since *time.Time) ([]models.StatsSnapshot, error)
}

// PracticeRepository persists the outcome of one judged answer
type PracticeRepository interface {
	// RecordAnswer stores the card's new scheduling state, appends the
	// attempt and bumps the session counters in one transaction.
	RecordAnswer(ctx context.Context, card models.Card, attempt models.PracticeAttempt) (*models.PracticeAttempt, error)
}
