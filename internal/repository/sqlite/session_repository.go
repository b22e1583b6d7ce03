package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/vytor/klar/internal/logger"
	"github.com/vytor/klar/internal/models"
	"github.com/vytor/klar/internal/repository"
)

const sessionColumns = `id, study_set_id, started_at, ended_at, cards_practiced, correct_answers, duration_seconds`

type sessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository creates a new SessionRepository implementation
func NewSessionRepository(db *sqlx.DB) repository.SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Get(ctx context.Context, id int64) (*models.Session, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("getting session: id=%d", id)

	var s models.Session
	err := r.db.GetContext(ctx, &s, `SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("session not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get session: %v", err)
		return nil, err
	}
	return &s, nil
}

func (r *sessionRepository) List(ctx context.Context, studySetID int64, limit int) ([]models.Session, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("listing sessions: study_set_id=%d, limit=%d", studySetID, limit)

	query := sqlBuilder.Select(sessionColumns).From("sessions").
		Where("study_set_id = ?", studySetID).
		OrderBy("started_at DESC", "id DESC")
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}
	q, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	sessions := []models.Session{}
	if err := r.db.SelectContext(ctx, &sessions, q, args...); err != nil {
		log.Error("failed to list sessions: %v", err)
		return nil, err
	}
	return sessions, nil
}

func (r *sessionRepository) Insert(ctx context.Context, studySetID int64, startedAt time.Time) (*models.Session, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("starting session: study_set_id=%d", studySetID)

	var s models.Session
	err := r.db.GetContext(ctx, &s, `
INSERT INTO sessions (study_set_id, started_at) VALUES (?, ?)
RETURNING `+sessionColumns, studySetID, startedAt.UTC())
	if err != nil {
		log.Error("failed to insert session: %v", err)
		return nil, err
	}
	log.Debug("session started: id=%d", s.ID)
	return &s, nil
}

func (r *sessionRepository) Finish(ctx context.Context, id int64, endedAt time.Time) error {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("finishing session: id=%d", id)

	res, err := r.db.ExecContext(ctx, `UPDATE sessions SET ended_at = ? WHERE id = ? AND ended_at IS NULL`, endedAt.UTC(), id)
	if err != nil {
		log.Error("failed to finish session: %v", err)
		return err
	}
	return affectedOne(res, repository.ErrSessionFinished)
}
