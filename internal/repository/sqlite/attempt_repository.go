package sqlite

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/vytor/klar/internal/logger"
	"github.com/vytor/klar/internal/models"
	"github.com/vytor/klar/internal/repository"
)

type attemptRepository struct {
	db *sqlx.DB
}

// NewAttemptRepository creates a new AttemptRepository implementation
func NewAttemptRepository(db *sqlx.DB) repository.AttemptRepository {
	return &attemptRepository{db: db}
}

func (r *attemptRepository) List(ctx context.Context, filter models.AttemptFilter) ([]models.PracticeAttempt, error) {
	log := logger.FromContext(ctx).WithPrefix("attempt_repo")
	log.Debug("listing attempts: study_set_id=%d, card_id=%d", filter.StudySetID, filter.CardID)

	query := sqlBuilder.Select(
		"id", "card_id", "study_set_id", "session_id", "correct", "level", "duration_seconds", "practiced_at",
	).From("practice_attempts")
	if filter.StudySetID != 0 {
		query = query.Where(squirrel.Eq{"study_set_id": filter.StudySetID})
	}
	if filter.CardID != 0 {
		query = query.Where(squirrel.Eq{"card_id": filter.CardID})
	}
	if filter.Since != nil {
		query = query.Where(squirrel.GtOrEq{"practiced_at": filter.Since.UTC()})
	}

	q, args, err := query.OrderBy("practiced_at", "id").ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	attempts := []models.PracticeAttempt{}
	if err := r.db.SelectContext(ctx, &attempts, q, args...); err != nil {
		log.Error("failed to list attempts: %v", err)
		return nil, err
	}
	log.Debug("found %d attempts", len(attempts))
	return attempts, nil
}
