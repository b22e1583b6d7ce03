package sqlite

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/vytor/klar/internal/logger"
	"github.com/vytor/klar/internal/models"
	"github.com/vytor/klar/internal/repository"
)

type practiceRepository struct {
	db *sqlx.DB
}

// NewPracticeRepository creates a new PracticeRepository implementation
func NewPracticeRepository(db *sqlx.DB) repository.PracticeRepository {
	return &practiceRepository{db: db}
}

func (r *practiceRepository) RecordAnswer(ctx context.Context, c models.Card, a models.PracticeAttempt) (*models.PracticeAttempt, error) {
	log := logger.FromContext(ctx).WithPrefix("practice_repo")
	log.Debug("recording answer: card_id=%d, correct=%t, level=%d->%d", c.ID, a.Correct, a.Level, c.Level)

	a.PracticedAt = a.PracticedAt.UTC()
	err := tx(ctx, r.db, func(tx *sqlx.Tx) error {
		if a.SessionID != nil {
			correct := 0
			if a.Correct {
				correct = 1
			}
			res, err := tx.ExecContext(ctx, `
UPDATE sessions
SET cards_practiced = cards_practiced + 1,
    correct_answers = correct_answers + ?,
    duration_seconds = duration_seconds + ?
WHERE id = ? AND ended_at IS NULL
`, correct, a.DurationSeconds, *a.SessionID)
			if err != nil {
				return err
			}
			if err := affectedOne(res, repository.ErrSessionFinished); err != nil {
				return err
			}
		}

		var lastPracticed any
		if c.LastPracticedAt != nil {
			lastPracticed = c.LastPracticedAt.UTC()
		}
		res, err := tx.ExecContext(ctx, `
UPDATE cards
SET level = ?, level_correct_count = ?, practice_count = ?, consecutive_wrong = ?, priority_factor = ?,
    correct_count = ?, wrong_count = ?, total_practice_count = ?, last_practiced_at = ?
WHERE id = ?
`, c.Level, c.LevelCorrectCount, c.PracticeCount, c.ConsecutiveWrong, c.PriorityFactor,
			c.CorrectCount, c.WrongCount, c.TotalPracticeCount, lastPracticed, c.ID)
		if err != nil {
			return err
		}
		if err := affectedOne(res, repository.ErrNotFound); err != nil {
			return err
		}

		return tx.GetContext(ctx, &a.ID, `
INSERT INTO practice_attempts (card_id, study_set_id, session_id, correct, level, duration_seconds, practiced_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING id
`, a.CardID, a.StudySetID, a.SessionID, a.Correct, a.Level, a.DurationSeconds, a.PracticedAt)
	})
	if err != nil {
		log.Error("failed to record answer: %v", err)
		return nil, err
	}
	log.Debug("answer recorded: attempt_id=%d", a.ID)
	return &a, nil
}
