package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/vytor/klar/internal/logger"
	"github.com/vytor/klar/internal/models"
	"github.com/vytor/klar/internal/repository"
)

type studySetRepository struct {
	db *sqlx.DB
}

// NewStudySetRepository creates a new StudySetRepository implementation
func NewStudySetRepository(db *sqlx.DB) repository.StudySetRepository {
	return &studySetRepository{db: db}
}

func (r *studySetRepository) Get(ctx context.Context, id int64) (*models.StudySet, error) {
	return r.getBy(ctx, "id", id)
}

func (r *studySetRepository) GetByName(ctx context.Context, name string) (*models.StudySet, error) {
	return r.getBy(ctx, "name", name)
}

func (r *studySetRepository) getBy(ctx context.Context, column string, value any) (*models.StudySet, error) {
	log := logger.FromContext(ctx).WithPrefix("study_set_repo")
	log.Debug("getting study set: %s=%v", column, value)

	var s models.StudySet
	err := r.db.GetContext(ctx, &s, `SELECT id, name, created_at FROM study_sets WHERE `+column+` = ?`, value)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("study set not found: %s=%v", column, value)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get study set: %v", err)
		return nil, err
	}
	return &s, nil
}

func (r *studySetRepository) List(ctx context.Context) ([]models.StudySet, error) {
	log := logger.FromContext(ctx).WithPrefix("study_set_repo")
	log.Debug("listing study sets")

	sets := []models.StudySet{}
	if err := r.db.SelectContext(ctx, &sets, `SELECT id, name, created_at FROM study_sets ORDER BY name`); err != nil {
		log.Error("failed to list study sets: %v", err)
		return nil, err
	}
	log.Debug("found %d study sets", len(sets))
	return sets, nil
}

func (r *studySetRepository) Insert(ctx context.Context, name string) (*models.StudySet, error) {
	log := logger.FromContext(ctx).WithPrefix("study_set_repo")
	log.Debug("inserting study set: name=%s", name)

	var s models.StudySet
	err := r.db.GetContext(ctx, &s, `INSERT INTO study_sets (name) VALUES (?) RETURNING id, name, created_at`, name)
	if err != nil {
		log.Error("failed to insert study set: %v", err)
		return nil, translate(err)
	}
	log.Debug("study set inserted: id=%d", s.ID)
	return &s, nil
}

func (r *studySetRepository) Rename(ctx context.Context, id int64, name string) error {
	log := logger.FromContext(ctx).WithPrefix("study_set_repo")
	log.Debug("renaming study set: id=%d, name=%s", id, name)

	res, err := r.db.ExecContext(ctx, `UPDATE study_sets SET name = ? WHERE id = ?`, name, id)
	if err != nil {
		log.Error("failed to rename study set: %v", err)
		return translate(err)
	}
	return affectedOne(res, repository.ErrNotFound)
}

func (r *studySetRepository) Delete(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx).WithPrefix("study_set_repo")
	log.Debug("deleting study set: id=%d", id)

	res, err := r.db.ExecContext(ctx, `DELETE FROM study_sets WHERE id = ?`, id)
	if err != nil {
		log.Error("failed to delete study set: %v", err)
		return err
	}
	return affectedOne(res, repository.ErrNotFound)
}
