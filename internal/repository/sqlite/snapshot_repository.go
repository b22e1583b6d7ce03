package sqlite

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/vytor/klar/internal/logger"
	"github.com/vytor/klar/internal/models"
	"github.com/vytor/klar/internal/repository"
)

type snapshotRepository struct {
	db *sqlx.DB
}

// NewSnapshotRepository creates a new SnapshotRepository implementation
func NewSnapshotRepository(db *sqlx.DB) repository.SnapshotRepository {
	return &snapshotRepository{db: db}
}

func (r *snapshotRepository) Insert(ctx context.Context, s models.StatsSnapshot) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("snapshot_repo")
	log.Debug("inserting snapshot: study_set_id=%d", s.StudySetID)

	s.TakenAt = s.TakenAt.UTC()
	res, err := r.db.NamedExecContext(ctx, `
INSERT INTO stats_snapshots (study_set_id, taken_at, total_cards, level1, level2, level3, level4, mastered, mastery_rate)
VALUES (:study_set_id, :taken_at, :total_cards, :level1, :level2, :level3, :level4, :mastered, :mastery_rate)
`, s)
	if err != nil {
		log.Error("failed to insert snapshot: %v", err)
		return 0, err
	}
	return res.LastInsertId()
}

func (r *snapshotRepository) List(ctx context.Context, studySetID int64, since *time.Time) ([]models.StatsSnapshot, error) {
	log := logger.FromContext(ctx).WithPrefix("snapshot_repo")
	log.Debug("listing snapshots: study_set_id=%d", studySetID)

	query := sqlBuilder.Select(
		"id", "study_set_id", "taken_at", "total_cards", "level1", "level2", "level3", "level4", "mastered", "mastery_rate",
	).From("stats_snapshots").Where(squirrel.Eq{"study_set_id": studySetID})
	if since != nil {
		query = query.Where(squirrel.GtOrEq{"taken_at": since.UTC()})
	}
	q, args, err := query.OrderBy("taken_at", "id").ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	snapshots := []models.StatsSnapshot{}
	if err := r.db.SelectContext(ctx, &snapshots, q, args...); err != nil {
		log.Error("failed to list snapshots: %v", err)
		return nil, err
	}
	return snapshots, nil
}
