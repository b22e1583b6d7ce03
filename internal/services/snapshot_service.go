package services

import (
	"context"
	"time"

	"github.com/vytor/klar/internal/errors"
	"github.com/vytor/klar/internal/logger"
	"github.com/vytor/klar/internal/models"
	"github.com/vytor/klar/internal/repository"
	"github.com/vytor/klar/internal/stats"
)

// SnapshotService records and lists mastery snapshots
type SnapshotService interface {
	TakeSnapshot(ctx context.Context, studySetID int64) (*models.StatsSnapshot, error)
	SnapshotAll(ctx context.Context) (int, error)
	ListSnapshots(ctx context.Context, studySetID int64, since *time.Time) ([]models.StatsSnapshot, error)
}

type snapshotService struct {
	setRepo      repository.StudySetRepository
	cardRepo     repository.CardRepository
	snapshotRepo repository.SnapshotRepository
	now          func() time.Time
}

// NewSnapshotService creates a new SnapshotService
func NewSnapshotService(
	setRepo repository.StudySetRepository,
	cardRepo repository.CardRepository,
	snapshotRepo repository.SnapshotRepository,
	opts ...Option,
) SnapshotService {
	o := buildOptions(opts)
	return &snapshotService{
		setRepo:      setRepo,
		cardRepo:     cardRepo,
		snapshotRepo: snapshotRepo,
		now:          o.now,
	}
}

func (s *snapshotService) TakeSnapshot(ctx context.Context, studySetID int64) (*models.StatsSnapshot, error) {
	log := logger.FromContext(ctx)
	log.Debug("taking snapshot: study_set_id=%d", studySetID)

	set, err := s.setRepo.Get(ctx, studySetID)
	if err != nil {
		log.Error("failed to get study set: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if set == nil {
		return nil, errors.NewNotFoundError("study set", studySetID)
	}
	return s.snapshot(ctx, set.ID)
}

func (s *snapshotService) snapshot(ctx context.Context, studySetID int64) (*models.StatsSnapshot, error) {
	log := logger.FromContext(ctx)

	cards, err := s.cardRepo.List(ctx, models.CardFilter{StudySetID: studySetID})
	if err != nil {
		log.Error("failed to list cards: %v", err)
		return nil, errors.NewInternalError(err)
	}

	now := s.now()
	sum := stats.Aggregate(cards, nil, nil, now)
	snap := models.StatsSnapshot{
		StudySetID:  studySetID,
		TakenAt:     now,
		TotalCards:  sum.TotalCards,
		Level1:      sum.CardsPerLevel[0],
		Level2:      sum.CardsPerLevel[1],
		Level3:      sum.CardsPerLevel[2],
		Level4:      sum.CardsPerLevel[3],
		Mastered:    sum.Mastered,
		MasteryRate: sum.MasteryRate,
	}
	id, err := s.snapshotRepo.Insert(ctx, snap)
	if err != nil {
		log.Error("failed to insert snapshot: %v", err)
		return nil, errors.NewInternalError(err)
	}
	snap.ID = id
	log.Debug("snapshot stored: id=%d, mastery=%.2f", id, snap.MasteryRate)
	return &snap, nil
}

// SnapshotAll snapshots every study set and returns how many were written.
func (s *snapshotService) SnapshotAll(ctx context.Context) (int, error) {
	log := logger.FromContext(ctx)

	sets, err := s.setRepo.List(ctx)
	if err != nil {
		log.Error("failed to list study sets: %v", err)
		return 0, errors.NewInternalError(err)
	}

	written := 0
	for _, set := range sets {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		if _, err := s.snapshot(ctx, set.ID); err != nil {
			return written, err
		}
		written++
	}
	log.Info("snapshots taken for %d study sets", written)
	return written, nil
}

func (s *snapshotService) ListSnapshots(ctx context.Context, studySetID int64, since *time.Time) ([]models.StatsSnapshot, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing snapshots: study_set_id=%d", studySetID)

	set, err := s.setRepo.Get(ctx, studySetID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if set == nil {
		return nil, errors.NewNotFoundError("study set", studySetID)
	}

	snapshots, err := s.snapshotRepo.List(ctx, studySetID, since)
	if err != nil {
		log.Error("failed to list snapshots: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return snapshots, nil
}
