package worker

import (
	"context"
	"fmt"

	"github.com/vytor/klar/internal/logger"
	"github.com/vytor/klar/internal/models"
)

// Snapshotter is the slice of the snapshot service that jobs need.
// Declared here so worker does not import services.
type Snapshotter interface {
	TakeSnapshot(ctx context.Context, studySetID int64) (*models.StatsSnapshot, error)
	SnapshotAll(ctx context.Context) (int, error)
}

// SnapshotSetJob records a mastery snapshot for one study set.
type SnapshotSetJob struct {
	Snapshotter Snapshotter
	StudySetID  int64
}

func (j *SnapshotSetJob) Name() string { return fmt.Sprintf("snapshot_set_%d", j.StudySetID) }

func (j *SnapshotSetJob) Run(ctx context.Context) error {
	snap, err := j.Snapshotter.TakeSnapshot(ctx, j.StudySetID)
	if err != nil {
		return err
	}
	logger.FromContext(ctx).Debug("snapshot %d: mastery=%.2f over %d cards", snap.ID, snap.MasteryRate, snap.TotalCards)
	return nil
}

// SnapshotAllJob records a snapshot for every study set.
type SnapshotAllJob struct {
	Snapshotter Snapshotter
}

func (j *SnapshotAllJob) Name() string { return "snapshot_all" }

func (j *SnapshotAllJob) Run(ctx context.Context) error {
	_, err := j.Snapshotter.SnapshotAll(ctx)
	return err
}
