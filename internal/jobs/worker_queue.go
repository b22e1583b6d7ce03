package jobs

import (
	"context"
	"time"

	"github.com/vytor/klar/internal/worker"
)

// submitTimeout bounds how long an enqueue waits on a full queue.
const submitTimeout = 5 * time.Second

// WorkerQueue implements JobQueue using a worker pool
type WorkerQueue struct {
	pool        *worker.Pool
	snapshotter worker.Snapshotter
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(pool *worker.Pool, snapshotter worker.Snapshotter) JobQueue {
	return &WorkerQueue{pool: pool, snapshotter: snapshotter}
}

func (q *WorkerQueue) submit(job worker.Job) error {
	ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
	defer cancel()
	return q.pool.Submit(ctx, job)
}

func (q *WorkerQueue) EnqueueSnapshot(studySetID int64) error {
	return q.submit(&worker.SnapshotSetJob{Snapshotter: q.snapshotter, StudySetID: studySetID})
}

func (q *WorkerQueue) EnqueueSnapshotAll() error {
	return q.submit(&worker.SnapshotAllJob{Snapshotter: q.snapshotter})
}
