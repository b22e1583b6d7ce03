package jobs

// JobQueue provides an abstraction for enqueueing background jobs
type JobQueue interface {
	EnqueueSnapshot(studySetID int64) error
	EnqueueSnapshotAll() error
}
