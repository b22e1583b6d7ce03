package jobs_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vytor/klar/internal/jobs"
	"github.com/vytor/klar/internal/models"
	"github.com/vytor/klar/internal/testutil/mocks"
	"github.com/vytor/klar/internal/worker"
)

type countingSnapshotter struct {
	sets int32
	all  int32
}

func (c *countingSnapshotter) TakeSnapshot(_ context.Context, id int64) (*models.StatsSnapshot, error) {
	atomic.AddInt32(&c.sets, 1)
	return &models.StatsSnapshot{StudySetID: id}, nil
}

func (c *countingSnapshotter) SnapshotAll(context.Context) (int, error) {
	atomic.AddInt32(&c.all, 1)
	return 0, nil
}

func TestWorkerQueue_RunsSnapshotJobs(t *testing.T) {
	pool := worker.NewPool(1, 4)
	pool.Start(context.Background())
	defer pool.Stop()

	snap := &countingSnapshotter{}
	q := jobs.NewWorkerQueue(pool, snap)

	require.NoError(t, q.EnqueueSnapshot(3))
	require.NoError(t, q.EnqueueSnapshotAll())

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&snap.sets) == 1 && atomic.LoadInt32(&snap.all) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWorkerQueue_StoppedPool(t *testing.T) {
	pool := worker.NewPool(1, 1)
	pool.Stop()

	q := jobs.NewWorkerQueue(pool, &countingSnapshotter{})
	assert.ErrorIs(t, q.EnqueueSnapshot(1), worker.ErrPoolStopped)
}

func TestScheduler_Disabled(t *testing.T) {
	queue := new(mocks.MockJobQueue)
	s := jobs.NewScheduler(queue, 0)

	require.NoError(t, s.Start())
	s.Stop()
	queue.AssertNotCalled(t, "EnqueueSnapshotAll")
}

func TestScheduler_EnqueuesOnStart(t *testing.T) {
	called := make(chan struct{}, 1)
	queue := new(mocks.MockJobQueue)
	queue.On("EnqueueSnapshotAll").Return(nil).Run(func(mock.Arguments) {
		select {
		case called <- struct{}{}:
		default:
		}
	})

	s := jobs.NewScheduler(queue, time.Hour)
	require.NoError(t, s.Start())
	defer s.Stop()

	select {
	case <-called:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not enqueue a snapshot on start")
	}
}
