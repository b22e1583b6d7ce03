package jobs

import (
	"time"

	"github.com/go-co-op/gocron"
	"github.com/vytor/klar/internal/logger"
)

// Scheduler enqueues a snapshot of every study set at a fixed interval.
type Scheduler struct {
	cron     *gocron.Scheduler
	queue    JobQueue
	interval time.Duration
	log      *logger.Logger
}

// NewScheduler returns a Scheduler. An interval of 0 disables it.
func NewScheduler(queue JobQueue, interval time.Duration) *Scheduler {
	return &Scheduler{
		cron:     gocron.NewScheduler(time.UTC),
		queue:    queue,
		interval: interval,
		log:      logger.Default().WithPrefix("scheduler"),
	}
}

// Start registers the snapshot job and starts the scheduler in the background.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		s.log.Info("snapshot schedule disabled")
		return nil
	}

	_, err := s.cron.Every(s.interval).Do(func() {
		if err := s.queue.EnqueueSnapshotAll(); err != nil {
			s.log.Warn("failed to enqueue scheduled snapshot: %v", err)
		}
	})
	if err != nil {
		return err
	}
	s.cron.StartAsync()
	s.log.Info("snapshot schedule started: every %s", s.interval)
	return nil
}

// Stop halts the scheduler. Jobs already queued keep running.
func (s *Scheduler) Stop() {
	if s.cron.IsRunning() {
		s.cron.Stop()
	}
}
