package worker

import (
	"context"
	"log/slog"
	"time"
)

// SnapshotJob is the periodic analytics work: store one snapshot, prune old ones
type SnapshotJob interface {
	SnapshotOnce(ctx context.Context, retention time.Duration)
}

// Scheduler runs analytics snapshots on a single ticker loop
type Scheduler struct {
	job       SnapshotJob
	interval  time.Duration
	retention time.Duration
	logger    *slog.Logger
}

// NewScheduler creates the analytics snapshot scheduler
func NewScheduler(job SnapshotJob, interval, retention time.Duration, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = time.Hour
	}
	return &Scheduler{
		job:       job,
		interval:  interval,
		retention: retention,
		logger:    logger,
	}
}

// Start runs the scheduler loop until ctx is cancelled. The first snapshot is taken
// after one interval.
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Analytics snapshot scheduler started", "interval", s.interval, "retention", s.retention)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Analytics snapshot scheduler stopping")
			return
		case <-ticker.C:
			s.job.SnapshotOnce(ctx, s.retention)
		}
	}
}
