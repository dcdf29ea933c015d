package scheduler

import (
	"context"
	"log/slog"
	"time"

	"techcalendar/internal/domain"
)

// Scheduler runs a background job on a fixed interval until the context is
// cancelled. Job failures are logged and never stop the loop.
type Scheduler struct {
	job      domain.BackupJob
	interval time.Duration
	logger   *slog.Logger
}

func NewScheduler(job domain.BackupJob, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		job:      job,
		interval: interval,
		logger:   logger,
	}
}

// Start blocks until ctx is cancelled, running the job once per interval.
// Call it from its own goroutine.
func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.job.Run(ctx); err != nil {
				s.logger.Error("background job failed", "job", s.job.Name(), "err", err)
			}
		case <-ctx.Done():
			s.logger.Info("scheduler stopped", "job", s.job.Name())
			return
		}
	}
}
