package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"assistant-hub/internal/domain/ports/repository"
	"assistant-hub/internal/infra/metrics"
)

// RunReaper periodically force-fails jobs stuck in processing, e.g. after a
// worker crash mid-poll. Reaped jobs surface to the caller as failed rather
// than hanging forever.
type RunReaper struct {
	interval   time.Duration
	stuckAfter time.Duration
	jobs       repository.RunJobRepository
	log        *zerolog.Logger
}

func NewRunReaper(interval, stuckAfter time.Duration, jobs repository.RunJobRepository, logger *zerolog.Logger) *RunReaper {
	reapLog := logger.With().Str("component", "RunReaper").Logger()
	if interval <= 0 {
		interval = time.Minute
	}
	if stuckAfter <= 0 {
		stuckAfter = 5 * time.Minute
	}
	return &RunReaper{
		interval:   interval,
		stuckAfter: stuckAfter,
		jobs:       jobs,
		log:        &reapLog,
	}
}

func (w *RunReaper) Run(ctx context.Context) error {
	w.log.Info().Msg("starting run reaper")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("stopping run reaper")
			return ctx.Err()
		case <-ticker.C:
			n, err := w.jobs.FailStuckProcessing(ctx, w.stuckAfter)
			if err != nil {
				w.log.Error().Err(err).Msg("run reaper error")
			}
			if n > 0 {
				metrics.AddReapedJobs(n)
				w.log.Info().Int("count", n).Msg("stuck run jobs failed")
			}
		}
	}
}
