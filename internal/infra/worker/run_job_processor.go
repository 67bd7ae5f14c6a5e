package worker

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"assistant-hub/internal/domain"
	"assistant-hub/internal/domain/model"
	"assistant-hub/internal/domain/ports/repository"
	"assistant-hub/internal/infra/metrics"
)

// Asker is the slice of the conversation use case a worker needs.
type Asker interface {
	Ask(ctx context.Context, threadID, prompt string) (string, error)
}

// RunJobProcessor drains the run_jobs queue: it claims one pending job at a
// time and drives it through the synchronous Ask path, so queued jobs get the
// exact same locking, rate limiting and polling as interactive calls.
type RunJobProcessor struct {
	jobsRepo     repository.RunJobRepository
	conversation Asker
	pollInterval time.Duration
	log          *zerolog.Logger
}

func NewRunJobProcessor(
	jobsRepo repository.RunJobRepository,
	conversation Asker,
	pollInterval time.Duration,
	logger *zerolog.Logger,
) *RunJobProcessor {
	procLog := logger.With().Str("component", "RunJobProcessor").Logger()
	if pollInterval <= 0 {
		pollInterval = 500 * time.Millisecond
	}
	return &RunJobProcessor{
		jobsRepo:     jobsRepo,
		conversation: conversation,
		pollInterval: pollInterval,
		log:          &procLog,
	}
}

// Start runs a loop to fetch and process jobs.
// This should be run in a goroutine.
func (p *RunJobProcessor) Start(ctx context.Context, pool *Pool) {
	p.log.Info().Msg("run job processor started")
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.log.Info().Msg("run job processor stopping")
			return
		case <-ticker.C:
			_ = pool.Submit(func(ctx context.Context) error {
				p.ProcessOne(ctx)
				return nil
			})
		}
	}
}

// ProcessOne claims and finishes at most one pending job.
func (p *RunJobProcessor) ProcessOne(ctx context.Context) {
	job, err := p.jobsRepo.FetchAndMarkProcessing(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			p.log.Error().Err(err).Msg("failed to fetch run job")
		}
		return
	}

	p.log.Info().Str("job_id", job.ID).Str("thread_id", job.ThreadID).Msg("processing run job")
	start := time.Now()

	reply, err := p.conversation.Ask(ctx, job.ThreadID, job.Prompt)
	latency := time.Since(start)

	job.Attempts++
	finalStatus := model.RunJobStatusCompleted
	if err != nil {
		finalStatus = model.RunJobStatusFailed
		job.LastError = err.Error()
		p.log.Error().Err(err).Str("job_id", job.ID).Msg("run job failed")
	} else {
		job.Reply = reply
		job.LastError = ""
	}

	metrics.IncRunJob(string(finalStatus))
	job.Status = finalStatus
	// Background context for the final update; the job result must land even
	// when the caller's context is gone.
	_ = p.jobsRepo.Save(context.Background(), nil, job)
	p.log.Info().
		Str("job_id", job.ID).
		Str("status", string(finalStatus)).
		Dur("duration_ms", latency).
		Msg("run job finished")
}
