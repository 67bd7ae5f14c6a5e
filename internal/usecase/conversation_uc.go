// File: internal/usecase/conversation_uc.go
package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"assistant-hub/internal/domain"
	"assistant-hub/internal/domain/model"
	"assistant-hub/internal/domain/ports/adapter"
	"assistant-hub/internal/domain/ports/repository"
	"assistant-hub/internal/infra/adapters/ai"
	"assistant-hub/internal/infra/metrics"
	"assistant-hub/internal/runs"
)

// ThreadLocker serializes runs per thread. The provider allows one active run
// per thread, so a second Ask must be rejected while one is in flight.
type ThreadLocker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (token string, err error)
	Unlock(ctx context.Context, key, token string) error
}

// RateLimiter paces provider-bound calls across the whole process.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// Compile-time check
var _ ConversationUseCase = (*conversationUC)(nil)

type ConversationUseCase interface {
	StartThread(ctx context.Context, assistantID string) (*model.Thread, error)
	GetThread(ctx context.Context, threadID string) (*model.Thread, error)
	ListThreads(ctx context.Context, assistantID string) ([]*model.Thread, error)
	CloseThread(ctx context.Context, threadID string) error

	// Ask posts the prompt, starts a run and polls it to completion. Blocks
	// for up to maxAttempts*delay of the configured poller.
	Ask(ctx context.Context, threadID, prompt string) (reply string, err error)

	// EnqueueAsk records the prompt as a pending job for the worker pool.
	EnqueueAsk(ctx context.Context, threadID, prompt string) (*model.RunJob, error)
	GetJob(ctx context.Context, jobID string) (*model.RunJob, error)
	ListRecentJobs(ctx context.Context, limit int) ([]*model.RunJob, error)
}

const runLockTTL = 2 * time.Minute

type conversationUC struct {
	threads    repository.ThreadRepository
	assistants repository.AssistantRepository
	jobs       repository.RunJobRepository
	api        adapter.AssistantsAPI
	poller     *runs.Poller
	locker     ThreadLocker
	limiter    RateLimiter

	provider   string
	rateLimit  int
	rateWindow time.Duration
}

func NewConversationUseCase(
	threads repository.ThreadRepository,
	assistants repository.AssistantRepository,
	jobs repository.RunJobRepository,
	api adapter.AssistantsAPI,
	poller *runs.Poller,
	locker ThreadLocker,
	limiter RateLimiter,
	provider string,
	rateLimit int,
	rateWindow time.Duration,
) *conversationUC {
	return &conversationUC{
		threads:    threads,
		assistants: assistants,
		jobs:       jobs,
		api:        api,
		poller:     poller,
		locker:     locker,
		limiter:    limiter,
		provider:   provider,
		rateLimit:  rateLimit,
		rateWindow: rateWindow,
	}
}

func (c *conversationUC) StartThread(ctx context.Context, assistantID string) (*model.Thread, error) {
	if _, err := c.assistants.FindByID(ctx, nil, assistantID); err != nil {
		return nil, err
	}
	remoteID, err := c.api.CreateThread(ctx)
	if err != nil {
		return nil, err
	}
	t := model.NewThread(uuid.NewString(), assistantID, remoteID)
	if err := c.threads.Save(ctx, nil, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (c *conversationUC) GetThread(ctx context.Context, threadID string) (*model.Thread, error) {
	return c.threads.FindByID(ctx, nil, threadID)
}

func (c *conversationUC) ListThreads(ctx context.Context, assistantID string) ([]*model.Thread, error) {
	return c.threads.ListByAssistant(ctx, nil, assistantID)
}

func (c *conversationUC) CloseThread(ctx context.Context, threadID string) error {
	return c.threads.UpdateStatus(ctx, nil, threadID, model.ThreadClosed)
}

func (c *conversationUC) Ask(ctx context.Context, threadID, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", domain.ErrEmptyPrompt
	}

	t, err := c.threads.FindByID(ctx, nil, threadID)
	if err != nil {
		return "", err
	}
	if t.Status != model.ThreadActive {
		return "", domain.ErrThreadClosed
	}

	// One run per thread at a time.
	token, err := c.locker.TryLock(ctx, "run_lock:"+t.ID, runLockTTL)
	if err != nil {
		return "", err
	}
	defer func() { _ = c.locker.Unlock(context.Background(), "run_lock:"+t.ID, token) }()

	if c.limiter != nil {
		allowed, err := c.limiter.Allow(ctx, "rate_limit:provider:"+c.provider, c.rateLimit, c.rateWindow)
		if err != nil {
			return "", err
		}
		if !allowed {
			metrics.IncRateLimited(c.provider)
			return "", domain.ErrRateLimited
		}
	}

	asst, err := c.assistants.FindByID(ctx, nil, t.AssistantID)
	if err != nil {
		return "", err
	}

	// Persist the user message before touching the provider; a failed run
	// must not lose what the user said.
	tokens := ai.CountPromptTokens(asst.Model, prompt)
	t.AddMessage("", "user", prompt, tokens, "")
	if err := c.threads.SaveMessage(ctx, nil, &t.Messages[len(t.Messages)-1]); err != nil {
		return "", err
	}
	metrics.AddPromptTokens(c.provider, asst.Model, tokens)

	if _, err := c.api.PostMessage(ctx, t.RemoteID, prompt); err != nil {
		return "", err
	}
	runID, err := c.api.StartRun(ctx, t.RemoteID, asst.RemoteID)
	if err != nil {
		return "", err
	}

	start := time.Now()
	outcome, err := c.poller.Poll(ctx, runs.Handle{ThreadID: t.RemoteID, RunID: runID})
	if err != nil {
		metrics.IncRunOutcome("transport_error")
		return "", err
	}
	metrics.IncRunOutcome(string(outcome.Kind))
	metrics.ObserveRun(outcome.Attempts, int(time.Since(start).Milliseconds()))

	switch outcome.Kind {
	case runs.OutcomeSuccess:
		reply := outcome.Result.Content
		t.AddMessage(outcome.Result.MessageID, "assistant", reply, 0, runID)
		if err := c.threads.SaveMessage(ctx, nil, &t.Messages[len(t.Messages)-1]); err != nil {
			return "", err
		}
		t.UpdatedAt = time.Now()
		_ = c.threads.Save(ctx, nil, t)
		return reply, nil
	case runs.OutcomeFailure:
		return "", fmt.Errorf("%w: %s", domain.ErrRunFailed, outcome.Reason)
	case runs.OutcomeActionRequired:
		return "", domain.ErrActionRequired
	case runs.OutcomeTimeout:
		return "", domain.ErrRunTimeout
	case runs.OutcomeCancelled:
		if err := ctx.Err(); err != nil {
			return "", err
		}
		return "", context.Canceled
	default:
		return "", fmt.Errorf("unexpected poll outcome %q", outcome.Kind)
	}
}

func (c *conversationUC) EnqueueAsk(ctx context.Context, threadID, prompt string) (*model.RunJob, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, domain.ErrEmptyPrompt
	}
	t, err := c.threads.FindByID(ctx, nil, threadID)
	if err != nil {
		return nil, err
	}
	if t.Status != model.ThreadActive {
		return nil, domain.ErrThreadClosed
	}

	job := &model.RunJob{
		ID:       uuid.NewString(),
		Status:   model.RunJobStatusPending,
		ThreadID: t.ID,
		Prompt:   prompt,
	}
	if err := c.jobs.Save(ctx, nil, job); err != nil {
		return nil, err
	}
	return job, nil
}

func (c *conversationUC) GetJob(ctx context.Context, jobID string) (*model.RunJob, error) {
	return c.jobs.FindByID(ctx, nil, jobID)
}

func (c *conversationUC) ListRecentJobs(ctx context.Context, limit int) ([]*model.RunJob, error) {
	return c.jobs.ListRecent(ctx, nil, limit)
}
