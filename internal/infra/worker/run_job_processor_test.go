package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"assistant-hub/internal/domain"
	"assistant-hub/internal/domain/model"
	"assistant-hub/internal/domain/ports/repository"
)

type stubAsker struct {
	reply string
	err   error
	calls int
}

func (s *stubAsker) Ask(ctx context.Context, threadID, prompt string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

type memJobRepo struct {
	mu    sync.Mutex
	items map[string]*model.RunJob
	order []string
}

func newMemJobRepo() *memJobRepo {
	return &memJobRepo{items: map[string]*model.RunJob{}}
}

func (r *memJobRepo) Save(ctx context.Context, tx repository.Tx, job *model.RunJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[job.ID]; !ok {
		r.order = append(r.order, job.ID)
	}
	job.UpdatedAt = time.Now()
	cp := *job
	r.items[job.ID] = &cp
	return nil
}

func (r *memJobRepo) FetchAndMarkProcessing(ctx context.Context) (*model.RunJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.order {
		job := r.items[id]
		if job.Status == model.RunJobStatusPending {
			job.Status = model.RunJobStatusProcessing
			cp := *job
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memJobRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.RunJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *job
	return &cp, nil
}

func (r *memJobRepo) ListRecent(ctx context.Context, tx repository.Tx, limit int) ([]*model.RunJob, error) {
	return nil, nil
}

func (r *memJobRepo) FailStuckProcessing(ctx context.Context, olderThan time.Duration) (int, error) {
	return 0, nil
}

func TestProcessOneCompletesJob(t *testing.T) {
	repo := newMemJobRepo()
	_ = repo.Save(context.Background(), nil, &model.RunJob{
		ID: "j-1", Status: model.RunJobStatusPending, ThreadID: "t-1", Prompt: "hello",
	})
	asker := &stubAsker{reply: "hi there"}
	logger := zerolog.Nop()
	p := NewRunJobProcessor(repo, asker, time.Second, &logger)

	p.ProcessOne(context.Background())

	job, err := repo.FindByID(context.Background(), nil, "j-1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if job.Status != model.RunJobStatusCompleted {
		t.Fatalf("status: %s", job.Status)
	}
	if job.Reply != "hi there" {
		t.Fatalf("reply: %q", job.Reply)
	}
	if asker.calls != 1 {
		t.Fatalf("ask calls: %d", asker.calls)
	}
}

func TestProcessOneRecordsFailure(t *testing.T) {
	repo := newMemJobRepo()
	_ = repo.Save(context.Background(), nil, &model.RunJob{
		ID: "j-2", Status: model.RunJobStatusPending, ThreadID: "t-1", Prompt: "hello",
	})
	asker := &stubAsker{err: errors.New("run finished in a failure state")}
	logger := zerolog.Nop()
	p := NewRunJobProcessor(repo, asker, time.Second, &logger)

	p.ProcessOne(context.Background())

	job, _ := repo.FindByID(context.Background(), nil, "j-2")
	if job.Status != model.RunJobStatusFailed {
		t.Fatalf("status: %s", job.Status)
	}
	if job.LastError == "" {
		t.Fatal("last error not recorded")
	}
}

func TestProcessOneNoPendingJobs(t *testing.T) {
	repo := newMemJobRepo()
	asker := &stubAsker{reply: "unused"}
	logger := zerolog.Nop()
	p := NewRunJobProcessor(repo, asker, time.Second, &logger)

	p.ProcessOne(context.Background())

	if asker.calls != 0 {
		t.Fatalf("ask must not run without a job, got %d calls", asker.calls)
	}
}
