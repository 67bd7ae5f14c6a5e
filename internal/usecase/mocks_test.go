// File: internal/usecase/mocks_test.go
package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"assistant-hub/internal/domain"
	"assistant-hub/internal/domain/model"
	"assistant-hub/internal/domain/ports/adapter"
	"assistant-hub/internal/domain/ports/repository"
)

// ---- In-memory CompanyRepository ----

type mockCompanyRepo struct {
	mu    sync.Mutex
	items map[string]*model.Company
}

func newMockCompanyRepo() *mockCompanyRepo {
	return &mockCompanyRepo{items: map[string]*model.Company{}}
}

func (r *mockCompanyRepo) Save(ctx context.Context, tx repository.Tx, c *model.Company) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.items[c.ID] = &cp
	return nil
}

func (r *mockCompanyRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *mockCompanyRepo) List(ctx context.Context, tx repository.Tx) ([]*model.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.Company, 0, len(r.items))
	for _, c := range r.items {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (r *mockCompanyRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

// ---- In-memory AssistantRepository ----

type mockAssistantRepo struct {
	mu    sync.Mutex
	items map[string]*model.Assistant
}

func newMockAssistantRepo() *mockAssistantRepo {
	return &mockAssistantRepo{items: map[string]*model.Assistant{}}
}

func (r *mockAssistantRepo) Save(ctx context.Context, tx repository.Tx, a *model.Assistant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *a
	r.items[a.ID] = &cp
	return nil
}

func (r *mockAssistantRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Assistant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *mockAssistantRepo) ListByCompany(ctx context.Context, tx repository.Tx, companyID string) ([]*model.Assistant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Assistant
	for _, a := range r.items {
		if a.CompanyID == companyID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *mockAssistantRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

// ---- In-memory DocumentRepository ----

type mockDocumentRepo struct {
	mu    sync.Mutex
	items map[string]*model.Document
}

func newMockDocumentRepo() *mockDocumentRepo {
	return &mockDocumentRepo{items: map[string]*model.Document{}}
}

func (r *mockDocumentRepo) Save(ctx context.Context, tx repository.Tx, d *model.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *d
	r.items[d.ID] = &cp
	return nil
}

func (r *mockDocumentRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (r *mockDocumentRepo) ListByCompany(ctx context.Context, tx repository.Tx, companyID string) ([]*model.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Document
	for _, d := range r.items {
		if d.CompanyID == companyID {
			cp := *d
			out = append(out, &cp)
		}
	}
	return out, nil
}

// ---- In-memory VectorStoreRepository ----

type mockVectorStoreRepo struct {
	mu    sync.Mutex
	items map[string]*model.VectorStore
}

func newMockVectorStoreRepo() *mockVectorStoreRepo {
	return &mockVectorStoreRepo{items: map[string]*model.VectorStore{}}
}

func (r *mockVectorStoreRepo) Save(ctx context.Context, tx repository.Tx, vs *model.VectorStore) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *vs
	r.items[vs.ID] = &cp
	return nil
}

func (r *mockVectorStoreRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.VectorStore, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	vs, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *vs
	return &cp, nil
}

func (r *mockVectorStoreRepo) ListByCompany(ctx context.Context, tx repository.Tx, companyID string) ([]*model.VectorStore, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.VectorStore
	for _, vs := range r.items {
		if vs.CompanyID == companyID {
			cp := *vs
			out = append(out, &cp)
		}
	}
	return out, nil
}

// ---- In-memory ThreadRepository ----

type mockThreadRepo struct {
	mu      sync.Mutex
	items   map[string]*model.Thread
	saveErr error
}

func newMockThreadRepo() *mockThreadRepo {
	return &mockThreadRepo{items: map[string]*model.Thread{}}
}

func (r *mockThreadRepo) Save(ctx context.Context, tx repository.Tx, t *model.Thread) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *t
	cp.Messages = append([]model.ThreadMessage(nil), t.Messages...)
	r.items[t.ID] = &cp
	return nil
}

func (r *mockThreadRepo) SaveMessage(ctx context.Context, tx repository.Tx, m *model.ThreadMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.items[m.ThreadID]
	if !ok {
		return domain.ErrNotFound
	}
	t.Messages = append(t.Messages, *m)
	return nil
}

func (r *mockThreadRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Thread, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *t
	cp.Messages = append([]model.ThreadMessage(nil), t.Messages...)
	return &cp, nil
}

func (r *mockThreadRepo) ListByAssistant(ctx context.Context, tx repository.Tx, assistantID string) ([]*model.Thread, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Thread
	for _, t := range r.items {
		if t.AssistantID == assistantID {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *mockThreadRepo) UpdateStatus(ctx context.Context, tx repository.Tx, id string, st model.ThreadStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	t.Status = st
	return nil
}

// ---- In-memory RunJobRepository ----

type mockRunJobRepo struct {
	mu    sync.Mutex
	items map[string]*model.RunJob
	order []string
}

func newMockRunJobRepo() *mockRunJobRepo {
	return &mockRunJobRepo{items: map[string]*model.RunJob{}}
}

func (r *mockRunJobRepo) Save(ctx context.Context, tx repository.Tx, job *model.RunJob) error {
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

func (r *mockRunJobRepo) FetchAndMarkProcessing(ctx context.Context) (*model.RunJob, error) {
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

func (r *mockRunJobRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.RunJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *job
	return &cp, nil
}

func (r *mockRunJobRepo) ListRecent(ctx context.Context, tx repository.Tx, limit int) ([]*model.RunJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.RunJob
	for i := len(r.order) - 1; i >= 0 && len(out) < limit; i-- {
		cp := *r.items[r.order[i]]
		out = append(out, &cp)
	}
	return out, nil
}

func (r *mockRunJobRepo) FailStuckProcessing(ctx context.Context, olderThan time.Duration) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	cutoff := time.Now().Add(-olderThan)
	for _, job := range r.items {
		if job.Status == model.RunJobStatusProcessing && job.UpdatedAt.Before(cutoff) {
			job.Status = model.RunJobStatusFailed
			job.LastError = "reaped: stuck in processing"
			n++
		}
	}
	return n, nil
}

// ---- Scripted AssistantsAPI ----

// mockAssistantsAPI scripts run statuses per poll and records calls. Zero
// value answers every run with "completed" and the reply text.
type mockAssistantsAPI struct {
	mu sync.Mutex

	statuses   []string // consumed one per RunStatus call; last repeats
	statusIdx  int
	reply      string
	replyOK    bool
	statusErr  error
	postErr    error
	startErr   error
	createErr  error
	uploadErr  error
	seq        int
	runStarted int
}

func newMockAssistantsAPI() *mockAssistantsAPI {
	return &mockAssistantsAPI{statuses: []string{"completed"}, reply: "mock reply", replyOK: true}
}

func (m *mockAssistantsAPI) next(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s_%d", prefix, m.seq)
}

func (m *mockAssistantsAPI) ListModels(ctx context.Context) ([]string, error) {
	return []string{"gpt-4o", "gpt-4o-mini"}, nil
}

func (m *mockAssistantsAPI) CreateAssistant(ctx context.Context, spec adapter.AssistantSpec) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return "", m.createErr
	}
	return m.next("asst"), nil
}

func (m *mockAssistantsAPI) UpdateAssistantVectorStores(ctx context.Context, remoteID string, vectorStoreIDs []string) error {
	return nil
}

func (m *mockAssistantsAPI) DeleteAssistant(ctx context.Context, remoteID string) error {
	return nil
}

func (m *mockAssistantsAPI) UploadFile(ctx context.Context, path string) (adapter.UploadedFile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.uploadErr != nil {
		return adapter.UploadedFile{}, m.uploadErr
	}
	return adapter.UploadedFile{ID: m.next("file"), Filename: path, Bytes: 42}, nil
}

func (m *mockAssistantsAPI) CreateVectorStore(ctx context.Context, name string, fileIDs []string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.next("vs"), nil
}

func (m *mockAssistantsAPI) AddFileToVectorStore(ctx context.Context, vectorStoreID, fileID string) error {
	return nil
}

func (m *mockAssistantsAPI) CreateThread(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.next("thread"), nil
}

func (m *mockAssistantsAPI) PostMessage(ctx context.Context, threadID, content string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.postErr != nil {
		return "", m.postErr
	}
	return m.next("msg"), nil
}

func (m *mockAssistantsAPI) StartRun(ctx context.Context, threadID, assistantID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.startErr != nil {
		return "", m.startErr
	}
	m.runStarted++
	return m.next("run"), nil
}

func (m *mockAssistantsAPI) RunStatus(ctx context.Context, threadID, runID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.statusErr != nil {
		return "", m.statusErr
	}
	s := m.statuses[m.statusIdx]
	if m.statusIdx < len(m.statuses)-1 {
		m.statusIdx++
	}
	return s, nil
}

func (m *mockAssistantsAPI) LatestAssistantMessage(ctx context.Context, threadID, runID string) (adapter.AssistantMessage, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.replyOK {
		return adapter.AssistantMessage{}, false, nil
	}
	return adapter.AssistantMessage{ID: m.next("amsg"), RunID: runID, Content: m.reply}, true, nil
}

// ---- In-memory Locker ----

type mockLocker struct {
	mu   sync.Mutex
	held map[string]string
	busy bool
}

func newMockLocker() *mockLocker {
	return &mockLocker{held: map[string]string{}}
}

func (l *mockLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.busy {
		return "", domain.ErrThreadBusy
	}
	if _, taken := l.held[key]; taken {
		return "", domain.ErrThreadBusy
	}
	l.held[key] = "tok"
	return "tok", nil
}

func (l *mockLocker) Unlock(ctx context.Context, key, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, key)
	return nil
}

// ---- Fixed-answer RateLimiter ----

type mockLimiter struct {
	allowed bool
}

func (m *mockLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	return m.allowed, nil
}
