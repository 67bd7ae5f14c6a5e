// File: internal/infra/web/mock_test.go
package web

import (
	"context"

	"assistant-hub/internal/domain"
	"assistant-hub/internal/domain/model"
)

// Stub use cases with overridable function fields. Nil fields answer with
// ErrNotFound / zero values so each test only wires what it exercises.

type stubCompanyUC struct {
	create func(ctx context.Context, name string) (*model.Company, error)
	get    func(ctx context.Context, id string) (*model.Company, error)
	list   func(ctx context.Context) ([]*model.Company, error)
	del    func(ctx context.Context, id string) error
}

func (s *stubCompanyUC) Create(ctx context.Context, name string) (*model.Company, error) {
	if s.create != nil {
		return s.create(ctx, name)
	}
	return nil, domain.ErrInvalidArgument
}

func (s *stubCompanyUC) Get(ctx context.Context, id string) (*model.Company, error) {
	if s.get != nil {
		return s.get(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (s *stubCompanyUC) List(ctx context.Context) ([]*model.Company, error) {
	if s.list != nil {
		return s.list(ctx)
	}
	return nil, nil
}

func (s *stubCompanyUC) Delete(ctx context.Context, id string) error {
	if s.del != nil {
		return s.del(ctx, id)
	}
	return domain.ErrNotFound
}

type stubAssistantUC struct {
	create func(ctx context.Context, companyID, name, instructions, modelName string) (*model.Assistant, error)
	attach func(ctx context.Context, assistantID, vectorStoreID string) error
}

func (s *stubAssistantUC) Create(ctx context.Context, companyID, name, instructions, modelName string) (*model.Assistant, error) {
	if s.create != nil {
		return s.create(ctx, companyID, name, instructions, modelName)
	}
	return nil, domain.ErrNotFound
}

func (s *stubAssistantUC) Get(ctx context.Context, id string) (*model.Assistant, error) {
	return nil, domain.ErrNotFound
}

func (s *stubAssistantUC) ListByCompany(ctx context.Context, companyID string) ([]*model.Assistant, error) {
	return nil, nil
}

func (s *stubAssistantUC) AttachVectorStore(ctx context.Context, assistantID, vectorStoreID string) error {
	if s.attach != nil {
		return s.attach(ctx, assistantID, vectorStoreID)
	}
	return domain.ErrNotFound
}

func (s *stubAssistantUC) Delete(ctx context.Context, id string) error { return domain.ErrNotFound }

func (s *stubAssistantUC) ListModels(ctx context.Context) ([]string, error) {
	return []string{"gpt-4o"}, nil
}

type stubDocumentUC struct{}

func (s *stubDocumentUC) Upload(ctx context.Context, companyID, path string) (*model.Document, error) {
	return nil, domain.ErrNotFound
}

func (s *stubDocumentUC) Get(ctx context.Context, id string) (*model.Document, error) {
	return nil, domain.ErrNotFound
}

func (s *stubDocumentUC) ListByCompany(ctx context.Context, companyID string) ([]*model.Document, error) {
	return nil, nil
}

type stubVectorStoreUC struct{}

func (s *stubVectorStoreUC) Create(ctx context.Context, companyID, name string, documentIDs []string) (*model.VectorStore, error) {
	return nil, domain.ErrNotFound
}

func (s *stubVectorStoreUC) Get(ctx context.Context, id string) (*model.VectorStore, error) {
	return nil, domain.ErrNotFound
}

func (s *stubVectorStoreUC) ListByCompany(ctx context.Context, companyID string) ([]*model.VectorStore, error) {
	return nil, nil
}

func (s *stubVectorStoreUC) AddDocument(ctx context.Context, vectorStoreID, documentID string) error {
	return domain.ErrNotFound
}

type stubConversationUC struct {
	ask     func(ctx context.Context, threadID, prompt string) (string, error)
	enqueue func(ctx context.Context, threadID, prompt string) (*model.RunJob, error)
	getJob  func(ctx context.Context, jobID string) (*model.RunJob, error)
	getThr  func(ctx context.Context, threadID string) (*model.Thread, error)
}

func (s *stubConversationUC) StartThread(ctx context.Context, assistantID string) (*model.Thread, error) {
	return nil, domain.ErrNotFound
}

func (s *stubConversationUC) GetThread(ctx context.Context, threadID string) (*model.Thread, error) {
	if s.getThr != nil {
		return s.getThr(ctx, threadID)
	}
	return nil, domain.ErrNotFound
}

func (s *stubConversationUC) ListThreads(ctx context.Context, assistantID string) ([]*model.Thread, error) {
	return nil, nil
}

func (s *stubConversationUC) CloseThread(ctx context.Context, threadID string) error {
	return domain.ErrNotFound
}

func (s *stubConversationUC) Ask(ctx context.Context, threadID, prompt string) (string, error) {
	if s.ask != nil {
		return s.ask(ctx, threadID, prompt)
	}
	return "", domain.ErrNotFound
}

func (s *stubConversationUC) EnqueueAsk(ctx context.Context, threadID, prompt string) (*model.RunJob, error) {
	if s.enqueue != nil {
		return s.enqueue(ctx, threadID, prompt)
	}
	return nil, domain.ErrNotFound
}

func (s *stubConversationUC) GetJob(ctx context.Context, jobID string) (*model.RunJob, error) {
	if s.getJob != nil {
		return s.getJob(ctx, jobID)
	}
	return nil, domain.ErrNotFound
}

func (s *stubConversationUC) ListRecentJobs(ctx context.Context, limit int) ([]*model.RunJob, error) {
	return nil, nil
}
