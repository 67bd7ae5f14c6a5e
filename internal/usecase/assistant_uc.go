// File: internal/usecase/assistant_uc.go
package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"assistant-hub/internal/domain"
	"assistant-hub/internal/domain/model"
	"assistant-hub/internal/domain/ports/adapter"
	"assistant-hub/internal/domain/ports/repository"
)

// Compile-time check
var _ AssistantUseCase = (*assistantUC)(nil)

type AssistantUseCase interface {
	Create(ctx context.Context, companyID, name, instructions, modelName string) (*model.Assistant, error)
	Get(ctx context.Context, id string) (*model.Assistant, error)
	ListByCompany(ctx context.Context, companyID string) ([]*model.Assistant, error)
	// AttachVectorStore binds a local vector store to the assistant so its
	// files become searchable in runs.
	AttachVectorStore(ctx context.Context, assistantID, vectorStoreID string) error
	Delete(ctx context.Context, id string) error
	ListModels(ctx context.Context) ([]string, error)
}

type assistantUC struct {
	companies    repository.CompanyRepository
	assistants   repository.AssistantRepository
	vectorStores repository.VectorStoreRepository
	api          adapter.AssistantsAPI
	defaultModel string
}

func NewAssistantUseCase(
	companies repository.CompanyRepository,
	assistants repository.AssistantRepository,
	vectorStores repository.VectorStoreRepository,
	api adapter.AssistantsAPI,
	defaultModel string,
) *assistantUC {
	return &assistantUC{
		companies:    companies,
		assistants:   assistants,
		vectorStores: vectorStores,
		api:          api,
		defaultModel: defaultModel,
	}
}

func (a *assistantUC) Create(ctx context.Context, companyID, name, instructions, modelName string) (*model.Assistant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidArgument
	}
	if modelName == "" {
		modelName = a.defaultModel
	}
	if _, err := a.companies.FindByID(ctx, nil, companyID); err != nil {
		return nil, err
	}

	remoteID, err := a.api.CreateAssistant(ctx, adapter.AssistantSpec{
		Name:         name,
		Instructions: instructions,
		Model:        modelName,
	})
	if err != nil {
		return nil, err
	}

	asst := model.NewAssistant(uuid.NewString(), companyID, remoteID, name, instructions, modelName)
	if err := a.assistants.Save(ctx, nil, asst); err != nil {
		// Local save failed after the remote create; drop the remote side so
		// we do not leak orphan assistants at the provider.
		_ = a.api.DeleteAssistant(ctx, remoteID)
		return nil, err
	}
	return asst, nil
}

func (a *assistantUC) Get(ctx context.Context, id string) (*model.Assistant, error) {
	return a.assistants.FindByID(ctx, nil, id)
}

func (a *assistantUC) ListByCompany(ctx context.Context, companyID string) ([]*model.Assistant, error) {
	return a.assistants.ListByCompany(ctx, nil, companyID)
}

func (a *assistantUC) AttachVectorStore(ctx context.Context, assistantID, vectorStoreID string) error {
	asst, err := a.assistants.FindByID(ctx, nil, assistantID)
	if err != nil {
		return err
	}
	vs, err := a.vectorStores.FindByID(ctx, nil, vectorStoreID)
	if err != nil {
		return err
	}
	if vs.CompanyID != asst.CompanyID {
		return domain.ErrInvalidArgument
	}

	if err := a.api.UpdateAssistantVectorStores(ctx, asst.RemoteID, []string{vs.RemoteID}); err != nil {
		return err
	}

	asst.VectorStoreID = vs.ID
	asst.UpdatedAt = time.Now()
	return a.assistants.Save(ctx, nil, asst)
}

func (a *assistantUC) Delete(ctx context.Context, id string) error {
	asst, err := a.assistants.FindByID(ctx, nil, id)
	if err != nil {
		return err
	}
	if err := a.api.DeleteAssistant(ctx, asst.RemoteID); err != nil {
		return err
	}
	return a.assistants.Delete(ctx, nil, id)
}

func (a *assistantUC) ListModels(ctx context.Context) ([]string, error) {
	return a.api.ListModels(ctx)
}
