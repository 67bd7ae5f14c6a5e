package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"assistant-hub/internal/domain"
	"assistant-hub/internal/domain/model"
	"assistant-hub/internal/domain/ports/adapter"
	"assistant-hub/internal/domain/ports/repository"
)

// Compile-time check
var _ VectorStoreUseCase = (*vectorStoreUC)(nil)

type VectorStoreUseCase interface {
	// Create builds a provider vector store from already-uploaded documents.
	Create(ctx context.Context, companyID, name string, documentIDs []string) (*model.VectorStore, error)
	Get(ctx context.Context, id string) (*model.VectorStore, error)
	ListByCompany(ctx context.Context, companyID string) ([]*model.VectorStore, error)
	AddDocument(ctx context.Context, vectorStoreID, documentID string) error
}

type vectorStoreUC struct {
	vectorStores repository.VectorStoreRepository
	documents    repository.DocumentRepository
	api          adapter.AssistantsAPI
}

func NewVectorStoreUseCase(
	vectorStores repository.VectorStoreRepository,
	documents repository.DocumentRepository,
	api adapter.AssistantsAPI,
) *vectorStoreUC {
	return &vectorStoreUC{vectorStores: vectorStores, documents: documents, api: api}
}

func (v *vectorStoreUC) Create(ctx context.Context, companyID, name string, documentIDs []string) (*model.VectorStore, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidArgument
	}

	fileIDs := make([]string, 0, len(documentIDs))
	for _, docID := range documentIDs {
		doc, err := v.documents.FindByID(ctx, nil, docID)
		if err != nil {
			return nil, err
		}
		if doc.CompanyID != companyID {
			return nil, domain.ErrInvalidArgument
		}
		fileIDs = append(fileIDs, doc.RemoteFileID)
	}

	remoteID, err := v.api.CreateVectorStore(ctx, name, fileIDs)
	if err != nil {
		return nil, err
	}

	vs := &model.VectorStore{
		ID:        uuid.NewString(),
		CompanyID: companyID,
		RemoteID:  remoteID,
		Name:      name,
		FileIDs:   fileIDs,
	}
	if err := v.vectorStores.Save(ctx, nil, vs); err != nil {
		return nil, err
	}
	return vs, nil
}

func (v *vectorStoreUC) Get(ctx context.Context, id string) (*model.VectorStore, error) {
	return v.vectorStores.FindByID(ctx, nil, id)
}

func (v *vectorStoreUC) ListByCompany(ctx context.Context, companyID string) ([]*model.VectorStore, error) {
	return v.vectorStores.ListByCompany(ctx, nil, companyID)
}

func (v *vectorStoreUC) AddDocument(ctx context.Context, vectorStoreID, documentID string) error {
	vs, err := v.vectorStores.FindByID(ctx, nil, vectorStoreID)
	if err != nil {
		return err
	}
	doc, err := v.documents.FindByID(ctx, nil, documentID)
	if err != nil {
		return err
	}
	if doc.CompanyID != vs.CompanyID {
		return domain.ErrInvalidArgument
	}

	if err := v.api.AddFileToVectorStore(ctx, vs.RemoteID, doc.RemoteFileID); err != nil {
		return err
	}
	vs.FileIDs = append(vs.FileIDs, doc.RemoteFileID)
	return v.vectorStores.Save(ctx, nil, vs)
}
