package usecase

import (
	"context"

	"github.com/google/uuid"

	"assistant-hub/internal/domain/model"
	"assistant-hub/internal/domain/ports/adapter"
	"assistant-hub/internal/domain/ports/repository"
)

// Compile-time check
var _ DocumentUseCase = (*documentUC)(nil)

type DocumentUseCase interface {
	// Upload pushes a local file to the provider and records it.
	Upload(ctx context.Context, companyID, path string) (*model.Document, error)
	Get(ctx context.Context, id string) (*model.Document, error)
	ListByCompany(ctx context.Context, companyID string) ([]*model.Document, error)
}

type documentUC struct {
	companies repository.CompanyRepository
	documents repository.DocumentRepository
	api       adapter.AssistantsAPI
}

func NewDocumentUseCase(
	companies repository.CompanyRepository,
	documents repository.DocumentRepository,
	api adapter.AssistantsAPI,
) *documentUC {
	return &documentUC{companies: companies, documents: documents, api: api}
}

func (d *documentUC) Upload(ctx context.Context, companyID, path string) (*model.Document, error) {
	if _, err := d.companies.FindByID(ctx, nil, companyID); err != nil {
		return nil, err
	}

	up, err := d.api.UploadFile(ctx, path)
	if err != nil {
		return nil, err
	}

	doc := &model.Document{
		ID:           uuid.NewString(),
		CompanyID:    companyID,
		RemoteFileID: up.ID,
		Filename:     up.Filename,
		Bytes:        up.Bytes,
		Purpose:      "assistants",
	}
	if err := d.documents.Save(ctx, nil, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (d *documentUC) Get(ctx context.Context, id string) (*model.Document, error) {
	return d.documents.FindByID(ctx, nil, id)
}

func (d *documentUC) ListByCompany(ctx context.Context, companyID string) ([]*model.Document, error) {
	return d.documents.ListByCompany(ctx, nil, companyID)
}
