package repository

import (
	"context"

	"assistant-hub/internal/domain/model"
)

type DocumentRepository interface {
	Save(ctx context.Context, tx Tx, d *model.Document) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Document, error)
	ListByCompany(ctx context.Context, tx Tx, companyID string) ([]*model.Document, error)
}
