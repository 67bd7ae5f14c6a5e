package repository

import (
	"context"

	"assistant-hub/internal/domain/model"
)

type VectorStoreRepository interface {
	Save(ctx context.Context, tx Tx, vs *model.VectorStore) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.VectorStore, error)
	ListByCompany(ctx context.Context, tx Tx, companyID string) ([]*model.VectorStore, error)
}
