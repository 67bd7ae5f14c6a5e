package repository

import (
	"context"

	"assistant-hub/internal/domain/model"
)

type CompanyRepository interface {
	Save(ctx context.Context, tx Tx, c *model.Company) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Company, error)
	List(ctx context.Context, tx Tx) ([]*model.Company, error)
	Delete(ctx context.Context, tx Tx, id string) error
}
