package repository

import (
	"context"

	"assistant-hub/internal/domain/model"
)

type AssistantRepository interface {
	Save(ctx context.Context, tx Tx, a *model.Assistant) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Assistant, error)
	ListByCompany(ctx context.Context, tx Tx, companyID string) ([]*model.Assistant, error)
	Delete(ctx context.Context, tx Tx, id string) error
}
