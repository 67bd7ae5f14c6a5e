package repository

import (
	"context"

	"assistant-hub/internal/domain/model"
)

type ThreadRepository interface {
	Save(ctx context.Context, tx Tx, t *model.Thread) error
	SaveMessage(ctx context.Context, tx Tx, m *model.ThreadMessage) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Thread, error)
	ListByAssistant(ctx context.Context, tx Tx, assistantID string) ([]*model.Thread, error)
	UpdateStatus(ctx context.Context, tx Tx, id string, st model.ThreadStatus) error
}
