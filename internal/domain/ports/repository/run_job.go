package repository

import (
	"context"
	"time"

	"assistant-hub/internal/domain/model"
)

type RunJobRepository interface {
	Save(ctx context.Context, tx Tx, job *model.RunJob) error
	// FetchAndMarkProcessing atomically fetches a pending job and marks it as
	// 'processing' so other workers cannot pick it up.
	FetchAndMarkProcessing(ctx context.Context) (*model.RunJob, error)
	FindByID(ctx context.Context, tx Tx, id string) (*model.RunJob, error)
	ListRecent(ctx context.Context, tx Tx, limit int) ([]*model.RunJob, error)
	// FailStuckProcessing marks jobs stuck in 'processing' longer than the
	// cutoff as failed. Returns the number of rows touched.
	FailStuckProcessing(ctx context.Context, olderThan time.Duration) (int, error)
}
