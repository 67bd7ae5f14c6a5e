package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"assistant-hub/internal/domain"
	"assistant-hub/internal/domain/model"
	"assistant-hub/internal/domain/ports/repository"
)

var _ repository.AssistantRepository = (*assistantRepo)(nil)

type assistantRepo struct {
	pool *pgxpool.Pool
}

func NewAssistantRepo(pool *pgxpool.Pool) *assistantRepo {
	return &assistantRepo{pool: pool}
}

func (r *assistantRepo) Save(ctx context.Context, tx repository.Tx, a *model.Assistant) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.UpdatedAt = time.Now()

	const q = `
INSERT INTO assistants (id, company_id, remote_id, name, instructions, model, vector_store_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), COALESCE($8, NOW()), $9)
ON CONFLICT (id) DO UPDATE SET
  name = EXCLUDED.name,
  instructions = EXCLUDED.instructions,
  model = EXCLUDED.model,
  vector_store_id = EXCLUDED.vector_store_id,
  updated_at = EXCLUDED.updated_at;`

	_, err := execSQL(ctx, r.pool, tx, q,
		a.ID, a.CompanyID, a.RemoteID, a.Name, a.Instructions, a.Model, a.VectorStoreID, a.CreatedAt, a.UpdatedAt)
	if isUniqueViolation(err) {
		return domain.ErrAlreadyExists
	}
	return err
}

const assistantColumns = `id, company_id, remote_id, name, instructions, model, COALESCE(vector_store_id, ''), created_at, updated_at`

func scanAssistant(row pgx.Row) (*model.Assistant, error) {
	var a model.Assistant
	err := row.Scan(&a.ID, &a.CompanyID, &a.RemoteID, &a.Name, &a.Instructions, &a.Model, &a.VectorStoreID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return &a, nil
}

func (r *assistantRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Assistant, error) {
	const q = `SELECT ` + assistantColumns + ` FROM assistants WHERE id = $1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanAssistant(row)
}

func (r *assistantRepo) ListByCompany(ctx context.Context, tx repository.Tx, companyID string) ([]*model.Assistant, error) {
	const q = `SELECT ` + assistantColumns + ` FROM assistants WHERE company_id = $1 ORDER BY created_at;`
	rows, err := pickRows(ctx, r.pool, tx, q, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Assistant
	for rows.Next() {
		a, err := scanAssistant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *assistantRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	const q = `DELETE FROM assistants WHERE id = $1;`
	tag, err := execSQL(ctx, r.pool, tx, q, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
