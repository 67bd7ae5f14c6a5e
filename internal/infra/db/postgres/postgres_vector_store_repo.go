package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"assistant-hub/internal/domain"
	"assistant-hub/internal/domain/model"
	"assistant-hub/internal/domain/ports/repository"
)

var _ repository.VectorStoreRepository = (*vectorStoreRepo)(nil)

type vectorStoreRepo struct {
	pool *pgxpool.Pool
}

func NewVectorStoreRepo(pool *pgxpool.Pool) *vectorStoreRepo {
	return &vectorStoreRepo{pool: pool}
}

func (r *vectorStoreRepo) Save(ctx context.Context, tx repository.Tx, vs *model.VectorStore) error {
	if vs.ID == "" {
		vs.ID = uuid.NewString()
	}

	const q = `
INSERT INTO vector_stores (id, company_id, remote_id, name, file_ids, created_at)
VALUES ($1, $2, $3, $4, $5, COALESCE($6, NOW()))
ON CONFLICT (id) DO UPDATE SET
  name = EXCLUDED.name,
  file_ids = EXCLUDED.file_ids;`

	_, err := execSQL(ctx, r.pool, tx, q,
		vs.ID, vs.CompanyID, vs.RemoteID, vs.Name, vs.FileIDs, vs.CreatedAt)
	if isUniqueViolation(err) {
		return domain.ErrAlreadyExists
	}
	return err
}

func (r *vectorStoreRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.VectorStore, error) {
	const q = `SELECT id, company_id, remote_id, name, file_ids, created_at FROM vector_stores WHERE id = $1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	var vs model.VectorStore
	if err := row.Scan(&vs.ID, &vs.CompanyID, &vs.RemoteID, &vs.Name, &vs.FileIDs, &vs.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return &vs, nil
}

func (r *vectorStoreRepo) ListByCompany(ctx context.Context, tx repository.Tx, companyID string) ([]*model.VectorStore, error) {
	const q = `SELECT id, company_id, remote_id, name, file_ids, created_at FROM vector_stores WHERE company_id = $1 ORDER BY created_at;`
	rows, err := pickRows(ctx, r.pool, tx, q, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.VectorStore
	for rows.Next() {
		var vs model.VectorStore
		if err := rows.Scan(&vs.ID, &vs.CompanyID, &vs.RemoteID, &vs.Name, &vs.FileIDs, &vs.CreatedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, &vs)
	}
	return out, rows.Err()
}
