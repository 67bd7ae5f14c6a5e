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

var _ repository.DocumentRepository = (*documentRepo)(nil)

type documentRepo struct {
	pool *pgxpool.Pool
}

func NewDocumentRepo(pool *pgxpool.Pool) *documentRepo {
	return &documentRepo{pool: pool}
}

func (r *documentRepo) Save(ctx context.Context, tx repository.Tx, d *model.Document) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}

	const q = `
INSERT INTO documents (id, company_id, remote_file_id, filename, bytes, purpose, created_at)
VALUES ($1, $2, $3, $4, $5, $6, COALESCE($7, NOW()))
ON CONFLICT (id) DO UPDATE SET
  filename = EXCLUDED.filename,
  bytes = EXCLUDED.bytes;`

	_, err := execSQL(ctx, r.pool, tx, q,
		d.ID, d.CompanyID, d.RemoteFileID, d.Filename, d.Bytes, d.Purpose, d.CreatedAt)
	if isUniqueViolation(err) {
		return domain.ErrAlreadyExists
	}
	return err
}

func (r *documentRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Document, error) {
	const q = `SELECT id, company_id, remote_file_id, filename, bytes, purpose, created_at FROM documents WHERE id = $1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	var d model.Document
	if err := row.Scan(&d.ID, &d.CompanyID, &d.RemoteFileID, &d.Filename, &d.Bytes, &d.Purpose, &d.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return &d, nil
}

func (r *documentRepo) ListByCompany(ctx context.Context, tx repository.Tx, companyID string) ([]*model.Document, error) {
	const q = `SELECT id, company_id, remote_file_id, filename, bytes, purpose, created_at FROM documents WHERE company_id = $1 ORDER BY created_at;`
	rows, err := pickRows(ctx, r.pool, tx, q, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Document
	for rows.Next() {
		var d model.Document
		if err := rows.Scan(&d.ID, &d.CompanyID, &d.RemoteFileID, &d.Filename, &d.Bytes, &d.Purpose, &d.CreatedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, &d)
	}
	return out, rows.Err()
}
