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

var _ repository.CompanyRepository = (*companyRepo)(nil)

type companyRepo struct {
	pool *pgxpool.Pool
}

func NewCompanyRepo(pool *pgxpool.Pool) *companyRepo {
	return &companyRepo{pool: pool}
}

func (r *companyRepo) Save(ctx context.Context, tx repository.Tx, c *model.Company) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.UpdatedAt = time.Now()

	const q = `
INSERT INTO companies (id, name, created_at, updated_at)
VALUES ($1, $2, COALESCE($3, NOW()), $4)
ON CONFLICT (id) DO UPDATE SET
  name = EXCLUDED.name,
  updated_at = EXCLUDED.updated_at;`

	_, err := execSQL(ctx, r.pool, tx, q, c.ID, c.Name, c.CreatedAt, c.UpdatedAt)
	if isUniqueViolation(err) {
		return domain.ErrAlreadyExists
	}
	return err
}

func (r *companyRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Company, error) {
	const q = `SELECT id, name, created_at, updated_at FROM companies WHERE id = $1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	var c model.Company
	if err := row.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return &c, nil
}

func (r *companyRepo) List(ctx context.Context, tx repository.Tx) ([]*model.Company, error) {
	const q = `SELECT id, name, created_at, updated_at FROM companies ORDER BY created_at;`
	rows, err := pickRows(ctx, r.pool, tx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Company
	for rows.Next() {
		var c model.Company
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

func (r *companyRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	const q = `DELETE FROM companies WHERE id = $1;`
	tag, err := execSQL(ctx, r.pool, tx, q, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
