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

var _ repository.RunJobRepository = (*runJobRepo)(nil)

type runJobRepo struct {
	pool *pgxpool.Pool
	tm   repository.TransactionManager
}

func NewRunJobRepo(pool *pgxpool.Pool, tm repository.TransactionManager) *runJobRepo {
	return &runJobRepo{
		pool: pool,
		tm:   tm,
	}
}

const runJobColumns = `id, status, thread_id, prompt, reply, attempts, last_error, created_at, updated_at`

func scanRunJob(row pgx.Row) (*model.RunJob, error) {
	var job model.RunJob
	var statusStr string
	err := row.Scan(
		&job.ID, &statusStr, &job.ThreadID, &job.Prompt, &job.Reply,
		&job.Attempts, &job.LastError, &job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	job.Status = model.RunJobStatus(statusStr)
	return &job, nil
}

func (r *runJobRepo) Save(ctx context.Context, tx repository.Tx, job *model.RunJob) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now()
	}
	job.UpdatedAt = time.Now()

	const q = `
INSERT INTO run_jobs (id, status, thread_id, prompt, reply, attempts, last_error, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (id) DO UPDATE SET
  status = EXCLUDED.status,
  reply = EXCLUDED.reply,
  attempts = EXCLUDED.attempts,
  last_error = EXCLUDED.last_error,
  updated_at = EXCLUDED.updated_at;`

	_, err := execSQL(ctx, r.pool, tx, q,
		job.ID, string(job.Status), job.ThreadID, job.Prompt, job.Reply, job.Attempts, job.LastError, job.CreatedAt, job.UpdatedAt)
	return err
}

func (r *runJobRepo) FetchAndMarkProcessing(ctx context.Context) (*model.RunJob, error) {
	var job *model.RunJob

	// Use the TransactionManager to handle Begin/Commit/Rollback automatically.
	err := r.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		const fetchQuery = `
SELECT ` + runJobColumns + `
FROM run_jobs
WHERE status = 'pending'
ORDER BY created_at
LIMIT 1
FOR UPDATE SKIP LOCKED;`

		row, err := pickRow(ctx, r.pool, tx, fetchQuery)
		if err != nil {
			return err
		}
		fetched, err := scanRunJob(row)
		if err != nil {
			return err
		}

		// Mark the job as processing so no one else picks it up.
		fetched.Status = model.RunJobStatusProcessing
		if err := r.Save(ctx, tx, fetched); err != nil {
			return err
		}

		job = fetched
		return nil
	})

	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrNotFound
	}

	return job, err
}

func (r *runJobRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.RunJob, error) {
	const q = `SELECT ` + runJobColumns + ` FROM run_jobs WHERE id = $1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	return scanRunJob(row)
}

func (r *runJobRepo) ListRecent(ctx context.Context, tx repository.Tx, limit int) ([]*model.RunJob, error) {
	if limit <= 0 {
		limit = 50
	}
	const q = `SELECT ` + runJobColumns + ` FROM run_jobs ORDER BY created_at DESC LIMIT $1;`
	rows, err := pickRows(ctx, r.pool, tx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.RunJob
	for rows.Next() {
		job, err := scanRunJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, job)
	}
	return out, rows.Err()
}

func (r *runJobRepo) FailStuckProcessing(ctx context.Context, olderThan time.Duration) (int, error) {
	const q = `
UPDATE run_jobs
   SET status = 'failed',
       last_error = 'reaped: stuck in processing',
       updated_at = NOW()
 WHERE status = 'processing'
   AND updated_at < NOW() - ($1::bigint * INTERVAL '1 second');`
	tag, err := r.pool.Exec(ctx, q, int64(olderThan.Seconds()))
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
