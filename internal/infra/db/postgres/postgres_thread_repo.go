// File: internal/infra/db/postgres/postgres_thread_repo.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/oklog/ulid/v2"

	"assistant-hub/internal/domain"
	"assistant-hub/internal/domain/model"
	"assistant-hub/internal/domain/ports/repository"
	"assistant-hub/internal/infra/redis"
	"assistant-hub/internal/infra/security"
)

// ThreadRepo persists threads and their messages. Message content is
// encrypted at rest; ciphertext rows carry the encrypted flag so plaintext
// rows written before the key was configured still decode.
var _ repository.ThreadRepository = (*ThreadRepo)(nil)

type ThreadRepo struct {
	pool          *pgxpool.Pool
	cache         *redis.ThreadCache
	encryptionSvc *security.EncryptionService
}

func NewPostgresThreadRepo(pool *pgxpool.Pool, cache *redis.ThreadCache, encryptionSvc *security.EncryptionService) *ThreadRepo {
	return &ThreadRepo{pool: pool, cache: cache, encryptionSvc: encryptionSvc}
}

func (r *ThreadRepo) Save(ctx context.Context, tx repository.Tx, t *model.Thread) error {
	const q = `
INSERT INTO threads (id, assistant_id, remote_id, status, created_at, updated_at)
VALUES ($1,$2,$3,$4,COALESCE($5,NOW()),COALESCE($6,NOW()))
ON CONFLICT (id) DO UPDATE SET
  remote_id = EXCLUDED.remote_id,
  status = EXCLUDED.status,
  updated_at = EXCLUDED.updated_at;`
	if _, err := execSQL(ctx, r.pool, tx, q,
		t.ID, t.AssistantID, t.RemoteID, string(t.Status), t.CreatedAt, t.UpdatedAt); err != nil {
		return fmt.Errorf("save thread: %w", err)
	}

	// Messages are appended separately via SaveMessage. Cache latest state.
	if r.cache != nil {
		_ = r.cache.Store(ctx, t)
	}
	return nil
}

func (r *ThreadRepo) SaveMessage(ctx context.Context, tx repository.Tx, m *model.ThreadMessage) error {
	if m.ID == "" {
		m.ID = ulid.Make().String()
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now()
	}

	payload := m.Content
	encFlag := false
	if r.encryptionSvc != nil {
		enc, err := r.encryptionSvc.Encrypt(m.Content)
		if err != nil {
			return fmt.Errorf("encrypt msg: %w", err)
		}
		payload = enc
		encFlag = true
	}

	const q = `
INSERT INTO thread_messages (id, thread_id, role, content, tokens, run_id, encrypted, created_at)
VALUES ($1,$2,$3,$4,$5,NULLIF($6,''),$7,$8);`
	_, err := execSQL(ctx, r.pool, tx, q,
		m.ID, m.ThreadID, m.Role, payload, m.Tokens, m.RunID, encFlag, m.Timestamp)
	if err != nil {
		return fmt.Errorf("save msg: %w", err)
	}
	if r.cache != nil {
		_ = r.cache.Delete(ctx, m.ThreadID)
	}
	return nil
}

func (r *ThreadRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Thread, error) {
	if r.cache != nil {
		if t, err := r.cache.Get(ctx, id); err == nil && t != nil {
			return t, nil
		}
	}

	const qs = `SELECT id, assistant_id, remote_id, status, created_at, updated_at FROM threads WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, tx, qs, id)
	if err != nil {
		return nil, err
	}
	var t model.Thread
	var status string
	if err := row.Scan(&t.ID, &t.AssistantID, &t.RemoteID, &status, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan thread: %w", err)
	}
	t.Status = model.ThreadStatus(status)

	// load messages
	const qm = `SELECT id, role, content, tokens, COALESCE(run_id,''), encrypted, created_at
FROM thread_messages WHERE thread_id=$1 ORDER BY id ASC;`
	rows, err := pickRows(ctx, r.pool, tx, qm, id)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var msgID, role, content, runID string
		var tokens int
		var enc sql.NullBool
		var ts time.Time
		if err := rows.Scan(&msgID, &role, &content, &tokens, &runID, &enc, &ts); err != nil {
			return nil, fmt.Errorf("scan msg: %w", err)
		}
		if enc.Valid && enc.Bool {
			plain, err := r.encryptionSvc.Decrypt(content)
			if err != nil {
				return nil, fmt.Errorf("decrypt msg: %w", err)
			}
			content = plain
		}
		t.Messages = append(t.Messages, model.ThreadMessage{
			ID:        msgID,
			ThreadID:  t.ID,
			Role:      role,
			Content:   content,
			Tokens:    tokens,
			RunID:     runID,
			Timestamp: ts,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	if r.cache != nil {
		_ = r.cache.Store(ctx, &t)
	}
	return &t, nil
}

func (r *ThreadRepo) ListByAssistant(ctx context.Context, tx repository.Tx, assistantID string) ([]*model.Thread, error) {
	const q = `SELECT id FROM threads WHERE assistant_id=$1 ORDER BY created_at DESC;`
	rows, err := pickRows(ctx, r.pool, tx, q, assistantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	out := make([]*model.Thread, 0, len(ids))
	for _, id := range ids {
		t, err := r.FindByID(ctx, tx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func (r *ThreadRepo) UpdateStatus(ctx context.Context, tx repository.Tx, id string, st model.ThreadStatus) error {
	const q = `UPDATE threads SET status=$2, updated_at=NOW() WHERE id=$1;`
	tag, err := execSQL(ctx, r.pool, tx, q, id, string(st))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	if r.cache != nil {
		_ = r.cache.Delete(ctx, id)
	}
	return nil
}
