package postgres

import (
	"context"
	"database/sql"

	"hospital-record-sync/internal/domain/replication"
)

type OutboxRepo struct {
	db *sql.DB
}

func NewOutboxRepo(db *sql.DB) *OutboxRepo {
	return &OutboxRepo{db: db}
}

func (r *OutboxRepo) Append(ctx context.Context, e replication.OutboxEntry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO replication_outbox (id, payload, created_at)
		VALUES ($1, $2, $3)
	`, e.ID, e.Payload, e.CreatedAt)
	return err
}

// ListPending devuelve por posición de append (BIGSERIAL): el orden en que
// el relay tiene que publicar.
func (r *OutboxRepo) ListPending(ctx context.Context, limit int) ([]replication.OutboxEntry, error) {
	if limit <= 0 || limit > 500 {
		limit = 500
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, payload, created_at
		FROM replication_outbox
		ORDER BY position ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]replication.OutboxEntry, 0)
	for rows.Next() {
		var e replication.OutboxEntry
		if err := rows.Scan(&e.ID, &e.Payload, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// MarkSent borra la entrada ya difundida. Es idempotente: borrar un id que
// ya no está no es error.
func (r *OutboxRepo) MarkSent(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM replication_outbox WHERE id = $1`, id)
	return err
}
