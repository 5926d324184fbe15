package memory

import (
	"context"
	"sync"

	"hospital-record-sync/internal/domain/replication"
)

type outboxRepo struct {
	mu      sync.Mutex
	entries []replication.OutboxEntry
}

func NewOutboxRepo() replication.Outbox {
	return &outboxRepo{}
}

func (r *outboxRepo) Append(ctx context.Context, e replication.OutboxEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, e)
	return nil
}

func (r *outboxRepo) ListPending(ctx context.Context, limit int) ([]replication.OutboxEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if limit <= 0 || limit > len(r.entries) {
		limit = len(r.entries)
	}

	out := make([]replication.OutboxEntry, limit)
	copy(out, r.entries[:limit])
	return out, nil
}

func (r *outboxRepo) MarkSent(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, e := range r.entries {
		if e.ID == id {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			break
		}
	}
	return nil
}
