package replication

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"hospital-record-sync/internal/domain/patients"
)

// OutboxEntry es un evento ya codificado esperando a que el relay lo
// difunda. Vive en el mismo storage que las fichas, así la réplica
// pendiente sobrevive reinicios y caídas del broker.
type OutboxEntry struct {
	ID        string
	Payload   []byte
	CreatedAt time.Time
}

// Outbox es el log durable de salida. ListPending devuelve en orden de
// append: el orden de publicación por origen es parte del contrato que
// asumen los consumidores remotos.
type Outbox interface {
	Append(ctx context.Context, e OutboxEntry) error
	ListPending(ctx context.Context, limit int) ([]OutboxEntry, error)
	MarkSent(ctx context.Context, id string) error
}

// OutboxPublisher implementa patients.Publisher: convierte cada mutación
// confirmada en un ChangeEvent con el origin de este nodo y lo deja en el
// outbox. No toca el broker; de difundir se encarga el Relay.
type OutboxPublisher struct {
	outbox Outbox
	origin string
	now    func() time.Time
}

func NewOutboxPublisher(outbox Outbox, origin string) *OutboxPublisher {
	return &OutboxPublisher{outbox: outbox, origin: origin, now: time.Now}
}

func (p *OutboxPublisher) RecordUpserted(ctx context.Context, pat patients.Patient) error {
	return p.stage(ctx, UpsertEvent(p.origin, pat))
}

func (p *OutboxPublisher) RecordDeleted(ctx context.Context, id int64) error {
	return p.stage(ctx, DeleteEvent(p.origin, id))
}

func (p *OutboxPublisher) RecordsCleared(ctx context.Context) error {
	return p.stage(ctx, ClearAllEvent(p.origin))
}

func (p *OutboxPublisher) stage(ctx context.Context, ev ChangeEvent) error {
	body, err := ev.Encode()
	if err != nil {
		return err
	}

	entry := OutboxEntry{
		ID:        uuid.NewString(),
		Payload:   body,
		CreatedAt: p.now().UTC(),
	}
	if err := p.outbox.Append(ctx, entry); err != nil {
		return fmt.Errorf("stage replication event: %w", err)
	}
	return nil
}
