package replication

import (
	"context"
	"fmt"

	"hospital-record-sync/internal/domain/patients"
	"hospital-record-sync/internal/platform/logger"
)

// Engine aplica eventos remotos sobre el registro local. Es idempotente:
// aplicar dos veces el mismo evento deja el mismo estado, así que las
// redeliveries del broker (at-least-once) son inofensivas.
type Engine struct {
	store patients.Repository
	log   logger.Logger
}

func NewEngine(store patients.Repository, log logger.Logger) *Engine {
	if log == nil {
		log = logger.Nop()
	}
	return &Engine{store: store, log: log}
}

func (e *Engine) Apply(ctx context.Context, ev ChangeEvent) error {
	if err := ev.Validate(); err != nil {
		return err
	}

	switch ev.Action {
	case ActionUpsert:
		applied, err := e.store.Upsert(ctx, ev.record())
		if err != nil {
			return fmt.Errorf("apply upsert id=%d: %w", *ev.ID, err)
		}
		if !applied {
			// la copia local es igual o más nueva: el evento pierde por LWW
			e.log.Debug("stale upsert skipped", logger.Fields{"id": *ev.ID, "origin": ev.Origin})
		}
	case ActionDelete:
		existed, err := e.store.Delete(ctx, *ev.ID)
		if err != nil {
			return fmt.Errorf("apply delete id=%d: %w", *ev.ID, err)
		}
		if !existed {
			// ya estaba borrado acá (o nunca existió): no-op
			e.log.Debug("delete of absent id ignored", logger.Fields{"id": *ev.ID, "origin": ev.Origin})
		}
	case ActionClearAll:
		n, err := e.store.Clear(ctx)
		if err != nil {
			return fmt.Errorf("apply clear_all: %w", err)
		}
		e.log.Info("registry cleared by remote node", logger.Fields{"deleted": n, "origin": ev.Origin})
	}
	return nil
}
