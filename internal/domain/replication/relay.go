package replication

import (
	"context"
	"time"

	"hospital-record-sync/internal/platform/backoff"
	"hospital-record-sync/internal/platform/logger"
	"hospital-record-sync/internal/ports/bus"
)

// Relay drena el outbox hacia el bus en segundo plano. Publica en orden de
// append y corta el lote en la primera falla: salteando un evento se
// rompería el orden por origen.
type Relay struct {
	outbox Outbox
	bus    bus.Bus
	log    logger.Logger

	interval time.Duration
	batch    int
	retry    backoff.Backoff
}

func NewRelay(outbox Outbox, b bus.Bus, log logger.Logger) *Relay {
	if log == nil {
		log = logger.Nop()
	}
	return &Relay{
		outbox:   outbox,
		bus:      b,
		log:      log.With(logger.Fields{"worker": "relay"}),
		interval: 250 * time.Millisecond,
		batch:    64,
		retry:    backoff.Backoff{Min: 500 * time.Millisecond, Max: 30 * time.Second},
	}
}

// Run publica lo pendiente hasta que ctx se cancela. Las fallas de
// transporte nunca son fatales: se loguean y se reintenta con backoff.
func (r *Relay) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := r.drain(ctx); err != nil {
				wait := r.retry.Next()
				r.log.Warn("outbox drain failed", logger.Fields{"error": err.Error(), "retry_in": wait.String()})
				if !sleep(ctx, wait) {
					return
				}
				continue
			}
			r.retry.Reset()
		}
	}
}

// drain publica todo lo pendiente en orden de append. Devuelve el primer
// error y deja el resto para el próximo intento. MarkSent va después del
// accept del broker: si el proceso muere en el medio, el evento sale dos
// veces y el apply idempotente remoto lo absorbe.
func (r *Relay) drain(ctx context.Context) error {
	for {
		pending, err := r.outbox.ListPending(ctx, r.batch)
		if err != nil {
			return err
		}
		if len(pending) == 0 {
			return nil
		}

		for _, e := range pending {
			if err := r.bus.Publish(ctx, e.Payload); err != nil {
				return err
			}
			if err := r.outbox.MarkSent(ctx, e.ID); err != nil {
				return err
			}
		}

		if len(pending) < r.batch {
			return nil
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
