package replication

import (
	"context"
	"errors"
	"time"

	"hospital-record-sync/internal/domain/patients"
	"hospital-record-sync/internal/platform/backoff"
	"hospital-record-sync/internal/platform/logger"
	"hospital-record-sync/internal/ports/bus"
)

// Consumer procesa la cola durable de este nodo, de a un evento por vez:
// decodifica, filtra ecos propios, aplica y recién entonces ack-ea. Si el
// proceso muere antes del ack, el broker reentrega y el apply idempotente
// absorbe el duplicado.
type Consumer struct {
	bus    bus.Bus
	engine *Engine
	origin string
	log    logger.Logger

	redial     backoff.Backoff
	applyPause time.Duration
}

func NewConsumer(b bus.Bus, engine *Engine, origin string, log logger.Logger) *Consumer {
	if log == nil {
		log = logger.Nop()
	}
	return &Consumer{
		bus:        b,
		engine:     engine,
		origin:     origin,
		log:        log.With(logger.Fields{"worker": "consumer", "node": origin}),
		redial:     backoff.Backoff{Min: 500 * time.Millisecond, Max: 30 * time.Second},
		applyPause: 2 * time.Second,
	}
}

// Run consume hasta que ctx se cancela. Perder la conexión nunca es fatal:
// re-suscribe la misma cola durable con backoff acotado, y el backoff se
// resetea tras una suscripción exitosa.
func (c *Consumer) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		deliveries, err := c.bus.Consume(ctx)
		if err != nil {
			wait := c.redial.Next()
			c.log.Warn("subscribe failed", logger.Fields{"error": err.Error(), "retry_in": wait.String()})
			if !sleep(ctx, wait) {
				return
			}
			continue
		}
		c.redial.Reset()
		c.log.Info("consuming replication queue", nil)

		if stopped := c.drain(ctx, deliveries); stopped {
			return
		}
		c.log.Warn("delivery channel closed, resubscribing", nil)
	}
}

// drain procesa hasta que ctx se cancela (true) o el canal se cierra (false).
// Con ctx cancelado el evento en curso se termina de aplicar y ack-ear; solo
// se deja de sacar eventos nuevos.
func (c *Consumer) drain(ctx context.Context, deliveries <-chan bus.Delivery) bool {
	for {
		select {
		case <-ctx.Done():
			return true
		case d, ok := <-deliveries:
			if !ok {
				return false
			}
			c.handle(ctx, d)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, d bus.Delivery) {
	ev, err := DecodeEvent(d.Body())
	if err != nil {
		// malformado: se loguea y se descarta, reencolarlo no lo arregla
		c.log.Warn("discarding malformed event", logger.Fields{"error": err.Error()})
		_ = d.Ack()
		return
	}

	if ev.Origin == c.origin {
		// eco de una mutación propia, ya aplicada localmente
		_ = d.Ack()
		return
	}

	if err := c.engine.Apply(ctx, ev); err != nil {
		if errors.Is(err, ErrInvalidEvent) || errors.Is(err, patients.ErrConflict) {
			// permanente: reencolado redeliveraría para siempre
			c.log.Error("dropping unappliable event", logger.Fields{
				"action": string(ev.Action),
				"origin": ev.Origin,
				"error":  err.Error(),
			})
			_ = d.Ack()
			return
		}

		// transitorio (storage caído): devolver a la cola y dar aire
		c.log.Warn("apply failed, requeueing", logger.Fields{
			"action": string(ev.Action),
			"origin": ev.Origin,
			"error":  err.Error(),
		})
		_ = d.Reject(true)
		sleep(ctx, c.applyPause)
		return
	}

	if err := d.Ack(); err != nil {
		// el apply quedó confirmado: si este ack se pierde, la redelivery
		// será un no-op idempotente
		c.log.Warn("ack failed", logger.Fields{"error": err.Error()})
	}
}
