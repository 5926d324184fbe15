package membus

import (
	"context"
	"sync"

	"hospital-record-sync/internal/ports/bus"
)

// Hub es un bus fanout en memoria para modo dev de un solo nodo y para
// tests: misma semántica de difusión que el broker real (cada publish llega
// a la cola de todos los nodos, incluido el que publicó) pero sin
// durabilidad ni redelivery tras un crash.
type Hub struct {
	mu     sync.RWMutex
	queues map[string]chan []byte
}

func NewHub() *Hub {
	return &Hub{queues: make(map[string]chan []byte)}
}

// Bind devuelve el endpoint de un nodo. Con el mismo id reusa la misma
// cola, igual que una re-suscripción a una cola durable.
func (h *Hub) Bind(nodeID string) *Bus {
	h.mu.Lock()
	defer h.mu.Unlock()

	q, ok := h.queues[nodeID]
	if !ok {
		q = make(chan []byte, 256)
		h.queues[nodeID] = q
	}
	return &Bus{hub: h, nodeID: nodeID, queue: q}
}

func (h *Hub) broadcast(ctx context.Context, body []byte) error {
	h.mu.RLock()
	queues := make([]chan []byte, 0, len(h.queues))
	for _, q := range h.queues {
		queues = append(queues, q)
	}
	h.mu.RUnlock()

	for _, q := range queues {
		// cada cola recibe su propia copia del payload
		msg := make([]byte, len(body))
		copy(msg, body)

		select {
		case q <- msg:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Bus es el endpoint de un nodo sobre el Hub.
type Bus struct {
	hub    *Hub
	nodeID string
	queue  chan []byte
}

func (b *Bus) Publish(ctx context.Context, body []byte) error {
	return b.hub.broadcast(ctx, body)
}

func (b *Bus) Consume(ctx context.Context) (<-chan bus.Delivery, error) {
	out := make(chan bus.Delivery)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case body := <-b.queue:
				select {
				case out <- &delivery{body: body, queue: b.queue}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

func (b *Bus) Close() error { return nil }

type delivery struct {
	body  []byte
	queue chan []byte
}

func (d *delivery) Body() []byte { return d.body }

func (d *delivery) Ack() error { return nil }

// Reject con requeue lo manda al final de la cola; si está llena se descarta.
func (d *delivery) Reject(requeue bool) error {
	if requeue {
		select {
		case d.queue <- d.body:
		default:
		}
	}
	return nil
}
