package bus

import (
	"context"
	"errors"
)

// ErrUnavailable marca fallas de transporte contra el broker (conexión
// caída, publish rechazado, suscripción imposible). Nunca es fatal para el
// proceso: los workers reintentan con backoff.
var ErrUnavailable = errors.New("bus unavailable")

// Delivery es un evento entrante de la cola durable de este nodo.
// Ack se llama recién después de que el apply local commiteó; Reject
// devuelve el mensaje a la cola (requeue) o lo descarta.
type Delivery interface {
	Body() []byte
	Ack() error
	Reject(requeue bool) error
}

// Bus es el canal de difusión entre hospitales: todo lo publicado llega a
// la cola de todos los nodos suscriptos, incluido el que publicó.
type Bus interface {
	// Publish difunde body de forma durable a todos los nodos.
	Publish(ctx context.Context, body []byte) error

	// Consume suscribe la cola durable de este nodo (idempotente: siempre
	// la misma cola) y entrega mensajes de a uno. El canal devuelto se
	// cierra si la conexión se pierde; el caller decide re-suscribir.
	Consume(ctx context.Context) (<-chan Delivery, error)

	Close() error
}
