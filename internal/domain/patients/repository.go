package patients

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("patient not found")
	ErrConflict = errors.New("patient conflict")
)

// Repository es la única frontera de escritura sobre el registro local:
// tanto las mutaciones del API como el apply de eventos remotos pasan por
// la misma implementación (y la misma transacción subyacente).
type Repository interface {
	Get(ctx context.Context, id int64) (Patient, error)
	List(ctx context.Context) ([]Patient, error)

	// Create y Update son el camino local (API). Create devuelve ErrConflict
	// si el id ya existe; Update devuelve ErrNotFound si no existe.
	Create(ctx context.Context, p Patient) error
	Update(ctx context.Context, p Patient) error

	// Upsert es el camino remoto: inserta si el id no existe y sobreescribe
	// solo si p.LastUpdate es estrictamente más nuevo que lo guardado.
	// Devuelve false sin error cuando el registro guardado gana (stale).
	Upsert(ctx context.Context, p Patient) (bool, error)

	// Delete devuelve si el registro existía; borrar un id ausente no es error.
	Delete(ctx context.Context, id int64) (bool, error)

	// Clear vacía el registro local y devuelve cuántas filas había.
	Clear(ctx context.Context) (int64, error)
}
