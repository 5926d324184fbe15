package replication

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"hospital-record-sync/internal/domain/patients"
)

// Action es el tipo de mutación que viaja en un ChangeEvent.
type Action string

const (
	ActionUpsert   Action = "upsert"
	ActionDelete   Action = "delete"
	ActionClearAll Action = "clear_all"
)

// ErrInvalidEvent cubre toda malformación de un evento entrante: JSON roto,
// acción desconocida o campos obligatorios ausentes.
var ErrInvalidEvent = errors.New("invalid change event")

// ChangeEvent es el formato de cable (JSON) de cada mutación replicada.
// Los campos de la ficha son punteros: delete lleva solo el id y clear_all
// no lleva ninguno. last_update viaja en RFC3339 UTC.
type ChangeEvent struct {
	Action     Action     `json:"action"`
	ID         *int64     `json:"id"`
	Name       *string    `json:"name"`
	Age        *int       `json:"age"`
	Diagnosis  *string    `json:"diagnosis"`
	LastUpdate *time.Time `json:"last_update"`
	Origin     string     `json:"origin"`
}

func UpsertEvent(origin string, p patients.Patient) ChangeEvent {
	return ChangeEvent{
		Action:     ActionUpsert,
		ID:         &p.ID,
		Name:       &p.Name,
		Age:        &p.Age,
		Diagnosis:  &p.Diagnosis,
		LastUpdate: &p.LastUpdate,
		Origin:     origin,
	}
}

func DeleteEvent(origin string, id int64) ChangeEvent {
	return ChangeEvent{
		Action: ActionDelete,
		ID:     &id,
		Origin: origin,
	}
}

func ClearAllEvent(origin string) ChangeEvent {
	return ChangeEvent{
		Action: ActionClearAll,
		Origin: origin,
	}
}

// Validate chequea origin y los campos obligatorios de cada acción.
// Campos de más se toleran: un delete que viene con nombre y edad se aplica
// igual, ignorando lo que sobra.
func (e ChangeEvent) Validate() error {
	if e.Origin == "" {
		return fmt.Errorf("%w: missing origin", ErrInvalidEvent)
	}

	switch e.Action {
	case ActionUpsert:
		if e.ID == nil || e.Name == nil || e.Age == nil || e.Diagnosis == nil || e.LastUpdate == nil {
			return fmt.Errorf("%w: upsert requires id, name, age, diagnosis and last_update", ErrInvalidEvent)
		}
	case ActionDelete:
		if e.ID == nil {
			return fmt.Errorf("%w: delete requires id", ErrInvalidEvent)
		}
	case ActionClearAll:
		// no requiere campos de ficha
	default:
		return fmt.Errorf("%w: unknown action %q", ErrInvalidEvent, e.Action)
	}
	return nil
}

// Encode valida y serializa el evento para el bus.
func (e ChangeEvent) Encode() ([]byte, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(e)
}

// DecodeEvent parsea y valida un evento entrante del bus.
func DecodeEvent(data []byte) (ChangeEvent, error) {
	var e ChangeEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return ChangeEvent{}, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	if err := e.Validate(); err != nil {
		return ChangeEvent{}, err
	}
	return e, nil
}

// record arma la ficha de un upsert ya validado.
func (e ChangeEvent) record() patients.Patient {
	return patients.Patient{
		ID:         *e.ID,
		Name:       *e.Name,
		Age:        *e.Age,
		Diagnosis:  *e.Diagnosis,
		LastUpdate: *e.LastUpdate,
	}
}
