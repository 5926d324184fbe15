package patients

import "time"

// Patient representa la ficha local de un paciente, replicada entre todos
// los hospitales de la red.
type Patient struct {
	ID int64

	Name      string
	Age       int
	Diagnosis string

	// LastUpdate decide conflictos entre réplicas (last-write-wins): una
	// escritura remota solo pisa la local si su marca es estrictamente
	// más nueva. Siempre en UTC y siempre la fija el nodo que muta.
	LastUpdate time.Time
}
