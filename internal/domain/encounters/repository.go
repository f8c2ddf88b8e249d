package encounters

import "context"

// Repository es el contrato de persistencia del encuentro.
// Update recibe la versión que el caller leyó; si ya no coincide,
// el repo devuelve ErrConcurrentModification y no escribe nada.
type Repository interface {
	Create(ctx context.Context, e Encounter) error
	GetByID(ctx context.Context, id string) (Encounter, error)
	GetActiveByPatient(ctx context.Context, patientID string) (Encounter, error)
	Update(ctx context.Context, e Encounter, expectedVersion int64) error
	ListByState(ctx context.Context, clinicID string, st State) ([]Encounter, error)
}
