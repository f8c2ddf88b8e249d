package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"vet-patient-flow/internal/domain/encounters"
)

type encountersRepo struct {
	mu   sync.RWMutex
	byID map[string]encounters.Encounter
}

// NewEncountersRepo crea el repo in-memory (dev y tests).
func NewEncountersRepo() encounters.Repository {
	return &encountersRepo{
		byID: make(map[string]encounters.Encounter),
	}
}

func (r *encountersRepo) Create(ctx context.Context, e encounters.Encounter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(e.ID) == "" {
		return errors.New("encounter id required")
	}
	if _, exists := r.byID[e.ID]; exists {
		return errors.New("encounter already exists")
	}
	r.byID[e.ID] = clone(e)
	return nil
}

func (r *encountersRepo) GetByID(ctx context.Context, id string) (encounters.Encounter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byID[id]
	if !ok {
		return encounters.Encounter{}, encounters.ErrNotFound
	}
	return clone(e), nil
}

func (r *encountersRepo) GetActiveByPatient(ctx context.Context, patientID string) (encounters.Encounter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.byID {
		if e.PatientID == patientID && e.Active() {
			return clone(e), nil
		}
	}
	return encounters.Encounter{}, encounters.ErrNotFound
}

// Update aplica escritura optimista: solo escribe si la versión guardada
// sigue siendo la que el caller leyó. El perdedor de una carrera recibe
// ErrConcurrentModification y debe releer.
func (r *encountersRepo) Update(ctx context.Context, e encounters.Encounter, expectedVersion int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.byID[e.ID]
	if !ok {
		return encounters.ErrNotFound
	}
	if current.Version != expectedVersion {
		return encounters.ErrConcurrentModification
	}
	r.byID[e.ID] = clone(e)
	return nil
}

func (r *encountersRepo) ListByState(ctx context.Context, clinicID string, st encounters.State) ([]encounters.Encounter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]encounters.Encounter, 0)
	for _, e := range r.byID {
		if e.ClinicID == clinicID && e.State == st {
			out = append(out, clone(e))
		}
	}
	// Sin orden acá: el orden es una proyección del dominio (SortWaiting etc).
	return out, nil
}

// clone evita que el caller mute el estado guardado a través de History.
func clone(e encounters.Encounter) encounters.Encounter {
	if len(e.History) > 0 {
		h := make([]encounters.StateChange, len(e.History))
		copy(h, e.History)
		e.History = h
	}
	return e
}
