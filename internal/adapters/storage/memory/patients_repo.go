package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"hospital-record-sync/internal/domain/patients"
)

type patientsRepo struct {
	mu   sync.RWMutex
	byID map[int64]patients.Patient
}

func NewPatientsRepo() patients.Repository {
	return &patientsRepo{
		byID: make(map[int64]patients.Patient),
	}
}

func (r *patientsRepo) Get(ctx context.Context, id int64) (patients.Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return patients.Patient{}, patients.ErrNotFound
	}
	return p, nil
}

func (r *patientsRepo) List(ctx context.Context) ([]patients.Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]patients.Patient, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, p)
	}

	// orden estable por id, igual que el ORDER BY del adapter de Postgres
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *patientsRepo) Create(ctx context.Context, p patients.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[p.ID]; exists {
		return fmt.Errorf("%w: id %d already exists", patients.ErrConflict, p.ID)
	}
	r.byID[p.ID] = p
	return nil
}

func (r *patientsRepo) Update(ctx context.Context, p patients.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[p.ID]; !exists {
		return patients.ErrNotFound
	}
	r.byID[p.ID] = p
	return nil
}

// Upsert aplica last-write-wins bajo el lock: solo pisa si la marca
// entrante es estrictamente más nueva que la guardada.
func (r *patientsRepo) Upsert(ctx context.Context, p patients.Patient) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, exists := r.byID[p.ID]
	if exists && !p.LastUpdate.After(current.LastUpdate) {
		return false, nil
	}
	r.byID[p.ID] = p
	return true, nil
}

func (r *patientsRepo) Delete(ctx context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return false, nil
	}
	delete(r.byID, id)
	return true, nil
}

func (r *patientsRepo) Clear(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := int64(len(r.byID))
	r.byID = make(map[int64]patients.Patient)
	return n, nil
}
