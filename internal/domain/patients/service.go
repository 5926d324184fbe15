package patients

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"time"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

type Service struct {
	repo Repository
	pub  Publisher
	now  func() time.Time

	// newID emite ids al azar dentro del rango seguro de JSON (2^53), sin
	// coordinación entre nodos. Una colisión degenera en un conflicto LWW
	// sobre ese id, no corrompe nada.
	newID func() int64
}

func NewService(repo Repository, pub Publisher) *Service {
	return &Service{
		repo: repo,
		pub:  pub,
		now:  time.Now,
		newID: func() int64 {
			return rand.Int63n(1 << 53)
		},
	}
}

type CreateInput struct {
	Name      string
	Age       int
	Diagnosis string
}

type UpdateInput struct {
	Name      string
	Age       int
	Diagnosis string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Patient, error) {
	if strings.TrimSpace(in.Name) == "" {
		return Patient{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Diagnosis) == "" {
		return Patient{}, ErrInvalidInput
	}
	if in.Age < 0 {
		return Patient{}, ErrInvalidInput
	}

	p := Patient{
		ID:         s.newID(),
		Name:       strings.TrimSpace(in.Name),
		Age:        in.Age,
		Diagnosis:  strings.TrimSpace(in.Diagnosis),
		LastUpdate: s.now().UTC(),
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Patient{}, err
	}
	if err := s.pub.RecordUpserted(ctx, p); err != nil {
		return Patient{}, err
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id int64) (Patient, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Patient, error) {
	return s.repo.List(ctx)
}

// Update reemplaza la ficha completa (PUT) y renueva LastUpdate, que es lo
// que hace ganar esta escritura en los demás nodos.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (Patient, error) {
	if strings.TrimSpace(in.Name) == "" {
		return Patient{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Diagnosis) == "" {
		return Patient{}, ErrInvalidInput
	}
	if in.Age < 0 {
		return Patient{}, ErrInvalidInput
	}

	p := Patient{
		ID:         id,
		Name:       strings.TrimSpace(in.Name),
		Age:        in.Age,
		Diagnosis:  strings.TrimSpace(in.Diagnosis),
		LastUpdate: s.now().UTC(),
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return Patient{}, err
	}
	if err := s.pub.RecordUpserted(ctx, p); err != nil {
		return Patient{}, err
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	existed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !existed {
		return ErrNotFound
	}
	return s.pub.RecordDeleted(ctx, id)
}

// Clear borra todo el registro local. Publica clear_all aunque no hubiera
// filas: el estado "vacío" también debe converger en los demás nodos.
func (s *Service) Clear(ctx context.Context) (int64, error) {
	n, err := s.repo.Clear(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.pub.RecordsCleared(ctx); err != nil {
		return 0, err
	}
	return n, nil
}
