package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"hospital-record-sync/internal/domain/patients"
)

type PatientsRepo struct {
	db *sql.DB
}

func NewPatientsRepo(db *sql.DB) *PatientsRepo {
	return &PatientsRepo{db: db}
}

func (r *PatientsRepo) Get(ctx context.Context, id int64) (patients.Patient, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, age, diagnosis, last_update
		FROM patients
		WHERE id = $1
	`, id)

	var p patients.Patient
	if err := row.Scan(&p.ID, &p.Name, &p.Age, &p.Diagnosis, &p.LastUpdate); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return patients.Patient{}, patients.ErrNotFound
		}
		return patients.Patient{}, err
	}
	return p, nil
}

func (r *PatientsRepo) List(ctx context.Context) ([]patients.Patient, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, age, diagnosis, last_update
		FROM patients
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]patients.Patient, 0)
	for rows.Next() {
		var p patients.Patient
		if err := rows.Scan(&p.ID, &p.Name, &p.Age, &p.Diagnosis, &p.LastUpdate); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PatientsRepo) Create(ctx context.Context, p patients.Patient) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO patients (id, name, age, diagnosis, last_update)
		VALUES ($1, $2, $3, $4, $5)
	`, p.ID, p.Name, p.Age, p.Diagnosis, p.LastUpdate)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: id %d already exists", patients.ErrConflict, p.ID)
	}
	return err
}

func (r *PatientsRepo) Update(ctx context.Context, p patients.Patient) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE patients
		SET name = $2, age = $3, diagnosis = $4, last_update = $5
		WHERE id = $1
	`, p.ID, p.Name, p.Age, p.Diagnosis, p.LastUpdate)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return patients.ErrNotFound
	}
	return nil
}

// Upsert resuelve last-write-wins en un solo statement: el WHERE del
// DO UPDATE descarta la escritura si la fila guardada es igual o más nueva.
// Cero filas afectadas significa que perdió contra la copia local.
func (r *PatientsRepo) Upsert(ctx context.Context, p patients.Patient) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO patients (id, name, age, diagnosis, last_update)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
		    age = EXCLUDED.age,
		    diagnosis = EXCLUDED.diagnosis,
		    last_update = EXCLUDED.last_update
		WHERE patients.last_update < EXCLUDED.last_update
	`, p.ID, p.Name, p.Age, p.Diagnosis, p.LastUpdate)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *PatientsRepo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *PatientsRepo) Clear(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM patients`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// isUniqueViolation detecta 23505 (unique_violation) de Postgres.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
