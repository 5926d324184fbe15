package postgres

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Open abre un pool a Postgres usando pgx (database/sql).
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	// defaults razonables para un nodo hospital (ajustable luego)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// EnsureSchema crea las tablas en el arranque si no existen. El modelo es
// chico y estable; esto reemplaza migraciones formales por ahora.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS patients (
			id BIGINT PRIMARY KEY,
			name TEXT NOT NULL,
			age INTEGER NOT NULL,
			diagnosis TEXT NOT NULL,
			last_update TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS replication_outbox (
			position BIGSERIAL PRIMARY KEY,
			id UUID NOT NULL UNIQUE,
			payload BYTEA NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
