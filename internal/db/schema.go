package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"
)

// Schema is the dedicated schema holding all clinic tables.
const Schema = "clinic"

var schemaStatements = []string{
	`CREATE SCHEMA IF NOT EXISTS clinic`,

	`CREATE TABLE IF NOT EXISTS clinic.users (
		id            BIGSERIAL PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role          TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS clinic.patients (
		id         BIGSERIAL PRIMARY KEY,
		first_name TEXT NOT NULL,
		last_name  TEXT NOT NULL,
		birth_date DATE,
		email      TEXT NOT NULL UNIQUE,
		pesel      TEXT UNIQUE,
		phone      TEXT,
		address    TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ
	)`,

	`CREATE TABLE IF NOT EXISTS clinic.doctors (
		id         BIGSERIAL PRIMARY KEY,
		first_name TEXT NOT NULL,
		last_name  TEXT NOT NULL,
		specialty  TEXT NOT NULL,
		email      TEXT NOT NULL UNIQUE,
		phone      TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ
	)`,

	`CREATE TABLE IF NOT EXISTS clinic.visits (
		id         BIGSERIAL PRIMARY KEY,
		visit_time TIMESTAMPTZ NOT NULL,
		status     TEXT NOT NULL,
		doctor_id  BIGINT NOT NULL REFERENCES clinic.doctors(id) ON DELETE CASCADE,
		patient_id BIGINT NOT NULL REFERENCES clinic.patients(id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ,
		CONSTRAINT visits_doctor_slot UNIQUE (doctor_id, visit_time)
	)`,

	`CREATE INDEX IF NOT EXISTS visits_doctor_time_idx
		ON clinic.visits (doctor_id, visit_time)`,

	`CREATE TABLE IF NOT EXISTS clinic.medical_documents (
		id         BIGSERIAL PRIMARY KEY,
		name       TEXT NOT NULL,
		content    TEXT,
		patient_id BIGINT NOT NULL REFERENCES clinic.patients(id) ON DELETE CASCADE,
		visit_id   BIGINT REFERENCES clinic.visits(id) ON DELETE SET NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// EnsureSchema creates the clinic schema and tables if they do not exist.
// The UNIQUE (doctor_id, visit_time) constraint is the storage-level
// backstop for the scheduler's conflict check.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	log.Println("✓ Clinic schema ensured")
	return nil
}
