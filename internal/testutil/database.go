package testutil

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/lib/pq"
	"github.com/mediclinic/clinic-service/internal/db"
)

// SetupTestDB connects to the test database and ensures the clinic
// schema exists. Override the DSN with TEST_DATABASE_URL.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	connStr := os.Getenv("TEST_DATABASE_URL")
	if connStr == "" {
		connStr = "host=localhost port=5432 user=postgres password=postgres dbname=clinic_test sslmode=disable"
	}

	database, err := sql.Open("postgres", connStr)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := database.Ping(); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}

	if err := db.EnsureSchema(context.Background(), database); err != nil {
		t.Fatalf("Failed to ensure test schema: %v", err)
	}

	return database
}

// CleanupTestDB removes all clinic rows so tests start from an empty
// database.
func CleanupTestDB(t *testing.T, database *sql.DB) {
	t.Helper()

	_, err := database.Exec(`
		TRUNCATE TABLE clinic.medical_documents, clinic.visits,
			clinic.patients, clinic.doctors, clinic.users
		RESTART IDENTITY CASCADE
	`)
	if err != nil {
		t.Logf("Warning: Failed to clean up clinic tables: %v", err)
	}
}
