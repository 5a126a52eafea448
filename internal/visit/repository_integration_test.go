// go:build integration
//go:build integration

package visit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/mediclinic/clinic-service/internal/testutil"
)

func createTestDoctor(t *testing.T, db *sql.DB, email string) int64 {
	t.Helper()

	var id int64
	err := db.QueryRow(`
		INSERT INTO clinic.doctors (first_name, last_name, specialty, email)
		VALUES ('Jan', 'Kowalski', 'Cardiology', $1)
		RETURNING id
	`, email).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test doctor: %v", err)
	}
	return id
}

func createTestPatient(t *testing.T, db *sql.DB, email string) int64 {
	t.Helper()

	var id int64
	err := db.QueryRow(`
		INSERT INTO clinic.patients (first_name, last_name, email)
		VALUES ('Anna', 'Nowak', $1)
		RETURNING id
	`, email).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test patient: %v", err)
	}
	return id
}

func insertTestVisit(t *testing.T, db *sql.DB, doctorID, patientID int64, visitTime time.Time, status string) int64 {
	t.Helper()

	var id int64
	err := db.QueryRow(`
		INSERT INTO clinic.visits (visit_time, status, doctor_id, patient_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, visitTime, status, doctorID, patientID).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to insert test visit: %v", err)
	}
	return id
}

// TestRepositoryScheduleConflictWindow_Integration drives the slot
// rule against the real conflict query: a second SCHEDULED visit for
// the same doctor within 29 minutes of an existing one is rejected,
// 30 minutes away is accepted.
func TestRepositoryScheduleConflictWindow_Integration(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()
	defer testutil.CleanupTestDB(t, db)

	repo := NewRepository(db)
	patientID := createTestPatient(t, db, "anna@example.com")
	base := time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC)

	testCases := []struct {
		name         string
		offset       time.Duration
		wantConflict bool
	}{
		{"20 minutes after", 20 * time.Minute, true},
		{"29 minutes after", 29 * time.Minute, true},
		{"29 minutes before", -29 * time.Minute, true},
		{"30 minutes after", 30 * time.Minute, false},
		{"30 minutes before", -30 * time.Minute, false},
		{"35 minutes after", 35 * time.Minute, false},
	}

	for i, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			doctorID := createTestDoctor(t, db, fmt.Sprintf("dr%d@example.com", i))

			first, err := repo.ScheduleVisit(context.Background(), patientID, doctorID, base)
			if err != nil {
				t.Fatalf("First schedule failed: %v", err)
			}
			if first.Status != StatusScheduled {
				t.Errorf("Expected SCHEDULED, got %s", first.Status)
			}

			second, err := repo.ScheduleVisit(context.Background(), patientID, doctorID, base.Add(tc.offset))
			if tc.wantConflict {
				if !errors.Is(err, ErrSlotConflict) {
					t.Fatalf("Expected ErrSlotConflict, got %v", err)
				}
			} else {
				if err != nil {
					t.Fatalf("Expected success, got %v", err)
				}
				if second.Status != StatusScheduled {
					t.Errorf("Expected SCHEDULED, got %s", second.Status)
				}
			}
		})
	}
}

// TestRepositoryScheduleIgnoresNonScheduled_Integration verifies that
// CANCELLED and COMPLETED visits do not block a slot.
func TestRepositoryScheduleIgnoresNonScheduled_Integration(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()
	defer testutil.CleanupTestDB(t, db)

	repo := NewRepository(db)
	patientID := createTestPatient(t, db, "anna@example.com")
	doctorID := createTestDoctor(t, db, "dr@example.com")
	base := time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC)

	insertTestVisit(t, db, doctorID, patientID, base, StatusCancelled)
	insertTestVisit(t, db, doctorID, patientID, base.Add(time.Hour), StatusCompleted)

	if _, err := repo.ScheduleVisit(context.Background(), patientID, doctorID, base.Add(10*time.Minute)); err != nil {
		t.Fatalf("Cancelled visit should not block the slot: %v", err)
	}
	if _, err := repo.ScheduleVisit(context.Background(), patientID, doctorID, base.Add(70*time.Minute)); err != nil {
		t.Fatalf("Completed visit should not block the slot: %v", err)
	}
}

// TestRepositoryUpdateExcludesSelf_Integration moves a visit inside
// its own window: the visit must not conflict with itself, but still
// conflicts with other visits.
func TestRepositoryUpdateExcludesSelf_Integration(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()
	defer testutil.CleanupTestDB(t, db)

	repo := NewRepository(db)
	patientID := createTestPatient(t, db, "anna@example.com")
	doctorID := createTestDoctor(t, db, "dr@example.com")
	base := time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC)

	v, err := repo.ScheduleVisit(context.Background(), patientID, doctorID, base)
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}

	moved, err := repo.UpdateVisit(context.Background(), v.ID, patientID, doctorID, base.Add(10*time.Minute), true)
	if err != nil {
		t.Fatalf("Update within own window failed: %v", err)
	}
	if !moved.VisitTime.Equal(base.Add(10 * time.Minute)) {
		t.Errorf("Expected visit moved to 10:10, got %s", moved.VisitTime)
	}

	other, err := repo.ScheduleVisit(context.Background(), patientID, doctorID, base.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("Second schedule failed: %v", err)
	}

	_, err = repo.UpdateVisit(context.Background(), v.ID, patientID, doctorID, other.VisitTime.Add(15*time.Minute), true)
	if !errors.Is(err, ErrSlotConflict) {
		t.Fatalf("Expected ErrSlotConflict against the other visit, got %v", err)
	}
}

// TestRepositoryUniqueSlotBackstop_Integration forces the insert past
// the conflict query: a CANCELLED visit at the exact time passes the
// SCHEDULED-only check, so only the unique (doctor_id, visit_time)
// constraint rejects the insert, and the violation must map to
// ErrSlotConflict.
func TestRepositoryUniqueSlotBackstop_Integration(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()
	defer testutil.CleanupTestDB(t, db)

	repo := NewRepository(db)
	patientID := createTestPatient(t, db, "anna@example.com")
	doctorID := createTestDoctor(t, db, "dr@example.com")
	slot := time.Date(2026, 9, 7, 11, 0, 0, 0, time.UTC)

	insertTestVisit(t, db, doctorID, patientID, slot, StatusCancelled)

	_, err := repo.ScheduleVisit(context.Background(), patientID, doctorID, slot)
	if !errors.Is(err, ErrSlotConflict) {
		t.Fatalf("Expected ErrSlotConflict from the unique constraint, got %v", err)
	}
}
