package visit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const visitColumns = `
	v.id, v.visit_time, v.status,
	d.id, d.first_name, d.last_name, d.email,
	p.id, p.first_name, p.last_name, p.email,
	v.created_at, v.updated_at`

const visitFrom = `
	FROM clinic.visits v
	JOIN clinic.doctors d ON d.id = v.doctor_id
	JOIN clinic.patients p ON p.id = v.patient_id`

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func scanVisit(row interface{ Scan(...interface{}) error }) (*VisitResponse, error) {
	var v VisitResponse
	var updatedAt sql.NullTime

	err := row.Scan(
		&v.ID,
		&v.VisitTime,
		&v.Status,
		&v.Doctor.ID,
		&v.Doctor.FirstName,
		&v.Doctor.LastName,
		&v.Doctor.Email,
		&v.Patient.ID,
		&v.Patient.FirstName,
		&v.Patient.LastName,
		&v.Patient.Email,
		&v.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if updatedAt.Valid {
		v.UpdatedAt = &updatedAt.Time
	}
	return &v, nil
}

func getVisit(ctx context.Context, q queryRower, id int64) (*VisitResponse, error) {
	query := fmt.Sprintf(`SELECT %s %s WHERE v.id = $1`, visitColumns, visitFrom)

	v, err := scanVisit(q.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query visit: %w", err)
	}
	return v, nil
}

// lockDoctor takes a row lock on the doctor so the conflict check and
// the insert/update run without a concurrent scheduler interleaving.
func lockDoctor(ctx context.Context, tx *sql.Tx, doctorID int64) error {
	var id int64
	err := tx.QueryRowContext(ctx, `SELECT id FROM clinic.doctors WHERE id = $1 FOR UPDATE`, doctorID).Scan(&id)
	if err == sql.ErrNoRows {
		return ErrDoctorNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to lock doctor row: %w", err)
	}
	return nil
}

func patientExists(ctx context.Context, tx *sql.Tx, patientID int64) error {
	var id int64
	err := tx.QueryRowContext(ctx, `SELECT id FROM clinic.patients WHERE id = $1`, patientID).Scan(&id)
	if err == sql.ErrNoRows {
		return ErrPatientNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to check patient: %w", err)
	}
	return nil
}

// hasConflict reports whether the doctor has another SCHEDULED visit
// within the closed interval [t-ConflictWindow, t+ConflictWindow],
// excluding excludeID (0 for none).
func hasConflict(ctx context.Context, tx *sql.Tx, doctorID int64, t time.Time, excludeID int64) (bool, error) {
	var count int
	err := tx.QueryRowContext(ctx, `
		SELECT count(*) FROM clinic.visits
		WHERE doctor_id = $1
		  AND status = $2
		  AND visit_time BETWEEN $3 AND $4
		  AND id <> $5
	`, doctorID, StatusScheduled, t.Add(-ConflictWindow), t.Add(ConflictWindow), excludeID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to run conflict check: %w", err)
	}
	return count > 0, nil
}

func mapSlotViolation(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrSlotConflict
	}
	return err
}

// ScheduleVisit creates a SCHEDULED visit after a conflict check. The
// check and the insert run in one read-committed transaction holding
// the doctor row lock; the unique (doctor_id, visit_time) index is the
// storage-level backstop.
func (r *Repository) ScheduleVisit(ctx context.Context, patientID, doctorID int64, visitTime time.Time) (*VisitResponse, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := lockDoctor(ctx, tx, doctorID); err != nil {
		return nil, err
	}
	if err := patientExists(ctx, tx, patientID); err != nil {
		return nil, err
	}

	conflict, err := hasConflict(ctx, tx, doctorID, visitTime, 0)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, ErrSlotConflict
	}

	var id int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO clinic.visits (visit_time, status, doctor_id, patient_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, visitTime, StatusScheduled, doctorID, patientID).Scan(&id)
	if err != nil {
		if mapped := mapSlotViolation(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to insert visit: %w", err)
	}

	v, err := getVisit(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit visit: %w", err)
	}
	return v, nil
}

// UpdateVisit rewrites the visit's patient, doctor and time. When
// checkConflict is set (doctor or time changed) the slot check runs
// under the doctor row lock, excluding the visit itself.
func (r *Repository) UpdateVisit(ctx context.Context, id, patientID, doctorID int64, visitTime time.Time, checkConflict bool) (*VisitResponse, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if checkConflict {
		if err := lockDoctor(ctx, tx, doctorID); err != nil {
			return nil, err
		}
		conflict, err := hasConflict(ctx, tx, doctorID, visitTime, id)
		if err != nil {
			return nil, err
		}
		if conflict {
			return nil, ErrSlotConflict
		}
	}

	result, err := tx.ExecContext(ctx, `
		UPDATE clinic.visits
		SET patient_id = $1, doctor_id = $2, visit_time = $3, updated_at = $4
		WHERE id = $5
	`, patientID, doctorID, visitTime, time.Now(), id)
	if err != nil {
		if mapped := mapSlotViolation(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to update visit: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return nil, ErrNotFound
	}

	v, err := getVisit(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit visit update: %w", err)
	}
	return v, nil
}

func (r *Repository) GetVisit(ctx context.Context, id int64) (*VisitResponse, error) {
	return getVisit(ctx, r.db, id)
}

func (r *Repository) ListVisits(ctx context.Context, limit, offset int) ([]VisitResponse, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM clinic.visits`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count visits: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s %s
		ORDER BY v.visit_time
		LIMIT $1 OFFSET $2
	`, visitColumns, visitFrom)

	visits, err := r.queryVisits(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return visits, total, nil
}

// ListByPatient returns the patient's visits ordered by time ascending.
func (r *Repository) ListByPatient(ctx context.Context, patientID int64) ([]VisitResponse, error) {
	query := fmt.Sprintf(`
		SELECT %s %s
		WHERE v.patient_id = $1
		ORDER BY v.visit_time
	`, visitColumns, visitFrom)
	return r.queryVisits(ctx, query, patientID)
}

// ListByDoctor returns the doctor's visits ordered by time ascending.
func (r *Repository) ListByDoctor(ctx context.Context, doctorID int64) ([]VisitResponse, error) {
	query := fmt.Sprintf(`
		SELECT %s %s
		WHERE v.doctor_id = $1
		ORDER BY v.visit_time
	`, visitColumns, visitFrom)
	return r.queryVisits(ctx, query, doctorID)
}

func (r *Repository) queryVisits(ctx context.Context, query string, args ...interface{}) ([]VisitResponse, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query visits: %w", err)
	}
	defer rows.Close()

	var visits []VisitResponse
	for rows.Next() {
		v, err := scanVisit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan visit: %w", err)
		}
		visits = append(visits, *v)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating visits: %w", err)
	}
	return visits, nil
}

// SetStatus updates the visit status and returns the updated record.
func (r *Repository) SetStatus(ctx context.Context, id int64, status string) (*VisitResponse, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE clinic.visits SET status = $1, updated_at = $2 WHERE id = $3
	`, status, time.Now(), id)
	if err != nil {
		return nil, fmt.Errorf("failed to set visit status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return nil, ErrNotFound
	}
	return getVisit(ctx, r.db, id)
}

func (r *Repository) DeleteVisit(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM clinic.visits WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete visit: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// GetPatientEmail resolves a patient id to its email for ownership checks.
func (r *Repository) GetPatientEmail(ctx context.Context, patientID int64) (string, error) {
	var email string
	err := r.db.QueryRowContext(ctx, `SELECT email FROM clinic.patients WHERE id = $1`, patientID).Scan(&email)
	if err == sql.ErrNoRows {
		return "", ErrPatientNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to query patient email: %w", err)
	}
	return email, nil
}

// GetDoctorEmail resolves a doctor id to its email for ownership checks.
func (r *Repository) GetDoctorEmail(ctx context.Context, doctorID int64) (string, error) {
	var email string
	err := r.db.QueryRowContext(ctx, `SELECT email FROM clinic.doctors WHERE id = $1`, doctorID).Scan(&email)
	if err == sql.ErrNoRows {
		return "", ErrDoctorNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to query doctor email: %w", err)
	}
	return email, nil
}
