package doctor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const doctorColumns = `id, first_name, last_name, specialty, email, phone, created_at, updated_at`

func scanDoctor(row interface{ Scan(...interface{}) error }) (*DoctorResponse, error) {
	var d DoctorResponse
	var phone sql.NullString
	var updatedAt sql.NullTime

	err := row.Scan(
		&d.ID,
		&d.FirstName,
		&d.LastName,
		&d.Specialty,
		&d.Email,
		&phone,
		&d.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if phone.Valid {
		d.Phone = phone.String
	}
	if updatedAt.Valid {
		d.UpdatedAt = &updatedAt.Time
	}

	return &d, nil
}

func mapUniqueViolation(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrDuplicateEmail
	}
	return err
}

func (r *Repository) CreateDoctor(ctx context.Context, req CreateDoctorRequest) (*DoctorResponse, error) {
	query := fmt.Sprintf(`
		INSERT INTO clinic.doctors (first_name, last_name, specialty, email, phone)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''))
		RETURNING %s
	`, doctorColumns)

	row := r.db.QueryRowContext(ctx, query,
		req.FirstName,
		req.LastName,
		req.Specialty,
		req.Email,
		req.Phone,
	)

	d, err := scanDoctor(row)
	if err != nil {
		if mapped := mapUniqueViolation(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to insert doctor: %w", err)
	}
	return d, nil
}

func (r *Repository) ListDoctors(ctx context.Context, limit, offset int) ([]DoctorResponse, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM clinic.doctors`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count doctors: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM clinic.doctors
		ORDER BY last_name, first_name
		LIMIT $1 OFFSET $2
	`, doctorColumns)

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query doctors: %w", err)
	}
	defer rows.Close()

	var doctors []DoctorResponse
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan doctor: %w", err)
		}
		doctors = append(doctors, *d)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating doctors: %w", err)
	}

	return doctors, total, nil
}

func (r *Repository) GetDoctor(ctx context.Context, id int64) (*DoctorResponse, error) {
	query := fmt.Sprintf(`SELECT %s FROM clinic.doctors WHERE id = $1`, doctorColumns)

	d, err := scanDoctor(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query doctor: %w", err)
	}
	return d, nil
}

func (r *Repository) GetDoctorByEmail(ctx context.Context, email string) (*DoctorResponse, error) {
	query := fmt.Sprintf(`SELECT %s FROM clinic.doctors WHERE lower(email) = lower($1)`, doctorColumns)

	d, err := scanDoctor(r.db.QueryRowContext(ctx, query, email))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query doctor by email: %w", err)
	}
	return d, nil
}

func (r *Repository) UpdateDoctor(ctx context.Context, id int64, req UpdateDoctorRequest) (*DoctorResponse, error) {
	var updates []string
	var args []interface{}
	argIndex := 1

	if req.FirstName != nil {
		updates = append(updates, fmt.Sprintf("first_name = $%d", argIndex))
		args = append(args, *req.FirstName)
		argIndex++
	}
	if req.LastName != nil {
		updates = append(updates, fmt.Sprintf("last_name = $%d", argIndex))
		args = append(args, *req.LastName)
		argIndex++
	}
	if req.Specialty != nil {
		updates = append(updates, fmt.Sprintf("specialty = $%d", argIndex))
		args = append(args, *req.Specialty)
		argIndex++
	}
	if req.Email != nil {
		updates = append(updates, fmt.Sprintf("email = $%d", argIndex))
		args = append(args, *req.Email)
		argIndex++
	}
	if req.Phone != nil {
		updates = append(updates, fmt.Sprintf("phone = $%d", argIndex))
		args = append(args, *req.Phone)
		argIndex++
	}

	if len(updates) == 0 {
		return r.GetDoctor(ctx, id)
	}

	updates = append(updates, fmt.Sprintf("updated_at = $%d", argIndex))
	args = append(args, time.Now())
	argIndex++

	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE clinic.doctors
		SET %s
		WHERE id = $%d
		RETURNING %s
	`, strings.Join(updates, ", "), argIndex, doctorColumns)

	d, err := scanDoctor(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		if mapped := mapUniqueViolation(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to update doctor: %w", err)
	}
	return d, nil
}

// DeleteDoctor removes the doctor row; visits referencing it are removed
// by the ON DELETE CASCADE constraint.
func (r *Repository) DeleteDoctor(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM clinic.doctors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete doctor: %w", err)
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

// ListBookedSlots returns the doctor's visit times in [from, to) whose
// status is not excludeStatus, ordered by time.
func (r *Repository) ListBookedSlots(ctx context.Context, doctorID int64, excludeStatus string, from, to time.Time) ([]BookedSlot, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT visit_time, status FROM clinic.visits
		WHERE doctor_id = $1 AND status <> $2 AND visit_time >= $3 AND visit_time < $4
		ORDER BY visit_time
	`, doctorID, excludeStatus, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query booked slots: %w", err)
	}
	defer rows.Close()

	var slots []BookedSlot
	for rows.Next() {
		var s BookedSlot
		if err := rows.Scan(&s.VisitTime, &s.Status); err != nil {
			return nil, fmt.Errorf("failed to scan booked slot: %w", err)
		}
		slots = append(slots, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating booked slots: %w", err)
	}

	return slots, nil
}
