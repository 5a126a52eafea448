package patient

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

const patientColumns = `id, first_name, last_name, birth_date, email, pesel, phone, address, created_at, updated_at`

func scanPatient(row interface{ Scan(...interface{}) error }) (*PatientResponse, error) {
	var p PatientResponse
	var birthDate sql.NullTime
	var pesel, phone, address sql.NullString
	var updatedAt sql.NullTime

	err := row.Scan(
		&p.ID,
		&p.FirstName,
		&p.LastName,
		&birthDate,
		&p.Email,
		&pesel,
		&phone,
		&address,
		&p.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if birthDate.Valid {
		s := birthDate.Time.Format("2006-01-02")
		p.BirthDate = &s
	}
	if pesel.Valid {
		p.PESEL = pesel.String
	}
	if phone.Valid {
		p.Phone = phone.String
	}
	if address.Valid {
		p.Address = address.String
	}
	if updatedAt.Valid {
		p.UpdatedAt = &updatedAt.Time
	}

	return &p, nil
}

// mapUniqueViolation converts a Postgres unique violation into the
// matching duplicate sentinel.
func mapUniqueViolation(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		if strings.Contains(pqErr.Constraint, "pesel") {
			return ErrDuplicatePESEL
		}
		return ErrDuplicateEmail
	}
	return err
}

func (r *Repository) CreatePatient(ctx context.Context, req CreatePatientRequest) (*PatientResponse, error) {
	query := fmt.Sprintf(`
		INSERT INTO clinic.patients (first_name, last_name, birth_date, email, pesel, phone, address)
		VALUES ($1, $2, NULLIF($3, '')::date, $4, NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''))
		RETURNING %s
	`, patientColumns)

	row := r.db.QueryRowContext(ctx, query,
		req.FirstName,
		req.LastName,
		req.BirthDate,
		req.Email,
		req.PESEL,
		req.Phone,
		req.Address,
	)

	p, err := scanPatient(row)
	if err != nil {
		if mapped := mapUniqueViolation(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to insert patient: %w", err)
	}
	return p, nil
}

func (r *Repository) ListPatients(ctx context.Context, limit, offset int) ([]PatientResponse, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM clinic.patients`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count patients: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM clinic.patients
		ORDER BY last_name, first_name
		LIMIT $1 OFFSET $2
	`, patientColumns)

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query patients: %w", err)
	}
	defer rows.Close()

	var patients []PatientResponse
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan patient: %w", err)
		}
		patients = append(patients, *p)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating patients: %w", err)
	}

	return patients, total, nil
}

func (r *Repository) GetPatient(ctx context.Context, id int64) (*PatientResponse, error) {
	query := fmt.Sprintf(`SELECT %s FROM clinic.patients WHERE id = $1`, patientColumns)

	p, err := scanPatient(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query patient: %w", err)
	}
	return p, nil
}

func (r *Repository) GetPatientByEmail(ctx context.Context, email string) (*PatientResponse, error) {
	query := fmt.Sprintf(`SELECT %s FROM clinic.patients WHERE lower(email) = lower($1)`, patientColumns)

	p, err := scanPatient(r.db.QueryRowContext(ctx, query, email))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query patient by email: %w", err)
	}
	return p, nil
}

func (r *Repository) GetPatientByPESEL(ctx context.Context, pesel string) (*PatientResponse, error) {
	query := fmt.Sprintf(`SELECT %s FROM clinic.patients WHERE pesel = $1`, patientColumns)

	p, err := scanPatient(r.db.QueryRowContext(ctx, query, pesel))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query patient by PESEL: %w", err)
	}
	return p, nil
}

func (r *Repository) UpdatePatient(ctx context.Context, id int64, req UpdatePatientRequest) (*PatientResponse, error) {
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
	if req.BirthDate != nil {
		updates = append(updates, fmt.Sprintf("birth_date = NULLIF($%d, '')::date", argIndex))
		args = append(args, *req.BirthDate)
		argIndex++
	}
	if req.Email != nil {
		updates = append(updates, fmt.Sprintf("email = $%d", argIndex))
		args = append(args, *req.Email)
		argIndex++
	}
	if req.PESEL != nil {
		updates = append(updates, fmt.Sprintf("pesel = NULLIF($%d, '')", argIndex))
		args = append(args, *req.PESEL)
		argIndex++
	}
	if req.Phone != nil {
		updates = append(updates, fmt.Sprintf("phone = $%d", argIndex))
		args = append(args, *req.Phone)
		argIndex++
	}
	if req.Address != nil {
		updates = append(updates, fmt.Sprintf("address = $%d", argIndex))
		args = append(args, *req.Address)
		argIndex++
	}

	if len(updates) == 0 {
		return r.GetPatient(ctx, id)
	}

	updates = append(updates, fmt.Sprintf("updated_at = $%d", argIndex))
	args = append(args, time.Now())
	argIndex++

	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE clinic.patients
		SET %s
		WHERE id = $%d
		RETURNING %s
	`, strings.Join(updates, ", "), argIndex, patientColumns)

	p, err := scanPatient(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		if mapped := mapUniqueViolation(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to update patient: %w", err)
	}
	return p, nil
}

// DeletePatient removes the patient row; visits and medical documents
// referencing it are removed by the ON DELETE CASCADE constraints.
func (r *Repository) DeletePatient(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM clinic.patients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
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
