package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const userColumns = `id, email, role, created_at`

func scanUser(row interface{ Scan(...interface{}) error }) (*UserResponse, error) {
	var u UserResponse
	if err := row.Scan(&u.ID, &u.Email, &u.Role, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

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

// CreateUser inserts a bare account row.
func (r *Repository) CreateUser(ctx context.Context, email, passwordHash, role string) (*UserResponse, error) {
	query := fmt.Sprintf(`
		INSERT INTO clinic.users (email, password_hash, role)
		VALUES ($1, $2, $3)
		RETURNING %s
	`, userColumns)

	u, err := scanUser(r.db.QueryRowContext(ctx, query, email, passwordHash, role))
	if err != nil {
		if mapped := mapUniqueViolation(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	return u, nil
}

// RegisterPatient creates a PATIENT account and the linked patient
// record in one transaction, so a duplicate PESEL rolls back the
// account as well.
func (r *Repository) RegisterPatient(ctx context.Context, req RegisterRequest, passwordHash string) (*UserResponse, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := fmt.Sprintf(`
		INSERT INTO clinic.users (email, password_hash, role)
		VALUES ($1, $2, 'PATIENT')
		RETURNING %s
	`, userColumns)

	u, err := scanUser(tx.QueryRowContext(ctx, query, req.Email, passwordHash))
	if err != nil {
		if mapped := mapUniqueViolation(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO clinic.patients (first_name, last_name, birth_date, email, pesel, phone, address)
		VALUES ($1, $2, NULLIF($3, '')::date, $4, NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''))
	`, req.FirstName, req.LastName, req.BirthDate, req.Email, req.PESEL, req.Phone, req.Address)
	if err != nil {
		if mapped := mapUniqueViolation(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to insert patient record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit registration: %w", err)
	}
	return u, nil
}

// GetCredentialByEmail returns the login material for the account.
func (r *Repository) GetCredentialByEmail(ctx context.Context, email string) (*Credential, error) {
	var c Credential
	err := r.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, role FROM clinic.users WHERE lower(email) = lower($1)
	`, email).Scan(&c.ID, &c.Email, &c.PasswordHash, &c.Role)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query credential: %w", err)
	}
	return &c, nil
}

func (r *Repository) GetUser(ctx context.Context, id int64) (*UserResponse, error) {
	query := fmt.Sprintf(`SELECT %s FROM clinic.users WHERE id = $1`, userColumns)

	u, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return u, nil
}

func (r *Repository) ListUsers(ctx context.Context) ([]UserResponse, error) {
	query := fmt.Sprintf(`SELECT %s FROM clinic.users ORDER BY id`, userColumns)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var list []UserResponse
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		list = append(list, *u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return list, nil
}

func (r *Repository) DeleteUser(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM clinic.users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
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
