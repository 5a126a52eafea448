package document

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const documentColumns = `
	md.id, md.name, md.content, md.patient_id, p.email, md.visit_id, md.created_at`

const documentFrom = `
	FROM clinic.medical_documents md
	JOIN clinic.patients p ON p.id = md.patient_id`

func scanDocument(row interface{ Scan(...interface{}) error }) (*DocumentResponse, error) {
	var d DocumentResponse
	var content sql.NullString
	var visitID sql.NullInt64

	err := row.Scan(
		&d.ID,
		&d.Name,
		&content,
		&d.PatientID,
		&d.PatientEmail,
		&visitID,
		&d.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if content.Valid {
		d.Content = content.String
	}
	if visitID.Valid {
		d.VisitID = &visitID.Int64
	}
	return &d, nil
}

func (r *Repository) CreateDocument(ctx context.Context, req CreateDocumentRequest) (*DocumentResponse, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO clinic.medical_documents (name, content, patient_id, visit_id)
		VALUES ($1, NULLIF($2, ''), $3, $4)
		RETURNING id
	`, req.Name, req.Content, req.PatientID, req.VisitID).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to insert document: %w", err)
	}
	return r.GetDocument(ctx, id)
}

func (r *Repository) GetDocument(ctx context.Context, id int64) (*DocumentResponse, error) {
	query := fmt.Sprintf(`SELECT %s %s WHERE md.id = $1`, documentColumns, documentFrom)

	d, err := scanDocument(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query document: %w", err)
	}
	return d, nil
}

func (r *Repository) ListDocuments(ctx context.Context, limit, offset int) ([]DocumentResponse, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM clinic.medical_documents`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count documents: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s %s
		ORDER BY md.created_at DESC
		LIMIT $1 OFFSET $2
	`, documentColumns, documentFrom)

	docs, err := r.queryDocuments(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return docs, total, nil
}

func (r *Repository) ListByPatient(ctx context.Context, patientID int64) ([]DocumentResponse, error) {
	query := fmt.Sprintf(`
		SELECT %s %s
		WHERE md.patient_id = $1
		ORDER BY md.created_at DESC
	`, documentColumns, documentFrom)
	return r.queryDocuments(ctx, query, patientID)
}

func (r *Repository) queryDocuments(ctx context.Context, query string, args ...interface{}) ([]DocumentResponse, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	var docs []DocumentResponse
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, *d)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating documents: %w", err)
	}
	return docs, nil
}

func (r *Repository) UpdateDocument(ctx context.Context, id int64, req UpdateDocumentRequest) (*DocumentResponse, error) {
	var updates []string
	var args []interface{}
	argIndex := 1

	if req.Name != nil {
		updates = append(updates, fmt.Sprintf("name = $%d", argIndex))
		args = append(args, *req.Name)
		argIndex++
	}
	if req.Content != nil {
		updates = append(updates, fmt.Sprintf("content = NULLIF($%d, '')", argIndex))
		args = append(args, *req.Content)
		argIndex++
	}
	if req.VisitID != nil {
		updates = append(updates, fmt.Sprintf("visit_id = $%d", argIndex))
		args = append(args, *req.VisitID)
		argIndex++
	}

	if len(updates) == 0 {
		return r.GetDocument(ctx, id)
	}

	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE clinic.medical_documents
		SET %s
		WHERE id = $%d
	`, strings.Join(updates, ", "), argIndex)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update document: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return nil, ErrNotFound
	}

	return r.GetDocument(ctx, id)
}

func (r *Repository) DeleteDocument(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM clinic.medical_documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
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

// GetPatientEmail resolves a patient id to its email.
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

// GetVisitPatient resolves a visit id to the patient it belongs to.
func (r *Repository) GetVisitPatient(ctx context.Context, visitID int64) (int64, error) {
	var patientID int64
	err := r.db.QueryRowContext(ctx, `SELECT patient_id FROM clinic.visits WHERE id = $1`, visitID).Scan(&patientID)
	if err == sql.ErrNoRows {
		return 0, ErrVisitNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to query visit patient: %w", err)
	}
	return patientID, nil
}
