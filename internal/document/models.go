package document

import (
	"time"

	"github.com/mediclinic/clinic-service/internal/pagination"
)

// CreateDocumentRequest represents the request to create a medical document
type CreateDocumentRequest struct {
	Name      string `json:"name"`
	Content   string `json:"content"`
	PatientID int64  `json:"patient_id"`
	VisitID   *int64 `json:"visit_id,omitempty"`
}

// UpdateDocumentRequest represents the request to update a medical document
type UpdateDocumentRequest struct {
	Name    *string `json:"name,omitempty"`
	Content *string `json:"content,omitempty"`
	VisitID *int64  `json:"visit_id,omitempty"`
}

// DocumentResponse represents the medical document returned to clients.
// PatientEmail is carried for ownership checks and is not part of the
// stored row itself.
type DocumentResponse struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Content      string    `json:"content,omitempty"`
	PatientID    int64     `json:"patient_id"`
	PatientEmail string    `json:"patient_email"`
	VisitID      *int64    `json:"visit_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// PaginatedDocumentListResponse is the paginated list payload
type PaginatedDocumentListResponse struct {
	Success    bool               `json:"success"`
	Documents  []DocumentResponse `json:"documents"`
	Pagination pagination.Meta    `json:"pagination"`
}

// DocumentListResponse lists one patient's documents.
type DocumentListResponse struct {
	Success   bool               `json:"success"`
	Documents []DocumentResponse `json:"documents"`
}
