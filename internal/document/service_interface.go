package document

import (
	"context"

	"github.com/mediclinic/clinic-service/internal/pagination"
)

// ServiceInterface defines the contract for medical document operations
type ServiceInterface interface {
	CreateDocument(ctx context.Context, req CreateDocumentRequest) (*DocumentResponse, error)
	GetDocument(ctx context.Context, id int64) (*DocumentResponse, error)
	ListDocuments(ctx context.Context, params pagination.Params) (*PaginatedDocumentListResponse, error)
	PatientDocuments(ctx context.Context, patientID int64) (*DocumentListResponse, error)
	UpdateDocument(ctx context.Context, id int64, req UpdateDocumentRequest) (*DocumentResponse, error)
	DeleteDocument(ctx context.Context, id int64) error
	PatientEmail(ctx context.Context, patientID int64) (string, error)
}

// Ensure Service implements ServiceInterface
var _ ServiceInterface = (*Service)(nil)
