package document

import "context"

// RepositoryInterface defines the contract for medical document data access
type RepositoryInterface interface {
	CreateDocument(ctx context.Context, req CreateDocumentRequest) (*DocumentResponse, error)
	GetDocument(ctx context.Context, id int64) (*DocumentResponse, error)
	ListDocuments(ctx context.Context, limit, offset int) ([]DocumentResponse, int, error)
	ListByPatient(ctx context.Context, patientID int64) ([]DocumentResponse, error)
	UpdateDocument(ctx context.Context, id int64, req UpdateDocumentRequest) (*DocumentResponse, error)
	DeleteDocument(ctx context.Context, id int64) error
	GetPatientEmail(ctx context.Context, patientID int64) (string, error)
	GetVisitPatient(ctx context.Context, visitID int64) (int64, error)
}

// Ensure Repository implements RepositoryInterface
var _ RepositoryInterface = (*Repository)(nil)
