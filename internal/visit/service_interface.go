package visit

import (
	"context"

	"github.com/mediclinic/clinic-service/internal/pagination"
)

// ServiceInterface defines the contract for visit scheduling operations
type ServiceInterface interface {
	Schedule(ctx context.Context, req ScheduleVisitRequest) (*VisitResponse, error)
	Update(ctx context.Context, id int64, req UpdateVisitRequest) (*VisitResponse, error)
	Cancel(ctx context.Context, id int64) (*VisitResponse, error)
	Complete(ctx context.Context, id int64) (*VisitResponse, error)
	Delete(ctx context.Context, id int64) error
	GetVisit(ctx context.Context, id int64) (*VisitResponse, error)
	ListVisits(ctx context.Context, params pagination.Params) (*PaginatedVisitListResponse, error)
	PatientHistory(ctx context.Context, patientID int64) (*VisitHistoryResponse, error)
	DoctorHistory(ctx context.Context, doctorID int64) (*VisitHistoryResponse, error)
	PatientEmail(ctx context.Context, patientID int64) (string, error)
	DoctorEmail(ctx context.Context, doctorID int64) (string, error)
}

// Ensure Service implements ServiceInterface
var _ ServiceInterface = (*Service)(nil)
