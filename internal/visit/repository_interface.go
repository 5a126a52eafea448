package visit

import (
	"context"
	"time"
)

// RepositoryInterface defines the contract for visit data access
type RepositoryInterface interface {
	ScheduleVisit(ctx context.Context, patientID, doctorID int64, visitTime time.Time) (*VisitResponse, error)
	UpdateVisit(ctx context.Context, id, patientID, doctorID int64, visitTime time.Time, checkConflict bool) (*VisitResponse, error)
	GetVisit(ctx context.Context, id int64) (*VisitResponse, error)
	ListVisits(ctx context.Context, limit, offset int) ([]VisitResponse, int, error)
	ListByPatient(ctx context.Context, patientID int64) ([]VisitResponse, error)
	ListByDoctor(ctx context.Context, doctorID int64) ([]VisitResponse, error)
	SetStatus(ctx context.Context, id int64, status string) (*VisitResponse, error)
	DeleteVisit(ctx context.Context, id int64) error
	GetPatientEmail(ctx context.Context, patientID int64) (string, error)
	GetDoctorEmail(ctx context.Context, doctorID int64) (string, error)
}

// Ensure Repository implements RepositoryInterface
var _ RepositoryInterface = (*Repository)(nil)
