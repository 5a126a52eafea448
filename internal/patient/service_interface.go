package patient

import (
	"context"

	"github.com/mediclinic/clinic-service/internal/pagination"
)

// ServiceInterface defines the contract for patient business logic operations
type ServiceInterface interface {
	CreatePatient(ctx context.Context, req CreatePatientRequest) (*PatientResponse, error)
	GetPatient(ctx context.Context, id int64) (*PatientResponse, error)
	GetPatientByEmail(ctx context.Context, email string) (*PatientResponse, error)
	GetPatientByPESEL(ctx context.Context, pesel string) (*PatientResponse, error)
	ListPatients(ctx context.Context, params pagination.Params) (*PaginatedPatientListResponse, error)
	UpdatePatient(ctx context.Context, id int64, req UpdatePatientRequest) (*PatientResponse, error)
	DeletePatient(ctx context.Context, id int64) error
}

// Ensure Service implements ServiceInterface
var _ ServiceInterface = (*Service)(nil)
