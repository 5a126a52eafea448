package patient

import "context"

// RepositoryInterface defines the contract for patient data access
type RepositoryInterface interface {
	CreatePatient(ctx context.Context, req CreatePatientRequest) (*PatientResponse, error)
	ListPatients(ctx context.Context, limit, offset int) ([]PatientResponse, int, error)
	GetPatient(ctx context.Context, id int64) (*PatientResponse, error)
	GetPatientByEmail(ctx context.Context, email string) (*PatientResponse, error)
	GetPatientByPESEL(ctx context.Context, pesel string) (*PatientResponse, error)
	UpdatePatient(ctx context.Context, id int64, req UpdatePatientRequest) (*PatientResponse, error)
	DeletePatient(ctx context.Context, id int64) error
}

// Ensure Repository implements RepositoryInterface
var _ RepositoryInterface = (*Repository)(nil)
