package doctor

import (
	"context"
	"time"
)

// RepositoryInterface defines the contract for doctor data access
type RepositoryInterface interface {
	CreateDoctor(ctx context.Context, req CreateDoctorRequest) (*DoctorResponse, error)
	ListDoctors(ctx context.Context, limit, offset int) ([]DoctorResponse, int, error)
	GetDoctor(ctx context.Context, id int64) (*DoctorResponse, error)
	GetDoctorByEmail(ctx context.Context, email string) (*DoctorResponse, error)
	UpdateDoctor(ctx context.Context, id int64, req UpdateDoctorRequest) (*DoctorResponse, error)
	DeleteDoctor(ctx context.Context, id int64) error
	ListBookedSlots(ctx context.Context, doctorID int64, excludeStatus string, from, to time.Time) ([]BookedSlot, error)
}

// Ensure Repository implements RepositoryInterface
var _ RepositoryInterface = (*Repository)(nil)
