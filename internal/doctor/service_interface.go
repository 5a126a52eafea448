package doctor

import (
	"context"

	"github.com/mediclinic/clinic-service/internal/pagination"
)

// ServiceInterface defines the contract for doctor business logic operations
type ServiceInterface interface {
	CreateDoctor(ctx context.Context, req CreateDoctorRequest) (*DoctorResponse, error)
	GetDoctor(ctx context.Context, id int64) (*DoctorResponse, error)
	GetDoctorByEmail(ctx context.Context, email string) (*DoctorResponse, error)
	ListDoctors(ctx context.Context, params pagination.Params) (*PaginatedDoctorListResponse, error)
	UpdateDoctor(ctx context.Context, id int64, req UpdateDoctorRequest) (*DoctorResponse, error)
	DeleteDoctor(ctx context.Context, id int64) error
	AvailableSlots(ctx context.Context, doctorID int64, date string) (*AvailableSlotsResponse, error)
}

// Ensure Service implements ServiceInterface
var _ ServiceInterface = (*Service)(nil)
