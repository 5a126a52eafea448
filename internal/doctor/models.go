package doctor

import (
	"time"

	"github.com/mediclinic/clinic-service/internal/pagination"
)

// CreateDoctorRequest represents the request to create a new doctor
type CreateDoctorRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Specialty string `json:"specialty"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// UpdateDoctorRequest represents the request to update a doctor
type UpdateDoctorRequest struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Specialty *string `json:"specialty,omitempty"`
	Email     *string `json:"email,omitempty"`
	Phone     *string `json:"phone,omitempty"`
}

// DoctorResponse represents the doctor data returned to clients
type DoctorResponse struct {
	ID        int64      `json:"id"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Specialty string     `json:"specialty"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// PaginatedDoctorListResponse is the paginated list payload
type PaginatedDoctorListResponse struct {
	Success    bool             `json:"success"`
	Doctors    []DoctorResponse `json:"doctors"`
	Pagination pagination.Meta  `json:"pagination"`
}

// BookedSlot is a visit time occupied on a doctor's calendar.
type BookedSlot struct {
	VisitTime time.Time `json:"visit_time"`
	Status    string    `json:"status"`
}

// AvailableSlotsResponse lists the free appointment slots for one day.
type AvailableSlotsResponse struct {
	Success  bool        `json:"success"`
	DoctorID int64       `json:"doctor_id"`
	Date     string      `json:"date"`
	Slots    []time.Time `json:"slots"`
}
