package patient

import (
	"time"

	"github.com/mediclinic/clinic-service/internal/pagination"
)

// CreatePatientRequest represents the request to create a new patient
type CreatePatientRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	BirthDate string `json:"birth_date"` // Format: YYYY-MM-DD
	Email     string `json:"email"`
	PESEL     string `json:"pesel"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
}

// UpdatePatientRequest represents the request to update a patient
type UpdatePatientRequest struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	BirthDate *string `json:"birth_date,omitempty"`
	Email     *string `json:"email,omitempty"`
	PESEL     *string `json:"pesel,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Address   *string `json:"address,omitempty"`
}

// PatientResponse represents the patient data returned to clients
type PatientResponse struct {
	ID        int64      `json:"id"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	BirthDate *string    `json:"birth_date,omitempty"`
	Email     string     `json:"email"`
	PESEL     string     `json:"pesel,omitempty"`
	Phone     string     `json:"phone,omitempty"`
	Address   string     `json:"address,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// PaginatedPatientListResponse is the paginated list payload
type PaginatedPatientListResponse struct {
	Success    bool              `json:"success"`
	Patients   []PatientResponse `json:"patients"`
	Pagination pagination.Meta   `json:"pagination"`
}
