package visit

import (
	"time"

	"github.com/mediclinic/clinic-service/internal/pagination"
)

// Visit lifecycle statuses. SCHEDULED visits occupy the doctor's
// calendar; CANCELLED and COMPLETED do not.
const (
	StatusScheduled = "SCHEDULED"
	StatusCompleted = "COMPLETED"
	StatusCancelled = "CANCELLED"
)

// ConflictWindow is the half-width of the slot-conflict interval: two
// scheduled visits for one doctor may not lie within 29 minutes of
// each other (closed interval on both sides).
const ConflictWindow = 29 * time.Minute

// ScheduleVisitRequest represents the request to schedule a new visit
type ScheduleVisitRequest struct {
	PatientID int64     `json:"patient_id"`
	DoctorID  int64     `json:"doctor_id"`
	VisitTime time.Time `json:"visit_time"`
}

// UpdateVisitRequest represents the request to update a visit
type UpdateVisitRequest struct {
	PatientID *int64     `json:"patient_id,omitempty"`
	DoctorID  *int64     `json:"doctor_id,omitempty"`
	VisitTime *time.Time `json:"visit_time,omitempty"`
}

// VisitPerson is the embedded doctor or patient info on a visit.
type VisitPerson struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// VisitResponse represents the visit data returned to clients
type VisitResponse struct {
	ID        int64       `json:"id"`
	VisitTime time.Time   `json:"visit_time"`
	Status    string      `json:"status"`
	Doctor    VisitPerson `json:"doctor"`
	Patient   VisitPerson `json:"patient"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt *time.Time  `json:"updated_at,omitempty"`
}

// PaginatedVisitListResponse is the paginated list payload
type PaginatedVisitListResponse struct {
	Success    bool            `json:"success"`
	Visits     []VisitResponse `json:"visits"`
	Pagination pagination.Meta `json:"pagination"`
}

// VisitHistoryResponse lists a patient's or doctor's visits in time order.
type VisitHistoryResponse struct {
	Success bool            `json:"success"`
	Visits  []VisitResponse `json:"visits"`
}
