package messaging

import (
	"time"

	"github.com/google/uuid"
)

// Event routing keys as constants
const (
	// Visit lifecycle events
	EventVisitScheduled = "visit.scheduled"
	EventVisitUpdated   = "visit.updated"
	EventVisitCancelled = "visit.cancelled"
	EventVisitCompleted = "visit.completed"
	EventVisitDeleted   = "visit.deleted"

	// Patient events
	EventPatientCreated = "patient.created"
	EventPatientUpdated = "patient.updated"
	EventPatientDeleted = "patient.deleted"

	// Medical document events
	EventDocumentCreated = "document.created"
	EventDocumentDeleted = "document.deleted"

	// Account events
	EventUserRegistered = "user.registered"
	EventUserDeleted    = "user.deleted"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventType   string    `json:"event_type"`
	EventID     string    `json:"event_id"`
	Timestamp   time.Time `json:"timestamp"`
	ServiceName string    `json:"service_name"`
}

// NewBaseEvent creates a base event with common fields
func NewBaseEvent(eventType string) BaseEvent {
	return BaseEvent{
		EventType:   eventType,
		EventID:     uuid.NewString(),
		Timestamp:   time.Now().UTC(),
		ServiceName: "clinic-service",
	}
}

// VisitEvent carries visit lifecycle data
type VisitEvent struct {
	BaseEvent
	Data VisitEventData `json:"data"`
}

type VisitEventData struct {
	VisitID   int64     `json:"visit_id"`
	DoctorID  int64     `json:"doctor_id"`
	PatientID int64     `json:"patient_id"`
	VisitTime time.Time `json:"visit_time"`
	Status    string    `json:"status"`
}

// PatientEvent carries patient record data
type PatientEvent struct {
	BaseEvent
	Data PatientEventData `json:"data"`
}

type PatientEventData struct {
	PatientID int64  `json:"patient_id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// DocumentEvent carries medical document data
type DocumentEvent struct {
	BaseEvent
	Data DocumentEventData `json:"data"`
}

type DocumentEventData struct {
	DocumentID int64  `json:"document_id"`
	PatientID  int64  `json:"patient_id"`
	VisitID    *int64 `json:"visit_id,omitempty"`
	Name       string `json:"name"`
}

// UserEvent carries account data
type UserEvent struct {
	BaseEvent
	Data UserEventData `json:"data"`
}

type UserEventData struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}
