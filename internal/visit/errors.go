package visit

import "errors"

var (
	ErrNotFound        = errors.New("visit not found")
	ErrPatientNotFound = errors.New("patient not found")
	ErrDoctorNotFound  = errors.New("doctor not found")
	ErrSlotConflict    = errors.New("doctor already has a scheduled visit in this time slot")
	ErrVisitCompleted  = errors.New("visit is already completed")
	ErrVisitCancelled  = errors.New("visit is already cancelled")
	ErrMissingPatient  = errors.New("patient id is required")
	ErrMissingDoctor   = errors.New("doctor id is required")
	ErrMissingTime     = errors.New("visit time is required")
)
