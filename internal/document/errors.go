package document

import "errors"

var (
	ErrNotFound        = errors.New("medical document not found")
	ErrPatientNotFound = errors.New("patient not found")
	ErrVisitNotFound   = errors.New("visit not found")
	ErrVisitMismatch   = errors.New("visit does not belong to this patient")
	ErrMissingName     = errors.New("document name is required")
	ErrMissingPatient  = errors.New("patient id is required")
)
