package doctor

import "errors"

var (
	ErrNotFound         = errors.New("doctor not found")
	ErrDuplicateEmail   = errors.New("doctor with this email already exists")
	ErrMissingFirst     = errors.New("first name is required")
	ErrMissingLast      = errors.New("last name is required")
	ErrMissingEmail     = errors.New("email is required")
	ErrMissingSpecialty = errors.New("specialty is required")
	ErrInvalidDate      = errors.New("date must be in YYYY-MM-DD format")
)
