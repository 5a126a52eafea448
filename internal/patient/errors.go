package patient

import "errors"

var (
	ErrNotFound        = errors.New("patient not found")
	ErrDuplicateEmail  = errors.New("patient with this email already exists")
	ErrDuplicatePESEL  = errors.New("patient with this PESEL already exists")
	ErrMissingFirst    = errors.New("first name is required")
	ErrMissingLast     = errors.New("last name is required")
	ErrMissingEmail    = errors.New("email is required")
	ErrInvalidBirthDay = errors.New("birth date must be in YYYY-MM-DD format")
)
