package users

import "errors"

var (
	ErrNotFound           = errors.New("user not found")
	ErrDuplicateEmail     = errors.New("account with this email already exists")
	ErrDuplicatePESEL     = errors.New("patient with this PESEL already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrMissingEmail       = errors.New("email is required")
	ErrMissingPassword    = errors.New("password is required")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrMissingFirst       = errors.New("first name is required")
	ErrMissingLast        = errors.New("last name is required")
	ErrInvalidRole        = errors.New("unknown role")
)
