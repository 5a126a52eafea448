package users

import "context"

// RepositoryInterface defines the contract for account data access
type RepositoryInterface interface {
	CreateUser(ctx context.Context, email, passwordHash, role string) (*UserResponse, error)
	RegisterPatient(ctx context.Context, req RegisterRequest, passwordHash string) (*UserResponse, error)
	GetCredentialByEmail(ctx context.Context, email string) (*Credential, error)
	GetUser(ctx context.Context, id int64) (*UserResponse, error)
	ListUsers(ctx context.Context) ([]UserResponse, error)
	DeleteUser(ctx context.Context, id int64) error
}

// Ensure Repository implements RepositoryInterface
var _ RepositoryInterface = (*Repository)(nil)
