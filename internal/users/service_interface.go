package users

import "context"

// ServiceInterface defines the contract for account operations
type ServiceInterface interface {
	Register(ctx context.Context, req RegisterRequest) (*TokenResponse, error)
	Login(ctx context.Context, req LoginRequest) (*TokenResponse, error)
	CreateUser(ctx context.Context, req CreateUserRequest) (*UserResponse, error)
	GetUser(ctx context.Context, id int64) (*UserResponse, error)
	ListUsers(ctx context.Context) (*UserListResponse, error)
	DeleteUser(ctx context.Context, id int64) error
}

// Ensure Service implements ServiceInterface
var _ ServiceInterface = (*Service)(nil)
