package users

import (
	"context"
	"log"

	"github.com/mediclinic/clinic-service/internal/auth"
	"github.com/mediclinic/clinic-service/internal/messaging"
)

type Service struct {
	repo      RepositoryInterface
	tokens    *auth.TokenProvider
	publisher messaging.PublisherInterface
}

func NewService(repo RepositoryInterface, tokens *auth.TokenProvider, publisher messaging.PublisherInterface) *Service {
	return &Service{repo: repo, tokens: tokens, publisher: publisher}
}

func validateRegister(req RegisterRequest) error {
	if req.FirstName == "" {
		return ErrMissingFirst
	}
	if req.LastName == "" {
		return ErrMissingLast
	}
	if req.Email == "" {
		return ErrMissingEmail
	}
	if req.Password == "" {
		return ErrMissingPassword
	}
	if len(req.Password) < 8 {
		return ErrWeakPassword
	}
	return nil
}

// Register creates a PATIENT account with a linked patient record and
// returns a token for the new account.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*TokenResponse, error) {
	if err := validateRegister(req); err != nil {
		return nil, err
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	u, err := s.repo.RegisterPatient(ctx, req, hash)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.IssueToken(u.ID, u.Email, auth.RolePatient)
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, messaging.EventUserRegistered, u)
	return &TokenResponse{Success: true, Token: token, User: u}, nil
}

// Login verifies credentials and issues a token. Unknown email and bad
// password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, ErrInvalidCredentials
	}

	cred, err := s.repo.GetCredentialByEmail(ctx, req.Email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !CheckPassword(cred.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}

	role, err := auth.ParseRole(cred.Role)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.IssueToken(cred.ID, cred.Email, role)
	if err != nil {
		return nil, err
	}

	u, err := s.repo.GetUser(ctx, cred.ID)
	if err != nil {
		return nil, err
	}
	return &TokenResponse{Success: true, Token: token, User: u}, nil
}

// CreateUser creates an account with any role (admin operation).
func (s *Service) CreateUser(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	if req.Email == "" {
		return nil, ErrMissingEmail
	}
	if req.Password == "" {
		return nil, ErrMissingPassword
	}
	if len(req.Password) < 8 {
		return nil, ErrWeakPassword
	}
	role, err := auth.ParseRole(req.Role)
	if err != nil {
		return nil, ErrInvalidRole
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	return s.repo.CreateUser(ctx, req.Email, hash, string(role))
}

func (s *Service) GetUser(ctx context.Context, id int64) (*UserResponse, error) {
	return s.repo.GetUser(ctx, id)
}

func (s *Service) ListUsers(ctx context.Context) (*UserListResponse, error) {
	list, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	return &UserListResponse{Success: true, Users: list}, nil
}

func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	u, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteUser(ctx, id); err != nil {
		return err
	}

	s.publishEvent(ctx, messaging.EventUserDeleted, u)
	return nil
}

func (s *Service) publishEvent(ctx context.Context, eventType string, u *UserResponse) {
	if s.publisher == nil {
		return
	}
	event := messaging.UserEvent{
		BaseEvent: messaging.NewBaseEvent(eventType),
		Data: messaging.UserEventData{
			UserID: u.ID,
			Email:  u.Email,
			Role:   u.Role,
		},
	}
	if err := s.publisher.Publish(ctx, eventType, event); err != nil {
		log.Printf("Failed to publish %s event: %v", eventType, err)
	}
}
