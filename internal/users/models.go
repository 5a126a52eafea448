package users

import "time"

// RegisterRequest is the self-registration payload. It creates a
// PATIENT account and the linked patient record in one step.
type RegisterRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	BirthDate string `json:"birth_date"` // Format: YYYY-MM-DD
	PESEL     string `json:"pesel"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
}

// LoginRequest is the credential payload for token issuance.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateUserRequest is the admin payload for creating an account with
// an arbitrary role.
type CreateUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// UserResponse represents the account data returned to clients
type UserResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// TokenResponse carries an issued token and the account it belongs to.
type TokenResponse struct {
	Success bool          `json:"success"`
	Token   string        `json:"token"`
	User    *UserResponse `json:"user"`
}

// UserListResponse lists all accounts.
type UserListResponse struct {
	Success bool           `json:"success"`
	Users   []UserResponse `json:"users"`
}

// Credential is the stored login material for one account.
type Credential struct {
	ID           int64
	Email        string
	PasswordHash string
	Role         string
}
