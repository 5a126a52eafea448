package testutil

import (
	"testing"
	"time"

	"github.com/mediclinic/clinic-service/internal/auth"
)

// TestTokenProvider returns a token provider with a fixed secret so
// tokens signed by SignToken verify against it.
func TestTokenProvider() *auth.TokenProvider {
	return auth.NewTokenProvider(auth.Config{
		Issuer:   "clinic-service",
		Secret:   "test-secret",
		TokenTTL: time.Hour,
	})
}

// SignToken issues a bearer token for the given identity, valid for
// one hour against TestTokenProvider.
func SignToken(t *testing.T, userID int64, email string, role auth.Role) string {
	t.Helper()

	token, err := TestTokenProvider().IssueToken(userID, email, role)
	if err != nil {
		t.Fatalf("Failed to issue test token: %v", err)
	}
	return token
}
