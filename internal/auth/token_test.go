package auth

import (
	"errors"
	"testing"
	"time"
)

func testConfig() Config {
	return Config{
		Issuer:   "clinic-service",
		Secret:   "test-secret",
		TokenTTL: time.Hour,
	}
}

func TestIssueAndVerifyToken(t *testing.T) {
	tokens := NewTokenProvider(testConfig())

	signed, err := tokens.IssueToken(42, "doc@clinic.test", RoleDoctor)
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	pr, err := tokens.ParseAndVerifyToken(signed)
	if err != nil {
		t.Fatalf("ParseAndVerifyToken failed: %v", err)
	}
	if pr.UserID != 42 {
		t.Errorf("expected user id 42, got %d", pr.UserID)
	}
	if pr.Email != "doc@clinic.test" {
		t.Errorf("expected email doc@clinic.test, got %s", pr.Email)
	}
	if pr.Role != RoleDoctor {
		t.Errorf("expected role DOCTOR, got %s", pr.Role)
	}
}

func TestVerifyToken_EmptyToken(t *testing.T) {
	tokens := NewTokenProvider(testConfig())
	if _, err := tokens.ParseAndVerifyToken(""); !errors.Is(err, ErrNoToken) {
		t.Errorf("expected ErrNoToken, got %v", err)
	}
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	issuer := NewTokenProvider(testConfig())
	signed, err := issuer.IssueToken(1, "p@x.com", RolePatient)
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	other := NewTokenProvider(Config{Issuer: "clinic-service", Secret: "different", TokenTTL: time.Hour})
	if _, err := other.ParseAndVerifyToken(signed); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyToken_WrongIssuer(t *testing.T) {
	cfg := testConfig()
	cfg.Issuer = "someone-else"
	issuer := NewTokenProvider(cfg)
	signed, err := issuer.IssueToken(1, "p@x.com", RolePatient)
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	verifier := NewTokenProvider(testConfig())
	if _, err := verifier.ParseAndVerifyToken(signed); !errors.Is(err, ErrInvalidIssuer) {
		t.Errorf("expected ErrInvalidIssuer, got %v", err)
	}
}

func TestVerifyToken_Expired(t *testing.T) {
	cfg := testConfig()
	cfg.TokenTTL = -time.Minute
	issuer := NewTokenProvider(cfg)
	signed, err := issuer.IssueToken(1, "p@x.com", RolePatient)
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	verifier := NewTokenProvider(testConfig())
	if _, err := verifier.ParseAndVerifyToken(signed); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestParseRole(t *testing.T) {
	if r, err := ParseRole("patient"); err != nil || r != RolePatient {
		t.Errorf("expected PATIENT, got %v / %v", r, err)
	}
	if _, err := ParseRole("SUPERVISOR"); err == nil {
		t.Error("expected error for unknown role")
	}
}
