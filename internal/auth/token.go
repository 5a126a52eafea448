package auth

import (
	"errors"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v4"
)

// Principal holds identity extracted from a validated token.
type Principal struct {
	UserID int64
	Email  string
	Role   Role
	Claims jwt.MapClaims
}

var (
	ErrNoToken       = errors.New("no token provided")
	ErrInvalidToken  = errors.New("invalid token")
	ErrInvalidIssuer = errors.New("invalid issuer")
	ErrMissingSub    = errors.New("missing sub claim")
)

// TokenProvider issues and verifies the service's own HS256 tokens.
type TokenProvider struct {
	cfg Config
}

// NewTokenProvider constructs a token provider with config.
func NewTokenProvider(cfg Config) *TokenProvider {
	return &TokenProvider{cfg: cfg}
}

// IssueToken signs a token for an authenticated user.
func (p *TokenProvider) IssueToken(userID int64, email string, role Role) (string, error) {
	now := jwt.TimeFunc()
	claims := jwt.MapClaims{
		"sub":   strconv.FormatInt(userID, 10),
		"email": email,
		"role":  string(role),
		"iss":   p.cfg.Issuer,
		"iat":   now.Unix(),
		"exp":   now.Add(p.cfg.TokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(p.cfg.Secret))
	if err != nil {
		return "", err
	}
	return signed, nil
}

// ParseAndVerifyToken verifies a bearer token, validates issuer/exp and returns Principal.
func (p *TokenProvider) ParseAndVerifyToken(tokenString string) (*Principal, error) {
	if tokenString == "" {
		return nil, ErrNoToken
	}
	tokenString = strings.TrimSpace(tokenString)
	parsed, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		// enforce HS256
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(p.cfg.Secret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	if iss, _ := claims["iss"].(string); iss != p.cfg.Issuer {
		return nil, ErrInvalidIssuer
	}
	if !claims.VerifyExpiresAt(jwt.TimeFunc().Unix(), true) {
		return nil, ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, ErrMissingSub
	}
	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return nil, ErrInvalidToken
	}

	email, _ := claims["email"].(string)
	if email == "" {
		return nil, ErrInvalidToken
	}

	roleClaim, _ := claims["role"].(string)
	role, err := ParseRole(roleClaim)
	if err != nil {
		return nil, ErrInvalidToken
	}

	return &Principal{
		UserID: userID,
		Email:  email,
		Role:   role,
		Claims: claims,
	}, nil
}
