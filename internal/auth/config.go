package auth

import (
	"log"
	"os"
	"time"
)

// Config holds auth configuration
type Config struct {
	Issuer   string
	Secret   string
	TokenTTL time.Duration
}

const DefaultIssuer = "clinic-service"

// LoadConfig reads config from env with sensible defaults.
// Override with AUTH_ISSUER, JWT_SECRET and AUTH_TOKEN_TTL.
func LoadConfig() Config {
	issuer := os.Getenv("AUTH_ISSUER")
	if issuer == "" {
		issuer = DefaultIssuer
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev-only-secret"
		log.Println("Warning: JWT_SECRET not set, using insecure development secret")
	}

	ttl := 24 * time.Hour
	if s := os.Getenv("AUTH_TOKEN_TTL"); s != "" {
		if d, err := time.ParseDuration(s); err == nil {
			ttl = d
		}
	}

	return Config{
		Issuer:   issuer,
		Secret:   secret,
		TokenTTL: ttl,
	}
}
