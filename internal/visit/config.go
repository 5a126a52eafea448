package visit

import "os"

// Config controls scheduler behavior.
type Config struct {
	// StrictReferences makes updates fail with NotFound when a new
	// patient or doctor id cannot be resolved. The default (lenient)
	// behavior silently keeps the current reference.
	StrictReferences bool
}

// LoadConfig reads scheduler configuration from environment variables.
func LoadConfig() Config {
	return Config{
		StrictReferences: os.Getenv("SCHEDULER_STRICT_REFERENCES") == "true",
	}
}
