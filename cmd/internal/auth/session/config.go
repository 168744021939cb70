package session

import (
	"os"
	"time"
)

// Config defines runtime configuration for the session subsystem.
type Config struct {
	// TTL is the server-side lifetime of an issued session.
	TTL time.Duration

	// CookieName is the client-held session cookie name.
	CookieName string
}

// DefaultConfig returns defaults suitable for development.
func DefaultConfig() Config {
	return Config{
		TTL:        7 * 24 * time.Hour,
		CookieName: "clubhouse_session",
	}
}

// LoadConfigFromEnv loads session configuration from environment variables.
//
// Optional:
//   - CLUBHOUSE_SESSION_TTL (Go duration string)
//   - CLUBHOUSE_SESSION_COOKIE_NAME
//
// Returns ErrConfig if configuration is invalid.
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v := os.Getenv("CLUBHOUSE_SESSION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, ErrConfig
		}
		cfg.TTL = d
	}

	if v := os.Getenv("CLUBHOUSE_SESSION_COOKIE_NAME"); v != "" {
		cfg.CookieName = v
	}

	return cfg, nil
}
