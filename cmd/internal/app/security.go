package app

import (
	"errors"

	"clubhouse/cmd/security/token"
)

// ValidateSecurityConfig enforces the startup security policy.
//
// Fail-fast is intentional: silently falling back to weaker settings in
// production is unacceptable. Dev mode relaxes the signing-key requirement
// (an ephemeral key is generated), never the club-secret one.
func ValidateSecurityConfig(cfg Config) error {
	if cfg.ClubSecret == "" {
		return errors.New("security policy: CLUBHOUSE_CLUB_SECRET must be set")
	}

	if cfg.DevMode {
		return nil
	}

	// Minimum 32 bytes for an HMAC-SHA256 secret; measured in bytes because
	// the key is used as raw bytes.
	if _, err := token.KeyFromEnv(32); err != nil {
		switch {
		case errors.Is(err, token.ErrKeyMissing):
			return errors.New("security policy: CLUBHOUSE_SESSION_HMAC_KEY is missing (required outside dev mode)")
		case errors.Is(err, token.ErrKeyTooShort):
			return errors.New("security policy: CLUBHOUSE_SESSION_HMAC_KEY is too short (min 32 bytes)")
		default:
			return err
		}
	}

	return nil
}
