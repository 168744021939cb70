package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"os"
	"strings"
)

const (
	// EnvKey is the env var name for the session signing secret.
	// #nosec G101 -- not a credential; it's an environment variable name.
	EnvKey = "CLUBHOUSE_SESSION_HMAC_KEY"

	// sep joins the value and its signature in the wire form.
	sep = "."
)

// Signer produces and verifies HMAC-SHA256 signed values.
// The zero value is unusable; construct with NewSigner.
type Signer struct {
	key []byte
}

// NewSigner returns a Signer for the given key. The key is used as raw bytes.
func NewSigner(key []byte) (*Signer, error) {
	if len(key) == 0 {
		return nil, ErrKeyMissing
	}
	k := make([]byte, len(key))
	copy(k, key)
	return &Signer{key: k}, nil
}

// Sign returns value in signed wire form: <value>.<base64url(mac)>.
func (s *Signer) Sign(value string) string {
	return value + sep + s.mac(value)
}

// Verify parses a signed wire form and returns the embedded value.
// Returns ErrBadSignature for any malformed or tampered input.
func (s *Signer) Verify(signed string) (string, error) {
	i := strings.LastIndex(signed, sep)
	if i <= 0 || i == len(signed)-1 {
		return "", ErrBadSignature
	}
	value, gotMAC := signed[:i], signed[i+1:]

	// Constant-time compare over equal-length encodings.
	if !hmac.Equal([]byte(gotMAC), []byte(s.mac(value))) {
		return "", ErrBadSignature
	}
	return value, nil
}

func (s *Signer) mac(value string) string {
	m := hmac.New(sha256.New, s.key)
	_, _ = m.Write([]byte(value))
	return base64.RawURLEncoding.EncodeToString(m.Sum(nil))
}

// KeyFromEnv returns the configured signing key bytes (trimmed), enforcing a
// minimum byte length. Missing/blank -> ErrKeyMissing; too short -> ErrKeyTooShort.
func KeyFromEnv(minBytes int) ([]byte, error) {
	raw := strings.TrimSpace(os.Getenv(EnvKey))
	if raw == "" {
		return nil, ErrKeyMissing
	}
	b := []byte(raw)
	if minBytes > 0 && len(b) < minBytes {
		return nil, ErrKeyTooShort
	}
	return b, nil
}

// Enabled reports whether the env key is present (non-empty after trim).
// It does not enforce minimum length; use KeyFromEnv for policy checks.
func Enabled() bool {
	return strings.TrimSpace(os.Getenv(EnvKey)) != ""
}
