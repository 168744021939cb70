package token

import "errors"

var (
	// ErrKeyMissing is returned when the signing key env var is absent or blank.
	ErrKeyMissing = errors.New("token: signing key missing")

	// ErrKeyTooShort is returned when the signing key is below the minimum byte length.
	ErrKeyTooShort = errors.New("token: signing key too short")

	// ErrBadSignature is returned when a signed value fails verification.
	ErrBadSignature = errors.New("token: bad signature")
)
