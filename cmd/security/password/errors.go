package password

import "errors"

// Public, stable errors for callers.
var (
	ErrPasswordTooShort = errors.New("password too short")
	ErrPasswordTooLong  = errors.New("password too long")
	ErrPasswordNeedsMix = errors.New("password needs mixed case and a digit")
	ErrInvalidHash      = errors.New("invalid password hash")
)
