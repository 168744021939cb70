package password

import (
	"unicode"
	"unicode/utf8"
)

// Validate checks the membership password policy. It does not mutate input.
func (c Config) Validate(password string) error {
	// Count characters (runes), not bytes, to be user-friendly.
	n := utf8.RuneCountInString(password)

	if n < c.Policy.MinLength {
		return ErrPasswordTooShort
	}
	if n > c.Policy.MaxLength {
		return ErrPasswordTooLong
	}

	// Composition: reject anything that is purely one character class.
	// Each check stands on its own; failing any one rejects the password.
	if purelyLowercase(password) {
		return ErrPasswordNeedsMix
	}
	if purelyUppercase(password) {
		return ErrPasswordNeedsMix
	}
	if purelyNumeric(password) {
		return ErrPasswordNeedsMix
	}
	if purelyAlphabetic(password) {
		return ErrPasswordNeedsMix
	}

	return nil
}

func purelyLowercase(s string) bool {
	for _, r := range s {
		if unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

func purelyUppercase(s string) bool {
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
	}
	return true
}

func purelyNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func purelyAlphabetic(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
