package auth

import "errors"

var (
	// ErrUnknownUser means the handle matched no member. Internal only;
	// render CredentialsMessage to users.
	ErrUnknownUser = errors.New("unknown user")

	// ErrIncorrectPassword means the member exists but the password did not
	// match. Internal only; render CredentialsMessage to users.
	ErrIncorrectPassword = errors.New("incorrect password")

	// ErrIncorrectSecret means the submitted club secret did not match.
	ErrIncorrectSecret = errors.New("incorrect secret")
)

// CredentialsMessage is the single user-visible text for both credential
// failure kinds. Keeping it identical for unknown-member and wrong-password
// prevents handle enumeration through error text.
const CredentialsMessage = "Incorrect username or password."

// IsCredentialFailure reports whether err is one of the two login rejections.
func IsCredentialFailure(err error) bool {
	return errors.Is(err, ErrUnknownUser) || errors.Is(err, ErrIncorrectPassword)
}
