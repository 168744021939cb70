package identity

import "time"

// Status classifies a member for club-only access.
//
// The only legal transition is StatusStandard -> StatusPrivileged, performed
// by secret redemption. There is no demotion path.
type Status string

const (
	// StatusStandard is the default for every new member.
	StatusStandard Status = "standard"
	// StatusPrivileged marks a member who has redeemed the club secret.
	StatusPrivileged Status = "privileged"
)

// User is Clubhouse's canonical security principal.
//
// Handle is unique and matched case-sensitively. PasswordHash is the encoded
// Argon2id digest and is never empty for a stored record; the plaintext is
// never persisted anywhere.
type User struct {
	ID           string
	Handle       string
	PasswordHash string

	FirstName string
	LastName  string

	Status Status
	Admin  bool

	CreatedAt time.Time
}

// Privileged reports whether the member has club access.
// Admins are implicitly privileged.
func (u User) Privileged() bool {
	return u.Status == StatusPrivileged || u.Admin
}

// FullName returns "First Last" for display.
func (u User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
