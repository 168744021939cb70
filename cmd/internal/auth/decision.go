package auth

import "clubhouse/cmd/identity"

// Decision is the authorization gate's output for one request. It is never
// persisted; it is recomputed from the freshly resolved member on every
// request, so an escalation is visible immediately.
type Decision int

const (
	// Anonymous means no identity resolved for this request.
	Anonymous Decision = iota
	// AuthenticatedStandard is a logged-in member without club status.
	AuthenticatedStandard
	// AuthenticatedPrivileged is a club member or admin.
	AuthenticatedPrivileged
)

func (d Decision) String() string {
	switch d {
	case AuthenticatedStandard:
		return "standard"
	case AuthenticatedPrivileged:
		return "privileged"
	default:
		return "anonymous"
	}
}

// AtLeast reports whether d meets the given minimum.
func (d Decision) AtLeast(min Decision) bool { return d >= min }

// Decide classifies a resolved member (nil means anonymous).
func Decide(u *identity.User) Decision {
	switch {
	case u == nil:
		return Anonymous
	case u.Privileged():
		return AuthenticatedPrivileged
	default:
		return AuthenticatedStandard
	}
}

// Context carries the resolved identity and its decision for one request.
// It is built once per request and passed explicitly to handlers; nothing
// reads identity out of ambient request state.
type Context struct {
	User     *identity.User
	Decision Decision
}

// NewContext resolves the decision for u (nil for anonymous).
func NewContext(u *identity.User) Context {
	return Context{User: u, Decision: Decide(u)}
}

// Member reports whether the request carries any authenticated member.
func (c Context) Member() bool { return c.Decision.AtLeast(AuthenticatedStandard) }

// Privileged reports whether the request carries a club member or admin.
func (c Context) Privileged() bool { return c.Decision.AtLeast(AuthenticatedPrivileged) }
