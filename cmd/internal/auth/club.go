package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"clubhouse/cmd/identity"
)

// Club performs secret redemption: a member submits the shared passphrase
// and, on a match, is promoted to privileged status.
//
// The secret is injected once at construction from process configuration; it
// is never re-read from the environment at call time, which keeps redemption
// deterministic and testable.
type Club struct {
	secret []byte
	store  identity.Store
}

// NewClub constructs the redemption service. An empty secret disables the
// club entirely rather than silently accepting anything.
func NewClub(secret string, store identity.Store) (*Club, error) {
	if secret == "" {
		return nil, errors.New("auth: empty club secret")
	}
	if store == nil {
		return nil, errors.New("auth: nil store")
	}
	return &Club{secret: []byte(secret), store: store}, nil
}

// Redeem checks the submitted secret for the given member.
//
// Already privileged (or admin) members short-circuit to success without any
// comparison. A mismatch returns ErrIncorrectSecret and mutates nothing. A
// match promotes atomically and returns the updated member.
func (c *Club) Redeem(ctx context.Context, now time.Time, user identity.User, submitted string) (identity.User, error) {
	if user.Privileged() {
		return user, nil
	}

	if subtle.ConstantTimeCompare(c.secret, []byte(submitted)) != 1 {
		return identity.User{}, ErrIncorrectSecret
	}

	return c.store.Promote(ctx, user.ID, now)
}
