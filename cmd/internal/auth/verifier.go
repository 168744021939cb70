package auth

import (
	"context"
	"errors"

	"clubhouse/cmd/identity"
	"clubhouse/cmd/security/password"
)

// Verifier resolves a submitted handle+password pair to a member identity.
//
// The pair exists only for the duration of one Verify call; nothing here
// persists or logs the plaintext.
type Verifier struct {
	store  identity.Store
	hasher *password.Limiter

	// dummyHash is verified when the handle is unknown so both failure
	// kinds cost one Argon2id computation (timing resistance).
	dummyHash string
}

// NewVerifier constructs a Verifier. It pre-computes the dummy digest once;
// an entropy failure here is fatal, matching the no-weak-fallback policy.
func NewVerifier(store identity.Store, hasher *password.Limiter) (*Verifier, error) {
	if store == nil || hasher == nil {
		return nil, errors.New("auth: nil store or hasher")
	}

	dummy, err := hasher.Hash(context.Background(), "dummy-password-for-timing-only")
	if err != nil {
		return nil, err
	}

	return &Verifier{store: store, hasher: hasher, dummyHash: dummy}, nil
}

// Verify checks the pair against the store. The handle lookup is
// case-sensitive and exact.
//
// Failures: unknown handle -> ErrUnknownUser; stored digest mismatch ->
// ErrIncorrectPassword. Store or hashing infrastructure failures propagate
// as-is and must abort the login, never downgrade it.
func (v *Verifier) Verify(ctx context.Context, handle, plaintext string) (identity.User, error) {
	u, err := v.store.GetByHandle(ctx, handle)
	if err != nil {
		if identity.IsNotFound(err) || identity.IsInvalidInput(err) {
			// Burn the same hashing cost as the found path.
			_, _ = v.hasher.Verify(ctx, v.dummyHash, plaintext)
			return identity.User{}, ErrUnknownUser
		}
		return identity.User{}, err
	}

	ok, err := v.hasher.Verify(ctx, u.PasswordHash, plaintext)
	if err != nil {
		if errors.Is(err, password.ErrInvalidHash) {
			// A corrupt stored digest can never match; treat as a normal
			// rejection rather than leaking storage state.
			return identity.User{}, ErrIncorrectPassword
		}
		return identity.User{}, err
	}
	if !ok {
		return identity.User{}, ErrIncorrectPassword
	}

	return u, nil
}
