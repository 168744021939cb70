package session

import (
	"context"
	"errors"
	"time"

	"clubhouse/cmd/identity"
	"clubhouse/cmd/security/token"
)

// Reference is the opaque, persistable link between a client and a session
// row. It carries nothing but the session's storage key: every other fact
// about the member is re-read from the stores at resolution time, which
// keeps references immune to staleness.
type Reference struct {
	SessionID string
}

// Manager implements the session identity operations: issue, resolve, revoke.
type Manager struct {
	cfg    Config
	signer *token.Signer
	store  Store
	users  identity.Store
}

// NewManager constructs a Manager. The signer protects the cookie form of a
// Reference from tampering; the identity store is consulted on every resolve.
func NewManager(cfg Config, signer *token.Signer, store Store, users identity.Store) (*Manager, error) {
	if signer == nil || store == nil || users == nil {
		return nil, ErrConfig
	}
	if cfg.TTL <= 0 || cfg.CookieName == "" {
		return nil, ErrConfig
	}
	return &Manager{cfg: cfg, signer: signer, store: store, users: users}, nil
}

// CookieName returns the configured session cookie name.
func (m *Manager) CookieName() string { return m.cfg.CookieName }

// Issue creates a server-side session for the member and returns its reference.
//
// Issuance is independent per login: two concurrent logins for the same
// member yield two valid sessions.
func (m *Manager) Issue(ctx context.Context, now time.Time, user identity.User) (Reference, error) {
	if now.IsZero() {
		now = time.Now().UTC()
	}

	id, err := m.store.Create(ctx, now, user.ID, now.Add(m.cfg.TTL))
	if err != nil {
		return Reference{}, err
	}
	return Reference{SessionID: id}, nil
}

// CookieValue renders a Reference in its signed wire form for the cookie.
func (m *Manager) CookieValue(ref Reference) string {
	return m.signer.Sign(ref.SessionID)
}

// ParseCookieValue verifies a signed cookie value and returns the Reference.
// Tampered or malformed values return token.ErrBadSignature.
func (m *Manager) ParseCookieValue(value string) (Reference, error) {
	id, err := m.signer.Verify(value)
	if err != nil {
		return Reference{}, err
	}
	return Reference{SessionID: id}, nil
}

// Resolve maps a Reference back to a live member record.
//
// It performs fresh lookups on every call: first the session row, then the
// member. A missing, revoked, or expired session resolves to anonymous
// (nil, nil), as does a session whose member no longer exists. Only
// infrastructure failures surface as errors.
func (m *Manager) Resolve(ctx context.Context, now time.Time, ref Reference) (*identity.User, error) {
	if ref.SessionID == "" {
		return nil, nil
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	row, err := m.store.GetByID(ctx, ref.SessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if row.RevokedAt != nil {
		return nil, nil
	}
	if !row.ExpiresAt.After(now) {
		return nil, nil
	}

	u, err := m.users.GetByID(ctx, row.UserID)
	if err != nil {
		if identity.IsNotFound(err) {
			// The referenced member is gone; the reference is meaningless,
			// not broken.
			return nil, nil
		}
		return nil, err
	}

	// Best-effort usage tracking; a failed touch never fails the request.
	_ = m.store.Touch(ctx, now, ref.SessionID)

	return &u, nil
}

// ResolveCookieValue is Resolve over the raw cookie value. A bad signature
// resolves to anonymous; the caller may log it separately via ParseCookieValue.
func (m *Manager) ResolveCookieValue(ctx context.Context, now time.Time, value string) (*identity.User, error) {
	ref, err := m.ParseCookieValue(value)
	if err != nil {
		return nil, nil
	}
	return m.Resolve(ctx, now, ref)
}

// Revoke invalidates the server-side session for ref. Idempotent: revoking a
// revoked or unknown session succeeds.
func (m *Manager) Revoke(ctx context.Context, now time.Time, ref Reference) error {
	if ref.SessionID == "" {
		return nil
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}
	return m.store.Revoke(ctx, now, ref.SessionID)
}

// RevokeAll invalidates every session belonging to a member.
func (m *Manager) RevokeAll(ctx context.Context, now time.Time, userID string) error {
	if now.IsZero() {
		now = time.Now().UTC()
	}
	return m.store.RevokeAll(ctx, now, userID)
}
