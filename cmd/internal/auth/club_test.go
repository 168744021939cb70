package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"clubhouse/cmd/identity"
)

func TestClub_RedeemWrongSecret(t *testing.T) {
	ctx := context.Background()
	store := identity.NewMemoryStore()

	u, err := store.Create(ctx, identity.CreateUserInput{Handle: "annlee1", PasswordHash: "h"})
	require.NoError(t, err)

	club, err := NewClub("open sesame", store)
	require.NoError(t, err)

	_, err = club.Redeem(ctx, time.Now().UTC(), u, "xyz")
	require.ErrorIs(t, err, ErrIncorrectSecret)

	// No mutation happened.
	got, err := store.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, identity.StatusStandard, got.Status)
}

func TestClub_RedeemCorrectSecret(t *testing.T) {
	ctx := context.Background()
	store := identity.NewMemoryStore()

	u, err := store.Create(ctx, identity.CreateUserInput{Handle: "annlee1", PasswordHash: "h"})
	require.NoError(t, err)

	club, err := NewClub("open sesame", store)
	require.NoError(t, err)

	now := time.Now().UTC()

	promoted, err := club.Redeem(ctx, now, u, "open sesame")
	require.NoError(t, err)
	require.Equal(t, identity.StatusPrivileged, promoted.Status)

	// Persisted, not just returned.
	got, err := store.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, identity.StatusPrivileged, got.Status)
}

func TestClub_RedeemAlreadyPrivilegedShortCircuits(t *testing.T) {
	ctx := context.Background()
	store := identity.NewMemoryStore()

	u, err := store.Create(ctx, identity.CreateUserInput{Handle: "annlee1", PasswordHash: "h"})
	require.NoError(t, err)

	now := time.Now().UTC()

	promoted, err := store.Promote(ctx, u.ID, now)
	require.NoError(t, err)

	club, err := NewClub("open sesame", store)
	require.NoError(t, err)

	// A privileged member succeeds even with a wrong secret: the redemption
	// form short-circuits before any comparison.
	got, err := club.Redeem(ctx, now, promoted, "wrong")
	require.NoError(t, err)
	require.Equal(t, identity.StatusPrivileged, got.Status)
}

func TestClub_AdminShortCircuits(t *testing.T) {
	ctx := context.Background()
	store := identity.NewMemoryStore()

	u, err := store.Create(ctx, identity.CreateUserInput{Handle: "annlee1", PasswordHash: "h", Admin: true})
	require.NoError(t, err)

	club, err := NewClub("open sesame", store)
	require.NoError(t, err)

	got, err := club.Redeem(ctx, time.Now().UTC(), u, "wrong")
	require.NoError(t, err)
	require.Equal(t, identity.StatusStandard, got.Status)
	require.True(t, got.Admin)
}

func TestNewClub_EmptySecret(t *testing.T) {
	_, err := NewClub("", identity.NewMemoryStore())
	require.Error(t, err)
}
