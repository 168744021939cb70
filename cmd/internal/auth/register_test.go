package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"clubhouse/cmd/identity"
)

func newTestRegistrar(t *testing.T) (*Registrar, *identity.MemoryStore) {
	t.Helper()

	store := identity.NewMemoryStore()
	r, err := NewRegistrar(store, testHasher())
	require.NoError(t, err)
	return r, store
}

func validForm() RegistrationForm {
	return RegistrationForm{
		FirstName:       "Ann",
		LastName:        "Lee",
		Handle:          "annlee1",
		Password:        "Secur3p!",
		ConfirmPassword: "Secur3p!",
	}
}

func fieldsOf(errs []FieldError) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Field)
	}
	return out
}

func TestRegister_Success(t *testing.T) {
	ctx := context.Background()
	r, store := newTestRegistrar(t)

	u, fieldErrs, err := r.Register(ctx, time.Now().UTC(), validForm())
	require.NoError(t, err)
	require.Empty(t, fieldErrs)
	require.Equal(t, "annlee1", u.Handle)
	require.Equal(t, identity.StatusStandard, u.Status)
	require.NotEmpty(t, u.PasswordHash)
	require.NotEqual(t, "Secur3p!", u.PasswordHash)

	// Stored and loadable.
	got, err := store.GetByHandle(ctx, "annlee1")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)
}

func TestValidate_AccumulatesAllErrors(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRegistrar(t)

	fieldErrs, err := r.Validate(ctx, RegistrationForm{
		FirstName:       "   ",
		LastName:        "",
		Handle:          "ab1",
		Password:        "password",
		ConfirmPassword: "different",
	})
	require.NoError(t, err)

	fields := fieldsOf(fieldErrs)
	require.Contains(t, fields, "first_name")
	require.Contains(t, fields, "last_name")
	require.Contains(t, fields, "handle")
	require.Contains(t, fields, "password")
	require.Contains(t, fields, "confirm_password")
}

func TestValidate_HandleRules(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRegistrar(t)

	cases := []struct {
		name   string
		handle string
		bad    bool
	}{
		{"too short", "ab1", true},
		{"special characters", "ann lee!", true},
		{"ok", "annlee1", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			form := validForm()
			form.Handle = tc.handle
			fieldErrs, err := r.Validate(ctx, form)
			require.NoError(t, err)
			if tc.bad {
				require.Contains(t, fieldsOf(fieldErrs), "handle")
			} else {
				require.NotContains(t, fieldsOf(fieldErrs), "handle")
			}
		})
	}
}

func TestValidate_DuplicateHandle(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRegistrar(t)

	_, fieldErrs, err := r.Register(ctx, time.Now().UTC(), validForm())
	require.NoError(t, err)
	require.Empty(t, fieldErrs)

	second := validForm()
	second.FirstName = "Bea"
	fieldErrs, err = r.Validate(ctx, second)
	require.NoError(t, err)
	require.Contains(t, fieldsOf(fieldErrs), "handle")
}

func TestValidate_MalformedHandleSkipsUniqueness(t *testing.T) {
	ctx := context.Background()
	r, store := newTestRegistrar(t)

	// A malformed handle can still exist via a direct store write; shape
	// problems alone decide whether the uniqueness lookup runs.
	_, err := store.Create(ctx, identity.CreateUserInput{Handle: "ab1", PasswordHash: "h"})
	require.NoError(t, err)

	form := validForm()
	form.Handle = "ab1"
	fieldErrs, err := r.Validate(ctx, form)
	require.NoError(t, err)

	require.Contains(t, fieldsOf(fieldErrs), "handle")
	for _, fe := range fieldErrs {
		require.NotEqual(t, "Username is already in use.", fe.Message)
	}
}

func TestValidate_PasswordRules(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRegistrar(t)

	cases := []struct {
		name string
		pw   string
		bad  bool
	}{
		{"no uppercase or digit mix", "password", true},
		{"no lowercase", "PASSWORD1", true},
		{"no letters", "12345678", true},
		{"ok", "Passw0rd", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			form := validForm()
			form.Password = tc.pw
			form.ConfirmPassword = tc.pw
			fieldErrs, err := r.Validate(ctx, form)
			require.NoError(t, err)
			if tc.bad {
				require.Contains(t, fieldsOf(fieldErrs), "password")
			} else {
				require.NotContains(t, fieldsOf(fieldErrs), "password")
			}
		})
	}
}

func TestValidate_ConfirmationMustMatchExactly(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRegistrar(t)

	form := validForm()
	form.ConfirmPassword = form.Password + " "
	fieldErrs, err := r.Validate(ctx, form)
	require.NoError(t, err)
	require.Contains(t, fieldsOf(fieldErrs), "confirm_password")
}

func TestRegister_RaceOnHandleMapsToFieldError(t *testing.T) {
	ctx := context.Background()
	r, store := newTestRegistrar(t)

	// Simulate losing the validate->create race: the handle appears after
	// validation would have passed, via a direct store write.
	_, err := store.Create(ctx, identity.CreateUserInput{Handle: "benlee2", PasswordHash: "h"})
	require.NoError(t, err)

	form := validForm()
	form.Handle = "benlee2"
	_, fieldErrs, err := r.Register(ctx, time.Now().UTC(), form)
	require.NoError(t, err)
	require.Contains(t, fieldsOf(fieldErrs), "handle")
}
