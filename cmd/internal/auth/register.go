package auth

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"clubhouse/cmd/identity"
	"clubhouse/cmd/security/password"
)

// RegistrationForm is the raw signup submission.
type RegistrationForm struct {
	FirstName       string
	LastName        string
	Handle          string
	Password        string
	ConfirmPassword string
}

// FieldError describes one violated registration rule. All violations are
// reported together so the form can re-render every problem at once.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string { return e.Field + ": " + e.Message }

const minHandleLength = 5

var handleRe = regexp.MustCompile(`^[a-zA-Z0-9]+$`)

// Registrar validates signups and creates member records.
type Registrar struct {
	store  identity.Store
	hasher *password.Limiter
}

// NewRegistrar constructs a Registrar.
func NewRegistrar(store identity.Store, hasher *password.Limiter) (*Registrar, error) {
	if store == nil || hasher == nil {
		return nil, errors.New("auth: nil store or hasher")
	}
	return &Registrar{store: store, hasher: hasher}, nil
}

// Validate applies every registration rule and returns the accumulated field
// errors (empty means the form is acceptable). The handle uniqueness rule
// requires a store round-trip; a store failure is returned as err and means
// validation could not complete.
func (r *Registrar) Validate(ctx context.Context, form RegistrationForm) ([]FieldError, error) {
	var fieldErrs []FieldError

	if strings.TrimSpace(form.FirstName) == "" {
		fieldErrs = append(fieldErrs, FieldError{Field: "first_name", Message: "First name must be specified."})
	}
	if strings.TrimSpace(form.LastName) == "" {
		fieldErrs = append(fieldErrs, FieldError{Field: "last_name", Message: "Last name must be specified."})
	}

	handleErrs := validateHandleShape(form.Handle)
	fieldErrs = append(fieldErrs, handleErrs...)

	// Uniqueness needs the store; only consult it when the shape is legal.
	if len(handleErrs) == 0 {
		_, err := r.store.GetByHandle(ctx, form.Handle)
		switch {
		case err == nil:
			fieldErrs = append(fieldErrs, FieldError{Field: "handle", Message: "Username is already in use."})
		case identity.IsNotFound(err):
			// Free.
		default:
			return nil, err
		}
	}

	if err := r.hasher.Validate(form.Password); err != nil {
		fieldErrs = append(fieldErrs, passwordFieldError(err))
	}

	if form.ConfirmPassword != form.Password {
		fieldErrs = append(fieldErrs, FieldError{Field: "confirm_password", Message: "Passwords must be the same."})
	}

	return fieldErrs, nil
}

// Register validates, hashes, and creates the member. On success the new
// member has standard status. A hash or store failure leaves no partial
// record behind: hashing happens before the single Create call, and a failed
// Create stores nothing.
func (r *Registrar) Register(ctx context.Context, now time.Time, form RegistrationForm) (identity.User, []FieldError, error) {
	fieldErrs, err := r.Validate(ctx, form)
	if err != nil {
		return identity.User{}, nil, err
	}
	if len(fieldErrs) > 0 {
		return identity.User{}, fieldErrs, nil
	}

	digest, err := r.hasher.Hash(ctx, form.Password)
	if err != nil {
		return identity.User{}, nil, err
	}

	u, err := r.store.Create(ctx, identity.CreateUserInput{
		Handle:       form.Handle,
		PasswordHash: digest,
		FirstName:    strings.TrimSpace(form.FirstName),
		LastName:     strings.TrimSpace(form.LastName),
		Now:          now,
	})
	if err != nil {
		if identity.IsConflict(err) {
			// Lost a race with a concurrent signup for the same handle.
			return identity.User{}, []FieldError{{Field: "handle", Message: "Username is already in use."}}, nil
		}
		return identity.User{}, nil, err
	}

	return u, nil, nil
}

func validateHandleShape(handle string) []FieldError {
	var out []FieldError
	if utf8.RuneCountInString(handle) < minHandleLength {
		out = append(out, FieldError{Field: "handle", Message: "Username must be at least 5 characters long."})
	}
	if handle != "" && !handleRe.MatchString(handle) {
		out = append(out, FieldError{Field: "handle", Message: "Username cannot include special characters, spaces or symbols."})
	}
	return out
}

func passwordFieldError(err error) FieldError {
	switch {
	case errors.Is(err, password.ErrPasswordTooShort):
		return FieldError{Field: "password", Message: "Password must be at least 8 characters long."}
	case errors.Is(err, password.ErrPasswordTooLong):
		return FieldError{Field: "password", Message: "Password is too long."}
	default:
		return FieldError{Field: "password", Message: "Password must contain each of the following: lowercase, uppercase and number."}
	}
}
