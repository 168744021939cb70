package identity

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStore_CreateAndLookup(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	u, err := st.Create(ctx, CreateUserInput{
		Handle:       "annlee1",
		PasswordHash: "$argon2id$fake",
		FirstName:    "Ann",
		LastName:     "Lee",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if u.ID == "" {
		t.Fatalf("expected ULID id")
	}
	if u.Status != StatusStandard {
		t.Fatalf("new member status = %q, want standard", u.Status)
	}

	got, err := st.GetByHandle(ctx, "annlee1")
	if err != nil {
		t.Fatalf("GetByHandle error: %v", err)
	}
	if got.ID != u.ID {
		t.Fatalf("GetByHandle returned wrong member")
	}

	byID, err := st.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if byID.Handle != "annlee1" {
		t.Fatalf("GetByID returned wrong member")
	}
}

func TestMemoryStore_HandleIsCaseSensitive(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	if _, err := st.Create(ctx, CreateUserInput{Handle: "annlee1", PasswordHash: "h"}); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if _, err := st.GetByHandle(ctx, "AnnLee1"); !IsNotFound(err) {
		t.Fatalf("expected ErrNotFound for different casing, got %v", err)
	}
}

func TestMemoryStore_DuplicateHandle(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	if _, err := st.Create(ctx, CreateUserInput{Handle: "annlee1", PasswordHash: "h"}); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	_, err := st.Create(ctx, CreateUserInput{Handle: "annlee1", PasswordHash: "h2"})
	if !IsConflict(err) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
}

func TestMemoryStore_RejectsEmptyHash(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	_, err := st.Create(ctx, CreateUserInput{Handle: "annlee1"})
	if !IsInvalidInput(err) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestMemoryStore_Promote(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()

	u, err := st.Create(ctx, CreateUserInput{Handle: "annlee1", PasswordHash: "h"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	now := time.Now().UTC()

	p, err := st.Promote(ctx, u.ID, now)
	if err != nil {
		t.Fatalf("Promote error: %v", err)
	}
	if p.Status != StatusPrivileged {
		t.Fatalf("status = %q, want privileged", p.Status)
	}

	// No-op on repeat.
	p2, err := st.Promote(ctx, u.ID, now)
	if err != nil {
		t.Fatalf("second Promote error: %v", err)
	}
	if p2.Status != StatusPrivileged {
		t.Fatalf("status = %q, want privileged", p2.Status)
	}

	// Unknown id.
	if _, err := st.Promote(ctx, "missing", now); !IsNotFound(err) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
