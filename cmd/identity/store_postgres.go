package identity

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements membership persistence over PostgreSQL.
//
// Design notes:
// - The pgx pool is owned by the caller; this store must NOT close it.
// - Schema/table identifiers are safely quoted to avoid SQL injection via identifiers.
// - Promote is a single UPDATE and therefore atomic per record.
// - Errors are mapped to identity sentinel kinds where appropriate.
type PostgresStore struct {
	pool   *pgxpool.Pool
	schema string
}

// PostgresOption configures the store.
type PostgresOption func(*PostgresStore) error

var pgIdentRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// WithSchema sets the Postgres schema used by the membership store (default "clubhouse").
// The schema name is validated to be a legal PostgreSQL identifier.
func WithSchema(schema string) PostgresOption {
	return func(s *PostgresStore) error {
		schema = strings.TrimSpace(schema)
		if schema == "" {
			return fmt.Errorf("identity: empty schema")
		}
		if !pgIdentIsValid(schema) {
			return fmt.Errorf("identity: invalid schema identifier")
		}
		s.schema = schema
		return nil
	}
}

// NewPostgresStore constructs a PostgresStore with secure defaults.
func NewPostgresStore(pool *pgxpool.Pool, opts ...PostgresOption) (*PostgresStore, error) {
	st := &PostgresStore{
		pool:   pool,
		schema: "clubhouse",
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(st); err != nil {
			return nil, err
		}
	}
	if st.pool == nil {
		return nil, fmt.Errorf("identity: nil pool")
	}
	return st, nil
}

const memberColumns = `id, handle, password_hash, first_name, last_name, status, is_admin, created_at`

// Create inserts a new member record.
func (s *PostgresStore) Create(ctx context.Context, in CreateUserInput) (User, error) {
	const op = "identity.Create"

	if s == nil || s.pool == nil {
		return User{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "nil store"}
	}
	if err := ctx.Err(); err != nil {
		return User{}, err
	}

	handle := strings.TrimSpace(in.Handle)
	if handle == "" {
		return User{}, pgInvalid(op, "handle is required")
	}
	if strings.TrimSpace(in.PasswordHash) == "" {
		return User{}, pgInvalid(op, "password hash is required")
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	userID, err := NewULID(now)
	if err != nil {
		return User{}, err
	}

	members := pgIdent(s.schema, "members")

	_, err = s.pool.Exec(ctx,
		`INSERT INTO `+members+` (
		     id, handle, password_hash, first_name, last_name, status, is_admin, created_at
		   ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		userID,
		handle,
		in.PasswordHash,
		strings.TrimSpace(in.FirstName),
		strings.TrimSpace(in.LastName),
		string(StatusStandard),
		in.Admin,
		now,
	)
	if err != nil {
		if field, ok := pgClassifyUniqueViolation(err); ok {
			return User{}, ConflictError{Op: op, Field: field}
		}
		return User{}, err
	}

	return User{
		ID:           userID,
		Handle:       handle,
		PasswordHash: in.PasswordHash,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Status:       StatusStandard,
		Admin:        in.Admin,
		CreatedAt:    now,
	}, nil
}

// GetByHandle loads a member by handle. The match is case-sensitive and exact.
func (s *PostgresStore) GetByHandle(ctx context.Context, handle string) (User, error) {
	const op = "identity.GetByHandle"

	if s == nil || s.pool == nil {
		return User{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "nil store"}
	}
	if strings.TrimSpace(handle) == "" {
		return User{}, pgInvalid(op, "missing handle")
	}

	members := pgIdent(s.schema, "members")

	return s.scanOne(ctx, op, "member",
		`SELECT `+memberColumns+` FROM `+members+` WHERE handle = $1`, handle)
}

// GetByID loads a member by its storage key.
func (s *PostgresStore) GetByID(ctx context.Context, id string) (User, error) {
	const op = "identity.GetByID"

	if s == nil || s.pool == nil {
		return User{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "nil store"}
	}
	if strings.TrimSpace(id) == "" {
		return User{}, pgInvalid(op, "missing id")
	}

	members := pgIdent(s.schema, "members")

	return s.scanOne(ctx, op, "member",
		`SELECT `+memberColumns+` FROM `+members+` WHERE id = $1`, id)
}

// Promote escalates a member to privileged status.
//
// The UPDATE only ever writes StatusPrivileged, so the transition can never
// run backwards; promoting an already privileged member rewrites the same
// value (no-op success).
func (s *PostgresStore) Promote(ctx context.Context, id string, now time.Time) (User, error) {
	const op = "identity.Promote"

	if s == nil || s.pool == nil {
		return User{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "nil store"}
	}
	if strings.TrimSpace(id) == "" {
		return User{}, pgInvalid(op, "missing id")
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	members := pgIdent(s.schema, "members")

	return s.scanOne(ctx, op, "member",
		`UPDATE `+members+`
		    SET status = $1
		  WHERE id = $2
		RETURNING `+memberColumns,
		string(StatusPrivileged), id)
}

func (s *PostgresStore) scanOne(ctx context.Context, op, resource, query string, args ...any) (User, error) {
	var (
		out    User
		status string
	)

	err := s.pool.QueryRow(ctx, query, args...).Scan(
		&out.ID,
		&out.Handle,
		&out.PasswordHash,
		&out.FirstName,
		&out.LastName,
		&status,
		&out.Admin,
		&out.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, NotFoundError{Op: op, Resource: resource}
		}
		return User{}, err
	}

	out.Status = Status(status)
	return out, nil
}

// ---- helpers ----

// pgIdent quotes a schema-qualified identifier.
func pgIdent(schema, name string) string {
	return fmt.Sprintf("%q.%q", schema, name)
}

// pgInvalid standardizes invalid input errors.
func pgInvalid(op, msg string) error {
	return OpError{Op: op, Kind: ErrInvalidInput, Msg: msg}
}

// pgIdentIsValid checks if a string is a safe Postgres identifier.
func pgIdentIsValid(s string) bool {
	return pgIdentRe.MatchString(s)
}

func pgClassifyUniqueViolation(err error) (field string, ok bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return "", false
	}
	if pgErr.Code != "23505" { // unique_violation
		return "", false
	}

	// Prefer stable schema constraint names. Fall back to heuristic substring matching.
	c := strings.ToLower(strings.TrimSpace(pgErr.ConstraintName))

	switch c {
	case "uq_members_handle":
		return "handle", true
	default:
		if strings.Contains(c, "handle") {
			return "handle", true
		}
		return "unique", true
	}
}
