package session

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"clubhouse/cmd/identity/ids"
)

// PostgresStore implements session persistence over PostgreSQL.
//
// The pgx pool is owned by the caller; this store must NOT close it.
type PostgresStore struct {
	pool   *pgxpool.Pool
	schema string
}

var sessIdentRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// NewPostgresStore constructs a PostgresStore using the default "clubhouse" schema.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool, schema: "clubhouse"}
}

// NewPostgresStoreWithSchema constructs a PostgresStore bound to a specific schema.
func NewPostgresStoreWithSchema(pool *pgxpool.Pool, schema string) (*PostgresStore, error) {
	schema = strings.TrimSpace(schema)
	if !sessIdentRe.MatchString(schema) {
		return nil, fmt.Errorf("session: invalid schema identifier")
	}
	return &PostgresStore{pool: pool, schema: schema}, nil
}

func (s *PostgresStore) table() string {
	return fmt.Sprintf("%q.%q", s.schema, "sessions")
}

// Create creates a new session row and returns its ID.
func (s *PostgresStore) Create(ctx context.Context, now time.Time, userID string, expiresAt time.Time) (string, error) {
	if s == nil || s.pool == nil {
		return "", fmt.Errorf("session: nil store")
	}
	if strings.TrimSpace(userID) == "" {
		return "", fmt.Errorf("session: missing user_id")
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	id, err := ids.NewULID(now)
	if err != nil {
		return "", err
	}

	// last_used_at is set at creation time to reflect immediate usage (login).
	_, err = s.pool.Exec(ctx,
		`INSERT INTO `+s.table()+` (id, user_id, created_at, last_used_at, expires_at)
		 VALUES ($1, $2, $3, $3, $4)`,
		id, userID, now, expiresAt,
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

// GetByID loads a session row by ID.
func (s *PostgresStore) GetByID(ctx context.Context, sessionID string) (Row, error) {
	if s == nil || s.pool == nil {
		return Row{}, fmt.Errorf("session: nil store")
	}

	var out Row
	err := s.pool.QueryRow(ctx,
		`SELECT id, user_id, created_at, last_used_at, expires_at, revoked_at
		   FROM `+s.table()+`
		  WHERE id = $1`,
		sessionID,
	).Scan(
		&out.ID,
		&out.UserID,
		&out.CreatedAt,
		&out.LastUsedAt,
		&out.ExpiresAt,
		&out.RevokedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Row{}, ErrSessionNotFound
		}
		return Row{}, err
	}
	return out, nil
}

// Touch updates last_used_at for a session.
func (s *PostgresStore) Touch(ctx context.Context, now time.Time, sessionID string) error {
	if s == nil || s.pool == nil {
		return fmt.Errorf("session: nil store")
	}

	_, err := s.pool.Exec(ctx,
		`UPDATE `+s.table()+` SET last_used_at = $1 WHERE id = $2`,
		now, sessionID,
	)
	return err
}

// Revoke revokes a single session (idempotent).
func (s *PostgresStore) Revoke(ctx context.Context, now time.Time, sessionID string) error {
	if s == nil || s.pool == nil {
		return fmt.Errorf("session: nil store")
	}

	_, err := s.pool.Exec(ctx,
		`UPDATE `+s.table()+`
		    SET revoked_at = $1
		  WHERE id = $2
		    AND revoked_at IS NULL`,
		now, sessionID,
	)
	return err
}

// RevokeAll revokes all sessions for a user (idempotent).
func (s *PostgresStore) RevokeAll(ctx context.Context, now time.Time, userID string) error {
	if s == nil || s.pool == nil {
		return fmt.Errorf("session: nil store")
	}

	_, err := s.pool.Exec(ctx,
		`UPDATE `+s.table()+`
		    SET revoked_at = $1
		  WHERE user_id = $2
		    AND revoked_at IS NULL`,
		now, userID,
	)
	return err
}
