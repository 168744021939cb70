package forum

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

// PostgresStore implements message persistence over PostgreSQL.
//
// The pgx pool is owned by the caller; this store must NOT close it.
type PostgresStore struct {
	pool   *pgxpool.Pool
	schema string
}

var forumIdentRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// NewPostgresStore constructs a PostgresStore using the default "clubhouse" schema.
func NewPostgresStore(pool *pgxpool.Pool) (*PostgresStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("forum: nil pool")
	}
	return &PostgresStore{pool: pool, schema: "clubhouse"}, nil
}

// NewPostgresStoreWithSchema constructs a PostgresStore bound to a specific schema.
func NewPostgresStoreWithSchema(pool *pgxpool.Pool, schema string) (*PostgresStore, error) {
	schema = strings.TrimSpace(schema)
	if !forumIdentRe.MatchString(schema) {
		return nil, fmt.Errorf("forum: invalid schema identifier")
	}
	if pool == nil {
		return nil, fmt.Errorf("forum: nil pool")
	}
	return &PostgresStore{pool: pool, schema: schema}, nil
}

func (s *PostgresStore) ident(name string) string {
	return fmt.Sprintf("%q.%q", s.schema, name)
}

// Create persists a message.
func (s *PostgresStore) Create(ctx context.Context, in CreateMessageInput) (Message, error) {
	if strings.TrimSpace(in.AuthorID) == "" {
		return Message{}, ErrInvalidMessage
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	id, err := ids.NewULID(now)
	if err != nil {
		return Message{}, err
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO `+s.ident("messages")+` (id, author_id, title, text, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $5)`,
		id, in.AuthorID, in.Title, in.Text, now,
	)
	if err != nil {
		return Message{}, err
	}

	return Message{
		ID:        id,
		AuthorID:  in.AuthorID,
		Title:     in.Title,
		Text:      in.Text,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

const messageSelect = `
SELECT m.id, m.author_id, m.title, m.text, m.created_at, m.updated_at,
       COALESCE(u.handle, ''), COALESCE(u.first_name, ''), COALESCE(u.last_name, '')`

// GetByID loads a message with author attribution.
func (s *PostgresStore) GetByID(ctx context.Context, id string) (Message, error) {
	row := s.pool.QueryRow(ctx,
		messageSelect+`
		  FROM `+s.ident("messages")+` m
		  LEFT JOIN `+s.ident("members")+` u ON u.id = m.author_id
		 WHERE m.id = $1`,
		id,
	)

	msg, err := scanMessage(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Message{}, ErrNotFound
		}
		return Message{}, err
	}
	return msg, nil
}

// List returns all messages, newest first, with author attribution.
func (s *PostgresStore) List(ctx context.Context) ([]Message, error) {
	rows, err := s.pool.Query(ctx,
		messageSelect+`
		  FROM `+s.ident("messages")+` m
		  LEFT JOIN `+s.ident("members")+` u ON u.id = m.author_id
		 ORDER BY m.id DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, msg)
	}
	return out, rows.Err()
}

// Delete removes a message.
func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	ct, err := s.pool.Exec(ctx,
		`DELETE FROM `+s.ident("messages")+` WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanMessage(row pgx.Row) (Message, error) {
	var (
		msg   Message
		first string
		last  string
	)
	if err := row.Scan(
		&msg.ID,
		&msg.AuthorID,
		&msg.Title,
		&msg.Text,
		&msg.CreatedAt,
		&msg.UpdatedAt,
		&msg.AuthorHandle,
		&first,
		&last,
	); err != nil {
		return Message{}, err
	}

	msg.AuthorName = strings.TrimSpace(first + " " + last)
	return msg, nil
}
