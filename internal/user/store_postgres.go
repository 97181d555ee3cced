package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gatekeeper/internal/domain"
	"gatekeeper/pkg/sentinel"
)

// Postgres implements Store on top of database/sql. Credentials live in their
// own table; list order is enrollment order (created_at, hash).
type Postgres struct {
	db *sql.DB
}

// NewPostgres creates a Postgres-backed user store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) FindByID(ctx context.Context, userID string) (domain.User, error) {
	return s.findOne(ctx, `SELECT user_id, email, password_hash, created_at, updated_at FROM users WHERE user_id = $1`, userID)
}

func (s *Postgres) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	return s.findOne(ctx, `SELECT user_id, email, password_hash, created_at, updated_at FROM users WHERE email = $1`, email)
}

func (s *Postgres) findOne(ctx context.Context, query, arg string) (domain.User, error) {
	var (
		u     domain.User
		email sql.NullString
		pwd   sql.NullString
	)
	err := s.db.QueryRowContext(ctx, query, arg).Scan(&u.UserID, &email, &pwd, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, fmt.Errorf("user %q: %w", arg, sentinel.ErrNotFound)
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("query user: %w", err)
	}
	u.Email = email.String
	u.PasswordHash = pwd.String

	if u.Credentials, err = s.listCredentials(ctx, u.UserID); err != nil {
		return domain.User{}, err
	}
	return u, nil
}

func (s *Postgres) listCredentials(ctx context.Context, userID string) ([]domain.Credential, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT hash, label, status, created_at
		FROM credentials
		WHERE user_id = $1
		ORDER BY created_at, hash
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query credentials: %w", err)
	}
	defer rows.Close()

	var creds []domain.Credential
	for rows.Next() {
		var c domain.Credential
		if err := rows.Scan(&c.Hash, &c.Label, &c.Status, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan credential: %w", err)
		}
		creds = append(creds, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate credentials: %w", err)
	}
	return creds, nil
}

func (s *Postgres) Save(ctx context.Context, u domain.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (user_id, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE
		SET email = EXCLUDED.email,
		    password_hash = EXCLUDED.password_hash,
		    updated_at = EXCLUDED.updated_at
	`, u.UserID, nullable(u.Email), nullable(u.PasswordHash), u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

func (s *Postgres) AppendCredential(ctx context.Context, userID string, cred domain.Credential) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO credentials (user_id, hash, label, status, created_at)
		SELECT $1, $2, $3, $4, $5
		WHERE EXISTS (SELECT 1 FROM users WHERE user_id = $1)
		ON CONFLICT (user_id, hash) DO NOTHING
	`, userID, cred.Hash, cred.Label, cred.Status, cred.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert credential: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert credential: %w", err)
	}
	if affected == 0 {
		// Either the user is absent or the (user_id, hash) pair exists.
		if _, err := s.FindByID(ctx, userID); err != nil {
			return err
		}
		return fmt.Errorf("credential %s for user %q: %w", cred.Hash, userID, sentinel.ErrConflict)
	}
	return nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
