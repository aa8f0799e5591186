package users

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new user. Duplicate username or email maps to ErrConflict
// via the unique indexes.
func (r *PGRepo) Create(ctx context.Context, user User) error {
	const query = `
INSERT INTO users (id, username, email, password_hash, full_name, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.DB.ExecContext(
		ctx,
		query,
		user.ID,
		user.Username,
		user.Email,
		nullableString(user.PasswordHash),
		nullableString(user.FullName),
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrConflict
		}
		return err
	}
	return nil
}

// GetByID fetches a user by ID.
func (r *PGRepo) GetByID(ctx context.Context, userID string) (User, error) {
	const query = `
SELECT id, username, email, password_hash, full_name, created_at, updated_at
FROM users
WHERE id = $1
LIMIT 1`
	return scanUser(r.DB.QueryRowContext(ctx, query, userID))
}

// GetByEmail fetches a user by email.
func (r *PGRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	const query = `
SELECT id, username, email, password_hash, full_name, created_at, updated_at
FROM users
WHERE email = $1
LIMIT 1`
	return scanUser(r.DB.QueryRowContext(ctx, query, email))
}

// UpsertByEmail inserts the user or refreshes the profile of the account
// already registered under that email. The existing id and password hash are
// kept so an OAuth sign-in never displaces a password account.
func (r *PGRepo) UpsertByEmail(ctx context.Context, user User) (User, error) {
	const query = `
INSERT INTO users (id, username, email, password_hash, full_name, created_at, updated_at)
VALUES ($1, $2, $3, NULL, $4, now(), now())
ON CONFLICT (email) DO UPDATE SET
  full_name = COALESCE(EXCLUDED.full_name, users.full_name),
  updated_at = now()
RETURNING id, username, email, password_hash, full_name, created_at, updated_at`

	return scanUser(r.DB.QueryRowContext(
		ctx,
		query,
		user.ID,
		user.Username,
		user.Email,
		nullableString(user.FullName),
	))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (User, error) {
	var user User
	var passwordHash sql.NullString
	var fullName sql.NullString
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&passwordHash,
		&fullName,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	if passwordHash.Valid {
		user.PasswordHash = passwordHash.String
	}
	if fullName.Valid {
		user.FullName = fullName.String
	}
	return user, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

var _ Repo = (*PGRepo)(nil)
