package users

import (
	"context"
	"errors"
)

var (
	// ErrNotFound reports a missing user.
	ErrNotFound = errors.New("user not found")
	// ErrConflict reports a username or email already in use.
	ErrConflict = errors.New("username or email already in use")
	// ErrInvalidInput reports rejected registration fields.
	ErrInvalidInput = errors.New("invalid user input")
	// ErrInvalidCredentials reports a failed login. It deliberately does
	// not distinguish an unknown email from a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Repo defines persistence operations for users.
type Repo interface {
	Create(ctx context.Context, user User) error
	GetByID(ctx context.Context, userID string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	// UpsertByEmail inserts the user or refreshes the profile fields of an
	// existing account with the same email, returning the stored row.
	UpsertByEmail(ctx context.Context, user User) (User, error)
}
