package users

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"fileuploader-backend/internal/shared/auth"
)

const (
	bcryptCost        = 10
	minPasswordLength = 6
	maxFieldLength    = 255
)

// Service contains account business logic.
type Service struct {
	Repo Repo
}

// NewService constructs a Service.
func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// RegisterInput carries the fields accepted at registration.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	FullName string
}

// Register creates a password account and returns it with a signed token.
func (s *Service) Register(ctx context.Context, in RegisterInput) (User, string, error) {
	username := strings.TrimSpace(in.Username)
	email := normalizeEmail(in.Email)
	if username == "" || len(username) > maxFieldLength {
		return User{}, "", fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	if !validEmail(email) {
		return User{}, "", fmt.Errorf("%w: email is invalid", ErrInvalidInput)
	}
	if len(in.Password) < minPasswordLength {
		return User{}, "", fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return User{}, "", fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(in.FullName),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		return User{}, "", err
	}

	token, err := s.token(user)
	if err != nil {
		return User{}, "", err
	}
	return user, token, nil
}

// Login verifies the password and returns the user with a signed token.
func (s *Service) Login(ctx context.Context, email, password string) (User, string, error) {
	user, err := s.Repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if err == ErrNotFound {
			return User{}, "", ErrInvalidCredentials
		}
		return User{}, "", err
	}
	// OAuth-only accounts have no password to check against.
	if user.PasswordHash == "" {
		return User{}, "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return User{}, "", ErrInvalidCredentials
	}

	token, err := s.token(user)
	if err != nil {
		return User{}, "", err
	}
	return user, token, nil
}

// GetByID returns a user by ID.
func (s *Service) GetByID(ctx context.Context, userID string) (User, error) {
	if strings.TrimSpace(userID) == "" {
		return User{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, userID)
}

// UpsertFromOAuth persists an OAuth identity and returns the account with a
// signed token. An existing password account with the same email is reused,
// never overwritten.
func (s *Service) UpsertFromOAuth(ctx context.Context, email, fullName string) (User, string, error) {
	email = normalizeEmail(email)
	if !validEmail(email) {
		return User{}, "", fmt.Errorf("%w: email is invalid", ErrInvalidInput)
	}

	user, err := s.Repo.UpsertByEmail(ctx, User{
		ID:       uuid.NewString(),
		Username: email,
		Email:    email,
		FullName: strings.TrimSpace(fullName),
	})
	if err != nil {
		return User{}, "", err
	}

	token, err := s.token(user)
	if err != nil {
		return User{}, "", err
	}
	return user, token, nil
}

func (s *Service) token(user User) (string, error) {
	name := user.FullName
	if name == "" {
		name = user.Username
	}
	return auth.SignJWT(auth.Claims{
		Sub:   user.ID,
		Email: user.Email,
		Name:  name,
	})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	if email == "" || len(email) > maxFieldLength {
		return false
	}
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1
}
