package users

import (
	"context"
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestRegisterHashesPasswordAndSignsToken(t *testing.T) {
	svc := NewService(NewMemoryRepo())

	user, token, err := svc.Register(context.Background(), RegisterInput{
		Username: "alex",
		Email:    "Alex@Example.com",
		Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Email != "alex@example.com" {
		t.Fatalf("email not normalized: %q", user.Email)
	}
	if user.PasswordHash == "correct horse" || user.PasswordHash == "" {
		t.Fatal("password stored without hashing")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("correct horse")); err != nil {
		t.Fatalf("hash does not verify: %v", err)
	}
	if strings.Count(token, ".") != 2 {
		t.Fatalf("token is not a JWT: %q", token)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()

	cases := []RegisterInput{
		{Username: "", Email: "a@b.com", Password: "longenough"},
		{Username: "alex", Email: "not-an-email", Password: "longenough"},
		{Username: "alex", Email: "a@b.com", Password: "short"},
	}
	for _, in := range cases {
		if _, _, err := svc.Register(ctx, in); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Register(%+v): got %v, want ErrInvalidInput", in, err)
		}
	}
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, RegisterInput{Username: "alex", Email: "a@b.com", Password: "longenough"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, _, err := svc.Register(ctx, RegisterInput{Username: "other", Email: "A@B.com", Password: "longenough"}); !errors.Is(err, ErrConflict) {
		t.Fatalf("duplicate register: got %v, want ErrConflict", err)
	}
}

func TestLogin(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, RegisterInput{Username: "alex", Email: "a@b.com", Password: "longenough"}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, token, err := svc.Login(ctx, "a@b.com", "longenough"); err != nil || token == "" {
		t.Fatalf("Login: token=%q err=%v", token, err)
	}
	if _, _, err := svc.Login(ctx, "a@b.com", "wrong password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: got %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := svc.Login(ctx, "nobody@b.com", "longenough"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email: got %v, want ErrInvalidCredentials", err)
	}
}

func TestUpsertFromOAuthReusesPasswordAccount(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()

	registered, _, err := svc.Register(ctx, RegisterInput{Username: "alex", Email: "a@b.com", Password: "longenough"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	fromOAuth, token, err := svc.UpsertFromOAuth(ctx, "a@b.com", "Alex Example")
	if err != nil {
		t.Fatalf("UpsertFromOAuth: %v", err)
	}
	if fromOAuth.ID != registered.ID {
		t.Fatalf("OAuth sign-in created a second account: %q vs %q", fromOAuth.ID, registered.ID)
	}
	if fromOAuth.FullName != "Alex Example" {
		t.Fatalf("FullName = %q", fromOAuth.FullName)
	}
	if token == "" {
		t.Fatal("expected a token")
	}

	// The original password still works after the OAuth sign-in.
	if _, _, err := svc.Login(ctx, "a@b.com", "longenough"); err != nil {
		t.Fatalf("Login after OAuth: %v", err)
	}
}
