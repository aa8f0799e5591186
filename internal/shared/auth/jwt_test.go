package auth

import (
	"testing"
	"time"
)

func TestSignAndVerifyJWT(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := SignJWT(Claims{Sub: "user-1", Email: "a@example.com", Name: "A"})
	if err != nil {
		t.Fatalf("SignJWT: %v", err)
	}

	claims, err := VerifyJWT(token)
	if err != nil {
		t.Fatalf("VerifyJWT: %v", err)
	}
	if claims.Sub != "user-1" {
		t.Errorf("sub = %q, want user-1", claims.Sub)
	}
	if claims.Email != "a@example.com" {
		t.Errorf("email = %q", claims.Email)
	}
	if claims.Iss != issuer {
		t.Errorf("iss = %q, want %q", claims.Iss, issuer)
	}
	if claims.Exp <= claims.Iat {
		t.Errorf("exp %d not after iat %d", claims.Exp, claims.Iat)
	}
}

func TestVerifyJWTRejectsExpired(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := SignJWT(Claims{
		Sub: "user-1",
		Iat: time.Now().UTC().Add(-2 * time.Hour).Unix(),
		Exp: time.Now().UTC().Add(-time.Hour).Unix(),
	})
	if err != nil {
		t.Fatalf("SignJWT: %v", err)
	}
	if _, err := VerifyJWT(token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestVerifyJWTRejectsTampering(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := SignJWT(Claims{Sub: "user-1"})
	if err != nil {
		t.Fatalf("SignJWT: %v", err)
	}
	if _, err := VerifyJWT(token + "x"); err == nil {
		t.Fatal("expected tampered token to be rejected")
	}
	if _, err := VerifyJWT("not-a-token"); err == nil {
		t.Fatal("expected malformed token to be rejected")
	}
}
