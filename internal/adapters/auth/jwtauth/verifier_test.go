package jwtauth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signToken(t *testing.T, secret string, c claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("no se pudo firmar el token: %v", err)
	}
	return signed
}

func TestVerifier_RoundTrip(t *testing.T) {
	v := NewVerifier("test-secret")

	token := signToken(t, "test-secret", claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Email:    "vet@example.com",
		ClinicID: "clinic-1",
		Role:     "vet",
	})

	got, err := v.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if got.UserID != "user-1" || got.ClinicID != "clinic-1" || got.Role != "vet" {
		t.Fatalf("unexpected claims: %#v", got)
	}
}

func TestVerifier_RejectsWrongSecret(t *testing.T) {
	v := NewVerifier("right-secret")

	token := signToken(t, "wrong-secret", claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"},
	})

	if _, err := v.Verify(context.Background(), token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifier_RejectsExpired(t *testing.T) {
	v := NewVerifier("test-secret")

	token := signToken(t, "test-secret", claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})

	if _, err := v.Verify(context.Background(), token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestVerifier_EdgeCases(t *testing.T) {
	if _, err := NewVerifier("").Verify(context.Background(), "whatever"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if _, err := NewVerifier("s").Verify(context.Background(), "  "); !errors.Is(err, ErrTokenEmpty) {
		t.Fatalf("expected ErrTokenEmpty, got %v", err)
	}

	// Token sin subject: firma válida pero claims insuficientes.
	v := NewVerifier("test-secret")
	token := signToken(t, "test-secret", claims{Role: "vet"})
	if _, err := v.Verify(context.Background(), token); err == nil {
		t.Fatalf("expected error for token without subject")
	}
}
