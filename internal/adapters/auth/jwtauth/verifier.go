package jwtauth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"vet-patient-flow/internal/ports/auth"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNotConfigured = errors.New("jwt verifier not configured")
	ErrTokenEmpty    = errors.New("token is empty")
	ErrInvalidToken  = errors.New("invalid token")
)

// claims extiende los claims registrados de JWT con los campos propios.
type claims struct {
	jwt.RegisteredClaims
	Email    string `json:"email,omitempty"`
	ClinicID string `json:"clinic_id,omitempty"`
	Role     string `json:"role,omitempty"`
}

// Verifier implementa auth.AuthVerifier validando JWT firmados con HMAC.
// En dev el secreto viene de JWT_SECRET; en prod debería venir del IdP.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(strings.TrimSpace(secret))}
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if v == nil || len(v.secret) == 0 {
		return auth.Claims{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	parsed, err := jwt.ParseWithClaims(token, &claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return auth.Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	c, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid {
		return auth.Claims{}, ErrInvalidToken
	}

	userID := strings.TrimSpace(c.Subject)
	if userID == "" {
		return auth.Claims{}, errors.New("token claims missing subject")
	}

	return auth.Claims{
		UserID:   userID,
		Email:    c.Email,
		ClinicID: strings.TrimSpace(c.ClinicID),
		Role:     strings.TrimSpace(c.Role),
	}, nil
}
