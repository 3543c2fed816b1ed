package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	id := uuid.New()

	token, err := m.Issue(id)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	got, err := m.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if got != id {
		t.Fatalf("expected %s, got %s", id, got)
	}
}

func TestTokenDefaultsToOneDay(t *testing.T) {
	m := NewTokenManager("secret", 0)
	issued := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return issued }

	token, err := m.Issue(uuid.New())
	if err != nil {
		t.Fatal(err)
	}
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		t.Fatal(err)
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != 24*time.Hour {
		t.Fatalf("expected 24h lifetime, got %s", got)
	}
	if claims.ID == "" {
		t.Fatal("expected a jti claim")
	}
}

func TestTokenRejected(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	valid, _ := m.Issue(uuid.New())

	expired := NewTokenManager("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, _ := expired.Issue(uuid.New())

	other, _ := NewTokenManager("other-secret", time.Hour).Issue(uuid.New())

	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		UserID:           uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	noID, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte("secret"))

	tests := map[string]string{
		"expired":        old,
		"wrong secret":   other,
		"alg none":       none,
		"empty id claim": noID,
		"garbage":        "not.a.token",
		"truncated":      valid[:len(valid)-4],
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := m.Verify(token); err == nil {
				t.Fatal("expected verification to fail")
			}
		})
	}
}

func TestIssueWithoutSecret(t *testing.T) {
	if _, err := NewTokenManager("", time.Hour).Issue(uuid.New()); err == nil {
		t.Fatal("expected an error without a secret")
	}
}
