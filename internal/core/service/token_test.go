package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/minilinkedin/social-network/internal/core/domain"
)

var issuedAt = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func issuerAt(now *time.Time) *TokenIssuer {
	return NewTokenIssuer("secret", DefaultTokenTTL).WithClock(func() time.Time { return *now })
}

func TestTokenIssuer_ValidWithinWindow(t *testing.T) {
	now := issuedAt
	issuer := issuerAt(&now)

	token, err := issuer.Issue("u1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	now = issuedAt.Add(23*time.Hour + 59*time.Minute)
	userID, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("expected token to be valid at T+23h59m, got %v", err)
	}
	if userID != "u1" {
		t.Fatalf("expected u1, got %q", userID)
	}
}

func TestTokenIssuer_ExpiredAfterWindow(t *testing.T) {
	now := issuedAt
	issuer := issuerAt(&now)

	token, err := issuer.Issue("u1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	now = issuedAt.Add(24*time.Hour + time.Minute)
	if _, err := issuer.Verify(token); !errors.Is(err, domain.ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken at T+24h01m, got %v", err)
	}
}

func TestTokenIssuer_Tampered(t *testing.T) {
	now := issuedAt
	issuer := issuerAt(&now)

	token, err := issuer.Issue("u1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	parts := strings.Split(token, ".")
	forged, err := NewTokenIssuer("other-secret", DefaultTokenTTL).WithClock(func() time.Time { return now }).Issue("u2")
	if err != nil {
		t.Fatalf("issue forged: %v", err)
	}
	// u2's payload under u1's signature.
	swapped := parts[0] + "." + strings.Split(forged, ".")[1] + "." + parts[2]

	for name, tok := range map[string]string{
		"garbage":      "not-a-token",
		"wrong secret": forged,
		"swapped body": swapped,
	} {
		if _, err := issuer.Verify(tok); !errors.Is(err, domain.ErrInvalidToken) {
			t.Fatalf("%s: expected ErrInvalidToken, got %v", name, err)
		}
	}
}

func TestTokenIssuer_ExpiredForgeryIsInvalidNotExpired(t *testing.T) {
	now := issuedAt
	forged, err := NewTokenIssuer("other-secret", DefaultTokenTTL).WithClock(func() time.Time { return now }).Issue("u1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	now = issuedAt.Add(48 * time.Hour)
	if _, err := issuerAt(&now).Verify(forged); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenIssuer_Missing(t *testing.T) {
	if _, err := NewTokenIssuer("secret", 0).Verify(""); !errors.Is(err, domain.ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
}

func TestTokenIssuer_RejectsOtherAlgorithms(t *testing.T) {
	claims := jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := NewTokenIssuer("secret", 0).Verify(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenIssuer_RequiresSubjectAndExpiry(t *testing.T) {
	noSubject, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("secret"))
	noExpiry, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "u1",
	}).SignedString([]byte("secret"))

	issuer := NewTokenIssuer("secret", 0)
	if _, err := issuer.Verify(noSubject); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("no subject: expected ErrInvalidToken, got %v", err)
	}
	if _, err := issuer.Verify(noExpiry); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("no expiry: expected ErrInvalidToken, got %v", err)
	}
}
