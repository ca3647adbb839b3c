package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/custodia-labs/dwg-dashboard/internal/core/domain"
)

func TestNewAdapter(t *testing.T) {
	adapter := NewAdapter("test-secret")
	if adapter == nil {
		t.Fatal("expected non-nil adapter")
	}
	if string(adapter.jwtSecret) != "test-secret" {
		t.Error("expected jwt secret to be set")
	}
}

func TestGenerateToken_RoundTrip(t *testing.T) {
	adapter := NewAdapter("secret")
	now := time.Now().Unix()

	token, err := adapter.GenerateToken(&domain.TokenClaims{
		Subject:   "dashboard-ui",
		IssuedAt:  now,
		ExpiresAt: now + 3600,
	})
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	claims, err := adapter.ParseToken(token)
	if err != nil {
		t.Fatalf("failed to parse token: %v", err)
	}
	if claims.Subject != "dashboard-ui" {
		t.Errorf("expected subject dashboard-ui, got %s", claims.Subject)
	}
	if claims.IssuedAt != now {
		t.Errorf("expected iat %d, got %d", now, claims.IssuedAt)
	}
	if claims.ExpiresAt != now+3600 {
		t.Errorf("expected exp %d, got %d", now+3600, claims.ExpiresAt)
	}
}

func TestGenerateToken_NoExpiry(t *testing.T) {
	adapter := NewAdapter("secret")

	token, err := adapter.GenerateToken(&domain.TokenClaims{Subject: "ci", IssuedAt: time.Now().Unix()})
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	claims, err := adapter.ParseToken(token)
	if err != nil {
		t.Fatalf("failed to parse token: %v", err)
	}
	if claims.ExpiresAt != 0 {
		t.Errorf("expected no expiry, got %d", claims.ExpiresAt)
	}
}

func TestGenerateToken_NoSecret(t *testing.T) {
	adapter := NewAdapter("")
	if _, err := adapter.GenerateToken(&domain.TokenClaims{Subject: "x"}); err == nil {
		t.Error("expected error without secret")
	}
}

func TestParseToken_ExpiredStillParses(t *testing.T) {
	adapter := NewAdapter("secret")
	past := time.Now().Add(-2 * time.Hour).Unix()

	token, err := adapter.GenerateToken(&domain.TokenClaims{
		Subject:   "ui",
		IssuedAt:  past,
		ExpiresAt: past + 60,
	})
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	claims, err := adapter.ParseToken(token)
	if err != nil {
		t.Fatalf("expected expired token to parse, got %v", err)
	}
	if !claims.IsExpired(time.Now()) {
		t.Error("expected claims to report expiry")
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := NewAdapter("secret1").GenerateToken(&domain.TokenClaims{Subject: "ui"})
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	if _, err := NewAdapter("secret2").ParseToken(token); err == nil {
		t.Error("expected error for wrong secret")
	}
}

func TestParseToken_Invalid(t *testing.T) {
	adapter := NewAdapter("secret")

	tests := []string{
		"",
		"not-a-jwt",
		"a.b.c",
	}
	for _, token := range tests {
		if _, err := adapter.ParseToken(token); err == nil {
			t.Errorf("expected error for %q", token)
		}
	}
}

func TestParseToken_WrongIssuer(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:  "someone-else",
		Subject: "ui",
	})
	signed, err := token.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("failed to sign: %v", err)
	}

	if _, err := NewAdapter("secret").ParseToken(signed); err == nil {
		t.Error("expected error for foreign issuer")
	}
}

func TestParseToken_RejectsNoneAlgorithm(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Issuer:  Issuer,
		Subject: "ui",
	})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("failed to sign: %v", err)
	}

	if _, err := NewAdapter("secret").ParseToken(signed); err == nil {
		t.Error("expected error for unsigned token")
	}
}
