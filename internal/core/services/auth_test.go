package services

import (
	"context"
	"testing"
	"time"

	"github.com/custodia-labs/dwg-dashboard/internal/core/domain"
	"github.com/custodia-labs/dwg-dashboard/internal/core/ports/driven/mocks"
)

func newTestAuthService() (*mocks.MockAuthAdapter, *authService) {
	authAdapter := mocks.NewMockAuthAdapter()
	svc := NewAuthService(authAdapter).(*authService)
	return authAdapter, svc
}

func TestAuthService_IssueAndValidate(t *testing.T) {
	_, svc := newTestAuthService()

	token, err := svc.IssueToken(context.Background(), "dashboard", 3600)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token == "" {
		t.Fatal("expected token to be generated")
	}

	authCtx, err := svc.ValidateToken(context.Background(), token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if authCtx.Subject != "dashboard" {
		t.Errorf("expected subject dashboard, got %s", authCtx.Subject)
	}
	if authCtx.ExpiresAt.IsZero() {
		t.Error("expected expiry to be set")
	}
}

func TestAuthService_IssueToken_NoExpiry(t *testing.T) {
	_, svc := newTestAuthService()

	token, err := svc.IssueToken(context.Background(), "ci", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	authCtx, err := svc.ValidateToken(context.Background(), token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !authCtx.ExpiresAt.IsZero() {
		t.Errorf("expected no expiry, got %v", authCtx.ExpiresAt)
	}
}

func TestAuthService_IssueToken_EmptySubject(t *testing.T) {
	_, svc := newTestAuthService()

	_, err := svc.IssueToken(context.Background(), "", 60)
	if err != domain.ErrInvalidInput {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAuthService_ValidateToken(t *testing.T) {
	authAdapter, svc := newTestAuthService()
	now := time.Now()

	expired, _ := authAdapter.GenerateToken(&domain.TokenClaims{
		Subject:   "old",
		IssuedAt:  now.Add(-2 * time.Hour).Unix(),
		ExpiresAt: now.Add(-time.Hour).Unix(),
	})
	anonymous, _ := authAdapter.GenerateToken(&domain.TokenClaims{
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(time.Hour).Unix(),
	})

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "empty token", token: "", wantErr: domain.ErrTokenInvalid},
		{name: "garbage", token: "not-a-token!", wantErr: domain.ErrTokenInvalid},
		{name: "expired", token: expired, wantErr: domain.ErrTokenExpired},
		{name: "missing subject", token: anonymous, wantErr: domain.ErrTokenInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateToken(context.Background(), tt.token)
			if err != tt.wantErr {
				t.Errorf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}
