package services

import (
	"context"
	"time"

	"github.com/custodia-labs/dwg-dashboard/internal/core/domain"
	"github.com/custodia-labs/dwg-dashboard/internal/core/ports/driven"
	"github.com/custodia-labs/dwg-dashboard/internal/core/ports/driving"
)

// Ensure authService implements AuthService
var _ driving.AuthService = (*authService)(nil)

// authService implements the AuthService interface
type authService struct {
	authAdapter driven.AuthAdapter
	now         func() time.Time
}

// NewAuthService creates a new AuthService
func NewAuthService(authAdapter driven.AuthAdapter) driving.AuthService {
	return &authService{
		authAdapter: authAdapter,
		now:         time.Now,
	}
}

// ValidateToken validates a bearer token and returns the auth context
func (s *authService) ValidateToken(ctx context.Context, token string) (*domain.AuthContext, error) {
	if token == "" {
		return nil, domain.ErrTokenInvalid
	}

	claims, err := s.authAdapter.ParseToken(token)
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}

	if claims.IsExpired(s.now()) {
		return nil, domain.ErrTokenExpired
	}

	if claims.Subject == "" {
		return nil, domain.ErrTokenInvalid
	}

	authCtx := &domain.AuthContext{Subject: claims.Subject}
	if claims.ExpiresAt != 0 {
		authCtx.ExpiresAt = time.Unix(claims.ExpiresAt, 0).UTC()
	}
	return authCtx, nil
}

// IssueToken creates a token for subject valid for ttlSeconds.
// A non-positive ttl issues a token that never expires.
func (s *authService) IssueToken(ctx context.Context, subject string, ttlSeconds int64) (string, error) {
	if subject == "" {
		return "", domain.ErrInvalidInput
	}

	now := s.now()
	claims := &domain.TokenClaims{
		Subject:  subject,
		IssuedAt: now.Unix(),
	}
	if ttlSeconds > 0 {
		claims.ExpiresAt = now.Add(time.Duration(ttlSeconds) * time.Second).Unix()
	}

	return s.authAdapter.GenerateToken(claims)
}
