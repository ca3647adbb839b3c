package driving

import (
	"context"

	"github.com/custodia-labs/dwg-dashboard/internal/core/domain"
)

// AuthService validates API bearer tokens
type AuthService interface {
	// ValidateToken validates a token and returns the auth context
	ValidateToken(ctx context.Context, token string) (*domain.AuthContext, error)

	// IssueToken creates a token for subject valid for ttlSeconds
	IssueToken(ctx context.Context, subject string, ttlSeconds int64) (string, error)
}
