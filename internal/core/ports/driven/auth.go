package driven

import "github.com/custodia-labs/dwg-dashboard/internal/core/domain"

// AuthAdapter handles API token operations
type AuthAdapter interface {
	GenerateToken(claims *domain.TokenClaims) (string, error)
	ParseToken(token string) (*domain.TokenClaims, error)
}
