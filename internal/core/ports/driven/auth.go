package driven

import "github.com/nexlink-labs/nexlink-core/internal/core/domain"

// AuthAdapter handles token generation and validation for caller identity.
// Authentication itself happens upstream; the core trusts the parsed claims.
type AuthAdapter interface {
	// GenerateToken creates a signed token from domain claims
	GenerateToken(claims *domain.TokenClaims) (string, error)

	// ParseToken validates a token and extracts domain claims
	ParseToken(token string) (*domain.TokenClaims, error)
}
