package providers

import (
	"fmt"
	"net/http"

	"github.com/nexlink-labs/nexlink-core/internal/core/domain"
)

// ClassifyTokenError maps a provider token-endpoint failure onto the domain
// taxonomy. Only a rejected grant demands user interaction; everything else
// is retryable. A timeout must never be classified as revocation.
func ClassifyTokenError(statusCode int, oauthError, description string) error {
	switch oauthError {
	case "invalid_grant":
		return fmt.Errorf("%w: %s", domain.ErrReauthorizationRequired, description)
	case "invalid_client", "unauthorized_client":
		return fmt.Errorf("%w: %s %s", domain.ErrCredentialsInvalid, oauthError, description)
	}

	if statusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: status %d", domain.ErrReauthorizationRequired, statusCode)
	}

	return fmt.Errorf("%w: status %d %s %s", domain.ErrTransientProvider, statusCode, oauthError, description)
}
