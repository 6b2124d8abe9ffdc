package driving

import (
	"context"

	"github.com/nexlink-labs/nexlink-core/internal/core/domain"
)

// CredentialService manages per-organization OAuth application credentials.
// All mutations are admin-only: a non-admin caller gets domain.ErrForbidden
// before any store access.
type CredentialService interface {
	// SaveAppCredentials stores or replaces the organization's app
	// credentials for a provider. Creates the platform row lazily.
	SaveAppCredentials(ctx context.Context, auth *domain.AuthContext, req SaveCredentialsRequest) (*domain.AppCredentialsSummary, error)

	// GetAppCredentials returns a secret-free summary of the stored
	// credentials. Returns domain.ErrCredentialsNotFound when none exist.
	GetAppCredentials(ctx context.Context, auth *domain.AuthContext, providerType domain.ProviderType) (*domain.AppCredentialsSummary, error)

	// ListAppCredentials returns summaries for every configured provider
	ListAppCredentials(ctx context.Context, auth *domain.AuthContext) ([]*domain.AppCredentialsSummary, error)
}

// SaveCredentialsRequest carries the app credentials an admin registers.
// @Description OAuth application credentials for a provider
type SaveCredentialsRequest struct {
	// ProviderType selects the provider (google_ads, linkedin, linkedin_page)
	ProviderType domain.ProviderType `json:"provider_type" example:"google_ads"`

	// ClientID is the OAuth client identifier
	ClientID string `json:"client_id" example:"1234.apps.googleusercontent.com"`

	// ClientSecret is the OAuth client secret
	ClientSecret string `json:"client_secret" example:"GOCSPX-abc123"`

	// DeveloperToken is required for Google Ads API access
	DeveloperToken string `json:"developer_token,omitempty" example:"dGVzdA"`

	// ManagerAccountID is the Google Ads manager (MCC) account
	ManagerAccountID string `json:"manager_account_id,omitempty" example:"123-456-7890"`
}
