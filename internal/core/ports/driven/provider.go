package driven

import (
	"context"

	"github.com/nexlink-labs/nexlink-core/internal/core/domain"
)

// ProviderAdapter provides OAuth operations for a specific advertising
// platform. Each provider (Google Ads, LinkedIn, LinkedIn Page) has its own
// implementation; dispatch is by provider-name tag, never inheritance.
type ProviderAdapter interface {
	// ProviderType identifies the provider this adapter serves
	ProviderType() domain.ProviderType

	// BuildAuthURL constructs the authorization URL for the given app
	// credentials, callback URI, CSRF state, and scopes. Providers that
	// support it always request offline access and a forced consent prompt -
	// a refresh token is only issued on the first or re-consented grant.
	BuildAuthURL(app *domain.AppCredentials, redirectURI, state string, scopes []string) string

	// ExchangeCode exchanges an authorization code for a normalized TokenSet.
	// ExpiresAt is computed at call time from the provider's expires_in.
	// Returns domain.ErrConsentRequired when the provider omitted a refresh
	// token for a flow that requested offline access.
	ExchangeCode(ctx context.Context, app *domain.AppCredentials, code, redirectURI string) (*domain.TokenSet, error)

	// Refresh exchanges a refresh token for a fresh TokenSet.
	// A revoked or invalid grant maps to domain.ErrReauthorizationRequired;
	// network, timeout, and rate-limit failures map to
	// domain.ErrTransientProvider and are safe to retry.
	Refresh(ctx context.Context, app *domain.AppCredentials, refreshToken string) (*domain.TokenSet, error)

	// FetchProfile fetches the minimal identity behind an access token
	FetchProfile(ctx context.Context, accessToken string) (*domain.ProviderProfile, error)

	// DefaultScopes returns the scopes requested when none are configured
	DefaultScopes() []string

	// RotatesRefreshToken declares the provider's refresh-response contract:
	// true means a refresh response carries a replacement refresh token and a
	// missing one is suspicious; false means a missing refresh_token simply
	// means "unchanged - keep the old one".
	RotatesRefreshToken() bool
}

// AccountSyncer fetches a managed-account snapshot plus its dependent
// resources from the provider. Implemented by adapters whose grant is bound
// to a parent account (Google Ads manager account, LinkedIn page).
type AccountSyncer interface {
	// SyncManagedAccount fetches current metadata for the account identified
	// by externalID. Per-item failures in dependent listings are logged and
	// skipped - partial results beat total failure for enrichment reads.
	SyncManagedAccount(ctx context.Context, app *domain.AppCredentials, accessToken, externalID string) (*domain.ManagedAccountInfo, error)
}

// AccountLister lists the candidate accounts a grant can manage, for flows
// where the user must pick one (LinkedIn organization pages).
type AccountLister interface {
	ListManagedAccounts(ctx context.Context, accessToken string) ([]domain.SelectionCandidate, error)
}

// ProviderRegistry resolves the adapter registered for a provider type.
type ProviderRegistry interface {
	// Get returns the adapter for a provider type, or nil if unregistered
	Get(providerType domain.ProviderType) ProviderAdapter
}
