package driving

import (
	"context"

	"github.com/nexlink-labs/nexlink-core/internal/core/domain"
)

// ConnectionService orchestrates provider authorization flows and the
// lifecycle of the resulting connections.
type ConnectionService interface {
	// GenerateAuthorizationURL starts an authorization flow. It stores a
	// single-use CSRF state bound to the caller's session and returns the
	// provider URL to redirect the user to.
	GenerateAuthorizationURL(ctx context.Context, auth *domain.AuthContext, providerType domain.ProviderType) (*AuthorizeResponse, error)

	// HandleCallback completes the provider redirect. The CSRF state is
	// consumed and validated before any code exchange. For flows that return
	// multiple candidate accounts the tokens are staged and the response
	// carries the candidates instead of a stored connection.
	HandleCallback(ctx context.Context, auth *domain.AuthContext, req CallbackRequest) (*CallbackResponse, error)

	// CompleteSelection persists a staged flow under the chosen candidate.
	// Single-use: repeating a choice returns domain.ErrNotFound.
	CompleteSelection(ctx context.Context, auth *domain.AuthContext, providerType domain.ProviderType, chosenID string) (*CallbackResponse, error)

	// TestConnection verifies the stored grant end to end: a valid access
	// token is obtained (refreshing if needed) and the provider identity
	// endpoint is called with it.
	TestConnection(ctx context.Context, auth *domain.AuthContext, providerType domain.ProviderType) (*domain.ProviderProfile, error)

	// ConnectAndFetchManagedAccountInfo fetches fresh managed-account
	// metadata from the provider, caches it, and marks the platform
	// connected.
	ConnectAndFetchManagedAccountInfo(ctx context.Context, auth *domain.AuthContext, providerType domain.ProviderType, externalID string) (*domain.ManagedAccountInfo, error)

	// GetManagedAccountInfo returns the cached snapshot without touching
	// the provider. Returns domain.ErrNotFound when nothing is cached.
	GetManagedAccountInfo(ctx context.Context, auth *domain.AuthContext, externalID string) (*domain.ManagedAccountInfo, error)

	// ListConnections returns the connection status of every provider
	ListConnections(ctx context.Context, auth *domain.AuthContext) ([]*ConnectionSummary, error)

	// Disconnect removes the grant and all cached account data in one
	// transaction. Admin-only.
	Disconnect(ctx context.Context, auth *domain.AuthContext, providerType domain.ProviderType, externalID string) error
}

// TokenService exposes valid access tokens to other subsystems.
type TokenService interface {
	// GetValidAccessToken returns an access token that is valid at call
	// time, refreshing transparently when expired.
	GetValidAccessToken(ctx context.Context, orgID string, providerType domain.ProviderType, principal domain.Principal) (string, error)
}

// AuthorizeResponse contains the authorization URL for a started flow.
// @Description Response containing the OAuth authorization URL
type AuthorizeResponse struct {
	// AuthorizationURL is the URL to redirect the user to for authorization
	AuthorizationURL string `json:"authorization_url" example:"https://accounts.google.com/o/oauth2/v2/auth?client_id=..."`

	// ExpiresAt is when the pending flow expires
	ExpiresAt string `json:"expires_at" example:"2026-01-15T10:10:00Z"`
}

// CallbackRequest represents the OAuth callback from the provider.
// @Description OAuth callback parameters from provider redirect
type CallbackRequest struct {
	// ProviderType identifies which provider redirected back
	ProviderType domain.ProviderType `json:"provider_type" example:"linkedin_page"`

	// Code is the authorization code from the provider
	Code string `json:"code" example:"abc123"`

	// State is the CSRF token returned by the provider
	State string `json:"state" example:"abc123xyz"`

	// Error is set if the provider returned an error
	Error string `json:"error,omitempty" example:"access_denied"`

	// ErrorDescription provides details about the error
	ErrorDescription string `json:"error_description,omitempty" example:"The user denied access"`
}

// CallbackResponse contains the result of an OAuth callback.
// @Description Response after an authorization callback
type CallbackResponse struct {
	// Connected reports whether a grant was stored
	Connected bool `json:"connected"`

	// SelectionPending is true when the caller must choose a candidate
	// before the grant is stored
	SelectionPending bool `json:"selection_pending,omitempty"`

	// Candidates lists the accounts available for selection
	Candidates []domain.SelectionCandidate `json:"candidates,omitempty"`

	// Profile is the provider identity behind the new grant
	Profile *domain.ProviderProfile `json:"profile,omitempty"`

	// Message provides a human-readable status
	Message string `json:"message" example:"Successfully connected Google Ads"`
}

// ConnectionSummary is the connection status of one provider.
// @Description Connection status for a provider
type ConnectionSummary struct {
	ProviderType domain.ProviderType `json:"provider_type" example:"google_ads"`
	DisplayName  string              `json:"display_name" example:"Google Ads"`

	// Configured reports whether app credentials are registered
	Configured bool `json:"configured"`

	// Connected reports whether a runtime grant is stored
	Connected bool `json:"connected"`
}

// AuthRequiredError decorates domain.ErrAuthenticationRequired and
// domain.ErrReauthorizationRequired with a ready authorization URL so the
// caller can send the user straight into the flow.
type AuthRequiredError struct {
	ProviderType     domain.ProviderType `json:"provider_type"`
	AuthorizationURL string              `json:"authorization_url"`
	Err              error               `json:"-"`
}

func (e *AuthRequiredError) Error() string {
	return "authorization required for " + string(e.ProviderType)
}

// Unwrap exposes the underlying sentinel for errors.Is checks.
func (e *AuthRequiredError) Unwrap() error {
	return e.Err
}
