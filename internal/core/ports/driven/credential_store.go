package driven

import (
	"context"

	"github.com/nexlink-labs/nexlink-core/internal/core/domain"
)

// AppCredentialStore persists per-organization OAuth application credentials.
// One row per (organization, provider) - secrets encrypted at rest.
type AppCredentialStore interface {
	// Save stores or updates app credentials (upsert, encrypts secrets)
	Save(ctx context.Context, creds *domain.AppCredentials) error

	// Get retrieves app credentials with decrypted secrets.
	// Returns domain.ErrCredentialsNotFound when the organization has none
	// and domain.ErrCredentialsInvalid when a required field is empty after
	// decode - callers can distinguish "never configured" from "corrupted".
	Get(ctx context.Context, orgID string, providerType domain.ProviderType) (*domain.AppCredentials, error)

	// List retrieves all configured credentials as summaries (no secrets)
	List(ctx context.Context, orgID string) ([]*domain.AppCredentialsSummary, error)
}

// PlatformStore persists provider integration instances per organization
type PlatformStore interface {
	// GetOrCreate returns the platform row for (org, provider), creating it
	// lazily on first use
	GetOrCreate(ctx context.Context, orgID string, providerType domain.ProviderType) (*domain.Platform, error)

	// Get returns the platform row, domain.ErrNotFound if absent
	Get(ctx context.Context, orgID string, providerType domain.ProviderType) (*domain.Platform, error)

	// SetConnected flips the connection-status flag
	SetConnected(ctx context.Context, platformID string, connected bool) error

	// List returns all platforms for an organization
	List(ctx context.Context, orgID string) ([]*domain.Platform, error)
}

// RuntimeCredentialStore persists runtime OAuth grants.
// At most one row per (platform_id, principal_type, subject_id); Upsert is
// atomic with respect to that invariant - concurrent writers converge to the
// last-writer-wins result with no duplicate rows.
type RuntimeCredentialStore interface {
	// Upsert stores or replaces the credential for its key (encrypts tokens)
	Upsert(ctx context.Context, cred *domain.PlatformCredential) error

	// Get retrieves the credential with decrypted tokens.
	// Returns domain.ErrNotFound if no grant exists.
	Get(ctx context.Context, platformID string, principal domain.Principal) (*domain.PlatformCredential, error)

	// Delete removes the credential. Returns domain.ErrNotFound if absent.
	Delete(ctx context.Context, platformID string, principal domain.Principal) error
}
