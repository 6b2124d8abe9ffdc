package driven

import (
	"context"

	"github.com/nexlink-labs/nexlink-core/internal/core/domain"
)

// AccountStore caches provider-side managed-account metadata and its
// dependent resources. All writes are idempotent upserts - the cache is
// re-derivable from the provider and never the source of truth.
type AccountStore interface {
	// UpsertManagedAccount stores or refreshes a managed-account snapshot
	UpsertManagedAccount(ctx context.Context, account *domain.ManagedAccount) error

	// UpsertAdAccounts stores or refreshes child ad accounts
	UpsertAdAccounts(ctx context.Context, accounts []*domain.AdAccount) error

	// UpsertCampaignGroups stores or refreshes child campaign groups
	UpsertCampaignGroups(ctx context.Context, groups []*domain.CampaignGroup) error

	// GetManagedAccount retrieves a snapshot with its cached children.
	// Returns domain.ErrNotFound if absent.
	GetManagedAccount(ctx context.Context, orgID, externalID string) (*domain.ManagedAccountInfo, error)

	// ListManagedAccounts retrieves all snapshots for an organization
	ListManagedAccounts(ctx context.Context, orgID string) ([]*domain.ManagedAccount, error)

	// Purge deletes the managed-account rows (including children) and the
	// runtime credential row in a single transaction. A partial disconnect
	// is forbidden: either everything is removed or nothing is.
	Purge(ctx context.Context, orgID, externalID, platformID string, principal domain.Principal) error
}
