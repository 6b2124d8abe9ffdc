package domain

import "time"

// ManagedAccount is a denormalized snapshot of provider-side parent-account
// metadata (an Ads manager account or a LinkedIn organization page).
// Keyed by (organization_id, external_id) where external_id is the
// provider-returned account id captured at connect time. Refreshed by upsert
// whenever fetched; never the source of truth.
type ManagedAccount struct {
	OrganizationID string       `json:"organization_id"`
	ProviderType   ProviderType `json:"provider_type"`
	ExternalID     string       `json:"external_id"`

	Name     string `json:"name"`
	Currency string `json:"currency,omitempty"`
	Timezone string `json:"timezone,omitempty"`
	Address  string `json:"address,omitempty"`
	LogoURL  string `json:"logo_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AdAccount is a child advertising account under a managed account.
// Best-effort cache keyed by the provider-assigned id.
type AdAccount struct {
	OrganizationID string `json:"organization_id"`
	AccountID      string `json:"account_id"` // parent ManagedAccount external id
	ExternalID     string `json:"external_id"`
	Name           string `json:"name"`
	Currency       string `json:"currency,omitempty"`
	Status         string `json:"status,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

// CampaignGroup is a child campaign grouping under a managed account.
// Best-effort cache keyed by the provider-assigned id.
type CampaignGroup struct {
	OrganizationID string `json:"organization_id"`
	AccountID      string `json:"account_id"`
	ExternalID     string `json:"external_id"`
	Name           string `json:"name"`
	Status         string `json:"status,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

// ManagedAccountInfo bundles a managed account with its cached children
type ManagedAccountInfo struct {
	Account        *ManagedAccount  `json:"account"`
	AdAccounts     []*AdAccount     `json:"ad_accounts,omitempty"`
	CampaignGroups []*CampaignGroup `json:"campaign_groups,omitempty"`
}
