package domain

import "time"

// Organization scopes every credential and cached account in the system.
// A deployment typically holds exactly one row, but nothing depends on that.
type Organization struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Platform is one provider integration instance scoped to an organization.
// Created lazily the first time any credential is saved for the provider.
// Unique on (organization_id, provider_type).
type Platform struct {
	ID             string       `json:"id"`
	OrganizationID string       `json:"organization_id"`
	ProviderType   ProviderType `json:"provider_type"`
	Connected      bool         `json:"connected"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// AppCredentials holds the OAuth application credentials an organization
// registered with a provider. Secret fields are encrypted at rest.
type AppCredentials struct {
	OrganizationID string       `json:"organization_id"`
	ProviderType   ProviderType `json:"provider_type"`

	ClientID     string `json:"-"`
	ClientSecret string `json:"-"`

	// DeveloperToken and ManagerAccountID are Google Ads specific
	DeveloperToken   string `json:"-"`
	ManagerAccountID string `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks that the provider's required fields are present.
// A failure after decryption means the stored row is corrupted.
func (c *AppCredentials) Validate() error {
	if c.ClientID == "" || c.ClientSecret == "" {
		return ErrCredentialsInvalid
	}
	if c.ProviderType == ProviderTypeGoogleAds && c.DeveloperToken == "" {
		return ErrCredentialsInvalid
	}
	return nil
}

// AppCredentialsSummary is a safe view without secret values
type AppCredentialsSummary struct {
	OrganizationID    string       `json:"organization_id"`
	ProviderType      ProviderType `json:"provider_type"`
	HasClientSecret   bool         `json:"has_client_secret"`
	HasDeveloperToken bool         `json:"has_developer_token"`
	ManagerAccountID  string       `json:"manager_account_id,omitempty"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

// ToSummary converts AppCredentials to AppCredentialsSummary
func (c *AppCredentials) ToSummary() *AppCredentialsSummary {
	return &AppCredentialsSummary{
		OrganizationID:    c.OrganizationID,
		ProviderType:      c.ProviderType,
		HasClientSecret:   c.ClientSecret != "",
		HasDeveloperToken: c.DeveloperToken != "",
		ManagerAccountID:  c.ManagerAccountID,
		UpdatedAt:         c.UpdatedAt,
	}
}
