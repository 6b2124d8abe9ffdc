package domain

import "time"

// PrincipalType distinguishes how a runtime credential is scoped
type PrincipalType string

const (
	// PrincipalOrganization is a shared, organization-level grant
	// (ad-platform style single connection)
	PrincipalOrganization PrincipalType = "organization"

	// PrincipalUser is a per-user grant (LinkedIn profile sign-in)
	PrincipalUser PrincipalType = "user"
)

// Principal identifies the scope of a runtime credential.
// SubjectID is empty for organization-level grants.
type Principal struct {
	Type      PrincipalType `json:"type"`
	SubjectID string        `json:"subject_id,omitempty"`
}

// OrgPrincipal returns the shared organization-level principal
func OrgPrincipal() Principal {
	return Principal{Type: PrincipalOrganization}
}

// UserPrincipal returns a per-user principal
func UserPrincipal(userID string) Principal {
	return Principal{Type: PrincipalUser, SubjectID: userID}
}

// TokenSet is the canonical normalized token triple returned by every
// exchange or refresh. ExpiresAt is computed at call time from expires_in,
// never carried over from a stale cached value.
type TokenSet struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
	Scopes       []string  `json:"scopes,omitempty"`
}

// PlatformCredential is one runtime OAuth grant.
// Unique on (platform_id, principal_type, subject_id) - upsert semantics.
type PlatformCredential struct {
	ID         string    `json:"id"`
	PlatformID string    `json:"platform_id"`
	Principal  Principal `json:"principal"`

	// Secret values, encrypted at rest, never serialized
	AccessToken  string `json:"-"`
	RefreshToken string `json:"-"`

	Scopes    []string  `json:"scopes,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsExpired reports whether the access token has passed its expiry
// at the given instant
func (c *PlatformCredential) IsExpired(now time.Time) bool {
	if c.ExpiresAt.IsZero() {
		return false
	}
	return !now.Before(c.ExpiresAt)
}

// ApplyRefresh merges a refreshed TokenSet into the credential. The refresh
// token is replaced only when the provider returned a new one - providers
// may reuse the same refresh token indefinitely.
func (c *PlatformCredential) ApplyRefresh(ts *TokenSet) {
	c.AccessToken = ts.AccessToken
	if ts.RefreshToken != "" {
		c.RefreshToken = ts.RefreshToken
	}
	c.ExpiresAt = ts.ExpiresAt
	if len(ts.Scopes) > 0 {
		c.Scopes = ts.Scopes
	}
}

// CredentialSummary is a safe view without token values
type CredentialSummary struct {
	ID              string    `json:"id"`
	PlatformID      string    `json:"platform_id"`
	Principal       Principal `json:"principal"`
	HasRefreshToken bool      `json:"has_refresh_token"`
	ExpiresAt       time.Time `json:"expires_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ToSummary converts PlatformCredential to CredentialSummary
func (c *PlatformCredential) ToSummary() *CredentialSummary {
	return &CredentialSummary{
		ID:              c.ID,
		PlatformID:      c.PlatformID,
		Principal:       c.Principal,
		HasRefreshToken: c.RefreshToken != "",
		ExpiresAt:       c.ExpiresAt,
		UpdatedAt:       c.UpdatedAt,
	}
}
