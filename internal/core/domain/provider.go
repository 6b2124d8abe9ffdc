package domain

// ProviderType identifies an external advertising platform integration
type ProviderType string

const (
	// ProviderTypeGoogleAds is the Google Ads integration (organization-level
	// grant against a manager account)
	ProviderTypeGoogleAds ProviderType = "google_ads"

	// ProviderTypeLinkedIn is the LinkedIn member-profile integration
	// (per-user grant)
	ProviderTypeLinkedIn ProviderType = "linkedin"

	// ProviderTypeLinkedInPage is the LinkedIn organization-page integration
	// (organization-level grant, page chosen during the flow)
	ProviderTypeLinkedInPage ProviderType = "linkedin_page"
)

// SupportedProviders returns the providers this deployment can connect
func SupportedProviders() []ProviderType {
	return []ProviderType{
		ProviderTypeGoogleAds,
		ProviderTypeLinkedIn,
		ProviderTypeLinkedInPage,
	}
}

// IsSupported reports whether the provider type is known
func (p ProviderType) IsSupported() bool {
	switch p {
	case ProviderTypeGoogleAds, ProviderTypeLinkedIn, ProviderTypeLinkedInPage:
		return true
	}
	return false
}

// DisplayName returns a human-readable name for a provider
func (p ProviderType) DisplayName() string {
	switch p {
	case ProviderTypeGoogleAds:
		return "Google Ads"
	case ProviderTypeLinkedIn:
		return "LinkedIn"
	case ProviderTypeLinkedInPage:
		return "LinkedIn Page"
	default:
		return string(p)
	}
}

// ProviderProfile is the minimal identity a provider reports for an
// authenticated grant. Used for display and duplicate detection.
type ProviderProfile struct {
	ID         string `json:"id"`
	Name       string `json:"name,omitempty"`
	Email      string `json:"email,omitempty"`
	PictureURL string `json:"picture_url,omitempty"`
}
