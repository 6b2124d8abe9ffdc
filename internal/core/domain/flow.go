package domain

import "time"

// FlowState is the transient server-side record of one pending authorization
// flow. Bound to a session, single-use, consumed on callback.
type FlowState struct {
	// State is the cryptographically random CSRF correlation value
	State string `json:"state"`

	ProviderType ProviderType `json:"provider_type"`
	Principal    Principal    `json:"principal"`
	RedirectURI  string       `json:"redirect_uri"`

	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SelectionCandidate is one provider-side account the user may pick when a
// flow returns more than one (e.g. multiple LinkedIn organization pages).
type SelectionCandidate struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	LogoURN string `json:"logo_urn,omitempty"`
}

// StagedSelection holds candidates awaiting a follow-up user choice,
// together with the token set the choice will be persisted under.
type StagedSelection struct {
	ProviderType ProviderType         `json:"provider_type"`
	Principal    Principal            `json:"principal"`
	Candidates   []SelectionCandidate `json:"candidates"`
	Tokens       *TokenSet            `json:"tokens"`
	CreatedAt    time.Time            `json:"created_at"`
	ExpiresAt    time.Time            `json:"expires_at"`
}
