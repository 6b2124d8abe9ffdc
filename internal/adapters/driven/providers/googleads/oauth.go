package googleads

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/nexlink-labs/nexlink-core/internal/adapters/driven/providers"
	"github.com/nexlink-labs/nexlink-core/internal/core/domain"
	"github.com/nexlink-labs/nexlink-core/internal/core/ports/driven"
)

// Ensure Adapter implements the provider interfaces.
var (
	_ driven.ProviderAdapter = (*Adapter)(nil)
	_ driven.AccountSyncer   = (*Adapter)(nil)
)

const (
	defaultAuthURL     = "https://accounts.google.com/o/oauth2/v2/auth"
	defaultTokenURL    = "https://oauth2.googleapis.com/token"
	defaultUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"
	defaultAPIBase     = "https://googleads.googleapis.com/v17"
)

// Adapter handles OAuth and reporting operations for Google Ads.
type Adapter struct {
	httpClient  *http.Client
	clock       driven.Clock
	authURL     string
	tokenURL    string
	userInfoURL string
	apiBase     string
}

// Option customizes the adapter, mainly for tests.
type Option func(*Adapter)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(a *Adapter) { a.httpClient = c }
}

// WithEndpoints overrides the provider endpoints.
func WithEndpoints(authURL, tokenURL, userInfoURL, apiBase string) Option {
	return func(a *Adapter) {
		a.authURL = authURL
		a.tokenURL = tokenURL
		a.userInfoURL = userInfoURL
		a.apiBase = apiBase
	}
}

// WithClock overrides the time source used for expiry math.
func WithClock(clock driven.Clock) Option {
	return func(a *Adapter) { a.clock = clock }
}

// NewAdapter creates a Google Ads adapter.
func NewAdapter(opts ...Option) *Adapter {
	a := &Adapter{
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		clock:       time.Now,
		authURL:     defaultAuthURL,
		tokenURL:    defaultTokenURL,
		userInfoURL: defaultUserInfoURL,
		apiBase:     defaultAPIBase,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ProviderType identifies this adapter.
func (a *Adapter) ProviderType() domain.ProviderType {
	return domain.ProviderTypeGoogleAds
}

// DefaultScopes returns the Google Ads API scope.
func (a *Adapter) DefaultScopes() []string {
	return []string{"https://www.googleapis.com/auth/adwords"}
}

// RotatesRefreshToken reports Google's refresh contract: the same refresh
// token is reused until revoked, so a missing refresh_token in a refresh
// response means "unchanged".
func (a *Adapter) RotatesRefreshToken() bool {
	return false
}

func (a *Adapter) oauthConfig(app *domain.AppCredentials, redirectURI string, scopes []string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     app.ClientID,
		ClientSecret: app.ClientSecret,
		RedirectURL:  redirectURI,
		Scopes:       scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  a.authURL,
			TokenURL: a.tokenURL,
		},
	}
}

// BuildAuthURL constructs the authorization URL. Offline access and a forced
// consent prompt are always requested - Google only issues a refresh token on
// the first or re-consented grant, and silently losing it is a known source
// of "missing refresh token" failures.
func (a *Adapter) BuildAuthURL(app *domain.AppCredentials, redirectURI, state string, scopes []string) string {
	if len(scopes) == 0 {
		scopes = a.DefaultScopes()
	}
	cfg := a.oauthConfig(app, redirectURI, scopes)
	return cfg.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

// ExchangeCode exchanges an authorization code for tokens.
func (a *Adapter) ExchangeCode(ctx context.Context, app *domain.AppCredentials, code, redirectURI string) (*domain.TokenSet, error) {
	cfg := a.oauthConfig(app, redirectURI, a.DefaultScopes())

	ctx = context.WithValue(ctx, oauth2.HTTPClient, a.httpClient)
	tok, err := cfg.Exchange(ctx, code)
	if err != nil {
		return nil, a.classify(err)
	}

	if tok.RefreshToken == "" {
		return nil, fmt.Errorf("%w: provider returned no refresh token", domain.ErrConsentRequired)
	}

	return a.normalize(tok, ""), nil
}

// Refresh exchanges a refresh token for a fresh access token.
func (a *Adapter) Refresh(ctx context.Context, app *domain.AppCredentials, refreshToken string) (*domain.TokenSet, error) {
	cfg := a.oauthConfig(app, "", a.DefaultScopes())

	ctx = context.WithValue(ctx, oauth2.HTTPClient, a.httpClient)
	tok, err := cfg.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		return nil, a.classify(err)
	}

	return a.normalize(tok, refreshToken), nil
}

// normalize converts an oauth2 token into the canonical TokenSet. The refresh
// token is carried only when the provider actually returned a new one.
func (a *Adapter) normalize(tok *oauth2.Token, previousRefresh string) *domain.TokenSet {
	ts := &domain.TokenSet{
		AccessToken: tok.AccessToken,
		ExpiresAt:   tok.Expiry,
	}
	if tok.RefreshToken != "" && tok.RefreshToken != previousRefresh {
		ts.RefreshToken = tok.RefreshToken
	}
	if tok.Expiry.IsZero() {
		ts.ExpiresAt = a.clock().Add(time.Hour)
	}
	return ts
}

// classify maps oauth2 transport errors onto the domain taxonomy.
func (a *Adapter) classify(err error) error {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) {
		status := 0
		if re.Response != nil {
			status = re.Response.StatusCode
		}
		return providers.ClassifyTokenError(status, re.ErrorCode, re.ErrorDescription)
	}
	// Network failure or timeout - retryable, never revocation.
	return fmt.Errorf("%w: %v", domain.ErrTransientProvider, err)
}

// FetchProfile fetches the Google account identity behind an access token.
func (a *Adapter) FetchProfile(ctx context.Context, accessToken string) (*domain.ProviderProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTransientProvider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: userinfo status %d", domain.ErrTransientProvider, resp.StatusCode)
	}

	var info struct {
		Sub     string `json:"sub"`
		Name    string `json:"name"`
		Email   string `json:"email"`
		Picture string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", err)
	}

	return &domain.ProviderProfile{
		ID:         info.Sub,
		Name:       info.Name,
		Email:      info.Email,
		PictureURL: info.Picture,
	}, nil
}
