package linkedin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nexlink-labs/nexlink-core/internal/adapters/driven/providers"
	"github.com/nexlink-labs/nexlink-core/internal/core/domain"
	"github.com/nexlink-labs/nexlink-core/internal/core/ports/driven"
)

// Ensure the adapters implement the provider interfaces.
var (
	_ driven.ProviderAdapter = (*Adapter)(nil)
	_ driven.AccountLister   = (*Adapter)(nil)
	_ driven.AccountSyncer   = (*Adapter)(nil)
)

const (
	defaultAuthURL  = "https://www.linkedin.com/oauth/v2/authorization"
	defaultTokenURL = "https://www.linkedin.com/oauth/v2/accessToken"
	defaultAPIBase  = "https://api.linkedin.com"
)

// Adapter handles OAuth and page operations for LinkedIn. The same protocol
// serves two integrations: the member-profile sign-in and the
// organization-page connection, distinguished by providerType and scopes.
type Adapter struct {
	providerType   domain.ProviderType
	scopes         []string
	requireRefresh bool

	httpClient *http.Client
	clock      driven.Clock
	authURL    string
	tokenURL   string
	apiBase    string
}

// Option customizes the adapter, mainly for tests.
type Option func(*Adapter)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(a *Adapter) { a.httpClient = c }
}

// WithEndpoints overrides the provider endpoints.
func WithEndpoints(authURL, tokenURL, apiBase string) Option {
	return func(a *Adapter) {
		a.authURL = authURL
		a.tokenURL = tokenURL
		a.apiBase = apiBase
	}
}

// WithClock overrides the time source used for expiry math.
func WithClock(clock driven.Clock) Option {
	return func(a *Adapter) { a.clock = clock }
}

func newAdapter(providerType domain.ProviderType, scopes []string, requireRefresh bool, opts []Option) *Adapter {
	a := &Adapter{
		providerType:   providerType,
		scopes:         scopes,
		requireRefresh: requireRefresh,
		httpClient:     &http.Client{Timeout: 30 * time.Second},
		clock:          time.Now,
		authURL:        defaultAuthURL,
		tokenURL:       defaultTokenURL,
		apiBase:        defaultAPIBase,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NewProfileAdapter creates the member-profile sign-in adapter. A missing
// refresh token is tolerated here: the grant is per-user and short-lived.
func NewProfileAdapter(opts ...Option) *Adapter {
	return newAdapter(domain.ProviderTypeLinkedIn,
		[]string{"openid", "profile", "email"}, false, opts)
}

// NewPageAdapter creates the organization-page adapter. The connection is
// organization-level and long-lived, so a grant without a refresh token is
// rejected as ConsentRequired instead of silently accepted.
func NewPageAdapter(opts ...Option) *Adapter {
	return newAdapter(domain.ProviderTypeLinkedInPage,
		[]string{"r_organization_admin", "rw_ads", "r_ads"}, true, opts)
}

// ProviderType identifies this adapter.
func (a *Adapter) ProviderType() domain.ProviderType {
	return a.providerType
}

// DefaultScopes returns the configured scope set.
func (a *Adapter) DefaultScopes() []string {
	return a.scopes
}

// RotatesRefreshToken reports LinkedIn's refresh contract: refresh responses
// carry a replacement refresh token, so a missing one is worth a warning.
func (a *Adapter) RotatesRefreshToken() bool {
	return true
}

// BuildAuthURL constructs the LinkedIn authorization URL.
func (a *Adapter) BuildAuthURL(app *domain.AppCredentials, redirectURI, state string, scopes []string) string {
	if len(scopes) == 0 {
		scopes = a.scopes
	}
	params := url.Values{
		"response_type": {"code"},
		"client_id":     {app.ClientID},
		"redirect_uri":  {redirectURI},
		"state":         {state},
		"scope":         {strings.Join(scopes, " ")},
	}
	return a.authURL + "?" + params.Encode()
}

// ExchangeCode exchanges an authorization code for tokens.
func (a *Adapter) ExchangeCode(ctx context.Context, app *domain.AppCredentials, code, redirectURI string) (*domain.TokenSet, error) {
	params := url.Values{
		"grant_type":    {"authorization_code"},
		"code":          {code},
		"redirect_uri":  {redirectURI},
		"client_id":     {app.ClientID},
		"client_secret": {app.ClientSecret},
	}

	ts, err := a.tokenRequest(ctx, params, "")
	if err != nil {
		return nil, err
	}
	if a.requireRefresh && ts.RefreshToken == "" {
		return nil, fmt.Errorf("%w: provider returned no refresh token", domain.ErrConsentRequired)
	}
	return ts, nil
}

// Refresh exchanges a refresh token for a fresh token set.
func (a *Adapter) Refresh(ctx context.Context, app *domain.AppCredentials, refreshToken string) (*domain.TokenSet, error) {
	params := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
		"client_id":     {app.ClientID},
		"client_secret": {app.ClientSecret},
	}
	return a.tokenRequest(ctx, params, refreshToken)
}

// tokenRequest posts to the token endpoint and normalizes the response.
// ExpiresAt is computed here, at call time, from expires_in.
func (a *Adapter) tokenRequest(ctx context.Context, params url.Values, previousRefresh string) (*domain.TokenSet, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.tokenURL,
		strings.NewReader(params.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTransientProvider, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var tokenResp struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresIn    int    `json:"expires_in"`
		Scope        string `json:"scope"`
		Error        string `json:"error"`
		ErrorDesc    string `json:"error_description"`
	}
	// The body may not be JSON on gateway errors; classification below
	// handles that through the status code alone.
	_ = json.Unmarshal(body, &tokenResp)

	if resp.StatusCode != http.StatusOK || tokenResp.Error != "" {
		return nil, providers.ClassifyTokenError(resp.StatusCode, tokenResp.Error, tokenResp.ErrorDesc)
	}

	ts := &domain.TokenSet{
		AccessToken: tokenResp.AccessToken,
		ExpiresAt:   a.clock().Add(time.Duration(tokenResp.ExpiresIn) * time.Second),
	}
	if tokenResp.RefreshToken != "" && tokenResp.RefreshToken != previousRefresh {
		ts.RefreshToken = tokenResp.RefreshToken
	}
	if tokenResp.Scope != "" {
		ts.Scopes = strings.Fields(strings.ReplaceAll(tokenResp.Scope, ",", " "))
	}
	return ts, nil
}

// FetchProfile fetches the member identity via the OpenID userinfo endpoint.
func (a *Adapter) FetchProfile(ctx context.Context, accessToken string) (*domain.ProviderProfile, error) {
	var info struct {
		Sub     string `json:"sub"`
		Name    string `json:"name"`
		Email   string `json:"email"`
		Picture string `json:"picture"`
	}
	if err := a.apiGet(ctx, accessToken, "/v2/userinfo", &info); err != nil {
		return nil, err
	}

	return &domain.ProviderProfile{
		ID:         info.Sub,
		Name:       info.Name,
		Email:      info.Email,
		PictureURL: info.Picture,
	}, nil
}

// apiGet performs an authenticated GET against the LinkedIn API and decodes
// the JSON response into target.
func (a *Adapter) apiGet(ctx context.Context, accessToken, path string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.apiBase+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("X-Restli-Protocol-Version", "2.0.0")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrTransientProvider, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: api status 401", domain.ErrReauthorizationRequired)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return fmt.Errorf("%w: api status %d", domain.ErrTransientProvider, resp.StatusCode)
	default:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("linkedin api status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
