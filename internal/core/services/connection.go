package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nexlink-labs/nexlink-core/internal/core/domain"
	"github.com/nexlink-labs/nexlink-core/internal/core/ports/driven"
	"github.com/nexlink-labs/nexlink-core/internal/core/ports/driving"
)

// Ensure connectionService implements the driving interfaces
var (
	_ driving.ConnectionService = (*connectionService)(nil)
	_ driving.CredentialService = (*connectionService)(nil)
)

// DefaultFlowTTL is how long a pending authorization flow stays valid.
const DefaultFlowTTL = 10 * time.Minute

// ConnectionServiceConfig holds configuration for the connection service.
type ConnectionServiceConfig struct {
	// AppCredentialStore persists OAuth app credentials.
	AppCredentialStore driven.AppCredentialStore

	// PlatformStore manages provider integration instances.
	PlatformStore driven.PlatformStore

	// CredentialStore persists runtime OAuth grants.
	CredentialStore driven.RuntimeCredentialStore

	// AccountStore caches managed-account metadata.
	AccountStore driven.AccountStore

	// FlowStateStore manages CSRF state and staged selections.
	FlowStateStore driven.FlowStateStore

	// Registry resolves the adapter per provider.
	Registry driven.ProviderRegistry

	// Tokens supplies valid access tokens.
	Tokens driving.TokenService

	// BaseURL is the application base URL for OAuth callbacks.
	// Example: "https://app.example.com"
	BaseURL string

	// FlowTTL overrides DefaultFlowTTL when positive.
	FlowTTL time.Duration

	// Clock supplies the current time. Defaults to time.Now.
	Clock driven.Clock

	// Logger for flow outcomes. Defaults to slog.Default.
	Logger *slog.Logger
}

// connectionService implements ConnectionService and CredentialService.
type connectionService struct {
	appCreds   driven.AppCredentialStore
	platforms  driven.PlatformStore
	creds      driven.RuntimeCredentialStore
	accounts   driven.AccountStore
	flowStates driven.FlowStateStore
	registry   driven.ProviderRegistry
	tokens     driving.TokenService
	baseURL    string
	flowTTL    time.Duration
	clock      driven.Clock
	logger     *slog.Logger
}

// NewConnectionService creates a new connection service.
func NewConnectionService(cfg ConnectionServiceConfig) *connectionService {
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	flowTTL := cfg.FlowTTL
	if flowTTL <= 0 {
		flowTTL = DefaultFlowTTL
	}
	return &connectionService{
		appCreds:   cfg.AppCredentialStore,
		platforms:  cfg.PlatformStore,
		creds:      cfg.CredentialStore,
		accounts:   cfg.AccountStore,
		flowStates: cfg.FlowStateStore,
		registry:   cfg.Registry,
		tokens:     cfg.Tokens,
		baseURL:    cfg.BaseURL,
		flowTTL:    flowTTL,
		clock:      clock,
		logger:     logger,
	}
}

// SaveAppCredentials stores or replaces app credentials. Admin-only: the
// role check runs before any store access.
func (s *connectionService) SaveAppCredentials(ctx context.Context, auth *domain.AuthContext, req driving.SaveCredentialsRequest) (*domain.AppCredentialsSummary, error) {
	if err := requireAdmin(auth); err != nil {
		return nil, err
	}
	if !req.ProviderType.IsSupported() {
		return nil, fmt.Errorf("%w: %s", domain.ErrProviderNotSupported, req.ProviderType)
	}

	creds := &domain.AppCredentials{
		OrganizationID:   auth.OrganizationID,
		ProviderType:     req.ProviderType,
		ClientID:         req.ClientID,
		ClientSecret:     req.ClientSecret,
		DeveloperToken:   req.DeveloperToken,
		ManagerAccountID: req.ManagerAccountID,
	}
	if err := creds.Validate(); err != nil {
		return nil, fmt.Errorf("%w: missing required credential fields", domain.ErrInvalidInput)
	}

	if err := s.appCreds.Save(ctx, creds); err != nil {
		return nil, err
	}

	// The platform row exists from here on, disconnected until a flow
	// completes.
	if _, err := s.platforms.GetOrCreate(ctx, auth.OrganizationID, req.ProviderType); err != nil {
		return nil, err
	}

	s.logger.Info("app credentials saved",
		"org_id", auth.OrganizationID,
		"provider", req.ProviderType,
		"user_id", auth.UserID)

	return creds.ToSummary(), nil
}

// GetAppCredentials returns a secret-free summary. Admin-only.
func (s *connectionService) GetAppCredentials(ctx context.Context, auth *domain.AuthContext, providerType domain.ProviderType) (*domain.AppCredentialsSummary, error) {
	if err := requireAdmin(auth); err != nil {
		return nil, err
	}

	creds, err := s.appCreds.Get(ctx, auth.OrganizationID, providerType)
	if err != nil {
		return nil, err
	}
	return creds.ToSummary(), nil
}

// ListAppCredentials returns summaries for every configured provider.
func (s *connectionService) ListAppCredentials(ctx context.Context, auth *domain.AuthContext) ([]*domain.AppCredentialsSummary, error) {
	if auth == nil {
		return nil, domain.ErrUnauthenticated
	}
	return s.appCreds.List(ctx, auth.OrganizationID)
}

// GenerateAuthorizationURL starts an authorization flow for the caller's
// session.
func (s *connectionService) GenerateAuthorizationURL(ctx context.Context, auth *domain.AuthContext, providerType domain.ProviderType) (*driving.AuthorizeResponse, error) {
	if err := requireGrantAccess(auth, providerType); err != nil {
		return nil, err
	}

	adapter := s.registry.Get(providerType)
	if adapter == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrProviderNotSupported, providerType)
	}

	app, err := s.appCreds.Get(ctx, auth.OrganizationID, providerType)
	if err != nil {
		return nil, err
	}

	state, err := generateRandomString(32)
	if err != nil {
		return nil, fmt.Errorf("generate state: %w", err)
	}

	now := s.clock()
	fs := &domain.FlowState{
		State:        state,
		ProviderType: providerType,
		Principal:    principalFor(providerType, auth),
		RedirectURI:  s.callbackURL(providerType),
		CreatedAt:    now,
		ExpiresAt:    now.Add(s.flowTTL),
	}
	if err := s.flowStates.Begin(ctx, auth.SessionID, fs); err != nil {
		return nil, fmt.Errorf("store flow state: %w", err)
	}

	url := adapter.BuildAuthURL(app, fs.RedirectURI, state, adapter.DefaultScopes())

	return &driving.AuthorizeResponse{
		AuthorizationURL: url,
		ExpiresAt:        fs.ExpiresAt.Format(time.RFC3339),
	}, nil
}

// HandleCallback completes the provider redirect. Once the caller's role is
// established, the CSRF state is consumed before anything else, including
// provider-reported errors: a forged callback must not learn whether a flow
// was pending.
func (s *connectionService) HandleCallback(ctx context.Context, auth *domain.AuthContext, req driving.CallbackRequest) (*driving.CallbackResponse, error) {
	if err := requireGrantAccess(auth, req.ProviderType); err != nil {
		return nil, err
	}

	fs, err := s.flowStates.Consume(ctx, auth.SessionID, req.State)
	if err != nil {
		return nil, err
	}
	if fs.ProviderType != req.ProviderType {
		return nil, fmt.Errorf("%w: provider mismatch", domain.ErrInvalidState)
	}

	if req.Error != "" {
		return nil, fmt.Errorf("%w: provider returned %s: %s", domain.ErrInvalidInput, req.Error, req.ErrorDescription)
	}

	adapter := s.registry.Get(req.ProviderType)
	if adapter == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrProviderNotSupported, req.ProviderType)
	}

	app, err := s.appCreds.Get(ctx, auth.OrganizationID, req.ProviderType)
	if err != nil {
		return nil, err
	}

	ts, err := adapter.ExchangeCode(ctx, app, req.Code, fs.RedirectURI)
	if err != nil {
		return nil, err
	}

	// The organization-page flow can manage several pages: stage the
	// tokens and defer persistence to the user's choice.
	if fs.ProviderType == domain.ProviderTypeLinkedInPage {
		if lister, ok := adapter.(driven.AccountLister); ok {
			return s.stageOrStore(ctx, auth, fs, lister, ts)
		}
	}

	return s.storeGrant(ctx, auth, fs.ProviderType, fs.Principal, ts, adapter)
}

// stageOrStore lists candidate accounts. More than one stages a selection;
// exactly one connects directly.
func (s *connectionService) stageOrStore(ctx context.Context, auth *domain.AuthContext, fs *domain.FlowState, lister driven.AccountLister, ts *domain.TokenSet) (*driving.CallbackResponse, error) {
	candidates, err := lister.ListManagedAccounts(ctx, ts.AccessToken)
	if err != nil {
		return nil, err
	}

	switch len(candidates) {
	case 0:
		return nil, fmt.Errorf("%w: grant manages no accounts", domain.ErrNotFound)
	case 1:
		adapter := s.registry.Get(fs.ProviderType)
		resp, err := s.storeGrant(ctx, auth, fs.ProviderType, fs.Principal, ts, adapter)
		if err != nil {
			return nil, err
		}
		s.cacheCandidate(ctx, auth.OrganizationID, fs.ProviderType, candidates[0])
		return resp, nil
	}

	now := s.clock()
	sel := &domain.StagedSelection{
		ProviderType: fs.ProviderType,
		Principal:    fs.Principal,
		Candidates:   candidates,
		Tokens:       ts,
		CreatedAt:    now,
		ExpiresAt:    now.Add(s.flowTTL),
	}
	if err := s.flowStates.StageSelection(ctx, auth.SessionID, sel); err != nil {
		return nil, fmt.Errorf("stage selection: %w", err)
	}

	return &driving.CallbackResponse{
		SelectionPending: true,
		Candidates:       candidates,
		Message:          "Select an account to finish connecting",
	}, nil
}

// CompleteSelection persists a staged flow under the chosen candidate.
func (s *connectionService) CompleteSelection(ctx context.Context, auth *domain.AuthContext, providerType domain.ProviderType, chosenID string) (*driving.CallbackResponse, error) {
	if err := requireGrantAccess(auth, providerType); err != nil {
		return nil, err
	}

	chosen, sel, err := s.flowStates.TakeSelection(ctx, auth.SessionID, chosenID)
	if err != nil {
		return nil, err
	}
	if sel.ProviderType != providerType {
		return nil, fmt.Errorf("%w: provider mismatch", domain.ErrInvalidState)
	}

	adapter := s.registry.Get(providerType)
	if adapter == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrProviderNotSupported, providerType)
	}

	resp, err := s.storeGrant(ctx, auth, providerType, sel.Principal, sel.Tokens, adapter)
	if err != nil {
		return nil, err
	}
	s.cacheCandidate(ctx, auth.OrganizationID, providerType, *chosen)

	resp.Message = fmt.Sprintf("Connected %s (%s)", providerType.DisplayName(), chosen.Name)
	return resp, nil
}

// storeGrant persists the token set and flips the platform to connected.
func (s *connectionService) storeGrant(ctx context.Context, auth *domain.AuthContext, providerType domain.ProviderType, principal domain.Principal, ts *domain.TokenSet, adapter driven.ProviderAdapter) (*driving.CallbackResponse, error) {
	platform, err := s.platforms.GetOrCreate(ctx, auth.OrganizationID, providerType)
	if err != nil {
		return nil, err
	}

	cred := &domain.PlatformCredential{
		PlatformID:   platform.ID,
		Principal:    principal,
		AccessToken:  ts.AccessToken,
		RefreshToken: ts.RefreshToken,
		Scopes:       ts.Scopes,
		ExpiresAt:    ts.ExpiresAt,
	}
	if err := s.creds.Upsert(ctx, cred); err != nil {
		return nil, fmt.Errorf("store credential: %w", err)
	}

	if err := s.platforms.SetConnected(ctx, platform.ID, true); err != nil {
		return nil, err
	}

	// Identity fetch is enrichment only; a failure does not undo the grant.
	var profile *domain.ProviderProfile
	if p, err := adapter.FetchProfile(ctx, ts.AccessToken); err != nil {
		s.logger.Warn("profile fetch failed",
			"provider", providerType,
			"error", err)
	} else {
		profile = p
	}

	s.logger.Info("provider connected",
		"org_id", auth.OrganizationID,
		"provider", providerType,
		"principal", principal.Type)

	return &driving.CallbackResponse{
		Connected: true,
		Profile:   profile,
		Message:   fmt.Sprintf("Successfully connected %s", providerType.DisplayName()),
	}, nil
}

// cacheCandidate seeds the managed-account cache from a selection candidate
// so the account is listable before the first full sync. Best effort.
func (s *connectionService) cacheCandidate(ctx context.Context, orgID string, providerType domain.ProviderType, c domain.SelectionCandidate) {
	err := s.accounts.UpsertManagedAccount(ctx, &domain.ManagedAccount{
		OrganizationID: orgID,
		ProviderType:   providerType,
		ExternalID:     c.ID,
		Name:           c.Name,
	})
	if err != nil {
		s.logger.Warn("seed managed account failed",
			"provider", providerType,
			"external_id", c.ID,
			"error", err)
	}
}

// TestConnection verifies the stored grant end to end.
func (s *connectionService) TestConnection(ctx context.Context, auth *domain.AuthContext, providerType domain.ProviderType) (*domain.ProviderProfile, error) {
	if auth == nil {
		return nil, domain.ErrUnauthenticated
	}

	adapter := s.registry.Get(providerType)
	if adapter == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrProviderNotSupported, providerType)
	}

	token, err := s.tokens.GetValidAccessToken(ctx, auth.OrganizationID, providerType, principalFor(providerType, auth))
	if err != nil {
		return nil, s.decorateAuthError(ctx, auth, providerType, err)
	}

	profile, err := adapter.FetchProfile(ctx, token)
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// ConnectAndFetchManagedAccountInfo fetches fresh account metadata from the
// provider and caches it.
func (s *connectionService) ConnectAndFetchManagedAccountInfo(ctx context.Context, auth *domain.AuthContext, providerType domain.ProviderType, externalID string) (*domain.ManagedAccountInfo, error) {
	if auth == nil {
		return nil, domain.ErrUnauthenticated
	}

	adapter := s.registry.Get(providerType)
	if adapter == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrProviderNotSupported, providerType)
	}
	syncer, ok := adapter.(driven.AccountSyncer)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no managed accounts", domain.ErrProviderNotSupported, providerType)
	}

	app, err := s.appCreds.Get(ctx, auth.OrganizationID, providerType)
	if err != nil {
		return nil, err
	}

	// The manager account configured with the app credentials is the
	// default target when the caller names none.
	if externalID == "" {
		externalID = app.ManagerAccountID
	}
	if externalID == "" {
		return nil, fmt.Errorf("%w: no account id given or configured", domain.ErrInvalidInput)
	}

	token, err := s.tokens.GetValidAccessToken(ctx, auth.OrganizationID, providerType, principalFor(providerType, auth))
	if err != nil {
		return nil, s.decorateAuthError(ctx, auth, providerType, err)
	}

	info, err := syncer.SyncManagedAccount(ctx, app, token, externalID)
	if err != nil {
		return nil, err
	}

	info.Account.OrganizationID = auth.OrganizationID
	info.Account.ProviderType = providerType
	if err := s.accounts.UpsertManagedAccount(ctx, info.Account); err != nil {
		return nil, fmt.Errorf("cache managed account: %w", err)
	}
	for _, a := range info.AdAccounts {
		a.OrganizationID = auth.OrganizationID
		a.AccountID = info.Account.ExternalID
	}
	if err := s.accounts.UpsertAdAccounts(ctx, info.AdAccounts); err != nil {
		return nil, fmt.Errorf("cache ad accounts: %w", err)
	}
	for _, g := range info.CampaignGroups {
		g.OrganizationID = auth.OrganizationID
		g.AccountID = info.Account.ExternalID
	}
	if err := s.accounts.UpsertCampaignGroups(ctx, info.CampaignGroups); err != nil {
		return nil, fmt.Errorf("cache campaign groups: %w", err)
	}

	platform, err := s.platforms.GetOrCreate(ctx, auth.OrganizationID, providerType)
	if err != nil {
		return nil, err
	}
	if err := s.platforms.SetConnected(ctx, platform.ID, true); err != nil {
		return nil, err
	}

	return info, nil
}

// GetManagedAccountInfo returns the cached snapshot without touching the
// provider.
func (s *connectionService) GetManagedAccountInfo(ctx context.Context, auth *domain.AuthContext, externalID string) (*domain.ManagedAccountInfo, error) {
	if auth == nil {
		return nil, domain.ErrUnauthenticated
	}
	return s.accounts.GetManagedAccount(ctx, auth.OrganizationID, externalID)
}

// ListConnections returns the connection status of every supported provider.
func (s *connectionService) ListConnections(ctx context.Context, auth *domain.AuthContext) ([]*driving.ConnectionSummary, error) {
	if auth == nil {
		return nil, domain.ErrUnauthenticated
	}

	configured := make(map[domain.ProviderType]bool)
	summaries, err := s.appCreds.List(ctx, auth.OrganizationID)
	if err != nil {
		return nil, err
	}
	for _, sum := range summaries {
		configured[sum.ProviderType] = true
	}

	connected := make(map[domain.ProviderType]bool)
	platforms, err := s.platforms.List(ctx, auth.OrganizationID)
	if err != nil {
		return nil, err
	}
	for _, p := range platforms {
		connected[p.ProviderType] = p.Connected
	}

	var out []*driving.ConnectionSummary
	for _, pt := range domain.SupportedProviders() {
		out = append(out, &driving.ConnectionSummary{
			ProviderType: pt,
			DisplayName:  pt.DisplayName(),
			Configured:   configured[pt],
			Connected:    connected[pt],
		})
	}
	return out, nil
}

// Disconnect removes the grant and all cached account data in one
// transaction. Admin-only.
func (s *connectionService) Disconnect(ctx context.Context, auth *domain.AuthContext, providerType domain.ProviderType, externalID string) error {
	if err := requireAdmin(auth); err != nil {
		return err
	}

	platform, err := s.platforms.Get(ctx, auth.OrganizationID, providerType)
	if err != nil {
		return err
	}

	principal := principalFor(providerType, auth)
	if err := s.accounts.Purge(ctx, auth.OrganizationID, externalID, platform.ID, principal); err != nil {
		return fmt.Errorf("purge connection: %w", err)
	}

	if err := s.platforms.SetConnected(ctx, platform.ID, false); err != nil {
		return err
	}

	s.logger.Info("provider disconnected",
		"org_id", auth.OrganizationID,
		"provider", providerType,
		"user_id", auth.UserID)

	return nil
}

// decorateAuthError attaches a ready authorization URL to errors that can
// only be resolved by sending the user through the flow again.
func (s *connectionService) decorateAuthError(ctx context.Context, auth *domain.AuthContext, providerType domain.ProviderType, err error) error {
	if !errors.Is(err, domain.ErrAuthenticationRequired) && !errors.Is(err, domain.ErrReauthorizationRequired) {
		return err
	}

	resp, urlErr := s.GenerateAuthorizationURL(ctx, auth, providerType)
	if urlErr != nil {
		// The sentinel alone is still actionable.
		return err
	}

	return &driving.AuthRequiredError{
		ProviderType:     providerType,
		AuthorizationURL: resp.AuthorizationURL,
		Err:              err,
	}
}

// callbackURL builds the provider redirect target under the app base URL.
func (s *connectionService) callbackURL(providerType domain.ProviderType) string {
	return fmt.Sprintf("%s/api/v1/connections/%s/callback", s.baseURL, providerType)
}

// principalFor scopes the grant: the LinkedIn member-profile integration is
// per-user, everything else is a shared organization grant.
func principalFor(providerType domain.ProviderType, auth *domain.AuthContext) domain.Principal {
	if providerType == domain.ProviderTypeLinkedIn {
		return domain.UserPrincipal(auth.UserID)
	}
	return domain.OrgPrincipal()
}

// requireGrantAccess gates the authorization flow by the scope of the grant
// it would produce: a shared organization grant can only be created or
// replaced by an admin, while the per-user LinkedIn profile grant is open to
// any member.
func requireGrantAccess(auth *domain.AuthContext, providerType domain.ProviderType) error {
	if auth == nil {
		return domain.ErrUnauthenticated
	}
	if principalFor(providerType, auth).Type == domain.PrincipalOrganization {
		return requireAdmin(auth)
	}
	return nil
}

// requireAdmin rejects missing or non-admin callers before any store access.
func requireAdmin(auth *domain.AuthContext) error {
	if auth == nil {
		return domain.ErrUnauthenticated
	}
	if !auth.IsAdmin() {
		return fmt.Errorf("%w: admin role required", domain.ErrForbidden)
	}
	return nil
}

// generateRandomString returns a hex string of the requested length from
// crypto/rand.
func generateRandomString(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes)[:length], nil
}
