package e2e

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nexlink-labs/nexlink-core/internal/core/domain"
	"github.com/nexlink-labs/nexlink-core/internal/core/ports/driven"
)

// In-memory driven adapters backing the scenario world. Everything is
// guarded by one mutex per store; scenarios are single-actor anyway.

type memAppCredentialStore struct {
	mu    sync.Mutex
	creds map[string]*domain.AppCredentials
}

func newMemAppCredentialStore() *memAppCredentialStore {
	return &memAppCredentialStore{creds: make(map[string]*domain.AppCredentials)}
}

func credKey(orgID string, providerType domain.ProviderType) string {
	return orgID + "/" + string(providerType)
}

func (s *memAppCredentialStore) Save(ctx context.Context, creds *domain.AppCredentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *creds
	cp.UpdatedAt = time.Now()
	s.creds[credKey(creds.OrganizationID, creds.ProviderType)] = &cp
	return nil
}

func (s *memAppCredentialStore) Get(ctx context.Context, orgID string, providerType domain.ProviderType) (*domain.AppCredentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	creds, ok := s.creds[credKey(orgID, providerType)]
	if !ok {
		return nil, domain.ErrCredentialsNotFound
	}
	cp := *creds
	return &cp, nil
}

func (s *memAppCredentialStore) List(ctx context.Context, orgID string) ([]*domain.AppCredentialsSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.AppCredentialsSummary
	for _, creds := range s.creds {
		if creds.OrganizationID == orgID {
			out = append(out, creds.ToSummary())
		}
	}
	return out, nil
}

type memPlatformStore struct {
	mu        sync.Mutex
	platforms map[string]*domain.Platform
}

func newMemPlatformStore() *memPlatformStore {
	return &memPlatformStore{platforms: make(map[string]*domain.Platform)}
}

func (s *memPlatformStore) GetOrCreate(ctx context.Context, orgID string, providerType domain.ProviderType) (*domain.Platform, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := credKey(orgID, providerType)
	if p, ok := s.platforms[key]; ok {
		cp := *p
		return &cp, nil
	}
	p := &domain.Platform{
		ID:             "platform-" + string(providerType),
		OrganizationID: orgID,
		ProviderType:   providerType,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	s.platforms[key] = p
	cp := *p
	return &cp, nil
}

func (s *memPlatformStore) Get(ctx context.Context, orgID string, providerType domain.ProviderType) (*domain.Platform, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.platforms[credKey(orgID, providerType)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *memPlatformStore) SetConnected(ctx context.Context, platformID string, connected bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.platforms {
		if p.ID == platformID {
			p.Connected = connected
			p.UpdatedAt = time.Now()
			return nil
		}
	}
	return domain.ErrNotFound
}

func (s *memPlatformStore) List(ctx context.Context, orgID string) ([]*domain.Platform, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Platform
	for _, p := range s.platforms {
		if p.OrganizationID == orgID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

type memCredentialStore struct {
	mu    sync.Mutex
	creds map[string]*domain.PlatformCredential
}

func newMemCredentialStore() *memCredentialStore {
	return &memCredentialStore{creds: make(map[string]*domain.PlatformCredential)}
}

func grantKey(platformID string, principal domain.Principal) string {
	return platformID + "/" + string(principal.Type) + "/" + principal.SubjectID
}

func (s *memCredentialStore) Upsert(ctx context.Context, cred *domain.PlatformCredential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *cred
	cp.UpdatedAt = time.Now()
	s.creds[grantKey(cred.PlatformID, cred.Principal)] = &cp
	return nil
}

func (s *memCredentialStore) Get(ctx context.Context, platformID string, principal domain.Principal) (*domain.PlatformCredential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cred, ok := s.creds[grantKey(platformID, principal)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *cred
	return &cp, nil
}

func (s *memCredentialStore) Delete(ctx context.Context, platformID string, principal domain.Principal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := grantKey(platformID, principal)
	if _, ok := s.creds[key]; !ok {
		return domain.ErrNotFound
	}
	delete(s.creds, key)
	return nil
}

type memAccountStore struct {
	mu       sync.Mutex
	accounts map[string]*domain.ManagedAccount
	creds    *memCredentialStore
}

func newMemAccountStore(creds *memCredentialStore) *memAccountStore {
	return &memAccountStore{
		accounts: make(map[string]*domain.ManagedAccount),
		creds:    creds,
	}
}

func (s *memAccountStore) UpsertManagedAccount(ctx context.Context, account *domain.ManagedAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *account
	s.accounts[account.OrganizationID+"/"+account.ExternalID] = &cp
	return nil
}

func (s *memAccountStore) UpsertAdAccounts(ctx context.Context, accounts []*domain.AdAccount) error {
	return nil
}

func (s *memAccountStore) UpsertCampaignGroups(ctx context.Context, groups []*domain.CampaignGroup) error {
	return nil
}

func (s *memAccountStore) GetManagedAccount(ctx context.Context, orgID, externalID string) (*domain.ManagedAccountInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[orgID+"/"+externalID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *account
	return &domain.ManagedAccountInfo{Account: &cp}, nil
}

func (s *memAccountStore) ListManagedAccounts(ctx context.Context, orgID string) ([]*domain.ManagedAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.ManagedAccount
	for _, a := range s.accounts {
		if a.OrganizationID == orgID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *memAccountStore) Purge(ctx context.Context, orgID, externalID, platformID string, principal domain.Principal) error {
	s.mu.Lock()
	delete(s.accounts, orgID+"/"+externalID)
	s.mu.Unlock()
	err := s.creds.Delete(ctx, platformID, principal)
	if err != nil && err != domain.ErrNotFound {
		return err
	}
	return nil
}

// fakeProvider behaves like an OAuth provider with stable, predictable
// responses so scenarios can assert exchange and refresh behavior.
type fakeProvider struct {
	mu            sync.Mutex
	exchangeCalls int
}

var _ driven.ProviderAdapter = (*fakeProvider)(nil)

func newFakeProvider() *fakeProvider {
	return &fakeProvider{}
}

func (p *fakeProvider) ProviderType() domain.ProviderType {
	return domain.ProviderTypeGoogleAds
}

func (p *fakeProvider) BuildAuthURL(app *domain.AppCredentials, redirectURI, state string, scopes []string) string {
	return fmt.Sprintf("https://provider.test/auth?client_id=%s&response_type=code&access_type=offline&state=%s", app.ClientID, state)
}

func (p *fakeProvider) ExchangeCode(ctx context.Context, app *domain.AppCredentials, code, redirectURI string) (*domain.TokenSet, error) {
	p.mu.Lock()
	p.exchangeCalls++
	p.mu.Unlock()
	return &domain.TokenSet{
		AccessToken:  "access-" + code,
		RefreshToken: "refresh-" + code,
		ExpiresAt:    time.Now().Add(time.Hour),
		Scopes:       p.DefaultScopes(),
	}, nil
}

func (p *fakeProvider) Refresh(ctx context.Context, app *domain.AppCredentials, refreshToken string) (*domain.TokenSet, error) {
	return &domain.TokenSet{
		AccessToken: "access-refreshed",
		ExpiresAt:   time.Now().Add(time.Hour),
	}, nil
}

func (p *fakeProvider) FetchProfile(ctx context.Context, accessToken string) (*domain.ProviderProfile, error) {
	return &domain.ProviderProfile{ID: "provider-user", Name: "Provider User"}, nil
}

func (p *fakeProvider) DefaultScopes() []string {
	return []string{"https://provider.test/scope"}
}

func (p *fakeProvider) RotatesRefreshToken() bool {
	return false
}
