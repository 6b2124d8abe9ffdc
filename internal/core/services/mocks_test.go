package services

import (
	"context"
	"fmt"
	"time"

	"github.com/nexlink-labs/nexlink-core/internal/core/domain"
	"github.com/nexlink-labs/nexlink-core/internal/core/ports/driven"
)

// mockAppCredentialStore implements driven.AppCredentialStore for testing
type mockAppCredentialStore struct {
	creds     map[string]*domain.AppCredentials
	saveCalls int
	saveErr   error
}

func newMockAppCredentialStore() *mockAppCredentialStore {
	return &mockAppCredentialStore{creds: make(map[string]*domain.AppCredentials)}
}

func appKey(orgID string, pt domain.ProviderType) string {
	return orgID + "/" + string(pt)
}

func (m *mockAppCredentialStore) Save(ctx context.Context, creds *domain.AppCredentials) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saveCalls++
	now := time.Now()
	if creds.CreatedAt.IsZero() {
		creds.CreatedAt = now
	}
	creds.UpdatedAt = now
	m.creds[appKey(creds.OrganizationID, creds.ProviderType)] = creds
	return nil
}

func (m *mockAppCredentialStore) Get(ctx context.Context, orgID string, pt domain.ProviderType) (*domain.AppCredentials, error) {
	creds, ok := m.creds[appKey(orgID, pt)]
	if !ok {
		return nil, domain.ErrCredentialsNotFound
	}
	return creds, nil
}

func (m *mockAppCredentialStore) List(ctx context.Context, orgID string) ([]*domain.AppCredentialsSummary, error) {
	var out []*domain.AppCredentialsSummary
	for _, c := range m.creds {
		if c.OrganizationID == orgID {
			out = append(out, c.ToSummary())
		}
	}
	return out, nil
}

// mockPlatformStore implements driven.PlatformStore for testing
type mockPlatformStore struct {
	platforms map[string]*domain.Platform
}

func newMockPlatformStore() *mockPlatformStore {
	return &mockPlatformStore{platforms: make(map[string]*domain.Platform)}
}

func (m *mockPlatformStore) GetOrCreate(ctx context.Context, orgID string, pt domain.ProviderType) (*domain.Platform, error) {
	key := appKey(orgID, pt)
	if p, ok := m.platforms[key]; ok {
		return p, nil
	}
	p := &domain.Platform{
		ID:             "platform-" + string(pt),
		OrganizationID: orgID,
		ProviderType:   pt,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	m.platforms[key] = p
	return p, nil
}

func (m *mockPlatformStore) Get(ctx context.Context, orgID string, pt domain.ProviderType) (*domain.Platform, error) {
	p, ok := m.platforms[appKey(orgID, pt)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (m *mockPlatformStore) SetConnected(ctx context.Context, platformID string, connected bool) error {
	for _, p := range m.platforms {
		if p.ID == platformID {
			p.Connected = connected
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockPlatformStore) List(ctx context.Context, orgID string) ([]*domain.Platform, error) {
	var out []*domain.Platform
	for _, p := range m.platforms {
		if p.OrganizationID == orgID {
			out = append(out, p)
		}
	}
	return out, nil
}

// mockCredentialStore implements driven.RuntimeCredentialStore for testing
type mockCredentialStore struct {
	creds       map[string]*domain.PlatformCredential
	upsertCalls int
	upsertErr   error
}

func newMockCredentialStore() *mockCredentialStore {
	return &mockCredentialStore{creds: make(map[string]*domain.PlatformCredential)}
}

func credKey(platformID string, principal domain.Principal) string {
	return fmt.Sprintf("%s/%s/%s", platformID, principal.Type, principal.SubjectID)
}

func (m *mockCredentialStore) Upsert(ctx context.Context, cred *domain.PlatformCredential) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upsertCalls++
	now := time.Now()
	if cred.ID == "" {
		cred.ID = fmt.Sprintf("cred-%d", m.upsertCalls)
	}
	if cred.CreatedAt.IsZero() {
		cred.CreatedAt = now
	}
	cred.UpdatedAt = now
	copied := *cred
	m.creds[credKey(cred.PlatformID, cred.Principal)] = &copied
	return nil
}

func (m *mockCredentialStore) Get(ctx context.Context, platformID string, principal domain.Principal) (*domain.PlatformCredential, error) {
	cred, ok := m.creds[credKey(platformID, principal)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *cred
	return &copied, nil
}

func (m *mockCredentialStore) Delete(ctx context.Context, platformID string, principal domain.Principal) error {
	key := credKey(platformID, principal)
	if _, ok := m.creds[key]; !ok {
		return domain.ErrNotFound
	}
	delete(m.creds, key)
	return nil
}

// mockAccountStore implements driven.AccountStore for testing.
// Purge is all-or-nothing: a configured purgeErr leaves every row in place.
type mockAccountStore struct {
	accounts map[string]*domain.ManagedAccount
	ads      map[string][]*domain.AdAccount
	groups   map[string][]*domain.CampaignGroup
	creds    *mockCredentialStore

	purgeErr   error
	purgeCalls int
}

func newMockAccountStore(creds *mockCredentialStore) *mockAccountStore {
	return &mockAccountStore{
		accounts: make(map[string]*domain.ManagedAccount),
		ads:      make(map[string][]*domain.AdAccount),
		groups:   make(map[string][]*domain.CampaignGroup),
		creds:    creds,
	}
}

func acctKey(orgID, externalID string) string {
	return orgID + "/" + externalID
}

func (m *mockAccountStore) UpsertManagedAccount(ctx context.Context, a *domain.ManagedAccount) error {
	m.accounts[acctKey(a.OrganizationID, a.ExternalID)] = a
	return nil
}

func (m *mockAccountStore) UpsertAdAccounts(ctx context.Context, accounts []*domain.AdAccount) error {
	for _, a := range accounts {
		m.ads[acctKey(a.OrganizationID, a.AccountID)] = append(m.ads[acctKey(a.OrganizationID, a.AccountID)], a)
	}
	return nil
}

func (m *mockAccountStore) UpsertCampaignGroups(ctx context.Context, groups []*domain.CampaignGroup) error {
	for _, g := range groups {
		m.groups[acctKey(g.OrganizationID, g.AccountID)] = append(m.groups[acctKey(g.OrganizationID, g.AccountID)], g)
	}
	return nil
}

func (m *mockAccountStore) GetManagedAccount(ctx context.Context, orgID, externalID string) (*domain.ManagedAccountInfo, error) {
	a, ok := m.accounts[acctKey(orgID, externalID)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &domain.ManagedAccountInfo{
		Account:        a,
		AdAccounts:     m.ads[acctKey(orgID, externalID)],
		CampaignGroups: m.groups[acctKey(orgID, externalID)],
	}, nil
}

func (m *mockAccountStore) ListManagedAccounts(ctx context.Context, orgID string) ([]*domain.ManagedAccount, error) {
	var out []*domain.ManagedAccount
	for _, a := range m.accounts {
		if a.OrganizationID == orgID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockAccountStore) Purge(ctx context.Context, orgID, externalID, platformID string, principal domain.Principal) error {
	m.purgeCalls++
	if m.purgeErr != nil {
		return m.purgeErr
	}
	delete(m.accounts, acctKey(orgID, externalID))
	delete(m.ads, acctKey(orgID, externalID))
	delete(m.groups, acctKey(orgID, externalID))
	delete(m.creds.creds, credKey(platformID, principal))
	return nil
}

// mockFlowStateStore implements driven.FlowStateStore for testing
type mockFlowStateStore struct {
	states     map[string]*domain.FlowState
	selections map[string]*domain.StagedSelection
}

func newMockFlowStateStore() *mockFlowStateStore {
	return &mockFlowStateStore{
		states:     make(map[string]*domain.FlowState),
		selections: make(map[string]*domain.StagedSelection),
	}
}

func (m *mockFlowStateStore) Begin(ctx context.Context, sessionID string, state *domain.FlowState) error {
	m.states[sessionID] = state
	return nil
}

func (m *mockFlowStateStore) Consume(ctx context.Context, sessionID, presentedState string) (*domain.FlowState, error) {
	fs, ok := m.states[sessionID]
	delete(m.states, sessionID)
	if !ok || fs.State != presentedState || time.Now().After(fs.ExpiresAt) {
		return nil, domain.ErrInvalidState
	}
	return fs, nil
}

func (m *mockFlowStateStore) StageSelection(ctx context.Context, sessionID string, sel *domain.StagedSelection) error {
	m.selections[sessionID] = sel
	return nil
}

func (m *mockFlowStateStore) TakeSelection(ctx context.Context, sessionID, chosenID string) (*domain.SelectionCandidate, *domain.StagedSelection, error) {
	sel, ok := m.selections[sessionID]
	if !ok {
		return nil, nil, domain.ErrNotFound
	}
	for i := range sel.Candidates {
		if sel.Candidates[i].ID == chosenID {
			delete(m.selections, sessionID)
			return &sel.Candidates[i], sel, nil
		}
	}
	return nil, nil, domain.ErrNotFound
}

func (m *mockFlowStateStore) Clear(ctx context.Context, sessionID string) error {
	delete(m.states, sessionID)
	delete(m.selections, sessionID)
	return nil
}

func (m *mockFlowStateStore) Cleanup(ctx context.Context) error {
	return nil
}

// mockLock implements driven.RefreshLock, always granting
type mockLock struct {
	held map[string]bool
}

func newMockLock() *mockLock {
	return &mockLock{held: make(map[string]bool)}
}

func (m *mockLock) Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	if m.held[name] {
		return false, nil
	}
	m.held[name] = true
	return true, nil
}

func (m *mockLock) Release(ctx context.Context, name string) error {
	delete(m.held, name)
	return nil
}

// fakeAdapter implements driven.ProviderAdapter with canned responses
type fakeAdapter struct {
	providerType domain.ProviderType
	rotates      bool

	exchangeResult *domain.TokenSet
	exchangeErr    error
	exchangeCalls  int

	refreshResult *domain.TokenSet
	refreshErr    error
	refreshCalls  int

	profile    *domain.ProviderProfile
	profileErr error
}

func (f *fakeAdapter) ProviderType() domain.ProviderType { return f.providerType }

func (f *fakeAdapter) BuildAuthURL(app *domain.AppCredentials, redirectURI, state string, scopes []string) string {
	return fmt.Sprintf(
		"https://provider.example.com/authorize?response_type=code&access_type=offline&prompt=consent&client_id=%s&redirect_uri=%s&state=%s",
		app.ClientID, redirectURI, state)
}

func (f *fakeAdapter) ExchangeCode(ctx context.Context, app *domain.AppCredentials, code, redirectURI string) (*domain.TokenSet, error) {
	f.exchangeCalls++
	if f.exchangeErr != nil {
		return nil, f.exchangeErr
	}
	return f.exchangeResult, nil
}

func (f *fakeAdapter) Refresh(ctx context.Context, app *domain.AppCredentials, refreshToken string) (*domain.TokenSet, error) {
	f.refreshCalls++
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	return f.refreshResult, nil
}

func (f *fakeAdapter) FetchProfile(ctx context.Context, accessToken string) (*domain.ProviderProfile, error) {
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	if f.profile != nil {
		return f.profile, nil
	}
	return &domain.ProviderProfile{ID: "profile-1", Name: "Test User"}, nil
}

func (f *fakeAdapter) DefaultScopes() []string { return []string{"scope.a", "scope.b"} }

func (f *fakeAdapter) RotatesRefreshToken() bool { return f.rotates }

// fakeListerAdapter adds candidate listing for selection flows
type fakeListerAdapter struct {
	fakeAdapter
	candidates []domain.SelectionCandidate
	listErr    error
}

func (f *fakeListerAdapter) ListManagedAccounts(ctx context.Context, accessToken string) ([]domain.SelectionCandidate, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.candidates, nil
}

// fakeSyncerAdapter adds managed-account sync
type fakeSyncerAdapter struct {
	fakeAdapter
	syncResult *domain.ManagedAccountInfo
	syncErr    error
	syncCalls  int
}

func (f *fakeSyncerAdapter) SyncManagedAccount(ctx context.Context, app *domain.AppCredentials, accessToken, externalID string) (*domain.ManagedAccountInfo, error) {
	f.syncCalls++
	if f.syncErr != nil {
		return nil, f.syncErr
	}
	return f.syncResult, nil
}

// fakeRegistry implements driven.ProviderRegistry
type fakeRegistry struct {
	adapters map[domain.ProviderType]driven.ProviderAdapter
}

func newFakeRegistry(adapters ...driven.ProviderAdapter) *fakeRegistry {
	r := &fakeRegistry{adapters: make(map[domain.ProviderType]driven.ProviderAdapter)}
	for _, a := range adapters {
		r.adapters[a.ProviderType()] = a
	}
	return r
}

func (r *fakeRegistry) Get(pt domain.ProviderType) driven.ProviderAdapter {
	return r.adapters[pt]
}

// fixedClock returns a Clock pinned to the given instant
func fixedClock(t time.Time) driven.Clock {
	return func() time.Time { return t }
}

func adminAuth() *domain.AuthContext {
	return &domain.AuthContext{
		UserID:         "user-1",
		OrganizationID: "org-1",
		Role:           domain.RoleAdmin,
		SessionID:      "sess-1",
	}
}

func memberAuth() *domain.AuthContext {
	return &domain.AuthContext{
		UserID:         "user-2",
		OrganizationID: "org-1",
		Role:           domain.RoleMember,
		SessionID:      "sess-2",
	}
}
