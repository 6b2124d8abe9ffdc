package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nexlink-labs/nexlink-core/internal/core/domain"
	"github.com/nexlink-labs/nexlink-core/internal/core/ports/driving"
)

// Mock services for testing

type mockConnectionService struct {
	generateAuthURLFn   func(ctx context.Context, auth *domain.AuthContext, providerType domain.ProviderType) (*driving.AuthorizeResponse, error)
	handleCallbackFn    func(ctx context.Context, auth *domain.AuthContext, req driving.CallbackRequest) (*driving.CallbackResponse, error)
	completeSelectionFn func(ctx context.Context, auth *domain.AuthContext, providerType domain.ProviderType, chosenID string) (*driving.CallbackResponse, error)
	testConnectionFn    func(ctx context.Context, auth *domain.AuthContext, providerType domain.ProviderType) (*domain.ProviderProfile, error)
	syncAccountFn       func(ctx context.Context, auth *domain.AuthContext, providerType domain.ProviderType, externalID string) (*domain.ManagedAccountInfo, error)
	getAccountFn        func(ctx context.Context, auth *domain.AuthContext, externalID string) (*domain.ManagedAccountInfo, error)
	listConnectionsFn   func(ctx context.Context, auth *domain.AuthContext) ([]*driving.ConnectionSummary, error)
	disconnectFn        func(ctx context.Context, auth *domain.AuthContext, providerType domain.ProviderType, externalID string) error
}

func (m *mockConnectionService) GenerateAuthorizationURL(ctx context.Context, auth *domain.AuthContext, providerType domain.ProviderType) (*driving.AuthorizeResponse, error) {
	if m.generateAuthURLFn != nil {
		return m.generateAuthURLFn(ctx, auth, providerType)
	}
	return nil, errors.New("not implemented")
}

func (m *mockConnectionService) HandleCallback(ctx context.Context, auth *domain.AuthContext, req driving.CallbackRequest) (*driving.CallbackResponse, error) {
	if m.handleCallbackFn != nil {
		return m.handleCallbackFn(ctx, auth, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockConnectionService) CompleteSelection(ctx context.Context, auth *domain.AuthContext, providerType domain.ProviderType, chosenID string) (*driving.CallbackResponse, error) {
	if m.completeSelectionFn != nil {
		return m.completeSelectionFn(ctx, auth, providerType, chosenID)
	}
	return nil, errors.New("not implemented")
}

func (m *mockConnectionService) TestConnection(ctx context.Context, auth *domain.AuthContext, providerType domain.ProviderType) (*domain.ProviderProfile, error) {
	if m.testConnectionFn != nil {
		return m.testConnectionFn(ctx, auth, providerType)
	}
	return nil, errors.New("not implemented")
}

func (m *mockConnectionService) ConnectAndFetchManagedAccountInfo(ctx context.Context, auth *domain.AuthContext, providerType domain.ProviderType, externalID string) (*domain.ManagedAccountInfo, error) {
	if m.syncAccountFn != nil {
		return m.syncAccountFn(ctx, auth, providerType, externalID)
	}
	return nil, errors.New("not implemented")
}

func (m *mockConnectionService) GetManagedAccountInfo(ctx context.Context, auth *domain.AuthContext, externalID string) (*domain.ManagedAccountInfo, error) {
	if m.getAccountFn != nil {
		return m.getAccountFn(ctx, auth, externalID)
	}
	return nil, errors.New("not implemented")
}

func (m *mockConnectionService) ListConnections(ctx context.Context, auth *domain.AuthContext) ([]*driving.ConnectionSummary, error) {
	if m.listConnectionsFn != nil {
		return m.listConnectionsFn(ctx, auth)
	}
	return nil, errors.New("not implemented")
}

func (m *mockConnectionService) Disconnect(ctx context.Context, auth *domain.AuthContext, providerType domain.ProviderType, externalID string) error {
	if m.disconnectFn != nil {
		return m.disconnectFn(ctx, auth, providerType, externalID)
	}
	return errors.New("not implemented")
}

type mockCredentialService struct {
	saveFn func(ctx context.Context, auth *domain.AuthContext, req driving.SaveCredentialsRequest) (*domain.AppCredentialsSummary, error)
	getFn  func(ctx context.Context, auth *domain.AuthContext, providerType domain.ProviderType) (*domain.AppCredentialsSummary, error)
	listFn func(ctx context.Context, auth *domain.AuthContext) ([]*domain.AppCredentialsSummary, error)
}

func (m *mockCredentialService) SaveAppCredentials(ctx context.Context, auth *domain.AuthContext, req driving.SaveCredentialsRequest) (*domain.AppCredentialsSummary, error) {
	if m.saveFn != nil {
		return m.saveFn(ctx, auth, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockCredentialService) GetAppCredentials(ctx context.Context, auth *domain.AuthContext, providerType domain.ProviderType) (*domain.AppCredentialsSummary, error) {
	if m.getFn != nil {
		return m.getFn(ctx, auth, providerType)
	}
	return nil, errors.New("not implemented")
}

func (m *mockCredentialService) ListAppCredentials(ctx context.Context, auth *domain.AuthContext) ([]*domain.AppCredentialsSummary, error) {
	if m.listFn != nil {
		return m.listFn(ctx, auth)
	}
	return nil, errors.New("not implemented")
}

type mockTokenService struct {
	getTokenFn func(ctx context.Context, orgID string, providerType domain.ProviderType, principal domain.Principal) (string, error)
}

func (m *mockTokenService) GetValidAccessToken(ctx context.Context, orgID string, providerType domain.ProviderType, principal domain.Principal) (string, error) {
	if m.getTokenFn != nil {
		return m.getTokenFn(ctx, orgID, providerType, principal)
	}
	return "", errors.New("not implemented")
}

type failingPinger struct{}

func (failingPinger) Ping(ctx context.Context) error { return errors.New("connection refused") }

type okPinger struct{}

func (okPinger) Ping(ctx context.Context) error { return nil }

func newTestServer(conn *mockConnectionService, cred *mockCredentialService, tokens *mockTokenService) *Server {
	if conn == nil {
		conn = &mockConnectionService{}
	}
	if cred == nil {
		cred = &mockCredentialService{}
	}
	if tokens == nil {
		tokens = &mockTokenService{}
	}
	cfg := DefaultConfig()
	cfg.Version = "test"
	return NewServer(cfg, conn, cred, tokens, adminToken(), okPinger{}, nil)
}

func doRequest(s *Server, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func TestHandleVersion(t *testing.T) {
	s := newTestServer(nil, nil, nil)

	rec := doRequest(s, "GET", "/version", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]string
	_ = json.NewDecoder(rec.Body).Decode(&resp)
	if resp["version"] != "test" {
		t.Errorf("expected version test, got %q", resp["version"])
	}
}

func TestHandleReady_DatabaseDown(t *testing.T) {
	cfg := DefaultConfig()
	s := NewServer(cfg, &mockConnectionService{}, &mockCredentialService{}, &mockTokenService{}, adminToken(), failingPinger{}, nil)

	rec := doRequest(s, "GET", "/ready", "", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", rec.Code)
	}
}

func TestHandleSaveCredentials(t *testing.T) {
	t.Run("admin saves", func(t *testing.T) {
		var captured driving.SaveCredentialsRequest
		cred := &mockCredentialService{
			saveFn: func(ctx context.Context, auth *domain.AuthContext, req driving.SaveCredentialsRequest) (*domain.AppCredentialsSummary, error) {
				captured = req
				return &domain.AppCredentialsSummary{
					OrganizationID:  auth.OrganizationID,
					ProviderType:    req.ProviderType,
					HasClientSecret: true,
					UpdatedAt:       time.Now(),
				}, nil
			},
		}
		s := newTestServer(nil, cred, nil)

		rec := doRequest(s, "POST", "/api/v1/credentials", "admin-token", driving.SaveCredentialsRequest{
			ProviderType: domain.ProviderTypeGoogleAds,
			ClientID:     "client-id",
			ClientSecret: "client-secret",
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if captured.ClientID != "client-id" {
			t.Errorf("expected decoded request, got %+v", captured)
		}
	})

	t.Run("member rejected before service", func(t *testing.T) {
		called := false
		cred := &mockCredentialService{
			saveFn: func(ctx context.Context, auth *domain.AuthContext, req driving.SaveCredentialsRequest) (*domain.AppCredentialsSummary, error) {
				called = true
				return nil, nil
			},
		}
		s := newTestServer(nil, cred, nil)

		rec := doRequest(s, "POST", "/api/v1/credentials", "member-token", driving.SaveCredentialsRequest{})
		if rec.Code != http.StatusForbidden {
			t.Errorf("expected 403, got %d", rec.Code)
		}
		if called {
			t.Error("service must not be reached by non-admin callers")
		}
	})

	t.Run("invalid body", func(t *testing.T) {
		s := newTestServer(nil, nil, nil)

		req := httptest.NewRequest("POST", "/api/v1/credentials", bytes.NewBufferString("{not json"))
		req.Header.Set("Authorization", "Bearer admin-token")
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("incomplete credentials", func(t *testing.T) {
		cred := &mockCredentialService{
			saveFn: func(ctx context.Context, auth *domain.AuthContext, req driving.SaveCredentialsRequest) (*domain.AppCredentialsSummary, error) {
				return nil, domain.ErrInvalidInput
			},
		}
		s := newTestServer(nil, cred, nil)

		rec := doRequest(s, "POST", "/api/v1/credentials", "admin-token", driving.SaveCredentialsRequest{
			ProviderType: domain.ProviderTypeGoogleAds,
		})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})
}

func TestHandleGetCredentials_NotFound(t *testing.T) {
	cred := &mockCredentialService{
		getFn: func(ctx context.Context, auth *domain.AuthContext, providerType domain.ProviderType) (*domain.AppCredentialsSummary, error) {
			return nil, domain.ErrCredentialsNotFound
		},
	}
	s := newTestServer(nil, cred, nil)

	rec := doRequest(s, "GET", "/api/v1/credentials/google_ads", "admin-token", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestHandleAuthorize(t *testing.T) {
	conn := &mockConnectionService{
		generateAuthURLFn: func(ctx context.Context, auth *domain.AuthContext, providerType domain.ProviderType) (*driving.AuthorizeResponse, error) {
			if providerType != domain.ProviderTypeLinkedIn {
				t.Errorf("expected provider from path, got %s", providerType)
			}
			return &driving.AuthorizeResponse{AuthorizationURL: "https://www.linkedin.com/oauth/v2/authorization?state=abc"}, nil
		},
	}
	s := newTestServer(conn, nil, nil)

	rec := doRequest(s, "POST", "/api/v1/connections/linkedin/authorize", "member-token", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp driving.AuthorizeResponse
	_ = json.NewDecoder(rec.Body).Decode(&resp)
	if resp.AuthorizationURL == "" {
		t.Error("expected authorization URL in response")
	}
}

func TestHandleCallback(t *testing.T) {
	t.Run("post body", func(t *testing.T) {
		conn := &mockConnectionService{
			handleCallbackFn: func(ctx context.Context, auth *domain.AuthContext, req driving.CallbackRequest) (*driving.CallbackResponse, error) {
				if req.ProviderType != domain.ProviderTypeGoogleAds {
					t.Errorf("expected provider from path, got %s", req.ProviderType)
				}
				if req.Code != "auth-code" || req.State != "csrf-state" {
					t.Errorf("unexpected callback request: %+v", req)
				}
				return &driving.CallbackResponse{Connected: true, Message: "connected"}, nil
			},
		}
		s := newTestServer(conn, nil, nil)

		rec := doRequest(s, "POST", "/api/v1/connections/google_ads/callback", "member-token", driving.CallbackRequest{
			Code:  "auth-code",
			State: "csrf-state",
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("redirect query params", func(t *testing.T) {
		conn := &mockConnectionService{
			handleCallbackFn: func(ctx context.Context, auth *domain.AuthContext, req driving.CallbackRequest) (*driving.CallbackResponse, error) {
				if req.Code != "auth-code" || req.State != "csrf-state" || req.Error != "access_denied" {
					t.Errorf("query params not mapped: %+v", req)
				}
				return &driving.CallbackResponse{Message: "denied"}, nil
			},
		}
		s := newTestServer(conn, nil, nil)

		rec := doRequest(s, "GET", "/api/v1/connections/google_ads/callback?code=auth-code&state=csrf-state&error=access_denied", "member-token", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("invalid state", func(t *testing.T) {
		conn := &mockConnectionService{
			handleCallbackFn: func(ctx context.Context, auth *domain.AuthContext, req driving.CallbackRequest) (*driving.CallbackResponse, error) {
				return nil, domain.ErrInvalidState
			},
		}
		s := newTestServer(conn, nil, nil)

		rec := doRequest(s, "POST", "/api/v1/connections/google_ads/callback", "member-token", driving.CallbackRequest{State: "forged"})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("unauthenticated", func(t *testing.T) {
		s := newTestServer(nil, nil, nil)

		rec := doRequest(s, "POST", "/api/v1/connections/google_ads/callback", "", driving.CallbackRequest{})
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", rec.Code)
		}
	})
}

func TestHandleCompleteSelection_NotFound(t *testing.T) {
	conn := &mockConnectionService{
		completeSelectionFn: func(ctx context.Context, auth *domain.AuthContext, providerType domain.ProviderType, chosenID string) (*driving.CallbackResponse, error) {
			return nil, domain.ErrNotFound
		},
	}
	s := newTestServer(conn, nil, nil)

	rec := doRequest(s, "POST", "/api/v1/connections/linkedin_page/selection", "member-token", SelectionRequest{ChosenID: "urn:li:organization:1"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestHandleTestConnection(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		conn := &mockConnectionService{
			testConnectionFn: func(ctx context.Context, auth *domain.AuthContext, providerType domain.ProviderType) (*domain.ProviderProfile, error) {
				return &domain.ProviderProfile{ID: "me-123", Name: "Test User"}, nil
			},
		}
		s := newTestServer(conn, nil, nil)

		rec := doRequest(s, "POST", "/api/v1/connections/linkedin/test", "member-token", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		var profile domain.ProviderProfile
		_ = json.NewDecoder(rec.Body).Decode(&profile)
		if profile.ID != "me-123" {
			t.Errorf("expected profile in response, got %+v", profile)
		}
	})

	t.Run("authorization required carries URL", func(t *testing.T) {
		conn := &mockConnectionService{
			testConnectionFn: func(ctx context.Context, auth *domain.AuthContext, providerType domain.ProviderType) (*domain.ProviderProfile, error) {
				return nil, &driving.AuthRequiredError{
					ProviderType:     providerType,
					AuthorizationURL: "https://accounts.google.com/o/oauth2/v2/auth?response_type=code",
					Err:              domain.ErrAuthenticationRequired,
				}
			},
		}
		s := newTestServer(conn, nil, nil)

		rec := doRequest(s, "POST", "/api/v1/connections/google_ads/test", "member-token", nil)
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}

		var resp AuthRequiredResponse
		_ = json.NewDecoder(rec.Body).Decode(&resp)
		if resp.AuthorizationURL == "" || resp.ProviderType != "google_ads" {
			t.Errorf("expected authorization URL in error payload, got %+v", resp)
		}
	})

	t.Run("provider outage", func(t *testing.T) {
		conn := &mockConnectionService{
			testConnectionFn: func(ctx context.Context, auth *domain.AuthContext, providerType domain.ProviderType) (*domain.ProviderProfile, error) {
				return nil, domain.ErrTransientProvider
			},
		}
		s := newTestServer(conn, nil, nil)

		rec := doRequest(s, "POST", "/api/v1/connections/google_ads/test", "member-token", nil)
		if rec.Code != http.StatusBadGateway {
			t.Errorf("expected 502, got %d", rec.Code)
		}
	})
}

func TestHandleGetAccount_NotFound(t *testing.T) {
	conn := &mockConnectionService{
		getAccountFn: func(ctx context.Context, auth *domain.AuthContext, externalID string) (*domain.ManagedAccountInfo, error) {
			return nil, domain.ErrNotFound
		},
	}
	s := newTestServer(conn, nil, nil)

	rec := doRequest(s, "GET", "/api/v1/accounts/123-456-7890", "member-token", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestHandleDisconnect(t *testing.T) {
	t.Run("member rejected before service", func(t *testing.T) {
		called := false
		conn := &mockConnectionService{
			disconnectFn: func(ctx context.Context, auth *domain.AuthContext, providerType domain.ProviderType, externalID string) error {
				called = true
				return nil
			},
		}
		s := newTestServer(conn, nil, nil)

		rec := doRequest(s, "DELETE", "/api/v1/connections/google_ads", "member-token", nil)
		if rec.Code != http.StatusForbidden {
			t.Errorf("expected 403, got %d", rec.Code)
		}
		if called {
			t.Error("service must not be reached by non-admin callers")
		}
	})

	t.Run("admin disconnects", func(t *testing.T) {
		var gotProvider domain.ProviderType
		var gotExternalID string
		conn := &mockConnectionService{
			disconnectFn: func(ctx context.Context, auth *domain.AuthContext, providerType domain.ProviderType, externalID string) error {
				gotProvider = providerType
				gotExternalID = externalID
				return nil
			},
		}
		s := newTestServer(conn, nil, nil)

		rec := doRequest(s, "DELETE", "/api/v1/connections/google_ads?external_id=123-456-7890", "admin-token", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotProvider != domain.ProviderTypeGoogleAds || gotExternalID != "123-456-7890" {
			t.Errorf("expected path and query forwarded, got %s %s", gotProvider, gotExternalID)
		}
	})
}

func TestHandleGetToken(t *testing.T) {
	t.Run("organization principal for google ads", func(t *testing.T) {
		var gotPrincipal domain.Principal
		tokens := &mockTokenService{
			getTokenFn: func(ctx context.Context, orgID string, providerType domain.ProviderType, principal domain.Principal) (string, error) {
				gotPrincipal = principal
				return "access-token", nil
			},
		}
		s := newTestServer(nil, nil, tokens)

		rec := doRequest(s, "GET", "/api/v1/connections/google_ads/token", "member-token", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotPrincipal.Type != domain.PrincipalOrganization {
			t.Errorf("expected organization principal, got %+v", gotPrincipal)
		}

		var resp TokenResponse
		_ = json.NewDecoder(rec.Body).Decode(&resp)
		if resp.AccessToken != "access-token" {
			t.Errorf("expected token in response, got %+v", resp)
		}
	})

	t.Run("user principal for linkedin profile", func(t *testing.T) {
		var gotPrincipal domain.Principal
		tokens := &mockTokenService{
			getTokenFn: func(ctx context.Context, orgID string, providerType domain.ProviderType, principal domain.Principal) (string, error) {
				gotPrincipal = principal
				return "access-token", nil
			},
		}
		s := newTestServer(nil, nil, tokens)

		rec := doRequest(s, "GET", "/api/v1/connections/linkedin/token", "member-token", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotPrincipal.Type != domain.PrincipalUser || gotPrincipal.SubjectID != "user-2" {
			t.Errorf("expected caller-scoped principal, got %+v", gotPrincipal)
		}
	})

	t.Run("no grant", func(t *testing.T) {
		tokens := &mockTokenService{
			getTokenFn: func(ctx context.Context, orgID string, providerType domain.ProviderType, principal domain.Principal) (string, error) {
				return "", domain.ErrAuthenticationRequired
			},
		}
		s := newTestServer(nil, nil, tokens)

		rec := doRequest(s, "GET", "/api/v1/connections/google_ads/token", "member-token", nil)
		if rec.Code != http.StatusConflict {
			t.Errorf("expected 409, got %d", rec.Code)
		}
	})
}
