package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nexlink-labs/nexlink-core/internal/core/domain"
	"github.com/nexlink-labs/nexlink-core/internal/core/ports/driving"
)

// ErrorResponse represents an API error response
// @Description API error response
type ErrorResponse struct {
	Error string `json:"error" example:"invalid request body"`
}

// StatusResponse represents a simple status response
// @Description Simple status response
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// VersionResponse represents the API version response
// @Description API version response
type VersionResponse struct {
	Version string `json:"version" example:"1.0.0"`
}

// AuthRequiredResponse is returned when a request needs the user to go
// through an authorization flow before it can succeed.
// @Description Error response carrying a ready-to-use authorization URL
type AuthRequiredResponse struct {
	Error            string `json:"error" example:"authorization required for google_ads"`
	ProviderType     string `json:"provider_type" example:"google_ads"`
	AuthorizationURL string `json:"authorization_url,omitempty" example:"https://accounts.google.com/o/oauth2/v2/auth?..."`
}

// TokenResponse carries a short-lived access token for other subsystems.
// @Description Valid provider access token
type TokenResponse struct {
	AccessToken string `json:"access_token"`
}

// SelectionRequest identifies the candidate chosen after a staged flow.
// @Description Candidate choice for a pending selection
type SelectionRequest struct {
	ChosenID string `json:"chosen_id" example:"urn:li:organization:123"`
}

// SyncAccountRequest names the managed account to fetch from the provider.
// @Description Managed account sync parameters
type SyncAccountRequest struct {
	ExternalID string `json:"external_id,omitempty" example:"123-456-7890"`
}

// Health endpoints

// handleHealth godoc
// @Summary      Health check
// @Description  Returns the health status of the API
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Router       /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady godoc
// @Summary      Readiness check
// @Description  Returns the readiness status of the API (checks backing stores)
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Failure      503  {object}  ErrorResponse  "A backing store is unreachable"
// @Router       /ready [get]
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		if err := s.db.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	if s.redisClient != nil {
		if err := s.redisClient.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "redis unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleVersion godoc
// @Summary      Get API version
// @Description  Returns the current API version
// @Tags         Health
// @Produce      json
// @Success      200  {object}  VersionResponse
// @Router       /version [get]
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

// Credential endpoints

// handleSaveCredentials godoc
// @Summary      Register app credentials
// @Description  Store or replace the organization's OAuth application credentials for a provider (admin only)
// @Tags         Credentials
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      driving.SaveCredentialsRequest  true  "App credentials"
// @Success      200      {object}  domain.AppCredentialsSummary
// @Failure      400      {object}  ErrorResponse  "Invalid request body or incomplete credentials"
// @Failure      401      {object}  ErrorResponse  "Unauthorized"
// @Failure      403      {object}  ErrorResponse  "Forbidden - admin only"
// @Router       /credentials [post]
func (s *Server) handleSaveCredentials(w http.ResponseWriter, r *http.Request) {
	var req driving.SaveCredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	summary, err := s.credentialService.SaveAppCredentials(r.Context(), GetAuthContext(r.Context()), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// handleGetCredentials godoc
// @Summary      Get app credentials
// @Description  Return a secret-free summary of the stored app credentials for a provider (admin only)
// @Tags         Credentials
// @Produce      json
// @Security     BearerAuth
// @Param        provider  path      string  true  "Provider type"  Enums(google_ads, linkedin, linkedin_page)
// @Success      200       {object}  domain.AppCredentialsSummary
// @Failure      401       {object}  ErrorResponse  "Unauthorized"
// @Failure      403       {object}  ErrorResponse  "Forbidden - admin only"
// @Failure      404       {object}  ErrorResponse  "No credentials configured"
// @Router       /credentials/{provider} [get]
func (s *Server) handleGetCredentials(w http.ResponseWriter, r *http.Request) {
	providerType := domain.ProviderType(r.PathValue("provider"))

	summary, err := s.credentialService.GetAppCredentials(r.Context(), GetAuthContext(r.Context()), providerType)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// handleListCredentials godoc
// @Summary      List app credentials
// @Description  Return secret-free summaries for every provider with stored credentials
// @Tags         Credentials
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.AppCredentialsSummary
// @Failure      401  {object}  ErrorResponse  "Unauthorized"
// @Router       /credentials [get]
func (s *Server) handleListCredentials(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.credentialService.ListAppCredentials(r.Context(), GetAuthContext(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, summaries)
}

// Connection endpoints

// handleListConnections godoc
// @Summary      List connections
// @Description  Return the configuration and connection status of every supported provider
// @Tags         Connections
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   driving.ConnectionSummary
// @Failure      401  {object}  ErrorResponse  "Unauthorized"
// @Router       /connections [get]
func (s *Server) handleListConnections(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.connectionService.ListConnections(r.Context(), GetAuthContext(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, summaries)
}

// handleAuthorize godoc
// @Summary      Start authorization flow
// @Description  Generate a provider authorization URL with a single-use CSRF state bound to the caller's session
// @Tags         Connections
// @Produce      json
// @Security     BearerAuth
// @Param        provider  path      string  true  "Provider type"  Enums(google_ads, linkedin, linkedin_page)
// @Success      200       {object}  driving.AuthorizeResponse
// @Failure      400       {object}  ErrorResponse  "Unsupported provider"
// @Failure      401       {object}  ErrorResponse  "Unauthorized"
// @Failure      403       {object}  ErrorResponse  "Forbidden - organization grants are admin only"
// @Failure      404       {object}  ErrorResponse  "No app credentials configured"
// @Router       /connections/{provider}/authorize [post]
func (s *Server) handleAuthorize(w http.ResponseWriter, r *http.Request) {
	providerType := domain.ProviderType(r.PathValue("provider"))

	resp, err := s.connectionService.GenerateAuthorizationURL(r.Context(), GetAuthContext(r.Context()), providerType)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleCallback godoc
// @Summary      Complete authorization flow
// @Description  Consume the CSRF state and exchange the authorization code. Flows with multiple candidate accounts return a pending selection instead of a stored connection.
// @Tags         Connections
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        provider  path      string                   true  "Provider type"  Enums(google_ads, linkedin, linkedin_page)
// @Param        request   body      driving.CallbackRequest  true  "Callback parameters"
// @Success      200       {object}  driving.CallbackResponse
// @Failure      400       {object}  ErrorResponse  "Invalid, expired or replayed state"
// @Failure      401       {object}  ErrorResponse  "Unauthorized"
// @Failure      403       {object}  ErrorResponse  "Forbidden - organization grants are admin only"
// @Failure      502       {object}  ErrorResponse  "Provider unreachable"
// @Router       /connections/{provider}/callback [post]
func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	var req driving.CallbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.ProviderType = domain.ProviderType(r.PathValue("provider"))

	resp, err := s.connectionService.HandleCallback(r.Context(), GetAuthContext(r.Context()), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleCallbackRedirect godoc
// @Summary      Provider redirect target
// @Description  Browser-facing variant of the callback taking the provider's query parameters
// @Tags         Connections
// @Produce      json
// @Security     BearerAuth
// @Param        provider  path      string  true   "Provider type"  Enums(google_ads, linkedin, linkedin_page)
// @Param        code      query     string  false  "Authorization code"
// @Param        state     query     string  true   "CSRF state"
// @Param        error     query     string  false  "Provider error code"
// @Success      200       {object}  driving.CallbackResponse
// @Failure      400       {object}  ErrorResponse  "Invalid, expired or replayed state"
// @Failure      401       {object}  ErrorResponse  "Unauthorized"
// @Failure      403       {object}  ErrorResponse  "Forbidden - organization grants are admin only"
// @Failure      502       {object}  ErrorResponse  "Provider unreachable"
// @Router       /connections/{provider}/callback [get]
func (s *Server) handleCallbackRedirect(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := driving.CallbackRequest{
		ProviderType:     domain.ProviderType(r.PathValue("provider")),
		Code:             q.Get("code"),
		State:            q.Get("state"),
		Error:            q.Get("error"),
		ErrorDescription: q.Get("error_description"),
	}

	resp, err := s.connectionService.HandleCallback(r.Context(), GetAuthContext(r.Context()), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleCompleteSelection godoc
// @Summary      Complete pending selection
// @Description  Persist a staged flow under the chosen candidate account. The staged list is removed on success; an unknown candidate leaves it available for another attempt.
// @Tags         Connections
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        provider  path      string            true  "Provider type"  Enums(linkedin_page)
// @Param        request   body      SelectionRequest  true  "Chosen candidate"
// @Success      200       {object}  driving.CallbackResponse
// @Failure      400       {object}  ErrorResponse  "Invalid request body or provider mismatch"
// @Failure      401       {object}  ErrorResponse  "Unauthorized"
// @Failure      403       {object}  ErrorResponse  "Forbidden - organization grants are admin only"
// @Failure      404       {object}  ErrorResponse  "No pending selection or unknown candidate"
// @Router       /connections/{provider}/selection [post]
func (s *Server) handleCompleteSelection(w http.ResponseWriter, r *http.Request) {
	var req SelectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	providerType := domain.ProviderType(r.PathValue("provider"))

	resp, err := s.connectionService.CompleteSelection(r.Context(), GetAuthContext(r.Context()), providerType, req.ChosenID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleTestConnection godoc
// @Summary      Test connection
// @Description  Verify the stored grant end to end by calling the provider identity endpoint with a valid access token
// @Tags         Connections
// @Produce      json
// @Security     BearerAuth
// @Param        provider  path      string  true  "Provider type"  Enums(google_ads, linkedin, linkedin_page)
// @Success      200       {object}  domain.ProviderProfile
// @Failure      401       {object}  ErrorResponse  "Unauthorized"
// @Failure      409       {object}  AuthRequiredResponse  "Authorization flow required"
// @Failure      502       {object}  ErrorResponse  "Provider unreachable"
// @Router       /connections/{provider}/test [post]
func (s *Server) handleTestConnection(w http.ResponseWriter, r *http.Request) {
	providerType := domain.ProviderType(r.PathValue("provider"))

	profile, err := s.connectionService.TestConnection(r.Context(), GetAuthContext(r.Context()), providerType)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// handleSyncAccount godoc
// @Summary      Sync managed account
// @Description  Fetch fresh managed-account metadata from the provider, cache it and mark the platform connected
// @Tags         Accounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        provider  path      string              true  "Provider type"  Enums(google_ads)
// @Param        request   body      SyncAccountRequest  true  "Account to sync"
// @Success      200       {object}  domain.ManagedAccountInfo
// @Failure      400       {object}  ErrorResponse  "No account identified"
// @Failure      401       {object}  ErrorResponse  "Unauthorized"
// @Failure      409       {object}  AuthRequiredResponse  "Authorization flow required"
// @Failure      502       {object}  ErrorResponse  "Provider unreachable"
// @Router       /connections/{provider}/accounts/sync [post]
func (s *Server) handleSyncAccount(w http.ResponseWriter, r *http.Request) {
	var req SyncAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	providerType := domain.ProviderType(r.PathValue("provider"))

	info, err := s.connectionService.ConnectAndFetchManagedAccountInfo(r.Context(), GetAuthContext(r.Context()), providerType, req.ExternalID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, info)
}

// handleGetAccount godoc
// @Summary      Get cached managed account
// @Description  Return the cached managed-account snapshot without touching the provider
// @Tags         Accounts
// @Produce      json
// @Security     BearerAuth
// @Param        external_id  path      string  true  "Provider-side account identifier"
// @Success      200          {object}  domain.ManagedAccountInfo
// @Failure      401          {object}  ErrorResponse  "Unauthorized"
// @Failure      404          {object}  ErrorResponse  "Nothing cached for this account"
// @Router       /accounts/{external_id} [get]
func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	externalID := r.PathValue("external_id")

	info, err := s.connectionService.GetManagedAccountInfo(r.Context(), GetAuthContext(r.Context()), externalID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, info)
}

// handleDisconnect godoc
// @Summary      Disconnect provider
// @Description  Remove the stored grant and all cached account data in one transaction (admin only)
// @Tags         Connections
// @Produce      json
// @Security     BearerAuth
// @Param        provider     path      string  true   "Provider type"  Enums(google_ads, linkedin, linkedin_page)
// @Param        external_id  query     string  false  "Managed account to purge"
// @Success      200          {object}  StatusResponse
// @Failure      401          {object}  ErrorResponse  "Unauthorized"
// @Failure      403          {object}  ErrorResponse  "Forbidden - admin only"
// @Failure      404          {object}  ErrorResponse  "Provider not connected"
// @Router       /connections/{provider} [delete]
func (s *Server) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	providerType := domain.ProviderType(r.PathValue("provider"))
	externalID := r.URL.Query().Get("external_id")

	if err := s.connectionService.Disconnect(r.Context(), GetAuthContext(r.Context()), providerType, externalID); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "disconnected"})
}

// handleGetToken godoc
// @Summary      Get valid access token
// @Description  Return an access token valid at call time, refreshing transparently when expired. Intended for other backend subsystems.
// @Tags         Connections
// @Produce      json
// @Security     BearerAuth
// @Param        provider  path      string  true  "Provider type"  Enums(google_ads, linkedin, linkedin_page)
// @Success      200       {object}  TokenResponse
// @Failure      401       {object}  ErrorResponse  "Unauthorized"
// @Failure      409       {object}  AuthRequiredResponse  "Authorization flow required"
// @Failure      502       {object}  ErrorResponse  "Provider unreachable"
// @Router       /connections/{provider}/token [get]
func (s *Server) handleGetToken(w http.ResponseWriter, r *http.Request) {
	providerType := domain.ProviderType(r.PathValue("provider"))
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	principal := domain.OrgPrincipal()
	if providerType == domain.ProviderTypeLinkedIn {
		principal = domain.UserPrincipal(authCtx.UserID)
	}

	token, err := s.tokenService.GetValidAccessToken(r.Context(), authCtx.OrganizationID, providerType, principal)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, TokenResponse{AccessToken: token})
}

// Helper functions

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps domain errors onto HTTP status codes. Errors that
// can be resolved by (re)authorizing get 409 with the authorization URL
// attached when the service could build one.
func writeServiceError(w http.ResponseWriter, err error) {
	var authErr *driving.AuthRequiredError
	if errors.As(err, &authErr) {
		writeJSON(w, http.StatusConflict, AuthRequiredResponse{
			Error:            authErr.Error(),
			ProviderType:     string(authErr.ProviderType),
			AuthorizationURL: authErr.AuthorizationURL,
		})
		return
	}

	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "admin access required")
	case errors.Is(err, domain.ErrAuthenticationRequired),
		errors.Is(err, domain.ErrReauthorizationRequired),
		errors.Is(err, domain.ErrConsentRequired):
		writeJSON(w, http.StatusConflict, AuthRequiredResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrInvalidState):
		writeError(w, http.StatusBadRequest, "invalid or expired state")
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrProviderNotSupported):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrCredentialsNotFound),
		errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrTransientProvider):
		writeError(w, http.StatusBadGateway, "provider temporarily unavailable")
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
