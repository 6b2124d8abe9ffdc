package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nexlink-labs/nexlink-core/internal/core/domain"
	"github.com/nexlink-labs/nexlink-core/internal/core/ports/driven"
	"github.com/nexlink-labs/nexlink-core/internal/core/ports/driving"
)

// Ensure tokenLifecycle implements TokenService
var _ driving.TokenService = (*tokenLifecycle)(nil)

// refreshLockTTL bounds how long a crashed holder can block other refreshers.
const refreshLockTTL = 30 * time.Second

// TokenLifecycleConfig holds configuration for the token lifecycle service.
type TokenLifecycleConfig struct {
	// AppCredentialStore retrieves OAuth app credentials.
	AppCredentialStore driven.AppCredentialStore

	// PlatformStore resolves provider integration instances.
	PlatformStore driven.PlatformStore

	// CredentialStore persists runtime OAuth grants.
	CredentialStore driven.RuntimeCredentialStore

	// Registry resolves the adapter per provider.
	Registry driven.ProviderRegistry

	// RefreshLock serializes refresh per credential. Required: providers
	// that rotate refresh tokens invalidate the old one on use.
	RefreshLock driven.RefreshLock

	// Clock supplies the current time for expiry decisions.
	// Defaults to time.Now.
	Clock driven.Clock

	// Logger for refresh outcomes. Defaults to slog.Default.
	Logger *slog.Logger
}

// tokenLifecycle implements driving.TokenService.
type tokenLifecycle struct {
	appCreds  driven.AppCredentialStore
	platforms driven.PlatformStore
	creds     driven.RuntimeCredentialStore
	registry  driven.ProviderRegistry
	lock      driven.RefreshLock
	clock     driven.Clock
	logger    *slog.Logger
}

// NewTokenLifecycle creates a new token lifecycle service.
func NewTokenLifecycle(cfg TokenLifecycleConfig) driving.TokenService {
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &tokenLifecycle{
		appCreds:  cfg.AppCredentialStore,
		platforms: cfg.PlatformStore,
		creds:     cfg.CredentialStore,
		registry:  cfg.Registry,
		lock:      cfg.RefreshLock,
		clock:     clock,
		logger:    logger,
	}
}

// GetValidAccessToken returns an access token valid at call time.
//
// Decision order: no grant means the organization never completed a flow
// (domain.ErrAuthenticationRequired); an unexpired token is returned without
// touching the network; an expired token without a refresh token cannot
// recover without the user (domain.ErrReauthorizationRequired); otherwise
// the grant is refreshed and re-stored before the new token is returned.
func (s *tokenLifecycle) GetValidAccessToken(ctx context.Context, orgID string, providerType domain.ProviderType, principal domain.Principal) (string, error) {
	adapter := s.registry.Get(providerType)
	if adapter == nil {
		return "", fmt.Errorf("%w: %s", domain.ErrProviderNotSupported, providerType)
	}

	platform, err := s.platforms.Get(ctx, orgID, providerType)
	if errors.Is(err, domain.ErrNotFound) {
		return "", domain.ErrAuthenticationRequired
	}
	if err != nil {
		return "", fmt.Errorf("get platform: %w", err)
	}

	cred, err := s.creds.Get(ctx, platform.ID, principal)
	if errors.Is(err, domain.ErrNotFound) {
		return "", domain.ErrAuthenticationRequired
	}
	if err != nil {
		return "", fmt.Errorf("get credential: %w", err)
	}

	if !cred.IsExpired(s.clock()) {
		return cred.AccessToken, nil
	}

	if cred.RefreshToken == "" {
		return "", fmt.Errorf("%w: expired grant has no refresh token", domain.ErrReauthorizationRequired)
	}

	return s.refresh(ctx, orgID, providerType, adapter, platform, principal, cred)
}

// refresh exchanges the refresh token and stores the rotated grant.
// A per-credential lock keeps concurrent callers from racing the rotation;
// the loser re-reads what the winner stored.
func (s *tokenLifecycle) refresh(ctx context.Context, orgID string, providerType domain.ProviderType, adapter driven.ProviderAdapter, platform *domain.Platform, principal domain.Principal, cred *domain.PlatformCredential) (string, error) {
	lockName := refreshLockName(cred)

	acquired, err := s.lock.Acquire(ctx, lockName, refreshLockTTL)
	if err != nil {
		return "", fmt.Errorf("acquire refresh lock: %w", err)
	}
	if !acquired {
		return s.awaitConcurrentRefresh(ctx, platform.ID, principal)
	}
	defer s.lock.Release(ctx, lockName)

	app, err := s.appCreds.Get(ctx, orgID, providerType)
	if err != nil {
		return "", err
	}

	ts, err := adapter.Refresh(ctx, app, cred.RefreshToken)
	if err != nil {
		s.logger.Warn("token refresh failed",
			"provider", providerType,
			"platform_id", platform.ID,
			"error", err)
		return "", err
	}

	cred.ApplyRefresh(ts)
	if err := s.creds.Upsert(ctx, cred); err != nil {
		return "", fmt.Errorf("store refreshed credential: %w", err)
	}

	s.logger.Info("token refreshed",
		"provider", providerType,
		"platform_id", platform.ID,
		"expires_at", cred.ExpiresAt)

	return cred.AccessToken, nil
}

// awaitConcurrentRefresh re-reads the credential once after losing the lock
// race. If the winner has not stored a fresh token yet the caller retries.
func (s *tokenLifecycle) awaitConcurrentRefresh(ctx context.Context, platformID string, principal domain.Principal) (string, error) {
	cred, err := s.creds.Get(ctx, platformID, principal)
	if err != nil {
		return "", fmt.Errorf("re-read credential: %w", err)
	}
	if !cred.IsExpired(s.clock()) {
		return cred.AccessToken, nil
	}
	return "", fmt.Errorf("%w: refresh in progress", domain.ErrTransientProvider)
}

func refreshLockName(cred *domain.PlatformCredential) string {
	return fmt.Sprintf("refresh:%s:%s:%s", cred.PlatformID, cred.Principal.Type, cred.Principal.SubjectID)
}
