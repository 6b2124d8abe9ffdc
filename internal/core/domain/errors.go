package domain

import "errors"

// Domain errors - used across all layers
var (
	// ErrNotFound indicates the requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates the resource already exists
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates the input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthenticated indicates the caller identity is missing or invalid
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrForbidden indicates the user lacks permission for this action
	ErrForbidden = errors.New("forbidden")

	// ErrCredentialsNotFound indicates no app credentials are configured
	// for the organization and provider
	ErrCredentialsNotFound = errors.New("credentials not found")

	// ErrCredentialsInvalid indicates stored credentials are corrupted or
	// missing a required field after decryption. This is an operational
	// failure, never treated as "not configured".
	ErrCredentialsInvalid = errors.New("credentials invalid")

	// ErrAuthenticationRequired indicates the organization has not yet
	// completed an authorization flow for the provider. Distinct from
	// ErrUnauthenticated: the caller is known, the grant is missing.
	ErrAuthenticationRequired = errors.New("authentication required")

	// ErrInvalidState indicates the OAuth callback state is missing,
	// mismatched, or expired. CSRF defense, fails closed.
	ErrInvalidState = errors.New("invalid oauth state")

	// ErrConsentRequired indicates the provider omitted a refresh token
	// because consent was not (re-)prompted
	ErrConsentRequired = errors.New("consent required")

	// ErrTransientProvider indicates a retryable provider failure
	// (network, rate limit, timeout, 5xx)
	ErrTransientProvider = errors.New("transient provider error")

	// ErrReauthorizationRequired indicates the refresh token was revoked
	// or rejected. Recovery always requires a fresh user authorization.
	ErrReauthorizationRequired = errors.New("reauthorization required")

	// ErrSelectionPending indicates the authorization flow needs a
	// follow-up user selection before credentials can be stored
	ErrSelectionPending = errors.New("selection pending")

	// ErrProviderNotSupported indicates an unknown provider name
	ErrProviderNotSupported = errors.New("provider not supported")
)
