package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/nexlink-labs/nexlink-core/internal/core/domain"
	"github.com/nexlink-labs/nexlink-core/internal/core/ports/driven"
)

// Ensure AppCredentialStore implements the interface.
var _ driven.AppCredentialStore = (*AppCredentialStore)(nil)

// appSecrets is the shape serialized into the encrypted blob.
type appSecrets struct {
	ClientID         string `json:"client_id"`
	ClientSecret     string `json:"client_secret"`
	DeveloperToken   string `json:"developer_token,omitempty"`
	ManagerAccountID string `json:"manager_account_id,omitempty"`
}

// AppCredentialStore implements driven.AppCredentialStore using PostgreSQL.
// One row per (organization, provider) - secrets live in an encrypted blob.
type AppCredentialStore struct {
	db        *sql.DB
	encryptor *SecretEncryptor
}

// NewAppCredentialStore creates a new PostgreSQL-backed app credential store.
func NewAppCredentialStore(db *sql.DB, encryptor *SecretEncryptor) *AppCredentialStore {
	return &AppCredentialStore{
		db:        db,
		encryptor: encryptor,
	}
}

// Save stores or updates app credentials (upsert).
func (s *AppCredentialStore) Save(ctx context.Context, creds *domain.AppCredentials) error {
	if err := creds.Validate(); err != nil {
		return err
	}

	blob, err := s.encryptor.Encrypt(appSecrets{
		ClientID:         creds.ClientID,
		ClientSecret:     creds.ClientSecret,
		DeveloperToken:   creds.DeveloperToken,
		ManagerAccountID: creds.ManagerAccountID,
	})
	if err != nil {
		return fmt.Errorf("encrypt app credentials: %w", err)
	}

	query := `
		INSERT INTO app_credentials (organization_id, provider_type, secret_blob, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (organization_id, provider_type) DO UPDATE SET
			secret_blob = EXCLUDED.secret_blob,
			updated_at = EXCLUDED.updated_at
	`

	now := time.Now()
	if creds.CreatedAt.IsZero() {
		creds.CreatedAt = now
	}
	creds.UpdatedAt = now

	_, err = s.db.ExecContext(ctx, query,
		creds.OrganizationID,
		creds.ProviderType,
		blob,
		creds.CreatedAt,
		creds.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save app credentials: %w", err)
	}

	return nil
}

// Get retrieves app credentials with decrypted secrets.
func (s *AppCredentialStore) Get(ctx context.Context, orgID string, providerType domain.ProviderType) (*domain.AppCredentials, error) {
	query := `
		SELECT secret_blob, created_at, updated_at
		FROM app_credentials
		WHERE organization_id = $1 AND provider_type = $2
	`

	var blob []byte
	creds := &domain.AppCredentials{
		OrganizationID: orgID,
		ProviderType:   providerType,
	}

	err := s.db.QueryRowContext(ctx, query, orgID, providerType).Scan(
		&blob,
		&creds.CreatedAt,
		&creds.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrCredentialsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get app credentials: %w", err)
	}

	var secrets appSecrets
	if err := decryptCredentialBlob(s.encryptor, blob, &secrets); err != nil {
		return nil, err
	}

	creds.ClientID = secrets.ClientID
	creds.ClientSecret = secrets.ClientSecret
	creds.DeveloperToken = secrets.DeveloperToken
	creds.ManagerAccountID = secrets.ManagerAccountID

	if err := creds.Validate(); err != nil {
		return nil, err
	}

	return creds, nil
}

// List retrieves all configured credentials for an organization as summaries.
func (s *AppCredentialStore) List(ctx context.Context, orgID string) ([]*domain.AppCredentialsSummary, error) {
	query := `
		SELECT provider_type, secret_blob, updated_at
		FROM app_credentials
		WHERE organization_id = $1
		ORDER BY provider_type
	`

	rows, err := s.db.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("list app credentials: %w", err)
	}
	defer rows.Close()

	var summaries []*domain.AppCredentialsSummary
	for rows.Next() {
		var providerType domain.ProviderType
		var blob []byte
		var updatedAt time.Time

		if err := rows.Scan(&providerType, &blob, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan app credentials: %w", err)
		}

		var secrets appSecrets
		if err := decryptCredentialBlob(s.encryptor, blob, &secrets); err != nil {
			return nil, err
		}

		summaries = append(summaries, &domain.AppCredentialsSummary{
			OrganizationID:    orgID,
			ProviderType:      providerType,
			HasClientSecret:   secrets.ClientSecret != "",
			HasDeveloperToken: secrets.DeveloperToken != "",
			ManagerAccountID:  secrets.ManagerAccountID,
			UpdatedAt:         updatedAt,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate app credentials: %w", err)
	}

	return summaries, nil
}
