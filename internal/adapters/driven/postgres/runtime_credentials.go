package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/nexlink-labs/nexlink-core/internal/core/domain"
	"github.com/nexlink-labs/nexlink-core/internal/core/ports/driven"
)

// Ensure RuntimeCredentialStore implements the interface.
var _ driven.RuntimeCredentialStore = (*RuntimeCredentialStore)(nil)

// tokenSecrets is the shape serialized into the encrypted blob.
type tokenSecrets struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// RuntimeCredentialStore implements driven.RuntimeCredentialStore using
// PostgreSQL. The unique index on (platform_id, principal_type, subject_id)
// plus ON CONFLICT gives last-writer-wins upsert semantics.
type RuntimeCredentialStore struct {
	db        *sql.DB
	encryptor *SecretEncryptor
}

// NewRuntimeCredentialStore creates a new PostgreSQL-backed runtime
// credential store.
func NewRuntimeCredentialStore(db *sql.DB, encryptor *SecretEncryptor) *RuntimeCredentialStore {
	return &RuntimeCredentialStore{
		db:        db,
		encryptor: encryptor,
	}
}

// Upsert stores or replaces the credential for its key.
func (s *RuntimeCredentialStore) Upsert(ctx context.Context, cred *domain.PlatformCredential) error {
	return upsertCredential(ctx, s.db, s.encryptor, cred)
}

// upsertCredential runs against either the pool or a transaction.
func upsertCredential(ctx context.Context, q queryer, encryptor *SecretEncryptor, cred *domain.PlatformCredential) error {
	blob, err := encryptor.Encrypt(tokenSecrets{
		AccessToken:  cred.AccessToken,
		RefreshToken: cred.RefreshToken,
	})
	if err != nil {
		return fmt.Errorf("encrypt tokens: %w", err)
	}

	query := `
		INSERT INTO platform_credentials (
			id, platform_id, principal_type, subject_id,
			token_blob, scopes, expires_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (platform_id, principal_type, subject_id) DO UPDATE SET
			token_blob = EXCLUDED.token_blob,
			scopes = EXCLUDED.scopes,
			expires_at = EXCLUDED.expires_at,
			updated_at = EXCLUDED.updated_at
	`

	now := time.Now()
	if cred.ID == "" {
		cred.ID = uuid.NewString()
	}
	if cred.CreatedAt.IsZero() {
		cred.CreatedAt = now
	}
	cred.UpdatedAt = now

	_, err = q.ExecContext(ctx, query,
		cred.ID,
		cred.PlatformID,
		cred.Principal.Type,
		cred.Principal.SubjectID,
		blob,
		pq.Array(cred.Scopes),
		NullTime(zeroTimePtr(cred.ExpiresAt)),
		cred.CreatedAt,
		cred.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert credential: %w", err)
	}

	return nil
}

// Get retrieves the credential with decrypted tokens.
func (s *RuntimeCredentialStore) Get(ctx context.Context, platformID string, principal domain.Principal) (*domain.PlatformCredential, error) {
	query := `
		SELECT id, token_blob, scopes, expires_at, created_at, updated_at
		FROM platform_credentials
		WHERE platform_id = $1 AND principal_type = $2 AND subject_id = $3
	`

	cred := &domain.PlatformCredential{
		PlatformID: platformID,
		Principal:  principal,
	}
	var blob []byte
	var scopes []string
	var expiresAt sql.NullTime

	err := s.db.QueryRowContext(ctx, query, platformID, principal.Type, principal.SubjectID).Scan(
		&cred.ID,
		&blob,
		pq.Array(&scopes),
		&expiresAt,
		&cred.CreatedAt,
		&cred.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get credential: %w", err)
	}

	var secrets tokenSecrets
	if err := decryptCredentialBlob(s.encryptor, blob, &secrets); err != nil {
		return nil, err
	}

	cred.AccessToken = secrets.AccessToken
	cred.RefreshToken = secrets.RefreshToken
	cred.Scopes = scopes
	if expiresAt.Valid {
		cred.ExpiresAt = expiresAt.Time
	}

	return cred, nil
}

// Delete removes the credential.
func (s *RuntimeCredentialStore) Delete(ctx context.Context, platformID string, principal domain.Principal) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM platform_credentials
		 WHERE platform_id = $1 AND principal_type = $2 AND subject_id = $3`,
		platformID, principal.Type, principal.SubjectID)
	if err != nil {
		return fmt.Errorf("delete credential: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// queryer abstracts *sql.DB and *sql.Tx for shared statements.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func zeroTimePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
