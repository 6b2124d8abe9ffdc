package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nexlink-labs/nexlink-core/internal/core/domain"
	"github.com/nexlink-labs/nexlink-core/internal/core/ports/driven"
)

// Ensure PlatformStore implements the interface.
var _ driven.PlatformStore = (*PlatformStore)(nil)

// PlatformStore implements driven.PlatformStore using PostgreSQL.
type PlatformStore struct {
	db *sql.DB
}

// NewPlatformStore creates a new PostgreSQL-backed platform store.
func NewPlatformStore(db *sql.DB) *PlatformStore {
	return &PlatformStore{db: db}
}

// GetOrCreate returns the platform row for (org, provider), creating it
// lazily on first use. The insert races safely: ON CONFLICT DO NOTHING
// followed by a read converges to a single row.
func (s *PlatformStore) GetOrCreate(ctx context.Context, orgID string, providerType domain.ProviderType) (*domain.Platform, error) {
	now := time.Now()

	query := `
		INSERT INTO platforms (id, organization_id, provider_type, connected, created_at, updated_at)
		VALUES ($1, $2, $3, FALSE, $4, $4)
		ON CONFLICT (organization_id, provider_type) DO NOTHING
	`

	_, err := s.db.ExecContext(ctx, query, uuid.NewString(), orgID, providerType, now)
	if err != nil {
		return nil, fmt.Errorf("create platform: %w", err)
	}

	return s.Get(ctx, orgID, providerType)
}

// Get returns the platform row for (org, provider).
func (s *PlatformStore) Get(ctx context.Context, orgID string, providerType domain.ProviderType) (*domain.Platform, error) {
	query := `
		SELECT id, organization_id, provider_type, connected, created_at, updated_at
		FROM platforms
		WHERE organization_id = $1 AND provider_type = $2
	`

	var p domain.Platform
	err := s.db.QueryRowContext(ctx, query, orgID, providerType).Scan(
		&p.ID,
		&p.OrganizationID,
		&p.ProviderType,
		&p.Connected,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get platform: %w", err)
	}

	return &p, nil
}

// SetConnected flips the connection-status flag.
func (s *PlatformStore) SetConnected(ctx context.Context, platformID string, connected bool) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE platforms SET connected = $2, updated_at = NOW() WHERE id = $1`,
		platformID, connected)
	if err != nil {
		return fmt.Errorf("set platform connected: %w", err)
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

// List returns all platforms for an organization.
func (s *PlatformStore) List(ctx context.Context, orgID string) ([]*domain.Platform, error) {
	query := `
		SELECT id, organization_id, provider_type, connected, created_at, updated_at
		FROM platforms
		WHERE organization_id = $1
		ORDER BY provider_type
	`

	rows, err := s.db.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("list platforms: %w", err)
	}
	defer rows.Close()

	var platforms []*domain.Platform
	for rows.Next() {
		var p domain.Platform
		if err := rows.Scan(
			&p.ID,
			&p.OrganizationID,
			&p.ProviderType,
			&p.Connected,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan platform: %w", err)
		}
		platforms = append(platforms, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate platforms: %w", err)
	}

	return platforms, nil
}
