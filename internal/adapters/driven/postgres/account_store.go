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

// Ensure AccountStore implements the interface.
var _ driven.AccountStore = (*AccountStore)(nil)

// AccountStore implements driven.AccountStore using PostgreSQL.
type AccountStore struct {
	db *DB
}

// NewAccountStore creates a new PostgreSQL-backed account store.
func NewAccountStore(db *DB) *AccountStore {
	return &AccountStore{db: db}
}

// UpsertManagedAccount stores or refreshes a managed-account snapshot.
func (s *AccountStore) UpsertManagedAccount(ctx context.Context, account *domain.ManagedAccount) error {
	query := `
		INSERT INTO managed_accounts (
			organization_id, provider_type, external_id,
			name, currency, timezone, address, logo_url,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (organization_id, external_id) DO UPDATE SET
			provider_type = EXCLUDED.provider_type,
			name = EXCLUDED.name,
			currency = EXCLUDED.currency,
			timezone = EXCLUDED.timezone,
			address = EXCLUDED.address,
			logo_url = EXCLUDED.logo_url,
			updated_at = EXCLUDED.updated_at
	`

	now := time.Now()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	account.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, query,
		account.OrganizationID,
		account.ProviderType,
		account.ExternalID,
		account.Name,
		account.Currency,
		account.Timezone,
		account.Address,
		account.LogoURL,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert managed account: %w", err)
	}

	return nil
}

// UpsertAdAccounts stores or refreshes child ad accounts.
func (s *AccountStore) UpsertAdAccounts(ctx context.Context, accounts []*domain.AdAccount) error {
	if len(accounts) == 0 {
		return nil
	}

	query := `
		INSERT INTO ad_accounts (
			organization_id, account_id, external_id,
			name, currency, status, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (organization_id, external_id) DO UPDATE SET
			account_id = EXCLUDED.account_id,
			name = EXCLUDED.name,
			currency = EXCLUDED.currency,
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at
	`

	return s.db.Transaction(ctx, func(tx *sql.Tx) error {
		now := time.Now()
		for _, a := range accounts {
			a.UpdatedAt = now
			if _, err := tx.ExecContext(ctx, query,
				a.OrganizationID,
				a.AccountID,
				a.ExternalID,
				a.Name,
				a.Currency,
				a.Status,
				a.UpdatedAt,
			); err != nil {
				return fmt.Errorf("upsert ad account %s: %w", a.ExternalID, err)
			}
		}
		return nil
	})
}

// UpsertCampaignGroups stores or refreshes child campaign groups.
func (s *AccountStore) UpsertCampaignGroups(ctx context.Context, groups []*domain.CampaignGroup) error {
	if len(groups) == 0 {
		return nil
	}

	query := `
		INSERT INTO campaign_groups (
			organization_id, account_id, external_id,
			name, status, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (organization_id, external_id) DO UPDATE SET
			account_id = EXCLUDED.account_id,
			name = EXCLUDED.name,
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at
	`

	return s.db.Transaction(ctx, func(tx *sql.Tx) error {
		now := time.Now()
		for _, g := range groups {
			g.UpdatedAt = now
			if _, err := tx.ExecContext(ctx, query,
				g.OrganizationID,
				g.AccountID,
				g.ExternalID,
				g.Name,
				g.Status,
				g.UpdatedAt,
			); err != nil {
				return fmt.Errorf("upsert campaign group %s: %w", g.ExternalID, err)
			}
		}
		return nil
	})
}

// GetManagedAccount retrieves a snapshot with its cached children.
func (s *AccountStore) GetManagedAccount(ctx context.Context, orgID, externalID string) (*domain.ManagedAccountInfo, error) {
	query := `
		SELECT organization_id, provider_type, external_id,
			   name, currency, timezone, address, logo_url,
			   created_at, updated_at
		FROM managed_accounts
		WHERE organization_id = $1 AND external_id = $2
	`

	var account domain.ManagedAccount
	err := s.db.QueryRowContext(ctx, query, orgID, externalID).Scan(
		&account.OrganizationID,
		&account.ProviderType,
		&account.ExternalID,
		&account.Name,
		&account.Currency,
		&account.Timezone,
		&account.Address,
		&account.LogoURL,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get managed account: %w", err)
	}

	adAccounts, err := s.listAdAccounts(ctx, orgID, externalID)
	if err != nil {
		return nil, err
	}

	groups, err := s.listCampaignGroups(ctx, orgID, externalID)
	if err != nil {
		return nil, err
	}

	return &domain.ManagedAccountInfo{
		Account:        &account,
		AdAccounts:     adAccounts,
		CampaignGroups: groups,
	}, nil
}

func (s *AccountStore) listAdAccounts(ctx context.Context, orgID, accountID string) ([]*domain.AdAccount, error) {
	query := `
		SELECT organization_id, account_id, external_id, name, currency, status, updated_at
		FROM ad_accounts
		WHERE organization_id = $1 AND account_id = $2
		ORDER BY external_id
	`

	rows, err := s.db.QueryContext(ctx, query, orgID, accountID)
	if err != nil {
		return nil, fmt.Errorf("list ad accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*domain.AdAccount
	for rows.Next() {
		var a domain.AdAccount
		if err := rows.Scan(
			&a.OrganizationID,
			&a.AccountID,
			&a.ExternalID,
			&a.Name,
			&a.Currency,
			&a.Status,
			&a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan ad account: %w", err)
		}
		accounts = append(accounts, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ad accounts: %w", err)
	}

	return accounts, nil
}

func (s *AccountStore) listCampaignGroups(ctx context.Context, orgID, accountID string) ([]*domain.CampaignGroup, error) {
	query := `
		SELECT organization_id, account_id, external_id, name, status, updated_at
		FROM campaign_groups
		WHERE organization_id = $1 AND account_id = $2
		ORDER BY external_id
	`

	rows, err := s.db.QueryContext(ctx, query, orgID, accountID)
	if err != nil {
		return nil, fmt.Errorf("list campaign groups: %w", err)
	}
	defer rows.Close()

	var groups []*domain.CampaignGroup
	for rows.Next() {
		var g domain.CampaignGroup
		if err := rows.Scan(
			&g.OrganizationID,
			&g.AccountID,
			&g.ExternalID,
			&g.Name,
			&g.Status,
			&g.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan campaign group: %w", err)
		}
		groups = append(groups, &g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate campaign groups: %w", err)
	}

	return groups, nil
}

// ListManagedAccounts retrieves all snapshots for an organization.
func (s *AccountStore) ListManagedAccounts(ctx context.Context, orgID string) ([]*domain.ManagedAccount, error) {
	query := `
		SELECT organization_id, provider_type, external_id,
			   name, currency, timezone, address, logo_url,
			   created_at, updated_at
		FROM managed_accounts
		WHERE organization_id = $1
		ORDER BY provider_type, external_id
	`

	rows, err := s.db.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("list managed accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*domain.ManagedAccount
	for rows.Next() {
		var a domain.ManagedAccount
		if err := rows.Scan(
			&a.OrganizationID,
			&a.ProviderType,
			&a.ExternalID,
			&a.Name,
			&a.Currency,
			&a.Timezone,
			&a.Address,
			&a.LogoURL,
			&a.CreatedAt,
			&a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan managed account: %w", err)
		}
		accounts = append(accounts, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate managed accounts: %w", err)
	}

	return accounts, nil
}

// Purge deletes the managed-account rows and the runtime credential in a
// single transaction. Children cascade off the managed_accounts row.
func (s *AccountStore) Purge(ctx context.Context, orgID, externalID, platformID string, principal domain.Principal) error {
	return s.db.Transaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM managed_accounts WHERE organization_id = $1 AND external_id = $2`,
			orgID, externalID); err != nil {
			return fmt.Errorf("delete managed account: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			`DELETE FROM platform_credentials
			 WHERE platform_id = $1 AND principal_type = $2 AND subject_id = $3`,
			platformID, principal.Type, principal.SubjectID); err != nil {
			return fmt.Errorf("delete credential: %w", err)
		}

		return nil
	})
}
