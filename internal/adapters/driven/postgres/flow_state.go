package postgres

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/nexlink-labs/nexlink-core/internal/core/domain"
	"github.com/nexlink-labs/nexlink-core/internal/core/ports/driven"
)

// Ensure FlowStateStore implements the interface.
var _ driven.FlowStateStore = (*FlowStateStore)(nil)

// DefaultFlowStateTTL is the default time-to-live for authorization flows.
const DefaultFlowStateTTL = 10 * time.Minute

// FlowStateStore implements driven.FlowStateStore using PostgreSQL.
// Staged selections carry token material, so their payload is stored
// through the same encryptor as persistent credentials.
type FlowStateStore struct {
	db        *sql.DB
	encryptor *SecretEncryptor
	ttl       time.Duration
}

// NewFlowStateStore creates a new PostgreSQL-backed flow state store.
func NewFlowStateStore(db *sql.DB, encryptor *SecretEncryptor) *FlowStateStore {
	return &FlowStateStore{
		db:        db,
		encryptor: encryptor,
		ttl:       DefaultFlowStateTTL,
	}
}

// NewFlowStateStoreWithTTL creates a flow state store with a custom TTL.
func NewFlowStateStoreWithTTL(db *sql.DB, encryptor *SecretEncryptor, ttl time.Duration) *FlowStateStore {
	return &FlowStateStore{
		db:        db,
		encryptor: encryptor,
		ttl:       ttl,
	}
}

// Begin stores a new flow state for the session, replacing any previous one.
func (s *FlowStateStore) Begin(ctx context.Context, sessionID string, state *domain.FlowState) error {
	now := time.Now()
	if state.CreatedAt.IsZero() {
		state.CreatedAt = now
	}
	if state.ExpiresAt.IsZero() {
		state.ExpiresAt = now.Add(s.ttl)
	}

	query := `
		INSERT INTO oauth_flow_states (
			session_id, state, provider_type, principal_type, subject_id,
			redirect_uri, created_at, expires_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (session_id) DO UPDATE SET
			state = EXCLUDED.state,
			provider_type = EXCLUDED.provider_type,
			principal_type = EXCLUDED.principal_type,
			subject_id = EXCLUDED.subject_id,
			redirect_uri = EXCLUDED.redirect_uri,
			created_at = EXCLUDED.created_at,
			expires_at = EXCLUDED.expires_at
	`

	_, err := s.db.ExecContext(ctx, query,
		sessionID,
		state.State,
		state.ProviderType,
		state.Principal.Type,
		state.Principal.SubjectID,
		state.RedirectURI,
		state.CreatedAt,
		state.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("save flow state: %w", err)
	}

	return nil
}

// Consume atomically validates and erases the session's flow state.
// DELETE ... RETURNING unconditionally removes the row, so a mismatched or
// expired state still burns the pending flow.
func (s *FlowStateStore) Consume(ctx context.Context, sessionID, presentedState string) (*domain.FlowState, error) {
	query := `
		DELETE FROM oauth_flow_states
		WHERE session_id = $1
		RETURNING state, provider_type, principal_type, subject_id,
				  redirect_uri, created_at, expires_at
	`

	var fs domain.FlowState
	err := s.db.QueryRowContext(ctx, query, sessionID).Scan(
		&fs.State,
		&fs.ProviderType,
		&fs.Principal.Type,
		&fs.Principal.SubjectID,
		&fs.RedirectURI,
		&fs.CreatedAt,
		&fs.ExpiresAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrInvalidState
	}
	if err != nil {
		return nil, fmt.Errorf("consume flow state: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(fs.State), []byte(presentedState)) != 1 {
		return nil, domain.ErrInvalidState
	}
	if time.Now().After(fs.ExpiresAt) {
		return nil, domain.ErrInvalidState
	}

	return &fs, nil
}

// StageSelection stores provisional candidates pending a user choice.
func (s *FlowStateStore) StageSelection(ctx context.Context, sessionID string, sel *domain.StagedSelection) error {
	now := time.Now()
	if sel.CreatedAt.IsZero() {
		sel.CreatedAt = now
	}
	if sel.ExpiresAt.IsZero() {
		sel.ExpiresAt = now.Add(s.ttl)
	}

	blob, err := s.encryptor.Encrypt(sel)
	if err != nil {
		return fmt.Errorf("encrypt staged selection: %w", err)
	}

	query := `
		INSERT INTO oauth_staged_selections (session_id, payload_blob, created_at, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (session_id) DO UPDATE SET
			payload_blob = EXCLUDED.payload_blob,
			created_at = EXCLUDED.created_at,
			expires_at = EXCLUDED.expires_at
	`

	_, err = s.db.ExecContext(ctx, query, sessionID, blob, sel.CreatedAt, sel.ExpiresAt)
	if err != nil {
		return fmt.Errorf("save staged selection: %w", err)
	}

	return nil
}

// TakeSelection returns the chosen candidate together with the staged
// tokens and removes the staged list. The list is only removed on a match:
// a mistyped choice may be retried until the selection expires.
func (s *FlowStateStore) TakeSelection(ctx context.Context, sessionID, chosenID string) (*domain.SelectionCandidate, *domain.StagedSelection, error) {
	query := `
		SELECT payload_blob
		FROM oauth_staged_selections
		WHERE session_id = $1 AND expires_at > NOW()
	`

	var blob []byte
	err := s.db.QueryRowContext(ctx, query, sessionID).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("take staged selection: %w", err)
	}

	var sel domain.StagedSelection
	if err := s.encryptor.Decrypt(blob, &sel); err != nil {
		return nil, nil, fmt.Errorf("decrypt staged selection: %w", err)
	}

	var chosen *domain.SelectionCandidate
	for i := range sel.Candidates {
		if sel.Candidates[i].ID == chosenID {
			chosen = &sel.Candidates[i]
			break
		}
	}
	if chosen == nil {
		return nil, nil, domain.ErrNotFound
	}

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM oauth_staged_selections WHERE session_id = $1`, sessionID)
	if err != nil {
		return nil, nil, fmt.Errorf("take staged selection: %w", err)
	}
	// A concurrent take already claimed the selection.
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, nil, domain.ErrNotFound
	}

	return chosen, &sel, nil
}

// Clear removes all flow state for the session.
func (s *FlowStateStore) Clear(ctx context.Context, sessionID string) error {
	err := s.transaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM oauth_flow_states WHERE session_id = $1`, sessionID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`DELETE FROM oauth_staged_selections WHERE session_id = $1`, sessionID)
		return err
	})
	if err != nil {
		return fmt.Errorf("clear flow state: %w", err)
	}
	return nil
}

// Cleanup removes expired states and staged selections.
func (s *FlowStateStore) Cleanup(ctx context.Context) error {
	err := s.transaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM oauth_flow_states WHERE expires_at < NOW()`); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`DELETE FROM oauth_staged_selections WHERE expires_at < NOW()`)
		return err
	})
	if err != nil {
		return fmt.Errorf("cleanup flow state: %w", err)
	}
	return nil
}

func (s *FlowStateStore) transaction(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}
