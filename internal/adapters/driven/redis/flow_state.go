package redis

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nexlink-labs/nexlink-core/internal/core/domain"
	"github.com/nexlink-labs/nexlink-core/internal/core/ports/driven"
	"github.com/redis/go-redis/v9"
)

// Verify interface compliance
var _ driven.FlowStateStore = (*FlowStateStore)(nil)

const (
	// Key prefixes for Redis
	flowStatePrefix = "oauth:flow:"
	selectionPrefix = "oauth:selection:"
)

// DefaultFlowStateTTL is the default time-to-live for authorization flows.
const DefaultFlowStateTTL = 10 * time.Minute

// SecretEncryptor seals the staged-selection payload before it reaches
// Redis. Staged selections carry provider tokens, so they get the same
// at-rest encryption as the credential tables.
type SecretEncryptor interface {
	Encrypt(v any) ([]byte, error)
	Decrypt(blob []byte, v any) error
}

// FlowStateStore implements driven.FlowStateStore using Redis.
// Expiry is delegated to Redis TTLs; the single-use CSRF read is GETDEL.
type FlowStateStore struct {
	client    *redis.Client
	encryptor SecretEncryptor
	ttl       time.Duration
}

// NewFlowStateStore creates a new Redis-backed FlowStateStore
func NewFlowStateStore(client *redis.Client, encryptor SecretEncryptor) *FlowStateStore {
	return &FlowStateStore{client: client, encryptor: encryptor, ttl: DefaultFlowStateTTL}
}

// NewFlowStateStoreWithTTL creates a flow state store with a custom TTL
func NewFlowStateStoreWithTTL(client *redis.Client, encryptor SecretEncryptor, ttl time.Duration) *FlowStateStore {
	return &FlowStateStore{client: client, encryptor: encryptor, ttl: ttl}
}

// Begin stores a new flow state for the session, replacing any previous one
func (s *FlowStateStore) Begin(ctx context.Context, sessionID string, state *domain.FlowState) error {
	now := time.Now()
	if state.CreatedAt.IsZero() {
		state.CreatedAt = now
	}
	if state.ExpiresAt.IsZero() {
		state.ExpiresAt = now.Add(s.ttl)
	}

	ttl := time.Until(state.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("flow state already expired")
	}

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal flow state: %w", err)
	}

	if err := s.client.Set(ctx, flowStatePrefix+sessionID, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save flow state: %w", err)
	}

	return nil
}

// Consume atomically validates and erases the session's flow state.
// GETDEL removes the key whatever the outcome, so a mismatched state
// still burns the pending flow.
func (s *FlowStateStore) Consume(ctx context.Context, sessionID, presentedState string) (*domain.FlowState, error) {
	data, err := s.client.GetDel(ctx, flowStatePrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrInvalidState
	}
	if err != nil {
		return nil, fmt.Errorf("failed to consume flow state: %w", err)
	}

	var state domain.FlowState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal flow state: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(state.State), []byte(presentedState)) != 1 {
		return nil, domain.ErrInvalidState
	}
	if time.Now().After(state.ExpiresAt) {
		return nil, domain.ErrInvalidState
	}

	return &state, nil
}

// StageSelection stores provisional candidates pending a user choice
func (s *FlowStateStore) StageSelection(ctx context.Context, sessionID string, sel *domain.StagedSelection) error {
	now := time.Now()
	if sel.CreatedAt.IsZero() {
		sel.CreatedAt = now
	}
	if sel.ExpiresAt.IsZero() {
		sel.ExpiresAt = now.Add(s.ttl)
	}

	ttl := time.Until(sel.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("staged selection already expired")
	}

	blob, err := s.encryptor.Encrypt(sel)
	if err != nil {
		return fmt.Errorf("failed to encrypt staged selection: %w", err)
	}

	if err := s.client.Set(ctx, selectionPrefix+sessionID, blob, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save staged selection: %w", err)
	}

	return nil
}

// TakeSelection returns the chosen candidate together with the staged
// tokens and removes the staged list. The list is only removed on a match:
// a mistyped choice may be retried until the selection expires.
func (s *FlowStateStore) TakeSelection(ctx context.Context, sessionID, chosenID string) (*domain.SelectionCandidate, *domain.StagedSelection, error) {
	key := selectionPrefix + sessionID

	blob, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to take staged selection: %w", err)
	}

	var sel domain.StagedSelection
	if err := s.encryptor.Decrypt(blob, &sel); err != nil {
		return nil, nil, fmt.Errorf("failed to decrypt staged selection: %w", err)
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

	deleted, err := s.client.Del(ctx, key).Result()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to take staged selection: %w", err)
	}
	// A concurrent take already claimed the selection.
	if deleted == 0 {
		return nil, nil, domain.ErrNotFound
	}

	return chosen, &sel, nil
}

// Clear removes all flow state for the session
func (s *FlowStateStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, flowStatePrefix+sessionID, selectionPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("failed to clear flow state: %w", err)
	}
	return nil
}

// Cleanup is a no-op: Redis TTLs expire keys natively
func (s *FlowStateStore) Cleanup(ctx context.Context) error {
	return nil
}
