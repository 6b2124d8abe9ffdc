package redis

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/nexlink-labs/nexlink-core/internal/adapters/driven/postgres"
	"github.com/nexlink-labs/nexlink-core/internal/core/domain"
	"github.com/redis/go-redis/v9"
)

// setupTestFlowStore creates a test Redis client and FlowStateStore
func setupTestFlowStore(t *testing.T) (*FlowStateStore, *miniredis.Miniredis, func()) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	encryptor, err := postgres.NewSecretEncryptor([]byte("01234567890123456789012345678901"))
	if err != nil {
		t.Fatalf("NewSecretEncryptor: %v", err)
	}

	store := NewFlowStateStore(client, encryptor)

	return store, mr, func() {
		client.Close()
		mr.Close()
	}
}

func testFlowState(state string) *domain.FlowState {
	return &domain.FlowState{
		State:        state,
		ProviderType: domain.ProviderTypeGoogleAds,
		Principal:    domain.OrgPrincipal(),
		RedirectURI:  "https://app.example.com/callback",
	}
}

func TestFlowStateStore_BeginAndConsume(t *testing.T) {
	store, _, cleanup := setupTestFlowStore(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.Begin(ctx, "sess-1", testFlowState("state-abc")); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	got, err := store.Consume(ctx, "sess-1", "state-abc")
	if err != nil {
		t.Fatalf("Consume: %v", err)
	}
	if got.ProviderType != domain.ProviderTypeGoogleAds {
		t.Errorf("provider type: got %s", got.ProviderType)
	}
	if got.RedirectURI != "https://app.example.com/callback" {
		t.Errorf("redirect uri: got %s", got.RedirectURI)
	}
}

func TestFlowStateStore_ConsumeIsSingleUse(t *testing.T) {
	store, _, cleanup := setupTestFlowStore(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.Begin(ctx, "sess-1", testFlowState("state-abc")); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	if _, err := store.Consume(ctx, "sess-1", "state-abc"); err != nil {
		t.Fatalf("first Consume: %v", err)
	}

	_, err := store.Consume(ctx, "sess-1", "state-abc")
	if !errors.Is(err, domain.ErrInvalidState) {
		t.Errorf("second Consume = %v, want ErrInvalidState", err)
	}
}

func TestFlowStateStore_ConsumeMismatchBurnsState(t *testing.T) {
	store, _, cleanup := setupTestFlowStore(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.Begin(ctx, "sess-1", testFlowState("state-abc")); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	// Wrong state value fails closed.
	_, err := store.Consume(ctx, "sess-1", "forged-state")
	if !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("mismatched Consume = %v, want ErrInvalidState", err)
	}

	// And the flow is gone: the correct value no longer works either.
	_, err = store.Consume(ctx, "sess-1", "state-abc")
	if !errors.Is(err, domain.ErrInvalidState) {
		t.Errorf("retry after mismatch = %v, want ErrInvalidState", err)
	}
}

func TestFlowStateStore_ConsumeWrongSession(t *testing.T) {
	store, _, cleanup := setupTestFlowStore(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.Begin(ctx, "sess-1", testFlowState("state-abc")); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	_, err := store.Consume(ctx, "sess-2", "state-abc")
	if !errors.Is(err, domain.ErrInvalidState) {
		t.Errorf("cross-session Consume = %v, want ErrInvalidState", err)
	}
}

func TestFlowStateStore_ConsumeExpired(t *testing.T) {
	store, mr, cleanup := setupTestFlowStore(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.Begin(ctx, "sess-1", testFlowState("state-abc")); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	// miniredis TTLs advance with FastForward, not wall time.
	mr.FastForward(DefaultFlowStateTTL + time.Second)

	_, err := store.Consume(ctx, "sess-1", "state-abc")
	if !errors.Is(err, domain.ErrInvalidState) {
		t.Errorf("expired Consume = %v, want ErrInvalidState", err)
	}
}

func TestFlowStateStore_BeginReplacesPrevious(t *testing.T) {
	store, _, cleanup := setupTestFlowStore(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.Begin(ctx, "sess-1", testFlowState("state-old")); err != nil {
		t.Fatalf("Begin old: %v", err)
	}
	if err := store.Begin(ctx, "sess-1", testFlowState("state-new")); err != nil {
		t.Fatalf("Begin new: %v", err)
	}

	// The earlier state is superseded.
	_, err := store.Consume(ctx, "sess-1", "state-old")
	if !errors.Is(err, domain.ErrInvalidState) {
		t.Errorf("superseded Consume = %v, want ErrInvalidState", err)
	}
}

func stagedSelection() *domain.StagedSelection {
	return &domain.StagedSelection{
		ProviderType: domain.ProviderTypeLinkedInPage,
		Principal:    domain.OrgPrincipal(),
		Candidates: []domain.SelectionCandidate{
			{ID: "123", Name: "Acme Corp"},
			{ID: "456", Name: "Acme Labs", LogoURN: "urn:li:digitalmediaAsset:xyz"},
		},
		Tokens: &domain.TokenSet{
			AccessToken:  "acc-token",
			RefreshToken: "ref-token",
			ExpiresAt:    time.Now().Add(time.Hour).Truncate(time.Second),
		},
	}
}

func TestFlowStateStore_StageAndTakeSelection(t *testing.T) {
	store, _, cleanup := setupTestFlowStore(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.StageSelection(ctx, "sess-1", stagedSelection()); err != nil {
		t.Fatalf("StageSelection: %v", err)
	}

	chosen, sel, err := store.TakeSelection(ctx, "sess-1", "456")
	if err != nil {
		t.Fatalf("TakeSelection: %v", err)
	}
	if chosen.Name != "Acme Labs" {
		t.Errorf("chosen name: got %s", chosen.Name)
	}
	if sel.Tokens == nil || sel.Tokens.AccessToken != "acc-token" {
		t.Error("staged tokens not returned")
	}
	if sel.Tokens.RefreshToken != "ref-token" {
		t.Error("staged refresh token not returned")
	}
}

func TestFlowStateStore_TakeSelectionSingleUse(t *testing.T) {
	store, _, cleanup := setupTestFlowStore(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.StageSelection(ctx, "sess-1", stagedSelection()); err != nil {
		t.Fatalf("StageSelection: %v", err)
	}

	if _, _, err := store.TakeSelection(ctx, "sess-1", "123"); err != nil {
		t.Fatalf("first TakeSelection: %v", err)
	}

	_, _, err := store.TakeSelection(ctx, "sess-1", "123")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("second TakeSelection = %v, want ErrNotFound", err)
	}
}

func TestFlowStateStore_TakeSelectionUnknownID(t *testing.T) {
	store, _, cleanup := setupTestFlowStore(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.StageSelection(ctx, "sess-1", stagedSelection()); err != nil {
		t.Fatalf("StageSelection: %v", err)
	}

	_, _, err := store.TakeSelection(ctx, "sess-1", "999")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("unknown id TakeSelection = %v, want ErrNotFound", err)
	}

	// The staged list survives a bad choice so the user can try again.
	chosen, _, err := store.TakeSelection(ctx, "sess-1", "123")
	if err != nil {
		t.Fatalf("retry TakeSelection: %v", err)
	}
	if chosen.Name != "Acme Corp" {
		t.Errorf("chosen name: got %s", chosen.Name)
	}
}

func TestFlowStateStore_StagedPayloadEncryptedAtRest(t *testing.T) {
	store, mr, cleanup := setupTestFlowStore(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.StageSelection(ctx, "sess-1", stagedSelection()); err != nil {
		t.Fatalf("StageSelection: %v", err)
	}

	raw, err := mr.Get(selectionPrefix + "sess-1")
	if err != nil {
		t.Fatalf("read raw key: %v", err)
	}
	if strings.Contains(raw, "acc-token") || strings.Contains(raw, "ref-token") {
		t.Error("staged tokens stored in the clear")
	}
}

func TestFlowStateStore_Clear(t *testing.T) {
	store, _, cleanup := setupTestFlowStore(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.Begin(ctx, "sess-1", testFlowState("state-abc")); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := store.StageSelection(ctx, "sess-1", stagedSelection()); err != nil {
		t.Fatalf("StageSelection: %v", err)
	}

	if err := store.Clear(ctx, "sess-1"); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	if _, err := store.Consume(ctx, "sess-1", "state-abc"); !errors.Is(err, domain.ErrInvalidState) {
		t.Errorf("Consume after Clear = %v, want ErrInvalidState", err)
	}
	if _, _, err := store.TakeSelection(ctx, "sess-1", "123"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("TakeSelection after Clear = %v, want ErrNotFound", err)
	}
}
