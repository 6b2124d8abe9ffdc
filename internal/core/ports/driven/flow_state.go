package driven

import (
	"context"

	"github.com/nexlink-labs/nexlink-core/internal/core/domain"
)

// FlowStateStore manages transient per-session authorization-flow state:
// the single-use CSRF state token and any staged candidate selection.
// A session is assumed single-actor; no cross-request lock is taken.
type FlowStateStore interface {
	// Begin stores a new flow state for the session, replacing any previous
	// one. The state value must already be set by the caller.
	Begin(ctx context.Context, sessionID string, state *domain.FlowState) error

	// Consume atomically validates and erases the session's flow state.
	// Returns domain.ErrInvalidState when no flow was begun, the presented
	// state differs from the issued one, or the state expired. Fails closed -
	// this must run before any token exchange is attempted.
	Consume(ctx context.Context, sessionID, presentedState string) (*domain.FlowState, error)

	// StageSelection stores provisional candidates pending a user choice
	StageSelection(ctx context.Context, sessionID string, sel *domain.StagedSelection) error

	// TakeSelection returns the chosen candidate together with the staged
	// tokens and removes the staged list. Single-use on success: a second
	// call for the same session returns domain.ErrNotFound. An unknown
	// chosenID also returns domain.ErrNotFound but leaves the staged list
	// in place so the choice can be retried until it expires.
	TakeSelection(ctx context.Context, sessionID, chosenID string) (*domain.SelectionCandidate, *domain.StagedSelection, error)

	// Clear removes all flow state for the session
	Clear(ctx context.Context, sessionID string) error

	// Cleanup removes expired states. Backends with native TTL may no-op.
	Cleanup(ctx context.Context) error
}
