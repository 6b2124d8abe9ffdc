package driven

import (
	"context"
	"time"
)

// RefreshLock serializes token refresh for a single credential across
// instances. Providers that rotate refresh tokens invalidate the old one on
// use, so two concurrent refreshes can strand the stored grant. Acquire is
// best-effort: a caller that loses the race re-reads the credential instead
// of refreshing.
type RefreshLock interface {
	// Acquire attempts to take the named lock. Returns false without error
	// when another holder has it.
	Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error)

	// Release drops the lock if held by this instance. Safe to call when
	// the lock expired or was never held.
	Release(ctx context.Context, name string) error
}
