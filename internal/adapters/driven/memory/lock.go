package memory

import (
	"context"
	"sync"
	"time"

	"github.com/nexlink-labs/nexlink-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.RefreshLock = (*Lock)(nil)

// Lock is an in-process refresh lock for single-instance deployments
// without Redis. TTLs guard against a holder that never releases.
type Lock struct {
	mu     sync.Mutex
	leases map[string]time.Time
}

// NewLock creates a new in-process refresh lock.
func NewLock() *Lock {
	return &Lock{leases: make(map[string]time.Time)}
}

// Acquire attempts to take the named lock.
func (l *Lock) Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if until, held := l.leases[name]; held && now.Before(until) {
		return false, nil
	}
	l.leases[name] = now.Add(ttl)
	return true, nil
}

// Release drops the lock.
func (l *Lock) Release(ctx context.Context, name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.leases, name)
	return nil
}
