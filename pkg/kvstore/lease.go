package kvstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const defaultLeaseTTL = 10 * time.Second

// Lease is a short-lived exclusive claim on a single key, backed by SetNX.
// The payment orchestrator takes one per order to serialize concurrent
// verification callbacks on the same document.
type Lease struct {
	store Store
	key   string
	ttl   time.Duration
	owner string
}

// NewLease constructs a lease on the given key.
func NewLease(store Store, key string, ttl time.Duration) (*Lease, error) {
	if store == nil {
		return nil, errors.New("store required for lease")
	}
	if key == "" {
		return nil, errors.New("lease key is required")
	}
	if ttl <= 0 {
		ttl = defaultLeaseTTL
	}
	return &Lease{store: store, key: key, ttl: ttl}, nil
}

// Acquire tries to own the lease for the configured TTL.
func (l *Lease) Acquire(ctx context.Context) (bool, error) {
	owner := uuid.NewString()
	ok, err := l.store.SetNX(ctx, l.key, owner, l.ttl)
	if err != nil {
		return false, fmt.Errorf("setnx: %w", err)
	}
	if ok {
		l.owner = owner
	}
	return ok, nil
}

// Release frees the lease only if the owner value still matches.
func (l *Lease) Release(ctx context.Context) error {
	if l.owner == "" {
		return nil
	}
	value, found, err := l.store.Get(ctx, l.key)
	if err != nil {
		return fmt.Errorf("read lease owner: %w", err)
	}
	if !found || string(value) != l.owner {
		return nil
	}
	if err := l.store.Del(ctx, l.key); err != nil {
		return fmt.Errorf("delete lease: %w", err)
	}
	l.owner = ""
	return nil
}
