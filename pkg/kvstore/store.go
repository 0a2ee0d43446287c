package kvstore

import (
	"context"
	"time"
)

// Store is the key-value document store shared by every component. Order
// documents are JSON blobs addressed as "order:<orderId>"; GetByPrefix backs
// the full scans the read-side components run. The store is the only
// synchronization point between concurrent requests.
type Store interface {
	// Set writes the document at key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error
	// Get returns the document at key; found is false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	// GetByPrefix returns every document whose key starts with prefix.
	// Ordering is unspecified; callers sort.
	GetByPrefix(ctx context.Context, prefix string) ([][]byte, error)
	// SetNX writes only when the key is absent, with a TTL. Backs short
	// per-order leases.
	SetNX(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
	// Del removes the given keys.
	Del(ctx context.Context, keys ...string) error
}
