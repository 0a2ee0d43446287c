package kvstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeaseAcquireRelease(t *testing.T) {
	store := NewMemory()
	lease, err := NewLease(store, "paylock:ORD-1", time.Minute)
	require.NoError(t, err)

	ok, err := lease.Acquire(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)

	contender, err := NewLease(store, "paylock:ORD-1", time.Minute)
	require.NoError(t, err)
	ok, err = contender.Acquire(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, lease.Release(context.Background()))

	ok, err = contender.Acquire(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLeaseReleaseOnlyByOwner(t *testing.T) {
	store := NewMemory()

	first, err := NewLease(store, "paylock:ORD-1", time.Minute)
	require.NoError(t, err)
	ok, err := first.Acquire(context.Background())
	require.NoError(t, err)
	require.True(t, ok)

	// A lease that never acquired must not free someone else's claim.
	second, err := NewLease(store, "paylock:ORD-1", time.Minute)
	require.NoError(t, err)
	require.NoError(t, second.Release(context.Background()))

	_, found, err := store.Get(context.Background(), "paylock:ORD-1")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestNewLeaseValidation(t *testing.T) {
	_, err := NewLease(nil, "key", time.Minute)
	assert.Error(t, err)

	_, err = NewLease(NewMemory(), "", time.Minute)
	assert.Error(t, err)

	lease, err := NewLease(NewMemory(), "key", 0)
	require.NoError(t, err)
	assert.Equal(t, defaultLeaseTTL, lease.ttl)
}
