package memory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qrpass/internal/domain"
	"qrpass/internal/memory"
)

func TestReplayStore_ClaimSeenRelease(t *testing.T) {
	ctx := context.Background()
	store := memory.NewReplayStore()

	seen, err := store.Seen(ctx, "hash-1")
	require.NoError(t, err)
	assert.False(t, seen)

	require.NoError(t, store.Claim(ctx, "hash-1", time.Now()))

	seen, err = store.Seen(ctx, "hash-1")
	require.NoError(t, err)
	assert.True(t, seen)

	err = store.Claim(ctx, "hash-1", time.Now())
	assert.ErrorIs(t, err, domain.ErrReplayDetected)

	require.NoError(t, store.Release(ctx, "hash-1"))
	require.NoError(t, store.Claim(ctx, "hash-1", time.Now()))
}

func TestReplayStore_PurgeOlderThan(t *testing.T) {
	ctx := context.Background()
	store := memory.NewReplayStore()
	now := time.Now()

	require.NoError(t, store.Claim(ctx, "old-1", now.Add(-2*time.Hour)))
	require.NoError(t, store.Claim(ctx, "old-2", now.Add(-90*time.Minute)))
	require.NoError(t, store.Claim(ctx, "fresh", now))

	purged, err := store.PurgeOlderThan(ctx, now.Add(-time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 2, purged)
	assert.Equal(t, 1, store.Len())

	seen, err := store.Seen(ctx, "fresh")
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestReplayStore_ConcurrentClaimSingleWinner(t *testing.T) {
	ctx := context.Background()
	store := memory.NewReplayStore()

	const claimers = 32
	var wg sync.WaitGroup
	errs := make([]error, claimers)

	for i := 0; i < claimers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = store.Claim(ctx, "contested", time.Now())
		}(i)
	}
	wg.Wait()

	var wins int
	for _, err := range errs {
		if err == nil {
			wins++
		} else {
			assert.True(t, errors.Is(err, domain.ErrReplayDetected))
		}
	}
	assert.Equal(t, 1, wins)
}
