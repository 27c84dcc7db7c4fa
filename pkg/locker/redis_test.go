package locker

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSlotKey = "analyze:analysis:0f1e2d3c4b5a6978"

func newTestLocker(t *testing.T) (*RedisLocker, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisLocker(client, zap.NewNop()), client
}

func TestRedisLocker_Acquire(t *testing.T) {
	locker, _ := newTestLocker(t)

	acquired, err := locker.Acquire(context.Background(), testSlotKey, 5*time.Second)
	require.NoError(t, err)
	assert.True(t, acquired)
}

func TestRedisLocker_Acquire_AlreadyHeld(t *testing.T) {
	locker1, client := newTestLocker(t)
	locker2 := NewRedisLocker(client, zap.NewNop())

	ctx := context.Background()

	acquired1, err := locker1.Acquire(ctx, testSlotKey, 5*time.Second)
	require.NoError(t, err)
	require.True(t, acquired1)

	acquired2, err := locker2.Acquire(ctx, testSlotKey, 5*time.Second)
	require.NoError(t, err, "contention is not an error")
	assert.False(t, acquired2, "second instance must not get the slot")
}

func TestRedisLocker_ReleaseThenReacquire(t *testing.T) {
	locker, _ := newTestLocker(t)
	ctx := context.Background()

	acquired, err := locker.Acquire(ctx, testSlotKey, 5*time.Second)
	require.NoError(t, err)
	require.True(t, acquired)

	require.NoError(t, locker.Release(ctx, testSlotKey))

	acquired, err = locker.Acquire(ctx, testSlotKey, 5*time.Second)
	require.NoError(t, err)
	assert.True(t, acquired, "slot free again after release")
}

func TestRedisLocker_Release_NotOwned(t *testing.T) {
	locker1, client := newTestLocker(t)
	locker2 := NewRedisLocker(client, zap.NewNop())

	ctx := context.Background()

	acquired, err := locker1.Acquire(ctx, testSlotKey, 5*time.Second)
	require.NoError(t, err)
	require.True(t, acquired)

	// A non-owner release is a silent no-op and does not free the slot.
	require.NoError(t, locker2.Release(ctx, testSlotKey))
	require.NoError(t, locker1.Release(ctx, testSlotKey))
}

func TestRedisLocker_ConcurrentAcquisition(t *testing.T) {
	_, client := newTestLocker(t)

	const instances = 5
	results := make(chan bool, instances)
	ctx := context.Background()

	for i := 0; i < instances; i++ {
		go func() {
			locker := NewRedisLocker(client, zap.NewNop())
			acquired, _ := locker.Acquire(ctx, testSlotKey, 2*time.Second)
			results <- acquired
		}()
	}

	winners := 0
	for i := 0; i < instances; i++ {
		if <-results {
			winners++
		}
	}

	assert.Equal(t, 1, winners, "exactly one instance gets the analysis slot")
}

func TestRedisLocker_ContextCancellation(t *testing.T) {
	locker, _ := newTestLocker(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	acquired, err := locker.Acquire(ctx, testSlotKey, 5*time.Second)
	assert.Error(t, err)
	assert.False(t, acquired)
}
