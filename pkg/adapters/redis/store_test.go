package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/pathsampling/pkg/adapters/redis"
	"github.com/aretw0/pathsampling/pkg/domain"
	"github.com/aretw0/pathsampling/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newClient(t)
	store := redis.NewFromClient(client)
	ports.RunStepStoreContract(t, store)
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := newClient(t)

	store := redis.NewFromClient(client, redis.WithTTL(1*time.Second))
	ctx := context.Background()
	runID := "run-ttl"

	err := store.Append(ctx, runID, domain.StepRecord{Step: 0, Mover: "mixed"})
	require.NoError(t, err)

	runs, err := store.Runs(ctx)
	require.NoError(t, err)
	assert.Contains(t, runs, runID)

	// Expire the key inside miniredis.
	mr.FastForward(2 * time.Second)

	_, err = store.Steps(ctx, runID)
	assert.ErrorIs(t, err, domain.ErrRunNotFound)

	// The index is pruned by wall clock, so wait past the score.
	time.Sleep(1200 * time.Millisecond)

	runs, err = store.Runs(ctx)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := newClient(t)

	store := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()

	err := store.Append(ctx, "my-run", domain.StepRecord{Step: 3})
	require.NoError(t, err)

	assert.True(t, mr.Exists("custom:app:my-run"), "Expected key with custom prefix to exist")
	assert.True(t, mr.Exists("custom:app:index"), "Expected index with custom prefix to exist")

	list, err := store.Runs(ctx)
	require.NoError(t, err)
	assert.Contains(t, list, "my-run")
}

func TestRedisLocker_LockUnlock(t *testing.T) {
	mr, client := newClient(t)
	locker := redis.NewLocker(client, "test:")
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "run-1", 5*time.Second)
	require.NoError(t, err)
	assert.True(t, mr.Exists("test:lock:run-1"), "Lock key should be set in Redis")

	require.NoError(t, unlock(ctx))
	assert.False(t, mr.Exists("test:lock:run-1"), "Lock key should be removed after unlock")
}

func TestRedisLocker_Contention(t *testing.T) {
	_, client := newClient(t)
	first := redis.NewLocker(client, "test:")
	second := redis.NewLocker(client, "test:")

	unlock, err := first.Lock(context.Background(), "shared", 5*time.Second)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	_, err = second.Lock(ctx, "shared", 5*time.Second)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, unlock(context.Background()))

	unlock2, err := second.Lock(context.Background(), "shared", 5*time.Second)
	require.NoError(t, err)
	require.NoError(t, unlock2(context.Background()))
}
